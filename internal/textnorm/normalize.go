// Package textnorm canonicalizes free text before it is compared. Every
// function is total: empty input produces empty output, never an error.
package textnorm

import "strings"

// Tokens lower-cases s, drops everything outside [a-z ] and splits on
// whitespace. Used for person names. It returns nil when nothing survives.
func Tokens(s string) []string {
	return fields(keep(s, isLetter, true))
}

// AlnumTokens is Tokens with digits retained.
func AlnumTokens(s string) []string {
	return fields(keep(s, isAlnum, true))
}

func fields(s string) []string {
	out := strings.Fields(s)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Compact lower-cases s and keeps only [a-z0-9], with no separators, so the
// result can be used for substring containment.
func Compact(s string) string {
	return keep(s, isAlnum, false)
}

// FirstWord returns the compacted first whitespace-delimited word of s.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return Compact(fields[0])
}

func keep(s string, allowed func(rune) bool, spaces bool) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case allowed(r):
			b.WriteRune(r)
		case spaces && isSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' }

func isAlnum(r rune) bool { return isLetter(r) || (r >= '0' && r <= '9') }

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
