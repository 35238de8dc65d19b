// Package matcher holds the fuzzy comparisons shared by the validators.
package matcher

import "github.com/leasecheck/verifier/internal/textnorm"

// IsNameMatch compares two person names by token overlap. When both names
// have several tokens, at least two must agree (first + last); when either is
// a single token, that one token is enough. Middle names, ordering and
// punctuation are ignored.
func IsNameMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	ta := textnorm.Tokens(a)
	tb := textnorm.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	inB := make(map[string]struct{}, len(tb))
	for _, tok := range tb {
		inB[tok] = struct{}{}
	}

	overlap := 0
	for _, tok := range ta {
		if _, ok := inB[tok]; ok {
			overlap++
		}
	}

	required := 2
	if len(ta) == 1 || len(tb) == 1 {
		required = 1
	}
	return overlap >= required
}
