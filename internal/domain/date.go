package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate reads an ISO calendar date, falling back to a full RFC 3339
// timestamp. Date-only values are interpreted as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrUnparsableDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, s)
		}
	}
	return t, nil
}

// DaysBetween returns (to - from) in fractional days.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
