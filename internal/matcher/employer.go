package matcher

import (
	"strings"

	"github.com/leasecheck/verifier/internal/textnorm"
)

// MinEmployerTokenLen drops short connector words ("of", "&", "co") from the
// employer name before searching.
const MinEmployerTokenLen = 3

// IsEmployerInDescription reports whether any significant word of the
// employer name appears inside a bank transaction description.
func IsEmployerInDescription(employer, description string) bool {
	if employer == "" || description == "" {
		return false
	}

	desc := strings.ToLower(description)
	for _, tok := range textnorm.AlnumTokens(employer) {
		if len(tok) < MinEmployerTokenLen {
			continue
		}
		if strings.Contains(desc, tok) {
			return true
		}
	}
	return false
}
