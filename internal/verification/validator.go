// Package verification checks an applicant's identity and address documents
// against the application form and combines every check into a single report.
package verification

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leasecheck/verifier/internal/domain"
	"github.com/leasecheck/verifier/internal/matcher"
	"github.com/leasecheck/verifier/internal/reconciliation"
	"github.com/leasecheck/verifier/internal/textnorm"
)

const (
	identitySuccess = "ID is valid, unexpired, and matches application details."
	addressSuccess  = "Address document matches application details."

	DefaultConfidenceThreshold = 70.0
)

// Validator runs the identity, income and address checks and assembles the
// per-application report.
type Validator struct {
	income              *reconciliation.Service
	now                 func() time.Time
	log                 *zap.SugaredLogger
	confidenceThreshold float64
	metrics             *checkMetrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now as the reference for ID expiry.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// WithConfidenceThreshold sets the analyzer confidence (0-100) below which a
// document is flagged for manual review.
func WithConfidenceThreshold(threshold float64) Option {
	return func(v *Validator) { v.confidenceThreshold = threshold }
}

// NewValidator builds a validator. income may be nil, in which case a
// reconciliation service with default tolerances is used.
func NewValidator(income *reconciliation.Service, opts ...Option) *Validator {
	v := &Validator{
		income:              income,
		now:                 time.Now,
		log:                 zap.NewNop().Sugar(),
		confidenceThreshold: DefaultConfidenceThreshold,
		metrics:             newCheckMetrics(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.income == nil {
		v.income = reconciliation.NewService(reconciliation.DefaultTolerances(), v.log)
	}
	return v
}

// ValidateIdentity checks an identity document for expiry and compares its
// name and date of birth with the form. A missing or unreadable expiry date
// is noted but does not fail the check.
func (v *Validator) ValidateIdentity(doc *domain.ExtractedDocument, form *domain.ApplicationForm) (domain.ValidationResult, error) {
	if doc == nil || form == nil {
		return domain.ValidationResult{}, fmt.Errorf("validate identity: document and form: %w", domain.ErrMissingArgument)
	}
	id, ok := doc.Identity()
	if !ok {
		return domain.ValidationResult{}, fmt.Errorf("validate identity: got %s, want %s: %w",
			doc.Kind, domain.KindIdentityDocument, domain.ErrWrongDocumentKind)
	}

	var details strings.Builder
	passed := true

	if id.ExpiryDate != "" {
		expiry, err := domain.ParseDate(id.ExpiryDate)
		switch {
		case err != nil:
			fmt.Fprintf(&details, "Invalid expiry date format (%s). ", id.ExpiryDate)
		case calendarDay(expiry).Before(calendarDay(v.now())):
			passed = false
			fmt.Fprintf(&details, "ID Document is expired (Expiry: %s). ", id.ExpiryDate)
		}
	} else {
		details.WriteString("Expiry date not detected. ")
	}

	formName := form.FullName()
	if !matcher.IsNameMatch(id.FullName, formName) {
		passed = false
		fmt.Fprintf(&details, "Name mismatch (ID: \"%s\" vs Form: \"%s\"). ", id.FullName, formName)
	}

	if id.DateOfBirth != form.DateOfBirth {
		passed = false
		fmt.Fprintf(&details, "DOB mismatch (ID: %s vs Form: %s). ", id.DateOfBirth, form.DateOfBirth)
	}

	res := domain.ValidationResult{Passed: true, Details: identitySuccess}
	if !passed {
		res = domain.ValidationResult{Passed: false, Details: strings.TrimSpace(details.String())}
	}
	v.metrics.observe("identity", res)
	v.log.Debugw("Identity validated", "passed", res.Passed)
	return res, nil
}

// ValidateAddress requires the document address to contain both the form's
// zip code and the leading word of its first address line.
func (v *Validator) ValidateAddress(doc *domain.ExtractedDocument, form *domain.ApplicationForm) (domain.ValidationResult, error) {
	if doc == nil || form == nil {
		return domain.ValidationResult{}, fmt.Errorf("validate address: document and form: %w", domain.ErrMissingArgument)
	}
	proof, ok := doc.AddressProof()
	if !ok {
		return domain.ValidationResult{}, fmt.Errorf("validate address: got %s, want %s: %w",
			doc.Kind, domain.KindAddressProof, domain.ErrWrongDocumentKind)
	}

	addr := textnorm.Compact(proof.Address)
	zip := textnorm.Compact(form.ZipCode)
	street := textnorm.FirstWord(form.AddressLine1)

	var res domain.ValidationResult
	if strings.Contains(addr, zip) && strings.Contains(addr, street) {
		res = domain.ValidationResult{Passed: true, Details: addressSuccess}
	} else {
		res = domain.ValidationResult{
			Passed:  false,
			Details: fmt.Sprintf("Address mismatch. Document address \"%s\" does not sufficiently match form details.", proof.Address),
		}
	}
	v.metrics.observe("address", res)
	v.log.Debugw("Address validated", "passed", res.Passed)
	return res, nil
}

// ValidateIncome delegates to the reconciliation service.
func (v *Validator) ValidateIncome(paystubs []domain.ExtractedDocument, statement *domain.ExtractedDocument) (domain.ValidationResult, error) {
	res, err := v.income.ValidateIncome(paystubs, statement)
	if err != nil {
		return res, err
	}
	v.metrics.observe("income", res)
	return res, nil
}

// calendarDay drops the time of day, keeping t's own calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
