package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasecheck/verifier/internal/domain"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(nil, WithClock(func() time.Time { return fixedNow }))
}

func idDoc(name, dob, expiry string) *domain.ExtractedDocument {
	doc := domain.NewDocument(domain.IdentityFields{FullName: name, DateOfBirth: dob, ExpiryDate: expiry})
	doc.Confidence = 95
	return &doc
}

func johnSmith() *domain.ApplicationForm {
	return &domain.ApplicationForm{
		FirstName:    "John",
		LastName:     "Smith",
		DateOfBirth:  "1990-05-01",
		ZipCode:      "NW1 6XE",
		AddressLine1: "221B Baker Street",
	}
}

func TestValidateIdentity(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name        string
		doc         *domain.ExtractedDocument
		wantPassed  bool
		wantDetails string
	}{
		{
			name:        "valid unexpired matching id",
			doc:         idDoc("John A. Smith", "1990-05-01", "2030-01-01"),
			wantPassed:  true,
			wantDetails: "ID is valid, unexpired, and matches application details.",
		},
		{
			name:        "expired id",
			doc:         idDoc("John A. Smith", "1990-05-01", "2020-01-01"),
			wantDetails: "ID Document is expired (Expiry: 2020-01-01).",
		},
		{
			name:        "expires today is still valid",
			doc:         idDoc("John Smith", "1990-05-01", "2025-06-15"),
			wantPassed:  true,
			wantDetails: "ID is valid, unexpired, and matches application details.",
		},
		{
			name:        "expired yesterday",
			doc:         idDoc("John Smith", "1990-05-01", "2025-06-14"),
			wantDetails: "ID Document is expired (Expiry: 2025-06-14).",
		},
		{
			name:        "missing expiry is only a note",
			doc:         idDoc("John Smith", "1990-05-01", ""),
			wantPassed:  true,
			wantDetails: "ID is valid, unexpired, and matches application details.",
		},
		{
			name:        "unparsable expiry is only a note",
			doc:         idDoc("John Smith", "1990-05-01", "sometime"),
			wantPassed:  true,
			wantDetails: "ID is valid, unexpired, and matches application details.",
		},
		{
			name:        "notes are kept when another check fails",
			doc:         idDoc("Jane Doe", "1990-05-01", ""),
			wantDetails: `Expiry date not detected. Name mismatch (ID: "Jane Doe" vs Form: "John Smith").`,
		},
		{
			name:        "dob format difference is a mismatch",
			doc:         idDoc("John Smith", "1990-5-1", "2030-01-01"),
			wantDetails: "DOB mismatch (ID: 1990-5-1 vs Form: 1990-05-01).",
		},
		{
			name: "every failure is reported",
			doc:  idDoc("Jane Doe", "1985-01-01", "sometime"),
			wantDetails: `Invalid expiry date format (sometime). ` +
				`Name mismatch (ID: "Jane Doe" vs Form: "John Smith"). ` +
				`DOB mismatch (ID: 1985-01-01 vs Form: 1990-05-01).`,
		},
		{
			name:        "rfc3339 expiry",
			doc:         idDoc("John Smith", "1990-05-01", "2024-12-31T23:59:59Z"),
			wantDetails: "ID Document is expired (Expiry: 2024-12-31T23:59:59Z).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateIdentity(tt.doc, johnSmith())
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassed, res.Passed)
			assert.Equal(t, tt.wantDetails, res.Details)
		})
	}
}

func TestExpiredIDAlwaysFails(t *testing.T) {
	v := newTestValidator()
	for _, doc := range []*domain.ExtractedDocument{
		idDoc("John Smith", "1990-05-01", "2001-01-01"),
		idDoc("John A. Smith", "1990-05-01", "2025-06-14"),
		idDoc("Smith John", "1990-05-01", "1999-12-31"),
	} {
		res, err := v.ValidateIdentity(doc, johnSmith())
		require.NoError(t, err)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "expired")
	}
}

func TestExpiryUsesCalendarDateOfClock(t *testing.T) {
	// Just after midnight local time, still the 15th where the clock runs.
	loc := time.FixedZone("UTC+5", 5*60*60)
	v := NewValidator(nil, WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 0, 30, 0, 0, loc)
	}))

	res, err := v.ValidateIdentity(idDoc("John Smith", "1990-05-01", "2025-06-15"), johnSmith())
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestValidateAddress(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		address string
		form    *domain.ApplicationForm
		want    bool
	}{
		{name: "full match", address: "221B Baker Street, London NW1 6XE", form: johnSmith(), want: true},
		{name: "punctuation and case ignored", address: "221b baker st. london nw16xe", form: johnSmith(), want: true},
		{name: "zip missing", address: "221B Baker Street, London", form: johnSmith(), want: false},
		{name: "street token missing", address: "10 Downing Street, London NW1 6XE", form: johnSmith(), want: false},
		{name: "empty address", address: "", form: johnSmith(), want: false},
		{
			name:    "empty zip only checks the street token",
			address: "221B Baker Street, London",
			form:    &domain.ApplicationForm{AddressLine1: "221B Baker Street"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.NewDocument(domain.AddressProofFields{Address: tt.address})
			res, err := v.ValidateAddress(&doc, tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Passed)
			if tt.want {
				assert.Equal(t, "Address document matches application details.", res.Details)
			} else {
				assert.Equal(t, `Address mismatch. Document address "`+tt.address+`" does not sufficiently match form details.`, res.Details)
			}
		})
	}
}

func TestContractErrors(t *testing.T) {
	v := newTestValidator()
	addr := domain.NewDocument(domain.AddressProofFields{Address: "x"})

	_, err := v.ValidateIdentity(nil, johnSmith())
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
	_, err = v.ValidateIdentity(idDoc("a", "b", "c"), nil)
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
	_, err = v.ValidateIdentity(&addr, johnSmith())
	assert.ErrorIs(t, err, domain.ErrWrongDocumentKind)

	_, err = v.ValidateAddress(nil, johnSmith())
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
	_, err = v.ValidateAddress(idDoc("a", "b", "c"), johnSmith())
	assert.ErrorIs(t, err, domain.ErrWrongDocumentKind)

	_, err = v.VerifyApplication(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrMissingArgument)
}

func TestValidatorsAreIdempotent(t *testing.T) {
	v := newTestValidator()
	doc := idDoc("Jane Doe", "1985-01-01", "2020-01-01")
	addr := domain.NewDocument(domain.AddressProofFields{Address: "1 Elm Road"})

	first, err := v.ValidateIdentity(doc, johnSmith())
	require.NoError(t, err)
	second, err := v.ValidateIdentity(doc, johnSmith())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a1, err := v.ValidateAddress(&addr, johnSmith())
	require.NoError(t, err)
	a2, err := v.ValidateAddress(&addr, johnSmith())
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
}

func TestWithNilLoggerKeepsDefault(t *testing.T) {
	v := NewValidator(nil, WithLogger(nil))
	require.NotNil(t, v.log)
	assert.NotPanics(t, func() {
		_, _ = v.ValidateIdentity(idDoc("John Smith", "1990-05-01", "2030-01-01"), johnSmith())
	})
}
