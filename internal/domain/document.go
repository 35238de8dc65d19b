package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind is the canonical category of an extracted document.
type DocumentKind string

const (
	KindIdentityDocument DocumentKind = "IDENTITY_DOCUMENT"
	KindPaystub          DocumentKind = "PAYSTUB"
	KindBankStatement    DocumentKind = "BANK_STATEMENT"
	KindAddressProof     DocumentKind = "ADDRESS_PROOF"
)

// kindAliases maps the analyzer's native document types onto the four kinds
// the engine understands.
var kindAliases = map[string]DocumentKind{
	"IDENTITY_DOCUMENT": KindIdentityDocument,
	"ID_CARD":           KindIdentityDocument,
	"PASSPORT":          KindIdentityDocument,
	"DRIVING_LICENSE":   KindIdentityDocument,
	"PAYSTUB":           KindPaystub,
	"PAYSLIP":           KindPaystub,
	"BANK_STATEMENT":    KindBankStatement,
	"ADDRESS_PROOF":     KindAddressProof,
	"PROOF_OF_ADDRESS":  KindAddressProof,
	"UTILITY_BILL":      KindAddressProof,
}

// ParseDocumentKind resolves a document type label, case-insensitively.
func ParseDocumentKind(s string) (DocumentKind, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentKind, s)
}

// DocumentFields is the per-kind payload of an ExtractedDocument. It is
// implemented only by the four field structs in this package.
type DocumentFields interface {
	Kind() DocumentKind
	isDocumentFields()
}

type IdentityFields struct {
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	IDNumber    string `json:"idNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
}

type PaystubFields struct {
	EmployeeName string    `json:"employeeName,omitempty"`
	EmployerName string    `json:"employerName,omitempty"`
	NetIncome    RawAmount `json:"netIncome"`
	PayDate      string    `json:"payDate"`
	PayPeriod    string    `json:"payPeriod,omitempty"`
}

type BankStatementFields struct {
	AccountHolderName string            `json:"accountHolderName,omitempty"`
	StatementDate     string            `json:"statementDate,omitempty"`
	Transactions      []BankTransaction `json:"transactions"`
}

type AddressProofFields struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Date    string `json:"date,omitempty"`
}

func (IdentityFields) Kind() DocumentKind      { return KindIdentityDocument }
func (PaystubFields) Kind() DocumentKind       { return KindPaystub }
func (BankStatementFields) Kind() DocumentKind { return KindBankStatement }
func (AddressProofFields) Kind() DocumentKind  { return KindAddressProof }

func (IdentityFields) isDocumentFields()      {}
func (PaystubFields) isDocumentFields()       {}
func (BankStatementFields) isDocumentFields() {}
func (AddressProofFields) isDocumentFields()  {}

// ExtractedDocument is the structured output of the Document Analyzer for a
// single uploaded document. Confidence and IsSuspicious are informational;
// the validators never read them.
type ExtractedDocument struct {
	Kind         DocumentKind
	Confidence   float64
	Summary      string
	IsSuspicious bool
	Fields       DocumentFields
}

// NewDocument wraps a field payload, deriving Kind from it.
func NewDocument(fields DocumentFields) ExtractedDocument {
	return ExtractedDocument{Kind: fields.Kind(), Fields: fields}
}

// Identity returns the identity fields when the document holds them.
func (d *ExtractedDocument) Identity() (IdentityFields, bool) {
	switch f := d.Fields.(type) {
	case IdentityFields:
		return f, true
	case *IdentityFields:
		if f != nil {
			return *f, true
		}
	}
	return IdentityFields{}, false
}

func (d *ExtractedDocument) Paystub() (PaystubFields, bool) {
	switch f := d.Fields.(type) {
	case PaystubFields:
		return f, true
	case *PaystubFields:
		if f != nil {
			return *f, true
		}
	}
	return PaystubFields{}, false
}

func (d *ExtractedDocument) BankStatement() (BankStatementFields, bool) {
	switch f := d.Fields.(type) {
	case BankStatementFields:
		return f, true
	case *BankStatementFields:
		if f != nil {
			return *f, true
		}
	}
	return BankStatementFields{}, false
}

func (d *ExtractedDocument) AddressProof() (AddressProofFields, bool) {
	switch f := d.Fields.(type) {
	case AddressProofFields:
		return f, true
	case *AddressProofFields:
		if f != nil {
			return *f, true
		}
	}
	return AddressProofFields{}, false
}

// documentEnvelope is the analyzer's wire shape.
type documentEnvelope struct {
	DocumentType string          `json:"documentType"`
	Confidence   float64         `json:"confidence"`
	Summary      string          `json:"summary,omitempty"`
	IsSuspicious bool            `json:"isSuspicious"`
	Fields       json.RawMessage `json:"fields"`
}

func (d ExtractedDocument) MarshalJSON() ([]byte, error) {
	env := documentEnvelope{
		DocumentType: string(d.Kind),
		Confidence:   d.Confidence,
		Summary:      d.Summary,
		IsSuspicious: d.IsSuspicious,
		Fields:       json.RawMessage("null"),
	}
	if d.Fields != nil {
		raw, err := json.Marshal(d.Fields)
		if err != nil {
			return nil, fmt.Errorf("marshal %s fields: %w", d.Kind, err)
		}
		env.Fields = raw
	}
	return json.Marshal(env)
}

func (d *ExtractedDocument) UnmarshalJSON(data []byte) error {
	var env documentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode document envelope: %w", err)
	}

	kind, err := ParseDocumentKind(env.DocumentType)
	if err != nil {
		return err
	}

	var fields DocumentFields
	switch kind {
	case KindIdentityDocument:
		var f IdentityFields
		err = decodeFields(env.Fields, &f)
		fields = f
	case KindPaystub:
		var f PaystubFields
		err = decodeFields(env.Fields, &f)
		fields = f
	case KindBankStatement:
		var f BankStatementFields
		err = decodeFields(env.Fields, &f)
		fields = f
	case KindAddressProof:
		var f AddressProofFields
		err = decodeFields(env.Fields, &f)
		fields = f
	}
	if err != nil {
		return fmt.Errorf("decode %s fields: %w", kind, err)
	}

	*d = ExtractedDocument{
		Kind:         kind,
		Confidence:   env.Confidence,
		Summary:      env.Summary,
		IsSuspicious: env.IsSuspicious,
		Fields:       fields,
	}
	return nil
}

func decodeFields(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// RawAmount is a monetary value exactly as the analyzer produced it. It may
// have arrived as a JSON number or a string, or be missing entirely.
type RawAmount string

func (a RawAmount) String() string { return string(a) }

// Decimal parses the amount. Grouping commas and surrounding whitespace are
// ignored; anything else non-numeric is an error.
func (a RawAmount) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(string(a), ",", ""))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrUnparsableAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, string(a))
	}
	return d, nil
}

func (a *RawAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*a = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*a = RawAmount(str)
	default:
		*a = RawAmount(s)
	}
	return nil
}

func (a RawAmount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}
	if d, err := a.Decimal(); err == nil && d.String() == string(a) {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}
