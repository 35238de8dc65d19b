package domain

import "strings"

// TransactionType is the direction of a ledger line.
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

// BankTransaction is one ledger line of a bank statement. Amount is an unsigned
// magnitude; direction is carried by Type, which some producers leave empty.
type BankTransaction struct {
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      float64         `json:"amount" yaml:"amount"`
	Type        TransactionType `json:"type,omitempty" yaml:"type,omitempty"`
}

// ParseTransactionType maps a free-form type column onto the enum. Unknown or
// blank values are reported as absent.
func ParseTransactionType(s string) TransactionType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREDIT", "CR", "C":
		return TransactionCredit
	case "DEBIT", "DR", "D":
		return TransactionDebit
	default:
		return ""
	}
}

// IsCredit reports whether the transaction is money coming in. When the
// producer did not set a type, a positive amount is taken as a credit.
func (t BankTransaction) IsCredit() bool {
	switch t.Type {
	case TransactionCredit:
		return true
	case "":
		return t.Amount > 0
	default:
		return false
	}
}
