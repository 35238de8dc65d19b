package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leasecheck/verifier/internal/domain"
)

// ParseStatementCSV parses a comma-separated bank statement export.
//
// Expected header (any order, case-insensitive; description and type optional):
//
//	date,description,amount,type
//
// A negative amount with a blank type is read as a DEBIT of its magnitude.
func ParseStatementCSV(data []byte) ([]domain.BankTransaction, int, error) {
	return parseStatement(data, ',')
}

type statementColumns struct {
	date, description, amount, txType int
}

func resolveColumns(header []string) (statementColumns, error) {
	cols := statementColumns{date: -1, description: -1, amount: -1, txType: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "date", "transaction_date", "posted_date":
			cols.date = i
		case "description", "details", "memo":
			cols.description = i
		case "amount":
			cols.amount = i
		case "type", "direction":
			cols.txType = i
		}
	}
	if cols.date < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("header must contain date and amount columns, got %v", header)
	}
	return cols, nil
}

func column(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseStatement returns the parsed transactions and how many rows were
// skipped for being too short.
func parseStatement(data []byte, comma rune) ([]domain.BankTransaction, int, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = comma
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var txns []domain.BankTransaction
	skipped := 0
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(row) <= cols.date || len(row) <= cols.amount {
			skipped++
			continue
		}

		dateStr := column(row, cols.date)
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d date: %w", lineNum, err)
		}

		amountStr := strings.NewReplacer(",", "", "$", "").Replace(column(row, cols.amount))
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d amount: %w", lineNum, domain.ErrUnparsableAmount)
		}

		txType := domain.ParseTransactionType(column(row, cols.txType))
		if amount.IsNegative() {
			if txType == "" {
				txType = domain.TransactionDebit
			}
			amount = amount.Abs()
		}

		value, _ := amount.Float64()
		txns = append(txns, domain.BankTransaction{
			Date:        date.Format(domain.DateLayout),
			Description: column(row, cols.description),
			Amount:      value,
			Type:        txType,
		})
	}

	return txns, skipped, nil
}
