package ingestion

import "github.com/leasecheck/verifier/internal/domain"

// ParseStatementPSV parses the pipe-delimited export some banks produce.
// Columns follow the same rules as ParseStatementCSV:
//
//	DATE|DESCRIPTION|AMOUNT|TYPE
func ParseStatementPSV(data []byte) ([]domain.BankTransaction, int, error) {
	return parseStatement(data, '|')
}
