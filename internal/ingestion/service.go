// Package ingestion turns upstream payloads (analyzer results, bank statement
// exports) into domain documents.
package ingestion

import (
	"crypto/sha256"
	"fmt"

	"go.uber.org/zap"

	"github.com/leasecheck/verifier/internal/domain"
)

// IngestResult is returned from a successful statement import.
type IngestResult struct {
	Statement       *domain.ExtractedDocument `json:"statement"`
	Digest          string                    `json:"digest"`
	RecordsIngested int                       `json:"records_ingested"`
	RowsSkipped     int                       `json:"rows_skipped"`
}

// Service handles statement exports from the supported formats.
type Service struct {
	log *zap.SugaredLogger
}

// NewService creates a new ingestion service. A nil logger discards output.
func NewService(log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{log: log}
}

// IngestStatement parses a bank statement export into a BANK_STATEMENT
// document owned by holder. Exports are machine generated, so the document
// carries full confidence.
//
// format must be one of: csv, psv
func (s *Service) IngestStatement(data []byte, format Format, holder string) (*IngestResult, error) {
	var (
		txns    []domain.BankTransaction
		skipped int
		err     error
	)
	switch format {
	case FormatCSV:
		txns, skipped, err = ParseStatementCSV(data)
	case FormatPSV:
		txns, skipped, err = ParseStatementPSV(data)
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	fields := domain.BankStatementFields{
		AccountHolderName: holder,
		Transactions:      txns,
	}
	// Dates are normalized to ISO form, so they order as strings.
	for _, tx := range txns {
		if tx.Date > fields.StatementDate {
			fields.StatementDate = tx.Date
		}
	}

	doc := domain.NewDocument(fields)
	doc.Confidence = 100
	doc.Summary = fmt.Sprintf("Imported %d transactions from %s export.", len(txns), format)

	digest := fmt.Sprintf("%x", sha256.Sum256(data))
	s.log.Infow("Ingested bank statement",
		"format", format,
		"records", len(txns),
		"skipped", skipped,
		"digest", digest[:12],
	)

	return &IngestResult{
		Statement:       &doc,
		Digest:          digest,
		RecordsIngested: len(txns),
		RowsSkipped:     skipped,
	}, nil
}
