// Command verify checks one applicant bundle file and prints the report.
//
//	verify [flags] bundle.(json|yaml)
//
// Exit status is 0 for VERIFIED, 2 for NEEDS_REVIEW, 3 for FAILED and 1 on
// any error.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/leasecheck/verifier/internal/config"
	"github.com/leasecheck/verifier/internal/domain"
	"github.com/leasecheck/verifier/internal/ingestion"
	"github.com/leasecheck/verifier/internal/logger"
	"github.com/leasecheck/verifier/internal/reconciliation"
	"github.com/leasecheck/verifier/internal/verification"
)

type options struct {
	output          string
	statement       string
	statementFormat string
	holder          string
	asOf            string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.output, "output", "o", "json", "report format: json or yaml")
	fs.StringVar(&opts.statement, "statement", "", "bank statement export (csv or psv) to use instead of the bundle's")
	fs.StringVar(&opts.statementFormat, "statement-format", "", "statement format; defaults to the file extension")
	fs.StringVar(&opts.holder, "holder", "", "account holder name for an imported statement")
	fs.StringVar(&opts.asOf, "as-of", "", "evaluate ID expiry as of this date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: verify [flags] bundle.(json|yaml)")
		fs.PrintDefaults()
		return 1
	}

	report, err := verifyFile(fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(stderr, "verify: %v\n", err)
		return 1
	}
	if err := writeReport(stdout, report, opts.output); err != nil {
		fmt.Fprintf(stderr, "verify: %v\n", err)
		return 1
	}

	switch report.Status {
	case domain.StatusVerified:
		return 0
	case domain.StatusNeedsReview:
		return 2
	default:
		return 3
	}
}

func verifyFile(path string, opts options) (*domain.Report, error) {
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	format, err := ingestion.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	bundle, err := ingestion.DecodeBundle(data, format)
	if err != nil {
		return nil, err
	}

	if opts.statement != "" {
		stmt, err := importStatement(opts, log)
		if err != nil {
			return nil, err
		}
		bundle.BankStatement = stmt
	}

	verifierOpts := []verification.Option{
		verification.WithLogger(logger.Named("verification")),
		verification.WithConfidenceThreshold(cfg.Review.ConfidenceThreshold),
	}
	if opts.asOf != "" {
		asOf, err := domain.ParseDate(opts.asOf)
		if err != nil {
			return nil, fmt.Errorf("--as-of: %w", err)
		}
		verifierOpts = append(verifierOpts, verification.WithClock(func() time.Time { return asOf }))
	}

	reconSvc := reconciliation.NewService(cfg.Reconciliation.Tolerances(), logger.Named("reconciliation"))
	verifier := verification.NewValidator(reconSvc, verifierOpts...)
	return verifier.VerifyApplication(context.Background(), bundle)
}

func importStatement(opts options, log *zap.SugaredLogger) (*domain.ExtractedDocument, error) {
	var (
		format ingestion.Format
		err    error
	)
	if opts.statementFormat != "" {
		format, err = ingestion.ParseFormat(opts.statementFormat)
	} else {
		format, err = ingestion.FormatFromPath(opts.statement)
	}
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(opts.statement)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	res, err := ingestion.NewService(logger.Named("ingestion")).IngestStatement(data, format, opts.holder)
	if err != nil {
		return nil, err
	}
	log.Infow("Using imported statement", "path", opts.statement, "transactions", res.RecordsIngested)
	return res.Statement, nil
}

func writeReport(w io.Writer, report *domain.Report, output string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	switch output {
	case "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml", "yml":
		// Round-trip through JSON so YAML keys match the JSON field names.
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
