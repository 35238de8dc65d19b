package domain

import "errors"

// Contract violations. Applicant data problems are never reported through
// these; they end up in ValidationResult.Details.
var (
	ErrMissingArgument     = errors.New("missing required argument")
	ErrWrongDocumentKind   = errors.New("wrong document kind")
	ErrUnknownDocumentKind = errors.New("unknown document kind")
)

// Data quality problems, returned by parsers and folded into results by callers.
var (
	ErrUnparsableAmount = errors.New("unparsable amount")
	ErrUnparsableDate   = errors.New("unparsable date")
)
