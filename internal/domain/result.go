package domain

import "time"

// ValidationResult is the verdict of one validator. Details is the full audit
// trail, not just the first failure.
type ValidationResult struct {
	Passed   bool     `json:"passed"`
	Details  string   `json:"details"`
	Warnings []string `json:"warnings,omitempty"`
}

// FindingKind classifies why a single check did not pass.
type FindingKind string

const (
	FindingDataQuality         FindingKind = "DATA_QUALITY"
	FindingToleranceMismatch   FindingKind = "TOLERANCE_MISMATCH"
	FindingConsistencyMismatch FindingKind = "CONSISTENCY_MISMATCH"
)

// Status is the overall verdict of a report.
type Status string

const (
	StatusVerified    Status = "VERIFIED"
	StatusNeedsReview Status = "NEEDS_REVIEW"
	StatusFailed      Status = "FAILED"
)

// Action is the recommendation that accompanies a Status.
type Action string

const (
	ActionApprove      Action = "APPROVE"
	ActionManualReview Action = "MANUAL_REVIEW"
	ActionReject       Action = "REJECT"
)

// Report aggregates every check run for one application. A nil section means
// the corresponding documents were not submitted.
type Report struct {
	ID                string            `json:"id"`
	Identity          *ValidationResult `json:"identity,omitempty"`
	Income            *ValidationResult `json:"income,omitempty"`
	Address           *ValidationResult `json:"address,omitempty"`
	Biometric         *ValidationResult `json:"biometric,omitempty"`
	Status            Status            `json:"status"`
	RecommendedAction Action            `json:"recommendedAction"`
	Warnings          []string          `json:"warnings,omitempty"`
	EvaluatedAt       time.Time         `json:"evaluatedAt"`
}
