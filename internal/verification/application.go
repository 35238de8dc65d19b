package verification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/leasecheck/verifier/internal/domain"
)

// VerifyApplication runs every check the bundle has documents for and folds
// the results into a report. Checks whose documents are missing are left nil
// in the report.
func (v *Validator) VerifyApplication(ctx context.Context, bundle *domain.ApplicationBundle) (*domain.Report, error) {
	if bundle == nil {
		return nil, fmt.Errorf("verify application: bundle: %w", domain.ErrMissingArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verify application: %w", err)
	}

	report := &domain.Report{
		ID:          uuid.NewString(),
		EvaluatedAt: v.now().UTC(),
	}
	form := &bundle.Form

	if bundle.Identity != nil {
		res, err := v.ValidateIdentity(bundle.Identity, form)
		if err != nil {
			return nil, fmt.Errorf("verify application: %w", err)
		}
		report.Identity = &res
		report.Warnings = append(report.Warnings, v.reviewWarnings("Identity document", bundle.Identity)...)
	}

	switch {
	case bundle.BankStatement != nil:
		res, err := v.ValidateIncome(bundle.Paystubs, bundle.BankStatement)
		if err != nil {
			return nil, fmt.Errorf("verify application: %w", err)
		}
		report.Income = &res
		report.Warnings = append(report.Warnings, res.Warnings...)
		for i := range bundle.Paystubs {
			label := fmt.Sprintf("Paystub #%d", i+1)
			report.Warnings = append(report.Warnings, v.reviewWarnings(label, &bundle.Paystubs[i])...)
		}
		report.Warnings = append(report.Warnings, v.reviewWarnings("Bank statement", bundle.BankStatement)...)
	case len(bundle.Paystubs) > 0:
		report.Warnings = append(report.Warnings, "Paystubs submitted without a bank statement; income not verified.")
	}

	if bundle.AddressProof != nil {
		res, err := v.ValidateAddress(bundle.AddressProof, form)
		if err != nil {
			return nil, fmt.Errorf("verify application: %w", err)
		}
		report.Address = &res
		report.Warnings = append(report.Warnings, v.reviewWarnings("Address document", bundle.AddressProof)...)
	}

	if bundle.Biometric != nil {
		res := biometricResult(bundle.Biometric)
		v.metrics.observe("biometric", res)
		report.Biometric = &res
	}

	report.Status, report.RecommendedAction = decide(report)

	v.metrics.observeReport(report.Status)
	v.log.Infow("Application verified",
		"report_id", report.ID,
		"status", report.Status,
		"action", report.RecommendedAction,
		"warnings", len(report.Warnings),
	)
	return report, nil
}

// reviewWarnings flags documents the analyzer itself was unsure about.
func (v *Validator) reviewWarnings(label string, doc *domain.ExtractedDocument) []string {
	var out []string
	if doc.IsSuspicious {
		out = append(out, fmt.Sprintf("%s was flagged as suspicious by the document analyzer.", label))
	}
	if doc.Confidence < v.confidenceThreshold {
		out = append(out, fmt.Sprintf("%s: low extraction confidence (%.1f%%). Manual review recommended.", label, doc.Confidence))
	}
	return out
}

func biometricResult(b *domain.BiometricResult) domain.ValidationResult {
	verdict := "Face does not match ID photo"
	if b.IsMatch {
		verdict = "Face matches ID photo"
	}
	details := fmt.Sprintf("%s (score %.0f/100).", verdict, b.MatchScore)
	if b.Reasoning != "" {
		details += " " + b.Reasoning
	}
	return domain.ValidationResult{Passed: b.IsMatch, Details: details}
}

func decide(r *domain.Report) (domain.Status, domain.Action) {
	for _, res := range []*domain.ValidationResult{r.Identity, r.Income, r.Address, r.Biometric} {
		if res != nil && !res.Passed {
			return domain.StatusFailed, domain.ActionReject
		}
	}
	if len(r.Warnings) > 0 {
		return domain.StatusNeedsReview, domain.ActionManualReview
	}
	return domain.StatusVerified, domain.ActionApprove
}
