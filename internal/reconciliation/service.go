package reconciliation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leasecheck/verifier/internal/domain"
	"github.com/leasecheck/verifier/internal/matcher"
)

// Tolerances bounds what counts as a deposit corroborating a paystub.
type Tolerances struct {
	// Amount is exclusive: |deposit - net income| must be strictly below it.
	Amount float64
	// DaysBefore and DaysAfter are inclusive bounds on (deposit date - pay date).
	DaysBefore int
	DaysAfter  int
	// Workers bounds how many paystubs are evaluated concurrently.
	Workers int
}

// DefaultTolerances returns the production window: strictly under 1.5 in
// amount, 3 days before to 7 days after the pay date, four workers.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Amount:     1.5,
		DaysBefore: 3,
		DaysAfter:  7,
		Workers:    4,
	}
}

// PaystubOutcome is the reconciliation verdict for one submitted paystub.
type PaystubOutcome struct {
	Index     int                     `json:"index"`
	PayDate   string                  `json:"payDate"`
	NetIncome string                  `json:"netIncome,omitempty"`
	Employer  string                  `json:"employer,omitempty"`
	Matched   bool                    `json:"matched"`
	Finding   domain.FindingKind      `json:"finding,omitempty"`
	Line      string                  `json:"line"`
	Deposit   *domain.BankTransaction `json:"deposit,omitempty"`
}

// Reconciliation is the full per-paystub picture for one income check.
type Reconciliation struct {
	Outcomes []PaystubOutcome `json:"outcomes"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Service matches income documents against a bank statement ledger.
type Service struct {
	tol     Tolerances
	log     *zap.SugaredLogger
	metrics *reconciliationMetrics
}

// NewService creates a reconciliation service. Zero-valued tolerance fields
// fall back to the defaults.
func NewService(tol Tolerances, log *zap.SugaredLogger) *Service {
	def := DefaultTolerances()
	if tol.Amount <= 0 {
		tol.Amount = def.Amount
	}
	if tol.Workers <= 0 {
		tol.Workers = def.Workers
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		tol:     tol,
		log:     log,
		metrics: newReconciliationMetrics(),
	}
}

// Tolerances returns the effective tolerances, defaults applied.
func (s *Service) Tolerances() Tolerances { return s.tol }

// ValidateIncome requires every paystub to be corroborated by a credit on the
// statement. All paystubs are evaluated; the details list each outcome in
// submission order.
func (s *Service) ValidateIncome(paystubs []domain.ExtractedDocument, statement *domain.ExtractedDocument) (domain.ValidationResult, error) {
	rec, err := s.Reconcile(paystubs, statement)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return rec.Result(), nil
}

// Reconcile returns the per-paystub outcomes without collapsing them into a
// single verdict.
func (s *Service) Reconcile(paystubs []domain.ExtractedDocument, statement *domain.ExtractedDocument) (*Reconciliation, error) {
	if statement == nil {
		return nil, fmt.Errorf("validate income: bank statement: %w", domain.ErrMissingArgument)
	}
	bank, ok := statement.BankStatement()
	if !ok {
		return nil, fmt.Errorf("validate income: got %s, want %s: %w",
			statement.Kind, domain.KindBankStatement, domain.ErrWrongDocumentKind)
	}

	stubs := make([]domain.PaystubFields, len(paystubs))
	for i := range paystubs {
		f, ok := paystubs[i].Paystub()
		if !ok {
			return nil, fmt.Errorf("validate income: document #%d is %s, want %s: %w",
				i+1, paystubs[i].Kind, domain.KindPaystub, domain.ErrWrongDocumentKind)
		}
		stubs[i] = f
	}

	start := time.Now()
	rec := &Reconciliation{}

	// A payee/account holder mismatch is reported but never fails the check.
	if len(stubs) > 0 {
		payee := stubs[0].EmployeeName
		holder := bank.AccountHolderName
		if payee != "" && holder != "" && !matcher.IsNameMatch(payee, holder) {
			s.log.Warnw("Paystub payee does not match account holder",
				"payee", payee, "account_holder", holder)
			rec.Warnings = append(rec.Warnings,
				fmt.Sprintf("Name mismatch between Paystub (%s) and Bank Statement (%s).", payee, holder))
		}
	} else {
		rec.Warnings = append(rec.Warnings, "No paystubs submitted.")
	}

	entries, skipped := buildLedger(bank.Transactions)
	if skipped > 0 {
		s.log.Debugw("Skipped unusable transactions", "skipped", skipped, "total", len(bank.Transactions))
	}

	rec.Outcomes = s.evaluateAll(stubs, entries)

	for _, o := range rec.Outcomes {
		s.metrics.observe(o)
	}
	s.metrics.duration.Observe(time.Since(start).Seconds())

	s.log.Infow("Income reconciliation finished",
		"paystubs", len(stubs),
		"transactions", len(bank.Transactions),
		"matched", rec.matchedCount(),
	)
	return rec, nil
}

// Result reduces the outcomes to a single verdict.
func (r *Reconciliation) Result() domain.ValidationResult {
	lines := make([]string, len(r.Outcomes))
	passed := true
	for i, o := range r.Outcomes {
		lines[i] = o.Line
		if !o.Matched {
			passed = false
		}
	}

	var details string
	if passed {
		details = fmt.Sprintf("Success: All %d paystubs matched to bank transactions. %s",
			len(r.Outcomes), strings.Join(lines, " "))
	} else {
		details = "Verification Failed. " + strings.Join(lines, " ")
	}

	return domain.ValidationResult{
		Passed:   passed,
		Details:  strings.TrimSpace(details),
		Warnings: r.Warnings,
	}
}

func (r *Reconciliation) matchedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Matched {
			n++
		}
	}
	return n
}

// ledgerEntry is a transaction with its date and amount already parsed.
type ledgerEntry struct {
	tx     domain.BankTransaction
	date   time.Time
	amount decimal.Decimal
}

// buildLedger drops transactions that can never match: no parseable date or
// a zero amount.
func buildLedger(txns []domain.BankTransaction) ([]ledgerEntry, int) {
	entries := make([]ledgerEntry, 0, len(txns))
	skipped := 0
	for _, tx := range txns {
		if tx.Amount == 0 {
			skipped++
			continue
		}
		d, err := domain.ParseDate(tx.Date)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, ledgerEntry{
			tx:     tx,
			date:   d,
			amount: decimal.NewFromFloat(tx.Amount),
		})
	}
	return entries, skipped
}

// evaluateAll computes one outcome per paystub. Paystubs share no state, so
// they are spread over a bounded worker pool; each worker writes only its
// own slot, which keeps the output in submission order.
func (s *Service) evaluateAll(stubs []domain.PaystubFields, ledger []ledgerEntry) []PaystubOutcome {
	out := make([]PaystubOutcome, len(stubs))

	workers := s.tol.Workers
	if workers > len(stubs) {
		workers = len(stubs)
	}
	if workers <= 1 {
		for i := range stubs {
			out[i] = s.evaluate(i, stubs[i], ledger)
		}
		return out
	}

	indexCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				out[i] = s.evaluate(i, stubs[i], ledger)
			}
		}()
	}
	for i := range stubs {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return out
}

func (s *Service) evaluate(i int, stub domain.PaystubFields, ledger []ledgerEntry) PaystubOutcome {
	n := i + 1
	o := PaystubOutcome{
		Index:    n,
		PayDate:  stub.PayDate,
		Employer: stub.EmployerName,
	}

	net, err := stub.NetIncome.Decimal()
	if err != nil {
		o.Finding = domain.FindingDataQuality
		o.Line = fmt.Sprintf("Paystub #%d: Could not extract Net Income.", n)
		return o
	}
	o.NetIncome = net.String()

	payDate, err := domain.ParseDate(stub.PayDate)
	if err != nil {
		o.Finding = domain.FindingDataQuality
		o.Line = fmt.Sprintf("Paystub #%d (%s): Could not parse pay date.", n, stub.PayDate)
		return o
	}

	if dep := s.findDeposit(net, payDate, stub.EmployerName, ledger); dep != nil {
		o.Matched = true
		o.Deposit = dep
		o.Line = fmt.Sprintf("Paystub #%d (%s): Verified deposit of %s from \"%s\".",
			n, stub.PayDate, o.NetIncome, stub.EmployerName)
		return o
	}

	o.Finding = domain.FindingToleranceMismatch
	o.Line = fmt.Sprintf("Paystub #%d (%s): FAILED. No deposit found for %s from \"%s\" within range.",
		n, stub.PayDate, o.NetIncome, stub.EmployerName)
	return o
}

// findDeposit returns the first ledger credit within the amount and date
// tolerances. When both an employer name and a description are present the
// description must also mention the employer.
func (s *Service) findDeposit(net decimal.Decimal, payDate time.Time, employer string, ledger []ledgerEntry) *domain.BankTransaction {
	tolerance := decimal.NewFromFloat(s.tol.Amount)
	lo := float64(-s.tol.DaysBefore)
	hi := float64(s.tol.DaysAfter)

	for i := range ledger {
		e := &ledger[i]

		if !e.tx.IsCredit() {
			continue
		}
		if !e.amount.Sub(net).Abs().LessThan(tolerance) {
			continue
		}
		days := domain.DaysBetween(payDate, e.date)
		if days < lo || days > hi {
			continue
		}
		if employer != "" && e.tx.Description != "" &&
			!matcher.IsEmployerInDescription(employer, e.tx.Description) {
			continue
		}

		dep := e.tx
		return &dep
	}
	return nil
}
