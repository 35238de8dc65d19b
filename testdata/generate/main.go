package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leasecheck/verifier/internal/domain"
)

// scenario describes what is wrong, if anything, with one generated applicant.
type scenario string

const (
	scenarioClean           scenario = "clean"
	scenarioShortDeposit    scenario = "short_deposit"
	scenarioLateDeposit     scenario = "late_deposit"
	scenarioExpiredID       scenario = "expired_id"
	scenarioAddressMismatch scenario = "address_mismatch"
	scenarioJointAccount    scenario = "joint_account"
)

var scenarios = []scenario{
	scenarioClean,
	scenarioShortDeposit,
	scenarioLateDeposit,
	scenarioExpiredID,
	scenarioAddressMismatch,
	scenarioJointAccount,
}

var (
	firstNames = []string{"John", "Amara", "Wei", "Sofia", "Liam", "Priya", "Mateo", "Chloe"}
	lastNames  = []string{"Smith", "Okafor", "Chen", "Rossi", "Murphy", "Patel", "Garcia", "Dubois"}
	employers  = []string{"Acme Corp", "Globex Industries", "Initech LLC", "Umbrella Health", "Stark Logistics"}
	streets    = []string{"Baker Street", "Elm Road", "Harbour View", "Kingsway", "Mill Lane"}
	zipCodes   = []string{"NW1 6XE", "SW1A 1AA", "EC1A 1BB", "M1 1AE", "B33 8TH"}
	merchants  = []string{"TESCO STORES", "SHELL FUEL", "NETFLIX", "CITY WATER", "AMAZON MKTPLACE"}
)

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := filepath.Join(findTestdataDir(), "generated")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		panic(err)
	}

	for i, sc := range scenarios {
		bundle, txns := generateApplicant(rng, sc)

		name := fmt.Sprintf("applicant_%02d_%s", i+1, sc)
		writeJSONFile(filepath.Join(baseDir, name+".json"), bundle)
		writeStatementCSV(filepath.Join(baseDir, name+"_statement.csv"), txns)
		fmt.Printf("Generated %s (%d paystubs, %d transactions)\n", name, len(bundle.Paystubs), len(txns))
	}

	fmt.Println("Test data generation complete.")
}

func generateApplicant(rng *rand.Rand, sc scenario) (*domain.ApplicationBundle, []domain.BankTransaction) {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	employer := employers[rng.Intn(len(employers))]
	houseNumber := rng.Intn(250) + 1
	street := streets[rng.Intn(len(streets))]
	zip := zipCodes[rng.Intn(len(zipCodes))]

	dob := time.Date(1960+rng.Intn(40), time.Month(rng.Intn(12)+1), rng.Intn(28)+1, 0, 0, 0, 0, time.UTC)
	form := domain.ApplicationForm{
		FirstName:    first,
		LastName:     last,
		DateOfBirth:  dob.Format(domain.DateLayout),
		ZipCode:      zip,
		AddressLine1: fmt.Sprintf("%d %s", houseNumber, street),
	}

	expiry := time.Date(2029+rng.Intn(5), time.Month(rng.Intn(12)+1), rng.Intn(28)+1, 0, 0, 0, 0, time.UTC)
	if sc == scenarioExpiredID {
		expiry = time.Date(2021, time.March, 3, 0, 0, 0, 0, time.UTC)
	}
	identity := document(rng, domain.IdentityFields{
		FullName:    fmt.Sprintf("%s %s", first, last),
		DateOfBirth: form.DateOfBirth,
		IDNumber:    fmt.Sprintf("%09d", rng.Intn(1_000_000_000)),
		ExpiryDate:  expiry.Format(domain.DateLayout),
	})

	// Monthly net pay between 1800 and 4800, three consecutive month ends.
	net := math.Round((1800+rng.Float64()*3000)*100) / 100
	var paystubs []domain.ExtractedDocument
	var txns []domain.BankTransaction
	for m := 0; m < 3; m++ {
		payDate := time.Date(2024, time.Month(m+2), 0, 0, 0, 0, 0, time.UTC)
		paystubs = append(paystubs, document(rng, domain.PaystubFields{
			EmployeeName: fmt.Sprintf("%s %s", first, last),
			EmployerName: employer,
			NetIncome:    domain.RawAmount(fmt.Sprintf("%.2f", net)),
			PayDate:      payDate.Format(domain.DateLayout),
		}))

		amount := net
		lag := rng.Intn(4)
		switch {
		case sc == scenarioShortDeposit && m == 1:
			amount = net - 25
		case sc == scenarioLateDeposit && m == 2:
			lag = 9
		}
		txns = append(txns, domain.BankTransaction{
			Date:        payDate.AddDate(0, 0, lag).Format(domain.DateLayout),
			Description: strings.ToUpper(employer) + " PAYROLL",
			Amount:      amount,
			Type:        domain.TransactionCredit,
		})

		for k := 0; k < 3; k++ {
			txns = append(txns, domain.BankTransaction{
				Date:        payDate.AddDate(0, 0, rng.Intn(25)+1).Format(domain.DateLayout),
				Description: merchants[rng.Intn(len(merchants))],
				Amount:      math.Round((5+rng.Float64()*200)*100) / 100,
				Type:        domain.TransactionDebit,
			})
		}
	}

	holder := fmt.Sprintf("%s %s", strings.ToUpper(first), strings.ToUpper(last))
	if sc == scenarioJointAccount {
		holder = "MR & MRS " + strings.ToUpper(last)
	}
	statement := document(rng, domain.BankStatementFields{
		AccountHolderName: holder,
		StatementDate:     "2024-04-30",
		Transactions:      txns,
	})

	address := fmt.Sprintf("%d %s, %s", houseNumber, street, zip)
	if sc == scenarioAddressMismatch {
		address = fmt.Sprintf("%d %s, %s", houseNumber+1, streets[rng.Intn(len(streets))], "ZZ9 9ZZ")
	}
	addressProof := document(rng, domain.AddressProofFields{
		Name:    fmt.Sprintf("%s %s", first, last),
		Address: address,
		Date:    "2024-04-10",
	})

	return &domain.ApplicationBundle{
		Form:          form,
		Identity:      &identity,
		Paystubs:      paystubs,
		BankStatement: &statement,
		AddressProof:  &addressProof,
		Biometric: &domain.BiometricResult{
			MatchScore: float64(80 + rng.Intn(20)),
			IsMatch:    true,
			Reasoning:  "Generated sample.",
		},
	}, txns
}

func document(rng *rand.Rand, fields domain.DocumentFields) domain.ExtractedDocument {
	doc := domain.NewDocument(fields)
	doc.Confidence = float64(80 + rng.Intn(20))
	return doc
}

func writeStatementCSV(path string, txns []domain.BankTransaction) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "description", "amount", "type"}); err != nil {
		panic(err)
	}
	for _, t := range txns {
		// Debits are written signed with no type, the way most bank exports do.
		amount := fmt.Sprintf("%.2f", t.Amount)
		txType := string(t.Type)
		if t.Type == domain.TransactionDebit {
			amount = "-" + amount
			txType = ""
		}
		if err := w.Write([]string{t.Date, t.Description, amount, txType}); err != nil {
			panic(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}
}

func writeJSONFile(path string, v any) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

func findTestdataDir() string {
	// Look for the testdata directory relative to common locations.
	candidates := []string{
		"testdata",
		"../testdata",
		"../../testdata",
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	// Fallback.
	return "testdata"
}
