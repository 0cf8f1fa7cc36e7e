package config

import (
	"math"
	"strings"
	"testing"

	"github.com/dunphycap/crecast/internal/loan"
)

const testDocument = `
portfolio:
  name: Test Fund
  startDate: "2024-01"
  endDate: "2024-12"
  beginningCash: 100000
properties:
  - propertyId: prop-a
    name: Elm Street Office
    propertyType: Office
    purchasePrice: 500000
    purchaseDate: "2024-01"
    analysisStartDate: "2024-01"
    analysisEndDate: "2024-12"
    ownershipShare: 0.8
    loans:
      - loanId: loan-a
        originationDate: "2024-01"
        maturityDate: "2024-12"
        originalBalance: 300000
        noteRate: 6.0
        amortizationPeriod: 0
        dayCountMethod: "30/360"
    financials:
      - date: "2024-03"
        netOperatingIncome: 10000
        capitalExpenditures: 2000
unsecuredLoans:
  - loanId: credit-line
    originationDate: "2024-01"
    maturityDate: "2024-06"
    originalBalance: 120000
    rateMode: Floating
    spread: 2.0
    amortizationPeriod: 0
    dayCountMethod: "30/360"
capitalFlows:
  - date: "2024-02"
    capitalCall: 50000
`

func TestParseConfiguration(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}

	if conf.Portfolio.Name != "Test Fund" {
		t.Errorf("portfolio name = %s, expected Test Fund", conf.Portfolio.Name)
	}
	if conf.Portfolio.BeginningCash != 100000 {
		t.Errorf("beginning cash = %.2f, expected 100000", conf.Portfolio.BeginningCash)
	}
	if len(conf.Properties) != 1 {
		t.Fatalf("parsed %d properties, expected 1", len(conf.Properties))
	}
	p := conf.Properties[0]
	if p.OwnershipShare != 0.8 {
		t.Errorf("ownership share = %f, expected 0.8", p.OwnershipShare)
	}
	if len(p.Loans) != 1 || p.Loans[0].NoteRate != 6.0 {
		t.Errorf("property loan not parsed: %+v", p.Loans)
	}
	if len(p.Financials) != 1 || p.Financials[0].NetOperatingIncome != 10000 {
		t.Errorf("property financials not parsed: %+v", p.Financials)
	}
	if len(conf.UnsecuredLoans) != 1 || conf.UnsecuredLoans[0].Spread != 2.0 {
		t.Errorf("unsecured loan not parsed: %+v", conf.UnsecuredLoans)
	}
	if len(conf.CapitalFlows) != 1 || conf.CapitalFlows[0].CapitalCall != 50000 {
		t.Errorf("capital flow not parsed: %+v", conf.CapitalFlows)
	}
}

func TestParseConfigurationBadDocument(t *testing.T) {
	if _, err := ParseConfiguration([]byte("{not yaml")); err == nil {
		t.Errorf("ParseConfiguration() expected error for malformed document")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}
	raw, err := conf.Marshal()
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	again, err := ParseConfiguration(raw)
	if err != nil {
		t.Fatalf("ParseConfiguration() on marshaled output unexpected error: %v", err)
	}
	if again.Portfolio.Name != conf.Portfolio.Name {
		t.Errorf("round trip lost portfolio name")
	}
	if len(again.Properties) != len(conf.Properties) {
		t.Errorf("round trip lost properties")
	}
	if again.Properties[0].Loans[0].NoteRate != 6.0 {
		t.Errorf("round trip lost loan note rate")
	}
}

type stubCurve map[string]float64

func (c stubCurve) Rate(month string) (float64, bool) {
	rate, ok := c[month]
	return rate, ok
}

func TestBuildPortfolio(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}

	pf, err := conf.BuildPortfolio(nil, stubCurve{"2024-01": 0.03})
	if err != nil {
		t.Fatalf("BuildPortfolio() unexpected error: %v", err)
	}

	if pf.BeginningCash != 100000 {
		t.Errorf("beginning cash = %.2f, expected 100000", pf.BeginningCash)
	}
	if len(pf.Properties()) != 1 {
		t.Fatalf("built %d properties, expected 1", len(pf.Properties()))
	}

	p := pf.Properties()[0]
	if len(p.Loans) != 1 {
		t.Fatalf("built %d property loans, expected 1", len(p.Loans))
	}
	// Document rates are percentages; the entity holds decimals.
	if p.Loans[0].NoteRate != 0.06 {
		t.Errorf("note rate = %f, expected 0.06", p.Loans[0].NoteRate)
	}

	credit, err := pf.UnsecuredLoan("credit-line")
	if err != nil {
		t.Fatalf("UnsecuredLoan() unexpected error: %v", err)
	}
	if credit.Mode != loan.RateFloating {
		t.Errorf("rate mode = %s, expected Floating", credit.Mode)
	}
	if credit.Spread != 0.02 {
		t.Errorf("spread = %f, expected 0.02", credit.Spread)
	}
	// The curve rate for January plus the spread drives the first period.
	schedule, err := credit.Schedule()
	if err != nil {
		t.Fatalf("Schedule() unexpected error: %v", err)
	}
	january := 120000 * (0.03 + 0.02) * 30.0 / 360.0
	if math.Abs(schedule[1].Interest-january) > 0.01 {
		t.Errorf("first period interest = %.2f, expected %.2f", schedule[1].Interest, january)
	}
}

func TestBuildPortfolioReportsEntity(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}
	conf.Properties[0].Loans[0].DayCountMethod = "bogus"

	_, err = conf.BuildPortfolio(nil, nil)
	if err == nil {
		t.Fatalf("BuildPortfolio() expected error for bad day count")
	}
	if !strings.Contains(err.Error(), "loan-a") {
		t.Errorf("error %q does not identify the offending loan", err.Error())
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("ValidateConfiguration() = %v, expected no warnings", warnings)
	}

	conf.Properties[0].Loans[0].MaturityDate = "2026-06"
	conf.Properties[0].SaleDate = "2024-09"
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Fatalf("ValidateConfiguration() returned %d warnings, expected 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "matures after portfolio end date") {
		t.Errorf("warning %q does not mention loan maturity", warnings[0])
	}
	if !strings.Contains(warnings[1], "sale date but no sale price") {
		t.Errorf("warning %q does not mention missing sale price", warnings[1])
	}
}

func TestHasFloatingLoans(t *testing.T) {
	conf, err := ParseConfiguration([]byte(testDocument))
	if err != nil {
		t.Fatalf("ParseConfiguration() unexpected error: %v", err)
	}
	if !conf.HasFloatingLoans() {
		t.Errorf("HasFloatingLoans() = false, expected true for floating unsecured loan")
	}

	conf.UnsecuredLoans = nil
	if conf.HasFloatingLoans() {
		t.Errorf("HasFloatingLoans() = true, expected false with only fixed loans")
	}
}
