package portfolio

import (
	"math"
	"testing"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/property"
	"github.com/dunphycap/crecast/internal/statement"
)

func testPortfolio(t *testing.T) *Portfolio {
	t.Helper()
	pf, err := New("Test Fund", "2024-01", "2024-12", nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return pf
}

func testProperty(t *testing.T, id string, share float64) *property.Property {
	t.Helper()
	p, err := property.New(property.Params{
		PropertyID:        id,
		Name:              id,
		PurchasePrice:     500000,
		PurchaseDate:      "2024-01",
		AnalysisStartDate: "2024-01",
		AnalysisEndDate:   "2024-12",
		OwnershipShare:    share,
	}, nil)
	if err != nil {
		t.Fatalf("property.New() unexpected error: %v", err)
	}
	return p
}

func TestNewValidation(t *testing.T) {
	if _, err := New("Bad", "2024-12", "2024-01", nil); err == nil {
		t.Errorf("New() expected error for reversed window")
	}
	if _, err := New("Bad", "not-a-date", "2024-12", nil); err == nil {
		t.Errorf("New() expected error for unparseable start date")
	}
}

func TestPropertyLookupAndRemoval(t *testing.T) {
	pf := testPortfolio(t)
	pf.AddProperty(testProperty(t, "prop-a", 1.0))
	pf.AddProperty(testProperty(t, "prop-b", 1.0))

	p, err := pf.Property("prop-b")
	if err != nil {
		t.Fatalf("Property() unexpected error: %v", err)
	}
	if p.ID != "prop-b" {
		t.Errorf("Property() returned %s, expected prop-b", p.ID)
	}

	pf.RemoveProperty("prop-a")
	if len(pf.Properties()) != 1 {
		t.Errorf("RemoveProperty() left %d properties, expected 1", len(pf.Properties()))
	}
	if _, err := pf.Property("prop-a"); err == nil {
		t.Errorf("Property() expected error after removal")
	}
}

func TestAggregateSumsProperties(t *testing.T) {
	pf := testPortfolio(t)

	first := testProperty(t, "prop-a", 1.0)
	if err := first.SetFinancial("2024-03", 10000, 0); err != nil {
		t.Fatalf("SetFinancial() unexpected error: %v", err)
	}
	second := testProperty(t, "prop-b", 0.5)
	if err := second.SetFinancial("2024-03", 8000, 0); err != nil {
		t.Fatalf("SetFinancial() unexpected error: %v", err)
	}
	pf.AddProperty(first)
	pf.AddProperty(second)

	aggregate, err := pf.Aggregate("", "")
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	// 10000 at full ownership plus 8000 at half ownership.
	noi := aggregate.Get("2024-03", statement.Adjusted(statement.ColNetOperatingIncome))
	if noi != 14000 {
		t.Errorf("aggregated adjusted NOI = %.2f, expected 14000", noi)
	}
	// Both purchases land in the same month.
	price := aggregate.Get("2024-01", statement.Adjusted(statement.ColPurchasePrice))
	if price != -750000 {
		t.Errorf("aggregated adjusted purchase price = %.2f, expected -750000", price)
	}
}

func TestAggregateCapitalFlows(t *testing.T) {
	pf := testPortfolio(t)
	if err := pf.AddCapitalFlow("2024-02", 50000, 0); err != nil {
		t.Fatalf("AddCapitalFlow() unexpected error: %v", err)
	}
	if err := pf.AddCapitalFlow("2024-02", 25000, 0); err != nil {
		t.Fatalf("AddCapitalFlow() unexpected error: %v", err)
	}
	if err := pf.AddCapitalFlow("2024-08", 0, 30000); err != nil {
		t.Fatalf("AddCapitalFlow() unexpected error: %v", err)
	}

	aggregate, err := pf.Aggregate("", "")
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	// Capital calls accumulate and post positive.
	if got := aggregate.Get("2024-02", statement.ColCapitalCall); got != 75000 {
		t.Errorf("capital call = %.2f, expected 75000", got)
	}
	// Redemptions are entered positive and post negative.
	if got := aggregate.Get("2024-08", statement.ColRedemptionPayment); got != -30000 {
		t.Errorf("redemption payment = %.2f, expected -30000", got)
	}
}

func TestAggregateUnsecuredLoan(t *testing.T) {
	pf := testPortfolio(t)
	l, err := loan.New(loan.Terms{
		LoanID:             "credit-line",
		OriginationDate:    "2024-01",
		MaturityDate:       "2024-07",
		OriginalBalance:    120000,
		NoteRate:           0.06,
		AmortizationPeriod: 0,
		DayCountMethod:     "30/360",
	}, nil)
	if err != nil {
		t.Fatalf("loan.New() unexpected error: %v", err)
	}
	pf.AddUnsecuredLoan(l)

	aggregate, err := pf.Aggregate("", "")
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	if got := aggregate.Get("2024-01", statement.Adjusted(statement.ColLoanProceeds)); got != 120000 {
		t.Errorf("loan proceeds = %.2f, expected 120000 at origination", got)
	}
	// 120000 * 6% * 30/360 = 600 per month, posted as an outflow.
	if got := aggregate.Get("2024-03", statement.Adjusted(statement.ColInterestExpense)); math.Abs(got-(-600)) > 0.01 {
		t.Errorf("interest expense = %.2f, expected -600", got)
	}
	if got := aggregate.Get("2024-07", statement.Adjusted(statement.ColDebtScheduledRepayment)); got != -120000 {
		t.Errorf("scheduled repayment = %.2f, expected -120000 at maturity", got)
	}
}

func TestMonthlyCashChains(t *testing.T) {
	pf := testPortfolio(t)
	pf.BeginningCash = 100000
	if err := pf.AddCapitalFlow("2024-02", 50000, 0); err != nil {
		t.Fatalf("AddCapitalFlow() unexpected error: %v", err)
	}
	if err := pf.AddCapitalFlow("2024-03", 0, 20000); err != nil {
		t.Fatalf("AddCapitalFlow() unexpected error: %v", err)
	}

	cash, err := pf.MonthlyCash("", "")
	if err != nil {
		t.Fatalf("MonthlyCash() unexpected error: %v", err)
	}

	if got := cash.Get("2024-01", statement.ColBeginningCash); got != 100000 {
		t.Errorf("January beginning cash = %.2f, expected 100000", got)
	}
	if got := cash.Get("2024-01", statement.ColEndingCash); got != 100000 {
		t.Errorf("January ending cash = %.2f, expected 100000", got)
	}
	if got := cash.Get("2024-02", statement.ColNetCashFlow); got != 50000 {
		t.Errorf("February net cash flow = %.2f, expected 50000", got)
	}
	if got := cash.Get("2024-02", statement.ColEndingCash); got != 150000 {
		t.Errorf("February ending cash = %.2f, expected 150000", got)
	}
	// Each month's beginning cash equals the prior month's ending cash.
	if got := cash.Get("2024-03", statement.ColBeginningCash); got != 150000 {
		t.Errorf("March beginning cash = %.2f, expected 150000", got)
	}
	if got := cash.Get("2024-03", statement.ColEndingCash); got != 130000 {
		t.Errorf("March ending cash = %.2f, expected 130000", got)
	}
	if got := cash.Get("2024-12", statement.ColEndingCash); got != 130000 {
		t.Errorf("December ending cash = %.2f, expected 130000", got)
	}
}

func TestMonthlyDSCR(t *testing.T) {
	pf := testPortfolio(t)

	p := testProperty(t, "prop-a", 1.0)
	if err := p.SetFinancial("2024-03", 10000, 0); err != nil {
		t.Fatalf("SetFinancial() unexpected error: %v", err)
	}
	l, err := loan.New(loan.Terms{
		OriginationDate:    "2024-01",
		MaturityDate:       "2026-01",
		OriginalBalance:    1000000,
		NoteRate:           0.06,
		AmortizationPeriod: 0,
		DayCountMethod:     "30/360",
	}, nil)
	if err != nil {
		t.Fatalf("loan.New() unexpected error: %v", err)
	}
	p.AddLoan(l)
	pf.AddProperty(p)

	dscr, err := pf.MonthlyDSCR("", "")
	if err != nil {
		t.Fatalf("MonthlyDSCR() unexpected error: %v", err)
	}

	// March: 10000 NOI over 5000 interest-only debt service.
	if got := dscr["2024-03"]; math.Abs(got-2.0) > 0.001 {
		t.Errorf("DSCR 2024-03 = %f, expected 2.0", got)
	}
	// January has no debt service row and no NOI: 0/0 surfaces as NaN.
	if got := dscr["2024-01"]; !math.IsNaN(got) {
		t.Errorf("DSCR 2024-01 = %f, expected NaN with no NOI and no debt service", got)
	}
}

func TestMonthlyDSCRInfinite(t *testing.T) {
	pf := testPortfolio(t)
	p := testProperty(t, "prop-a", 1.0)
	if err := p.SetFinancial("2024-03", 10000, 0); err != nil {
		t.Fatalf("SetFinancial() unexpected error: %v", err)
	}
	pf.AddProperty(p)

	dscr, err := pf.MonthlyDSCR("", "")
	if err != nil {
		t.Fatalf("MonthlyDSCR() unexpected error: %v", err)
	}
	if got := dscr["2024-03"]; !math.IsInf(got, 1) {
		t.Errorf("DSCR with NOI and no debt = %f, expected +Inf", got)
	}
}
