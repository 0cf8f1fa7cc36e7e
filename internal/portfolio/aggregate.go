package portfolio

import (
	"math"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/statement"
	"github.com/dunphycap/crecast/pkg/datetime"
)

// Columns is the portfolio statement's fixed, ordered schema. Every source
// maps into it; columns a source does not produce stay zero.
func Columns() []string {
	return []string{
		statement.ColCapitalCall,
		statement.ColRedemptionPayment,
		statement.Adjusted(statement.ColPurchasePrice),
		statement.Adjusted(statement.ColLoanProceeds),
		statement.Adjusted(statement.ColNetOperatingIncome),
		statement.Adjusted(statement.ColCapitalExpenditures),
		statement.Adjusted(statement.ColInterestExpense),
		statement.Adjusted(statement.ColPrincipalPayments),
		statement.Adjusted(statement.ColDebtScheduledRepayment),
		statement.Adjusted(statement.ColDebtEarlyPrepayment),
		statement.Adjusted(statement.ColSaleProceeds),
		statement.Adjusted(statement.ColPartnerBuyout),
	}
}

// Aggregate sums every property's adjusted table, the portfolio's capital
// flows, and each unsecured loan's schedule onto the fixed schema over
// [startDate, endDate]. Empty bounds default to the portfolio window; ranges
// outside a source's dates contribute zero.
func (pf *Portfolio) Aggregate(startDate, endDate string) (*statement.Statement, error) {
	if startDate == "" {
		startDate = pf.StartDate
	}
	if endDate == "" {
		endDate = pf.EndDate
	}
	start, err := datetime.MonthStart(startDate)
	if err != nil {
		return nil, err
	}
	end, err := datetime.MonthStart(endDate)
	if err != nil {
		return nil, err
	}

	aggregate, err := statement.New(start, end, Columns())
	if err != nil {
		return nil, err
	}

	for _, p := range pf.properties {
		table, err := p.CashFlows(start, end)
		if err != nil {
			return nil, err
		}
		clipped, err := table.Clip(start, end)
		if err != nil {
			return nil, err
		}
		aggregate.AddStatement(clipped)
	}

	for month, flow := range pf.capitalFlows {
		aggregate.Add(month, statement.ColCapitalCall, flow.CapitalCall)
		aggregate.Add(month, statement.ColRedemptionPayment, -flow.RedemptionPayment)
	}

	for _, l := range pf.unsecuredLoans {
		if err := addUnsecuredLoan(aggregate, l); err != nil {
			return nil, err
		}
	}

	return aggregate, nil
}

// addUnsecuredLoan converts a portfolio-level loan schedule onto the
// aggregation schema: proceeds at origination, interest and principal as
// outflows per month, and the remaining balance as scheduled repayment at
// maturity. With no property the full flows belong to the portfolio, so the
// adjusted columns carry them unscaled.
func addUnsecuredLoan(aggregate *statement.Statement, l *loan.Loan) error {
	schedule, err := l.Schedule()
	if err != nil {
		return err
	}

	aggregate.Add(l.OriginationDate, statement.Adjusted(statement.ColLoanProceeds), l.OriginalBalance)
	for _, row := range schedule[1:] {
		aggregate.Add(row.Date, statement.Adjusted(statement.ColInterestExpense), -row.Interest)
		aggregate.Add(row.Date, statement.Adjusted(statement.ColPrincipalPayments), -row.Principal)
	}
	balloon := schedule[len(schedule)-1].EndingBalance
	aggregate.Add(l.MaturityDate, statement.Adjusted(statement.ColDebtScheduledRepayment), -balloon)
	return nil
}

// MonthlyCash derives the running cash view from the aggregate statement:
// Beginning Cash, Net Cash Flow, and Ending Cash chained month to month from
// the portfolio's beginning balance.
func (pf *Portfolio) MonthlyCash(startDate, endDate string) (*statement.Statement, error) {
	if startDate == "" {
		startDate = pf.StartDate
	}
	if endDate == "" {
		endDate = pf.EndDate
	}
	aggregate, err := pf.Aggregate(startDate, endDate)
	if err != nil {
		return nil, err
	}

	start, err := datetime.MonthStart(startDate)
	if err != nil {
		return nil, err
	}
	end, err := datetime.MonthStart(endDate)
	if err != nil {
		return nil, err
	}
	columns := []string{statement.ColBeginningCash, statement.ColNetCashFlow, statement.ColEndingCash}
	cash, err := statement.New(start, end, columns)
	if err != nil {
		return nil, err
	}

	balance := pf.BeginningCash
	for _, month := range aggregate.Dates() {
		net := aggregate.RowTotal(month)
		cash.Set(month, statement.ColBeginningCash, balance)
		cash.Set(month, statement.ColNetCashFlow, net)
		balance += net
		cash.Set(month, statement.ColEndingCash, balance)
	}
	return cash, nil
}

// MonthlyDSCR derives the debt service coverage ratio per month: NOI over
// total debt service. A month with no debt service yields an infinite or NaN
// ratio; it is surfaced as such, never zeroed.
func (pf *Portfolio) MonthlyDSCR(startDate, endDate string) (map[string]float64, error) {
	aggregate, err := pf.Aggregate(startDate, endDate)
	if err != nil {
		return nil, err
	}

	dscr := make(map[string]float64, len(aggregate.Dates()))
	for _, month := range aggregate.Dates() {
		noi := aggregate.Get(month, statement.Adjusted(statement.ColNetOperatingIncome))
		debtService := math.Abs(aggregate.Get(month, statement.Adjusted(statement.ColInterestExpense))) +
			math.Abs(aggregate.Get(month, statement.Adjusted(statement.ColPrincipalPayments)))
		dscr[month] = noi / debtService
	}
	return dscr, nil
}
