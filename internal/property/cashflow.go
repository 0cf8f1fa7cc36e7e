package property

import (
	"fmt"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/statement"
	"github.com/dunphycap/crecast/pkg/datetime"
	"go.uber.org/zap"
)

// rawColumns is the property table's native column order. Every column except
// Ownership Share also gets an ownership-adjusted variant.
var rawColumns = []string{
	statement.ColOwnershipShare,
	statement.ColPurchasePrice,
	statement.ColNetOperatingIncome,
	statement.ColCapitalExpenditures,
	statement.ColInterestExpense,
	statement.ColPrincipalPayments,
	statement.ColLoanProceeds,
	statement.ColSaleProceeds,
	statement.ColPartnerBuyout,
	statement.ColDebtScheduledRepayment,
	statement.ColDebtEarlyPrepayment,
}

// outflowColumns are sign-flipped to negative in the built table.
var outflowColumns = []string{
	statement.ColPurchasePrice,
	statement.ColCapitalExpenditures,
	statement.ColInterestExpense,
	statement.ColPrincipalPayments,
	statement.ColPartnerBuyout,
	statement.ColDebtScheduledRepayment,
	statement.ColDebtEarlyPrepayment,
}

// Columns returns the full property table schema: raw columns, their adjusted
// variants, and the total.
func Columns() []string {
	columns := append([]string(nil), rawColumns...)
	for _, column := range rawColumns[1:] {
		columns = append(columns, statement.Adjusted(column))
	}
	return append(columns, statement.ColTotalCashFlow)
}

// CashFlows builds the property's monthly cash-flow table over
// [startDate, min(endDate, saleDate)]: raw columns, ownership-adjusted
// variants, outflow sign flips, and a total. Months past the sale are
// excluded entirely, not zero-filled. Empty bounds default to the analysis
// window.
func (p *Property) CashFlows(startDate, endDate string) (*statement.Statement, error) {
	if startDate == "" {
		startDate = p.AnalysisStartDate
	}
	if endDate == "" {
		endDate = p.AnalysisEndDate
	}
	start, err := datetime.MonthStart(startDate)
	if err != nil {
		return nil, err
	}
	end, err := datetime.MonthStart(endDate)
	if err != nil {
		return nil, err
	}
	if p.SaleDate != "" {
		end, err = datetime.MinDate(end, p.SaleDate)
		if err != nil {
			return nil, err
		}
	}

	// A buyout forces full ownership from its month forward before any
	// adjusted column is computed.
	if p.BuyoutDate != "" {
		if err := p.Ownership.UpdateFrom(p.BuyoutDate, 1.0); err != nil {
			return nil, err
		}
	}

	st, err := statement.New(start, end, Columns())
	if err != nil {
		return nil, err
	}

	for _, month := range st.Dates() {
		st.Set(month, statement.ColOwnershipShare, p.Ownership.Share(month))
	}

	st.Set(p.PurchaseDate, statement.ColPurchasePrice, p.PurchasePrice)

	for month, financial := range p.Financials {
		st.Add(month, statement.ColNetOperatingIncome, financial.NetOperatingIncome)
		st.Add(month, statement.ColCapitalExpenditures, financial.CapitalExpenditures)
	}

	for _, l := range p.Loans {
		if err := p.postLoan(st, l); err != nil {
			return nil, err
		}
	}

	if p.SaleDate != "" {
		st.Set(p.SaleDate, statement.ColSaleProceeds, p.SalePrice)
	}

	for _, month := range st.Dates() {
		share := st.Get(month, statement.ColOwnershipShare)
		for _, column := range rawColumns[1:] {
			st.Set(month, statement.Adjusted(column), st.Get(month, column)*share)
		}
	}

	// The buyout consideration is the full amount paid to the partner; it is
	// never scaled by the ownership share.
	if p.BuyoutDate != "" {
		st.Set(p.BuyoutDate, statement.ColPartnerBuyout, p.BuyoutAmount)
		st.Set(p.BuyoutDate, statement.Adjusted(statement.ColPartnerBuyout), p.BuyoutAmount)
	}

	for _, month := range st.Dates() {
		for _, column := range outflowColumns {
			st.Set(month, column, -st.Get(month, column))
			adjusted := statement.Adjusted(column)
			st.Set(month, adjusted, -st.Get(month, adjusted))
		}

		total := 0.0
		for _, column := range rawColumns[1:] {
			total += st.Get(month, statement.Adjusted(column))
		}
		st.Set(month, statement.ColTotalCashFlow, total)
	}

	return st, nil
}

// postLoan posts one loan's schedule into the table: interest and principal
// per month, proceeds at origination, and exactly one of scheduled repayment
// at maturity or early prepayment at the sale date.
func (p *Property) postLoan(st *statement.Statement, l *loan.Loan) error {
	schedule, err := l.Schedule()
	if err != nil {
		return err
	}

	for _, row := range schedule[1:] {
		st.Add(row.Date, statement.ColInterestExpense, row.Interest)
		st.Add(row.Date, statement.ColPrincipalPayments, row.Principal)
	}
	st.Add(l.OriginationDate, statement.ColLoanProceeds, l.OriginalBalance)

	maturesBeforeSale := true
	if p.SaleDate != "" {
		maturesBeforeSale, err = datetime.DateBeforeDate(l.MaturityDate, p.SaleDate)
		if err != nil {
			return err
		}
	}

	if maturesBeforeSale {
		balloon := schedule[len(schedule)-1].EndingBalance
		st.Add(l.MaturityDate, statement.ColDebtScheduledRepayment, balloon)
		return nil
	}

	balance, err := l.CurrentBalance(p.SaleDate)
	if err != nil {
		return err
	}
	st.Add(p.SaleDate, statement.ColDebtEarlyPrepayment, balance)
	p.logger.Debug(fmt.Sprintf("property %s: loan %s prepaid at sale for %.2f", p.ID, l.ID, balance),
		zap.String("op", "property.postLoan"),
		zap.String("date", p.SaleDate),
	)
	return nil
}
