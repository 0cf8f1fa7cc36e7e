package statement

// Column names shared by the property cash-flow builder and the portfolio
// aggregator. The aggregation schema is fixed; every producer maps its native
// columns into these names.
const (
	ColOwnershipShare         = "Ownership Share"
	ColPurchasePrice          = "Purchase Price"
	ColNetOperatingIncome     = "Net Operating Income"
	ColCapitalExpenditures    = "Capital Expenditures"
	ColInterestExpense        = "Interest Expense"
	ColPrincipalPayments      = "Principal Payments"
	ColLoanProceeds           = "Loan Proceeds"
	ColSaleProceeds           = "Sale Proceeds"
	ColPartnerBuyout          = "Partner Buyout"
	ColDebtScheduledRepayment = "Debt Scheduled Repayment"
	ColDebtEarlyPrepayment    = "Debt Early Prepayment"
	ColTotalCashFlow          = "Total Cash Flow"

	ColCapitalCall       = "Capital Call"
	ColRedemptionPayment = "Redemption Payment"

	ColBeginningCash = "Beginning Cash"
	ColNetCashFlow   = "Net Cash Flow"
	ColEndingCash    = "Ending Cash"
	ColDSCR          = "DSCR"
)

// Adjusted returns the ownership-adjusted variant of a raw column name.
func Adjusted(column string) string {
	return "Adjusted " + column
}
