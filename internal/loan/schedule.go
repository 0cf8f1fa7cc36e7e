package loan

import (
	"fmt"
	"math"

	"github.com/dunphycap/crecast/pkg/constants"
	"github.com/dunphycap/crecast/pkg/datetime"
	"github.com/dunphycap/crecast/pkg/mathutil"
	"go.uber.org/zap"
)

// MonthlyPayment returns the level payment from the standard amortization
// formula, using the rate in effect at origination. Zero for a pure
// interest-only loan.
func (l *Loan) MonthlyPayment() float64 {
	if l.AmortizationPeriod == 0 {
		return 0
	}
	monthlyRate := l.periodRate(l.OriginationDate) / constants.MonthsPerYear
	if monthlyRate == 0 {
		return l.OriginalBalance / float64(l.AmortizationPeriod)
	}
	power := math.Pow(1.00+monthlyRate, float64(l.AmortizationPeriod))
	return l.OriginalBalance * monthlyRate * power / (power - 1.00)
}

// Recompute regenerates the amortization schedule from origination forward.
// It must be called after a batch of term mutations; the result is
// deterministic given the current terms.
func (l *Loan) Recompute() error {
	rows := make([]ScheduleRow, 0, l.TotalMonths+1)

	// Origination disbursement row.
	rows = append(rows, ScheduleRow{
		Date:             l.OriginationDate,
		BeginningBalance: l.OriginalBalance,
		Payment:          -l.OriginalBalance,
		EndingBalance:    l.OriginalBalance,
	})

	monthlyPayment := l.MonthlyPayment()
	balance := l.OriginalBalance
	periodStart := l.OriginationDate

	for month := 1; month <= l.TotalMonths; month++ {
		periodEnd, err := datetime.OffsetDate(periodStart, datetime.DateTimeLayout, 1)
		if err != nil {
			return err
		}

		rate := l.periodRate(periodStart)
		interest, err := l.DayCount.Interest(balance, rate, periodStart, periodEnd)
		if err != nil {
			return err
		}

		var principal, payment float64
		switch {
		case month-1 < l.InterestOnlyPeriod:
			payment = interest
		case l.AmortizationPeriod > 0:
			payment = monthlyPayment
			principal = payment - interest
		default:
			// Pure interest-only bullet for the entire term.
			payment = interest
		}

		// The balance never amortizes below zero; once it is exhausted the
		// remaining periods carry zero principal.
		if principal > balance || mathutil.Round(balance-principal) == 0 {
			principal = balance
			payment = interest + principal
		}

		balance -= principal
		rows = append(rows, ScheduleRow{
			Date:             periodEnd,
			BeginningBalance: rows[len(rows)-1].EndingBalance,
			Interest:         interest,
			Principal:        principal,
			Payment:          payment,
			EndingBalance:    balance,
		})
		periodStart = periodEnd
	}

	if balance > 0 {
		l.logger.Debug(fmt.Sprintf("loan %s carries a balloon balance of %.2f at maturity", l.ID, balance),
			zap.String("op", "loan.Recompute"),
		)
	}

	l.schedule = rows
	l.dirty = false
	return nil
}

// Schedule returns the ordered amortization rows, recomputing first if a
// mutation left the cached schedule stale.
func (l *Loan) Schedule() ([]ScheduleRow, error) {
	if l.dirty || l.schedule == nil {
		if err := l.Recompute(); err != nil {
			return nil, err
		}
	}
	return l.schedule, nil
}

// rowIndex returns the index of the latest schedule row at or before the
// given month, or -1 when no row precedes it. Rows are one per month so the
// lookup is a direct month-count calculation clamped to the final row.
func (l *Loan) rowIndex(asOfDate string) (int, error) {
	months, err := datetime.MonthsBetween(l.OriginationDate, asOfDate)
	if err != nil {
		return 0, err
	}
	if months < 0 {
		return -1, nil
	}
	if months > l.TotalMonths {
		months = l.TotalMonths
	}
	return months, nil
}

// CurrentBalance returns the ending balance of the latest schedule row at or
// before asOfDate; zero past maturity and zero before origination.
func (l *Loan) CurrentBalance(asOfDate string) (float64, error) {
	pastMaturity, err := datetime.DateAfterDate(asOfDate, l.MaturityDate)
	if err != nil {
		return 0, err
	}
	if pastMaturity {
		return 0, nil
	}

	schedule, err := l.Schedule()
	if err != nil {
		return 0, err
	}
	index, err := l.rowIndex(asOfDate)
	if err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, nil
	}
	return schedule[index].EndingBalance, nil
}

// PayoffAmount returns the outstanding balance due to retire the loan as of
// the given date.
func (l *Loan) PayoffAmount(payoffDate string) (float64, error) {
	return l.CurrentBalance(payoffDate)
}

// MonthlyInterestAndPrincipal derives the interest and principal components
// for the month starting at the given date. Outside the loan's active window
// both are zero.
func (l *Loan) MonthlyInterestAndPrincipal(date string) (float64, float64, error) {
	before, err := datetime.DateBeforeDate(date, l.OriginationDate)
	if err != nil {
		return 0, 0, err
	}
	after, err := datetime.DateAfterDate(date, l.MaturityDate)
	if err != nil {
		return 0, 0, err
	}
	if before || after {
		return 0, 0, nil
	}

	nextMonth, err := datetime.OffsetDate(date, datetime.DateTimeLayout, 1)
	if err != nil {
		return 0, 0, err
	}
	monthsSinceOrigination, err := datetime.MonthsBetween(l.OriginationDate, date)
	if err != nil {
		return 0, 0, err
	}
	monthsSinceOrigination--

	rate := l.periodRate(date)
	if monthsSinceOrigination < l.InterestOnlyPeriod {
		interest, err := l.DayCount.Interest(l.OriginalBalance, rate, date, nextMonth)
		if err != nil {
			return 0, 0, err
		}
		return interest, 0, nil
	}

	previousMonth, err := datetime.OffsetDate(date, datetime.DateTimeLayout, -1)
	if err != nil {
		return 0, 0, err
	}
	balance, err := l.CurrentBalance(previousMonth)
	if err != nil {
		return 0, 0, err
	}
	interest, err := l.DayCount.Interest(balance, rate, date, nextMonth)
	if err != nil {
		return 0, 0, err
	}

	principal := 0.0
	if payment := l.MonthlyPayment(); payment != 0 {
		principal = payment - interest
	}
	return interest, principal, nil
}

// PaymentInfo snaps to the latest schedule row at or before the given date
// and returns its components, or a zero detail carrying the current balance
// when the date falls outside the loan's active window.
func (l *Loan) PaymentInfo(paymentDate string) (PaymentDetail, error) {
	before, err := datetime.DateBeforeDate(paymentDate, l.OriginationDate)
	if err != nil {
		return PaymentDetail{}, err
	}
	after, err := datetime.DateAfterDate(paymentDate, l.MaturityDate)
	if err != nil {
		return PaymentDetail{}, err
	}
	if before || after {
		balance, err := l.CurrentBalance(paymentDate)
		if err != nil {
			return PaymentDetail{}, err
		}
		return PaymentDetail{RemainingBalance: balance}, nil
	}

	schedule, err := l.Schedule()
	if err != nil {
		return PaymentDetail{}, err
	}
	index, err := l.rowIndex(paymentDate)
	if err != nil {
		return PaymentDetail{}, err
	}
	row := schedule[index]
	return PaymentDetail{
		Interest:         row.Interest,
		Principal:        row.Principal,
		TotalPayment:     row.Payment,
		RemainingBalance: row.EndingBalance,
	}, nil
}

// DebtService returns the scheduled payment for the month starting at the
// given date: interest only inside the interest-only window, the level
// payment afterward, zero outside the active window.
func (l *Loan) DebtService(date string) (float64, error) {
	before, err := datetime.DateBeforeDate(date, l.OriginationDate)
	if err != nil {
		return 0, err
	}
	after, err := datetime.DateAfterDate(date, l.MaturityDate)
	if err != nil {
		return 0, err
	}
	if before || after {
		return 0, nil
	}

	monthsFromOrigination, err := datetime.MonthsBetween(l.OriginationDate, date)
	if err != nil {
		return 0, err
	}
	if monthsFromOrigination < l.InterestOnlyPeriod {
		nextMonth, err := datetime.OffsetDate(date, datetime.DateTimeLayout, 1)
		if err != nil {
			return 0, err
		}
		return l.DayCount.Interest(l.OriginalBalance, l.periodRate(date), date, nextMonth)
	}
	return l.MonthlyPayment(), nil
}
