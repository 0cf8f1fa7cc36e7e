// Package daycount implements the day-count conventions used to accrue
// period interest on loan balances.
package daycount

import (
	"fmt"

	"github.com/dunphycap/crecast/pkg/datetime"
)

// Convention identifies a day-count method.
type Convention string

const (
	// Thirty360 treats every month as 30 days over a 360-day year.
	Thirty360 Convention = "30/360"

	// Actual360 uses actual calendar days over a 360-day year.
	Actual360 Convention = "Actual/360"

	// Actual365 uses actual calendar days over a 365-day year.
	Actual365 Convention = "Actual/365"
)

// Parse validates a day-count method string. An unknown method is a
// construction-time error on the owning loan.
func Parse(method string) (Convention, error) {
	switch Convention(method) {
	case Thirty360, Actual360, Actual365:
		return Convention(method), nil
	default:
		return "", fmt.Errorf("invalid day count method %q, expected one of %q, %q, %q",
			method, Thirty360, Actual360, Actual365)
	}
}

// Interest computes the interest accrued on balance at the given annual rate
// (decimal) between two month-layout dates. For 30/360 one month always
// accrues balance*rate*30/360 regardless of the calendar span.
func (c Convention) Interest(balance, annualRate float64, startDate, endDate string) (float64, error) {
	var days int
	var yearBasis float64

	switch c {
	case Thirty360:
		days = 30
		yearBasis = 360
	case Actual360:
		actual, err := datetime.DaysBetween(startDate, endDate)
		if err != nil {
			return 0, err
		}
		days = actual
		yearBasis = 360
	case Actual365:
		actual, err := datetime.DaysBetween(startDate, endDate)
		if err != nil {
			return 0, err
		}
		days = actual
		yearBasis = 365
	default:
		return 0, fmt.Errorf("invalid day count method %q", string(c))
	}

	return balance * annualRate * float64(days) / yearBasis, nil
}
