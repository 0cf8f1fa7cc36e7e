// Package loan defines the loan entity and computes its amortization
// schedule, balances, and payment lookups.
package loan

import (
	"fmt"

	"github.com/dunphycap/crecast/pkg/daycount"
	"github.com/dunphycap/crecast/pkg/datetime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateMode selects between a fixed note rate and a floating rate built from a
// projected curve plus a spread.
type RateMode string

const (
	// RateFixed uses the loan's note rate for every period.
	RateFixed RateMode = "Fixed"

	// RateFloating uses the curve rate for each period's start month plus the
	// loan's spread.
	RateFloating RateMode = "Floating"
)

// RateProvider supplies projected annual rates (decimal) by month start. A
// missing month is not an error; the period falls back to rate zero plus
// spread.
type RateProvider interface {
	Rate(month string) (float64, bool)
}

// Terms holds the construction parameters for a loan. Dates may be given as
// full calendar dates or as months; both are normalized to month start.
type Terms struct {
	LoanID             string
	OriginationDate    string
	MaturityDate       string
	OriginalBalance    float64
	NoteRate           float64 // decimal, Fixed mode
	Spread             float64 // decimal, Floating mode
	RateMode           RateMode
	InterestOnlyPeriod int // months
	AmortizationPeriod int // months, 0 for interest-only bullet
	DayCountMethod     string
}

// Loan is a single loan with derived amortization state. Terms are validated
// at construction; the schedule is recomputed from origination forward on
// Recompute after any batch of term mutations.
type Loan struct {
	ID                 string
	OriginationDate    string
	MaturityDate       string
	OriginalBalance    float64
	NoteRate           float64
	Spread             float64
	Mode               RateMode
	InterestOnlyPeriod int
	AmortizationPeriod int
	DayCount           daycount.Convention
	TotalMonths        int

	rates    RateProvider
	schedule []ScheduleRow
	dirty    bool
	logger   *zap.Logger
}

// ScheduleRow is one month of the amortization schedule. The first row is the
// origination disbursement; every following row's beginning balance equals the
// prior row's ending balance.
type ScheduleRow struct {
	Date             string
	BeginningBalance float64
	Interest         float64
	Principal        float64
	Payment          float64
	EndingBalance    float64
}

// PaymentDetail is the snapshot returned by PaymentInfo.
type PaymentDetail struct {
	Interest         float64
	Principal        float64
	TotalPayment     float64
	RemainingBalance float64
}

// New validates the terms, normalizes dates to month start, and computes the
// initial schedule. Invalid terms are fatal construction errors and identify
// the offending field.
func New(terms Terms, logger *zap.Logger) (*Loan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	origination, err := datetime.MonthStart(terms.OriginationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid originationDate %q: %w", terms.OriginationDate, err)
	}
	maturity, err := datetime.MonthStart(terms.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("invalid maturityDate %q: %w", terms.MaturityDate, err)
	}

	totalMonths, err := datetime.MonthsBetween(origination, maturity)
	if err != nil {
		return nil, err
	}
	if totalMonths <= 0 {
		return nil, fmt.Errorf("originationDate %s must be before maturityDate %s", origination, maturity)
	}

	if terms.OriginalBalance <= 0 {
		return nil, fmt.Errorf("originalBalance must be positive, got %.2f", terms.OriginalBalance)
	}

	mode := terms.RateMode
	if mode == "" {
		mode = RateFixed
	}
	switch mode {
	case RateFixed:
		if terms.NoteRate < 0 || terms.NoteRate >= 1 {
			return nil, fmt.Errorf("noteRate must be a decimal in [0, 1), got %f", terms.NoteRate)
		}
	case RateFloating:
		if terms.Spread < 0 || terms.Spread >= 1 {
			return nil, fmt.Errorf("spread must be a decimal in [0, 1), got %f", terms.Spread)
		}
	default:
		return nil, fmt.Errorf("invalid rateMode %q, expected %q or %q", terms.RateMode, RateFixed, RateFloating)
	}

	if terms.InterestOnlyPeriod < 0 {
		return nil, fmt.Errorf("interestOnlyPeriod must be non-negative, got %d", terms.InterestOnlyPeriod)
	}
	if terms.AmortizationPeriod < 0 {
		return nil, fmt.Errorf("amortizationPeriod must be non-negative, got %d", terms.AmortizationPeriod)
	}

	convention, err := daycount.Parse(terms.DayCountMethod)
	if err != nil {
		return nil, err
	}

	id := terms.LoanID
	if id == "" {
		id = uuid.NewString()
	}

	l := &Loan{
		ID:                 id,
		OriginationDate:    origination,
		MaturityDate:       maturity,
		OriginalBalance:    terms.OriginalBalance,
		NoteRate:           terms.NoteRate,
		Spread:             terms.Spread,
		Mode:               mode,
		InterestOnlyPeriod: terms.InterestOnlyPeriod,
		AmortizationPeriod: terms.AmortizationPeriod,
		DayCount:           convention,
		TotalMonths:        totalMonths,
		logger:             logger,
	}

	if err := l.Recompute(); err != nil {
		return nil, err
	}
	return l, nil
}

// SetAmortizationPeriod updates the amortization period. The schedule is stale
// until Recompute is called.
func (l *Loan) SetAmortizationPeriod(months int) error {
	if months < 0 {
		return fmt.Errorf("amortizationPeriod must be non-negative, got %d", months)
	}
	l.AmortizationPeriod = months
	l.dirty = true
	return nil
}

// SetNoteRate updates the fixed note rate. The schedule is stale until
// Recompute is called.
func (l *Loan) SetNoteRate(rate float64) error {
	if rate < 0 || rate >= 1 {
		return fmt.Errorf("noteRate must be a decimal in [0, 1), got %f", rate)
	}
	l.NoteRate = rate
	l.dirty = true
	return nil
}

// SetRates injects the floating-rate provider. The provider is resolved and
// cached by the caller; the loan only reads months from it. The schedule is
// stale until Recompute is called.
func (l *Loan) SetRates(provider RateProvider) {
	l.rates = provider
	l.dirty = true
}

// periodRate returns the annual rate (decimal) applicable to the period
// starting at the given month.
func (l *Loan) periodRate(month string) float64 {
	if l.Mode == RateFixed {
		return l.NoteRate
	}
	if l.rates == nil {
		return l.Spread
	}
	rate, ok := l.rates.Rate(month)
	if !ok {
		rate = 0
	}
	return rate + l.Spread
}
