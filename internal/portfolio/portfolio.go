// Package portfolio aggregates property tables, unsecured-loan schedules, and
// capital flows into a single portfolio statement with derived monthly-cash
// and DSCR views.
package portfolio

import (
	"fmt"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/property"
	"github.com/dunphycap/crecast/pkg/datetime"
	"go.uber.org/zap"
)

// CapitalFlow is an ad-hoc dated entry: capital called in from investors or
// redemption paid out to them. Amounts are entered positive.
type CapitalFlow struct {
	CapitalCall       float64
	RedemptionPayment float64
}

// Portfolio is the aggregation root: properties, unsecured loans, capital
// flows, and an optional beginning cash balance, owned by the caller and
// never shared across concurrent operations.
type Portfolio struct {
	Name          string
	StartDate     string
	EndDate       string
	BeginningCash float64

	properties     []*property.Property
	unsecuredLoans []*loan.Loan
	capitalFlows   map[string]CapitalFlow

	logger *zap.Logger
}

// New builds an empty portfolio over [startDate, endDate].
func New(name, startDate, endDate string, logger *zap.Logger) (*Portfolio, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start, err := datetime.MonthStart(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q: %w", startDate, err)
	}
	end, err := datetime.MonthStart(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate %q: %w", endDate, err)
	}
	startAfterEnd, err := datetime.DateAfterDate(start, end)
	if err != nil {
		return nil, err
	}
	if startAfterEnd {
		return nil, fmt.Errorf("startDate %s must not be after endDate %s", start, end)
	}

	return &Portfolio{
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		capitalFlows: make(map[string]CapitalFlow),
		logger:       logger,
	}, nil
}

// AddProperty appends a property to the portfolio.
func (pf *Portfolio) AddProperty(p *property.Property) {
	pf.properties = append(pf.properties, p)
}

// RemoveProperty drops the property with the given ID.
func (pf *Portfolio) RemoveProperty(propertyID string) {
	kept := pf.properties[:0]
	for _, p := range pf.properties {
		if p.ID != propertyID {
			kept = append(kept, p)
		}
	}
	pf.properties = kept
}

// Property returns the property with the given ID.
func (pf *Portfolio) Property(propertyID string) (*property.Property, error) {
	for _, p := range pf.properties {
		if p.ID == propertyID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("property %s not found in portfolio %s", propertyID, pf.Name)
}

// Properties returns the portfolio's properties in insertion order.
func (pf *Portfolio) Properties() []*property.Property {
	return pf.properties
}

// AddUnsecuredLoan appends a loan held at the portfolio level.
func (pf *Portfolio) AddUnsecuredLoan(l *loan.Loan) {
	pf.unsecuredLoans = append(pf.unsecuredLoans, l)
}

// RemoveUnsecuredLoan drops the unsecured loan with the given ID.
func (pf *Portfolio) RemoveUnsecuredLoan(loanID string) {
	kept := pf.unsecuredLoans[:0]
	for _, l := range pf.unsecuredLoans {
		if l.ID != loanID {
			kept = append(kept, l)
		}
	}
	pf.unsecuredLoans = kept
}

// UnsecuredLoan returns the unsecured loan with the given ID.
func (pf *Portfolio) UnsecuredLoan(loanID string) (*loan.Loan, error) {
	for _, l := range pf.unsecuredLoans {
		if l.ID == loanID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unsecured loan %s not found in portfolio %s", loanID, pf.Name)
}

// UnsecuredLoans returns the portfolio's unsecured loans in insertion order.
func (pf *Portfolio) UnsecuredLoans() []*loan.Loan {
	return pf.unsecuredLoans
}

// AddCapitalFlow accumulates a capital call and/or redemption payment at the
// given month.
func (pf *Portfolio) AddCapitalFlow(date string, capitalCall, redemptionPayment float64) error {
	month, err := datetime.MonthStart(date)
	if err != nil {
		return err
	}
	flow := pf.capitalFlows[month]
	flow.CapitalCall += capitalCall
	flow.RedemptionPayment += redemptionPayment
	pf.capitalFlows[month] = flow
	return nil
}
