// Package property defines the property entity, its ownership timeline, and
// the per-property monthly cash-flow builder.
package property

import (
	"fmt"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/pkg/datetime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Financial is one month of operating results for a property.
type Financial struct {
	NetOperatingIncome  float64
	CapitalExpenditures float64
}

// Params holds the construction parameters for a property. Dates may be full
// calendar dates or months; both are normalized to month start.
type Params struct {
	PropertyID        string
	Name              string
	Address           string
	PropertyType      string
	SquareFootage     float64
	YearBuilt         int
	PurchasePrice     float64
	PurchaseDate      string
	AnalysisStartDate string
	AnalysisEndDate   string
	CurrentValue      float64
	OwnershipShare    float64
}

// Property is a single asset with its loans, operating results, and
// ownership timeline. All internal dates are month starts. The cash-flow
// table is derived on demand; callers must treat any mutation as invalidating
// previously built tables.
type Property struct {
	ID            string
	Name          string
	Address       string
	PropertyType  string
	SquareFootage float64
	YearBuilt     int

	PurchasePrice     float64
	PurchaseDate      string
	AnalysisStartDate string
	AnalysisEndDate   string
	CurrentValue      float64

	SaleDate     string
	SalePrice    float64
	BuyoutDate   string
	BuyoutAmount float64

	Loans      []*loan.Loan
	Financials map[string]Financial
	Ownership  *OwnershipTimeline

	logger *zap.Logger
}

// New validates the parameters and builds a property with a uniform ownership
// timeline over its analysis window.
func New(params Params, logger *zap.Logger) (*Property, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	purchaseDate, err := datetime.MonthStart(params.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchaseDate %q: %w", params.PurchaseDate, err)
	}
	analysisStart, err := datetime.MonthStart(params.AnalysisStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid analysisStartDate %q: %w", params.AnalysisStartDate, err)
	}
	analysisEnd, err := datetime.MonthStart(params.AnalysisEndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid analysisEndDate %q: %w", params.AnalysisEndDate, err)
	}
	startAfterEnd, err := datetime.DateAfterDate(analysisStart, analysisEnd)
	if err != nil {
		return nil, err
	}
	if startAfterEnd {
		return nil, fmt.Errorf("analysisStartDate %s must not be after analysisEndDate %s", analysisStart, analysisEnd)
	}

	if params.PurchasePrice < 0 {
		return nil, fmt.Errorf("purchasePrice must be non-negative, got %.2f", params.PurchasePrice)
	}

	share := params.OwnershipShare
	if share == 0 {
		share = 1.0
	}
	ownership, err := NewOwnershipTimeline(analysisStart, analysisEnd, share)
	if err != nil {
		return nil, err
	}

	currentValue := params.CurrentValue
	if currentValue == 0 {
		currentValue = params.PurchasePrice
	}

	id := params.PropertyID
	if id == "" {
		id = uuid.NewString()
	}

	return &Property{
		ID:                id,
		Name:              params.Name,
		Address:           params.Address,
		PropertyType:      params.PropertyType,
		SquareFootage:     params.SquareFootage,
		YearBuilt:         params.YearBuilt,
		PurchasePrice:     params.PurchasePrice,
		PurchaseDate:      purchaseDate,
		AnalysisStartDate: analysisStart,
		AnalysisEndDate:   analysisEnd,
		CurrentValue:      currentValue,
		Financials:        make(map[string]Financial),
		Ownership:         ownership,
		logger:            logger,
	}, nil
}

// AddLoan attaches a loan to the property.
func (p *Property) AddLoan(l *loan.Loan) {
	p.Loans = append(p.Loans, l)
}

// RemoveLoan detaches the loan with the given ID.
func (p *Property) RemoveLoan(loanID string) {
	kept := p.Loans[:0]
	for _, l := range p.Loans {
		if l.ID != loanID {
			kept = append(kept, l)
		}
	}
	p.Loans = kept
}

// SetFinancial records one month of NOI and CapEx, normalizing the date to
// month start.
func (p *Property) SetFinancial(date string, noi, capex float64) error {
	month, err := datetime.MonthStart(date)
	if err != nil {
		return err
	}
	p.Financials[month] = Financial{NetOperatingIncome: noi, CapitalExpenditures: capex}
	return nil
}

// UpdateOwnershipShare rewrites the ownership timeline from the given month
// forward.
func (p *Property) UpdateOwnershipShare(date string, share float64) error {
	return p.Ownership.UpdateFrom(date, share)
}

// BuyOutPartner records a partner buyout: ownership becomes 1.0 from the
// buyout month forward and the buyout consideration posts at that month.
func (p *Property) BuyOutPartner(date string, amount float64) error {
	month, err := datetime.MonthStart(date)
	if err != nil {
		return err
	}
	if err := p.Ownership.UpdateFrom(month, 1.0); err != nil {
		return err
	}
	p.BuyoutDate = month
	p.BuyoutAmount = amount
	p.logger.Debug(fmt.Sprintf("property %s: partner bought out for %.2f", p.ID, amount),
		zap.String("op", "property.BuyOutPartner"),
		zap.String("date", month),
	)
	return nil
}

// SellProperty schedules a sale. The sale month must be after the purchase
// month and the price positive; the property's cash flows end at the sale.
func (p *Property) SellProperty(date string, price float64) error {
	month, err := datetime.MonthStart(date)
	if err != nil {
		return err
	}
	beforePurchase, err := datetime.DateBeforeDate(month, p.PurchaseDate)
	if err != nil {
		return err
	}
	if beforePurchase || month == p.PurchaseDate {
		return fmt.Errorf("saleDate %s must be after purchaseDate %s", month, p.PurchaseDate)
	}
	if price <= 0 {
		return fmt.Errorf("salePrice must be positive, got %.2f", price)
	}

	p.SaleDate = month
	p.SalePrice = price
	p.CurrentValue = price
	p.logger.Debug(fmt.Sprintf("property %s: sale scheduled for %.2f", p.ID, price),
		zap.String("op", "property.SellProperty"),
		zap.String("date", month),
	)
	return nil
}

// Equity returns current value less outstanding loan balances as of the given
// month.
func (p *Property) Equity(asOfDate string) (float64, error) {
	balance, err := p.loanBalance(asOfDate)
	if err != nil {
		return 0, err
	}
	return p.CurrentValue - balance, nil
}

// LTV returns the loan-to-value ratio as of the given month, zero for an
// unencumbered property or one with no current value.
func (p *Property) LTV(asOfDate string) (float64, error) {
	if p.CurrentValue == 0 {
		return 0, nil
	}
	balance, err := p.loanBalance(asOfDate)
	if err != nil {
		return 0, err
	}
	return balance / p.CurrentValue, nil
}

func (p *Property) loanBalance(asOfDate string) (float64, error) {
	month, err := datetime.MonthStart(asOfDate)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, l := range p.Loans {
		balance, err := l.CurrentBalance(month)
		if err != nil {
			return 0, err
		}
		total += balance
	}
	return total, nil
}
