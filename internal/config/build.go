// Package config defines conversion from the portfolio document to the
// engine's entity graph.
package config

import (
	"fmt"

	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/portfolio"
	"github.com/dunphycap/crecast/internal/property"
	"github.com/dunphycap/crecast/pkg/constants"
	"go.uber.org/zap"
)

// BuildPortfolio converts the document into the entity graph, validating
// every record. Construction errors are fatal and identify the offending
// entity. The rate provider is consulted only by floating-rate loans; it may
// be nil when the document has none.
func (conf *Configuration) BuildPortfolio(logger *zap.Logger, provider loan.RateProvider) (*portfolio.Portfolio, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pf, err := portfolio.New(conf.Portfolio.Name, conf.Portfolio.StartDate, conf.Portfolio.EndDate, logger)
	if err != nil {
		return nil, fmt.Errorf("portfolio %q: %w", conf.Portfolio.Name, err)
	}
	pf.BeginningCash = conf.Portfolio.BeginningCash

	for i := range conf.Properties {
		p, err := conf.Properties[i].build(logger, provider)
		if err != nil {
			return nil, err
		}
		pf.AddProperty(p)
	}

	for i := range conf.UnsecuredLoans {
		l, err := conf.UnsecuredLoans[i].build(logger, provider)
		if err != nil {
			return nil, fmt.Errorf("unsecured loan %q: %w", conf.UnsecuredLoans[i].LoanID, err)
		}
		pf.AddUnsecuredLoan(l)
	}

	for _, flow := range conf.CapitalFlows {
		if err := pf.AddCapitalFlow(flow.Date, flow.CapitalCall, flow.RedemptionPayment); err != nil {
			return nil, fmt.Errorf("capital flow at %q: %w", flow.Date, err)
		}
	}

	return pf, nil
}

func (pc *PropertyConfig) build(logger *zap.Logger, provider loan.RateProvider) (*property.Property, error) {
	p, err := property.New(property.Params{
		PropertyID:        pc.PropertyID,
		Name:              pc.Name,
		Address:           pc.Address,
		PropertyType:      pc.PropertyType,
		SquareFootage:     pc.SquareFootage,
		YearBuilt:         pc.YearBuilt,
		PurchasePrice:     pc.PurchasePrice,
		PurchaseDate:      pc.PurchaseDate,
		AnalysisStartDate: pc.AnalysisStartDate,
		AnalysisEndDate:   pc.AnalysisEndDate,
		CurrentValue:      pc.CurrentValue,
		OwnershipShare:    pc.OwnershipShare,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}

	for i := range pc.Loans {
		l, err := pc.Loans[i].build(logger, provider)
		if err != nil {
			return nil, fmt.Errorf("property %q loan %q: %w", pc.Name, pc.Loans[i].LoanID, err)
		}
		p.AddLoan(l)
	}

	for _, financial := range pc.Financials {
		if err := p.SetFinancial(financial.Date, financial.NetOperatingIncome, financial.CapitalExpenditures); err != nil {
			return nil, fmt.Errorf("property %q financial at %q: %w", pc.Name, financial.Date, err)
		}
	}

	if pc.SaleDate != "" {
		if err := p.SellProperty(pc.SaleDate, pc.SalePrice); err != nil {
			return nil, fmt.Errorf("property %q: %w", pc.Name, err)
		}
	}

	if pc.BuyoutDate != "" {
		if err := p.BuyOutPartner(pc.BuyoutDate, pc.BuyoutAmount); err != nil {
			return nil, fmt.Errorf("property %q: %w", pc.Name, err)
		}
	}

	return p, nil
}

// build converts a loan record to the entity, dividing percentage rates down
// to decimals and wiring the rate provider into floating-rate loans.
func (lc *LoanConfig) build(logger *zap.Logger, provider loan.RateProvider) (*loan.Loan, error) {
	mode := loan.RateMode(lc.RateMode)
	if lc.RateMode == "" {
		mode = loan.RateFixed
	}

	l, err := loan.New(loan.Terms{
		LoanID:             lc.LoanID,
		OriginationDate:    lc.OriginationDate,
		MaturityDate:       lc.MaturityDate,
		OriginalBalance:    lc.OriginalBalance,
		NoteRate:           lc.NoteRate / constants.PercentageMultiplier,
		Spread:             lc.Spread / constants.PercentageMultiplier,
		RateMode:           mode,
		InterestOnlyPeriod: lc.InterestOnlyPeriod,
		AmortizationPeriod: lc.AmortizationPeriod,
		DayCountMethod:     lc.DayCountMethod,
	}, logger)
	if err != nil {
		return nil, err
	}

	if mode == loan.RateFloating && provider != nil {
		l.SetRates(provider)
		if err := l.Recompute(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// HasFloatingLoans reports whether any loan in the document needs the
// forward curve, so callers can skip the network fetch entirely for
// fixed-rate portfolios.
func (conf *Configuration) HasFloatingLoans() bool {
	for _, l := range conf.UnsecuredLoans {
		if loan.RateMode(l.RateMode) == loan.RateFloating {
			return true
		}
	}
	for _, p := range conf.Properties {
		for _, l := range p.Loans {
			if loan.RateMode(l.RateMode) == loan.RateFloating {
				return true
			}
		}
	}
	return false
}
