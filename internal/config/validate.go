package config

import (
	"fmt"

	"github.com/dunphycap/crecast/pkg/datetime"
)

// ValidateConfiguration performs general validation of the document and
// returns warnings for soft problems. Hard violations surface later as
// construction errors in BuildPortfolio.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	portfolioEnd := conf.Portfolio.EndDate

	for _, p := range conf.Properties {
		if p.AnalysisEndDate != "" && portfolioEnd != "" {
			after, err := dateAfter(p.AnalysisEndDate, portfolioEnd)
			if err == nil && after {
				warnings = append(warnings, fmt.Sprintf(
					"Property '%s' analysis window ends after portfolio end date (%s > %s) - cash flows beyond it are clipped",
					p.Name, p.AnalysisEndDate, portfolioEnd))
			}
		}

		for _, l := range p.Loans {
			warnings = append(warnings, validateLoanWindow(fmt.Sprintf("Property '%s' loan '%s'", p.Name, l.LoanID), l, portfolioEnd)...)
		}

		if p.SaleDate != "" && p.SalePrice == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Property '%s' has a sale date but no sale price", p.Name))
		}
	}

	for _, l := range conf.UnsecuredLoans {
		warnings = append(warnings, validateLoanWindow(fmt.Sprintf("Unsecured loan '%s'", l.LoanID), l, portfolioEnd)...)
	}

	return warnings
}

// validateLoanWindow flags loans still outstanding at the portfolio end date.
func validateLoanWindow(name string, l LoanConfig, portfolioEnd string) []string {
	var warnings []string
	if l.MaturityDate == "" || portfolioEnd == "" {
		return warnings
	}
	after, err := dateAfter(l.MaturityDate, portfolioEnd)
	if err == nil && after {
		warnings = append(warnings, fmt.Sprintf(
			"%s matures after portfolio end date (%s > %s) - loan will have outstanding balance",
			name, l.MaturityDate, portfolioEnd))
	}
	return warnings
}

func dateAfter(firstDate, secondDate string) (bool, error) {
	first, err := datetime.MonthStart(firstDate)
	if err != nil {
		return false, err
	}
	second, err := datetime.MonthStart(secondDate)
	if err != nil {
		return false, err
	}
	return datetime.DateAfterDate(first, second)
}
