package property

import (
	"fmt"

	"github.com/dunphycap/crecast/pkg/datetime"
)

// OwnershipTimeline is a month-keyed series of ownership fractions for one
// property. It is populated uniformly over the analysis window at
// construction; UpdateFrom rewrites the series from a given month forward,
// which is how partner buyouts take effect.
type OwnershipTimeline struct {
	endDate string
	shares  map[string]float64
}

// NewOwnershipTimeline populates one entry per month in [startDate, endDate]
// with the given fraction.
func NewOwnershipTimeline(startDate, endDate string, fraction float64) (*OwnershipTimeline, error) {
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("ownership fraction must be in [0, 1], got %f", fraction)
	}
	months, err := datetime.MonthRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	shares := make(map[string]float64, len(months))
	for _, month := range months {
		shares[month] = fraction
	}
	return &OwnershipTimeline{endDate: endDate, shares: shares}, nil
}

// Share returns the ownership fraction in effect for the given month, 1.0
// when the timeline has no entry for it.
func (ot *OwnershipTimeline) Share(date string) float64 {
	share, ok := ot.shares[date]
	if !ok {
		return 1.0
	}
	return share
}

// UpdateFrom overwrites every entry at or after the given month with the new
// fraction, then extends the series monthly through the analysis end so that
// months beyond the previously known range also carry it.
func (ot *OwnershipTimeline) UpdateFrom(date string, fraction float64) error {
	if fraction < 0 || fraction > 1 {
		return fmt.Errorf("ownership fraction must be in [0, 1], got %f", fraction)
	}
	month, err := datetime.MonthStart(date)
	if err != nil {
		return err
	}

	latest := month
	for existing := range ot.shares {
		before, err := datetime.DateBeforeDate(existing, month)
		if err != nil {
			return err
		}
		if !before {
			ot.shares[existing] = fraction
		}
		latest, err = datetime.MaxDate(latest, existing)
		if err != nil {
			return err
		}
	}

	extension, err := datetime.MonthRange(latest, ot.endDate)
	if err != nil {
		return err
	}
	for _, extended := range extension {
		ot.shares[extended] = fraction
	}
	return nil
}
