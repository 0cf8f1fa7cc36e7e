// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/dunphycap/crecast/pkg/constants"
)

const (
	// DateTimeLayout is the month format used throughout crecast for table keys
	// and for dates in configuration documents.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthStart normalizes a full calendar date (2006-01-02) to its month in the
// internal month layout. A date already in the month layout passes through.
func MonthStart(date string) (string, error) {
	if t, err := time.Parse(DateTimeLayout, date); err == nil {
		return t.Format(DateTimeLayout), nil
	}
	t, err := time.Parse(constants.FullDateLayout, date)
	if err != nil {
		return date, err
	}
	return t.Format(DateTimeLayout), nil
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}

// DateAfterDate returns true if firstDate is strictly after secondDate.
func DateAfterDate(firstDate string, secondDate string) (bool, error) {
	return DateBeforeDate(secondDate, firstDate)
}

// MinDate returns the earlier of two month-layout dates.
func MinDate(firstDate, secondDate string) (string, error) {
	before, err := DateBeforeDate(firstDate, secondDate)
	if err != nil {
		return firstDate, err
	}
	if before {
		return firstDate, nil
	}
	return secondDate, nil
}

// MaxDate returns the later of two month-layout dates.
func MaxDate(firstDate, secondDate string) (string, error) {
	before, err := DateBeforeDate(firstDate, secondDate)
	if err != nil {
		return firstDate, err
	}
	if before {
		return secondDate, nil
	}
	return firstDate, nil
}

// MonthsBetween returns the number of whole months from firstDate to
// secondDate; negative if secondDate precedes firstDate.
func MonthsBetween(firstDate, secondDate string) (int, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return 0, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return 0, err
	}
	return (secondDateT.Year()-firstDateT.Year())*constants.MonthsPerYear +
		int(secondDateT.Month()) - int(firstDateT.Month()), nil
}

// DaysBetween returns the number of calendar days from the start of firstDate's
// month to the start of secondDate's month. Used by the Actual/360 and
// Actual/365 day-count conventions.
func DaysBetween(firstDate, secondDate string) (int, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return 0, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return 0, err
	}
	return int(secondDateT.Sub(firstDateT).Hours() / 24), nil
}

// MonthRange returns every month from startDate through endDate inclusive, in
// order. An endDate before startDate yields an empty slice.
func MonthRange(startDate, endDate string) ([]string, error) {
	startT, err := time.Parse(DateTimeLayout, startDate)
	if err != nil {
		return nil, err
	}
	endT, err := time.Parse(DateTimeLayout, endDate)
	if err != nil {
		return nil, err
	}

	var months []string
	for t := startT; !t.After(endT); t = t.AddDate(0, 1, 0) {
		months = append(months, t.Format(DateTimeLayout))
	}
	return months, nil
}
