// Package statement provides the month-indexed, fixed-column cash-flow table
// shared by the property builder and the portfolio aggregator.
package statement

import (
	"sort"

	"github.com/dunphycap/crecast/pkg/datetime"
)

// Statement is an ordered cash-flow table: one row per month over a range,
// one cell per named column. Reads of absent cells are zero, so every derived
// view sees a complete, gap-free table.
type Statement struct {
	columns []string
	rows    map[string]map[string]float64
}

// New initializes a zero-filled statement over [startDate, endDate] with the
// given column order.
func New(startDate, endDate string, columns []string) (*Statement, error) {
	months, err := datetime.MonthRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	st := &Statement{
		columns: append([]string(nil), columns...),
		rows:    make(map[string]map[string]float64, len(months)),
	}
	for _, month := range months {
		st.rows[month] = make(map[string]float64, len(columns))
	}
	return st, nil
}

// Columns returns the statement's column order.
func (st *Statement) Columns() []string {
	return append([]string(nil), st.columns...)
}

// Dates returns the statement's months in ascending order.
func (st *Statement) Dates() []string {
	dates := make([]string, 0, len(st.rows))
	for date := range st.rows {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Covers reports whether the statement has a row for the given month.
func (st *Statement) Covers(date string) bool {
	_, ok := st.rows[date]
	return ok
}

// Get returns the cell value, zero for any absent date or column.
func (st *Statement) Get(date, column string) float64 {
	row, ok := st.rows[date]
	if !ok {
		return 0
	}
	return row[column]
}

// Set overwrites a cell. Dates outside the statement's range are ignored so
// callers can post events without range checks.
func (st *Statement) Set(date, column string, value float64) {
	row, ok := st.rows[date]
	if !ok {
		return
	}
	row[column] = value
}

// Add accumulates into a cell, ignoring dates outside the range.
func (st *Statement) Add(date, column string, value float64) {
	row, ok := st.rows[date]
	if !ok {
		return
	}
	row[column] += value
}

// Row returns a copy of the named columns for one month, zero-filled.
func (st *Statement) Row(date string) map[string]float64 {
	out := make(map[string]float64, len(st.columns))
	for _, column := range st.columns {
		out[column] = st.Get(date, column)
	}
	return out
}

// RowTotal sums the row across the statement's columns, skipping any columns
// named in skip.
func (st *Statement) RowTotal(date string, skip ...string) float64 {
	skipped := make(map[string]bool, len(skip))
	for _, column := range skip {
		skipped[column] = true
	}
	total := 0.0
	for _, column := range st.columns {
		if skipped[column] {
			continue
		}
		total += st.Get(date, column)
	}
	return total
}

// AddStatement accumulates another statement elementwise. Only this
// statement's dates and columns receive values; the other statement's extra
// dates and columns contribute zero.
func (st *Statement) AddStatement(other *Statement) {
	if other == nil {
		return
	}
	for date, row := range st.rows {
		for _, column := range st.columns {
			row[column] += other.Get(date, column)
		}
	}
}

// Clip returns a copy restricted to [startDate, endDate]; months outside the
// original range are absent from the result, not zero-filled.
func (st *Statement) Clip(startDate, endDate string) (*Statement, error) {
	months, err := datetime.MonthRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	clipped := &Statement{
		columns: append([]string(nil), st.columns...),
		rows:    make(map[string]map[string]float64),
	}
	for _, month := range months {
		row, ok := st.rows[month]
		if !ok {
			continue
		}
		copied := make(map[string]float64, len(row))
		for column, value := range row {
			copied[column] = value
		}
		clipped.rows[month] = copied
	}
	return clipped, nil
}
