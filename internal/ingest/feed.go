// Package ingest loads the tabular NOI/CapEx feed and applies it to the
// portfolio's properties.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dunphycap/crecast/internal/portfolio"
	"github.com/dunphycap/crecast/pkg/datetime"
	"go.uber.org/zap"
)

// Record is one row of the feed: one property, one month.
type Record struct {
	PropertyID          string
	Date                string
	NetOperatingIncome  float64
	CapitalExpenditures float64
}

// expected feed columns, by header name
const (
	headerPropertyID = "Property ID"
	headerDate       = "Date"
	headerNOI        = "Net Operating Income"
	headerCapEx      = "Capital Expenditures"
)

// LoadFinancialFeed reads the CSV feed with columns {Property ID, Date, Net
// Operating Income, Capital Expenditures}, one row per property per month.
// Dates are normalized to month start.
func LoadFinancialFeed(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open financial feed %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadFinancialFeed(f)
}

// ReadFinancialFeed parses the feed from a reader.
func ReadFinancialFeed(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{headerPropertyID, headerDate, headerNOI, headerCapEx} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("financial feed is missing required column %q", required)
		}
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read feed row: %w", err)
		}
		line++

		month, err := datetime.MonthStart(strings.TrimSpace(row[index[headerDate]]))
		if err != nil {
			return nil, fmt.Errorf("feed row %d: invalid date %q: %w", line, row[index[headerDate]], err)
		}
		noi, err := parseAmount(row[index[headerNOI]])
		if err != nil {
			return nil, fmt.Errorf("feed row %d: invalid net operating income: %w", line, err)
		}
		capex, err := parseAmount(row[index[headerCapEx]])
		if err != nil {
			return nil, fmt.Errorf("feed row %d: invalid capital expenditures: %w", line, err)
		}

		records = append(records, Record{
			PropertyID:          strings.TrimSpace(row[index[headerPropertyID]]),
			Date:                month,
			NetOperatingIncome:  noi,
			CapitalExpenditures: capex,
		})
	}
	return records, nil
}

// parseAmount accepts plain numbers with optional surrounding whitespace; an
// empty cell is zero.
func parseAmount(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}

// Apply attaches the feed records to the matching properties. Records naming
// unknown property IDs are skipped with a warning; they are a feed/portfolio
// mismatch, not a fatal error.
func Apply(logger *zap.Logger, pf *portfolio.Portfolio, records []Record) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, record := range records {
		p, err := pf.Property(record.PropertyID)
		if err != nil {
			logger.Warn("skipping feed record for unknown property",
				zap.String("op", "ingest.Apply"),
				zap.String("propertyId", record.PropertyID),
				zap.String("date", record.Date),
			)
			continue
		}
		if err := p.SetFinancial(record.Date, record.NetOperatingIncome, record.CapitalExpenditures); err != nil {
			return err
		}
	}
	return nil
}
