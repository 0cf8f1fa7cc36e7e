// Package constants provides shared constants for crecast.
package constants

// DateTimeLayout is the month format used for all internal table keys and is
// also the output date format.
const DateTimeLayout = "2006-01"

// FullDateLayout is the format accepted for full calendar dates in
// configuration documents and ingestion feeds; such dates are normalized to
// month start on load.
const FullDateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ToleranceForComparison is the tolerance for financial comparisons
	ToleranceForComparison = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "portfolio.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML documents (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Rate curve defaults
const (
	// DefaultCurveURL is the forward curve endpoint queried for floating rates
	DefaultCurveURL = "https://www.chathamfinancial.com/getrates/285116"
)
