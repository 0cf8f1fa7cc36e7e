// Package config defines the portfolio document structures and includes
// functions for loading, validating, and converting the document into the
// engine's entity graph.
package config

import (
	"fmt"

	"github.com/dunphycap/crecast/pkg/constants"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DateTimeLayout is the month format expected in documents and is also the
// output date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration is the round-trippable portfolio document: one record per
// loan and property plus portfolio-level entries.
type Configuration struct {
	Portfolio      PortfolioConfig       `yaml:"portfolio"`
	Properties     []PropertyConfig      `yaml:"properties"`
	UnsecuredLoans []LoanConfig          `yaml:"unsecuredLoans"`
	CapitalFlows   []CapitalFlowConfig   `yaml:"capitalFlows"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`
	Output         OutputConfig  `yaml:"output,omitempty"`
}

// PortfolioConfig holds the portfolio-level parameters.
type PortfolioConfig struct {
	Name          string  `yaml:"name"`
	StartDate     string  `yaml:"startDate"`
	EndDate       string  `yaml:"endDate"`
	BeginningCash float64 `yaml:"beginningCash"`
}

// PropertyConfig is one property record: identity, acquisition, analysis
// window, optional sale and buyout events, nested loans, and the monthly
// financial series.
type PropertyConfig struct {
	PropertyID        string            `yaml:"propertyId"`
	Name              string            `yaml:"name"`
	Address           string            `yaml:"address"`
	PropertyType      string            `yaml:"propertyType"`
	SquareFootage     float64           `yaml:"squareFootage"`
	YearBuilt         int               `yaml:"yearBuilt"`
	PurchasePrice     float64           `yaml:"purchasePrice"`
	PurchaseDate      string            `yaml:"purchaseDate"`
	AnalysisStartDate string            `yaml:"analysisStartDate"`
	AnalysisEndDate   string            `yaml:"analysisEndDate"`
	CurrentValue      float64           `yaml:"currentValue"`
	OwnershipShare    float64           `yaml:"ownershipShare"`
	SaleDate          string            `yaml:"saleDate,omitempty"`
	SalePrice         float64           `yaml:"salePrice,omitempty"`
	BuyoutDate        string            `yaml:"buyoutDate,omitempty"`
	BuyoutAmount      float64           `yaml:"buyoutAmount,omitempty"`
	Loans             []LoanConfig      `yaml:"loans,omitempty"`
	Financials        []FinancialConfig `yaml:"financials,omitempty"`
}

// LoanConfig is one loan record. Rates are percentages (6.0 means 6%), as
// entered by users; conversion to decimals happens when the entity is built.
type LoanConfig struct {
	LoanID             string  `yaml:"loanId"`
	OriginationDate    string  `yaml:"originationDate"`
	MaturityDate       string  `yaml:"maturityDate"`
	OriginalBalance    float64 `yaml:"originalBalance"`
	NoteRate           float64 `yaml:"noteRate,omitempty"`
	Spread             float64 `yaml:"spread,omitempty"`
	RateMode           string  `yaml:"rateMode,omitempty"`
	InterestOnlyPeriod int     `yaml:"interestOnlyPeriod"`
	AmortizationPeriod int     `yaml:"amortizationPeriod"`
	DayCountMethod     string  `yaml:"dayCountMethod"`
}

// FinancialConfig is one month of NOI and CapEx for a property.
type FinancialConfig struct {
	Date                string  `yaml:"date"`
	NetOperatingIncome  float64 `yaml:"netOperatingIncome"`
	CapitalExpenditures float64 `yaml:"capitalExpenditures"`
}

// CapitalFlowConfig is one dated capital call and/or redemption payment.
type CapitalFlowConfig struct {
	Date              string  `yaml:"date"`
	CapitalCall       float64 `yaml:"capitalCall,omitempty"`
	RedemptionPayment float64 `yaml:"redemptionPayment,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// portfolio document there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ParseConfiguration decodes a YAML portfolio document from raw bytes. Used
// by the API server for uploaded documents.
func ParseConfiguration(raw []byte) (*Configuration, error) {
	var configuration Configuration
	if err := yaml.Unmarshal(raw, &configuration); err != nil {
		return nil, fmt.Errorf("unable to decode document, %s", err)
	}
	return &configuration, nil
}

// Marshal renders the configuration back to its YAML document form.
func (conf *Configuration) Marshal() ([]byte, error) {
	return yaml.Marshal(conf)
}
