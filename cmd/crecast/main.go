package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dunphycap/crecast/internal/config"
	"github.com/dunphycap/crecast/internal/ingest"
	"github.com/dunphycap/crecast/internal/loan"
	"github.com/dunphycap/crecast/internal/rates"
	"github.com/dunphycap/crecast/internal/server"
	"github.com/dunphycap/crecast/pkg/constants"
	"github.com/dunphycap/crecast/pkg/output"
	"github.com/dunphycap/crecast/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to portfolio document")
	financialsLocation := flag.String("financials", "", "optional path to NOI/CapEx CSV feed")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	curveURL := flag.String("curve-url", "", "forward curve endpoint override")
	listen := flag.String("listen", "", "run the statement API on this address instead of printing output")
	flag.Parse()

	// Load the document to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Resolve the forward curve once; fixed-rate portfolios skip the fetch.
	var provider loan.RateProvider
	if conf.HasFloatingLoans() || *listen != "" {
		client := rates.NewClient(*curveURL, time.Hour, logger)
		provider = client.MonthlyRates()
	}

	if *listen != "" {
		handler := server.NewHandler(logger, constants.DefaultMaxUploadSizeBytes, version, provider)
		logger.Info("starting statement API",
			zap.String("op", "main"),
			zap.String("address", *listen),
		)
		if err := http.ListenAndServe(*listen, handler); err != nil {
			logger.Fatal("server stopped",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate the document and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Build the entity graph.
	pf, err := conf.BuildPortfolio(logger, provider)
	if err != nil {
		logger.Fatal("failed to build portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Attach the NOI/CapEx feed if one was provided.
	if *financialsLocation != "" {
		records, err := ingest.LoadFinancialFeed(*financialsLocation)
		if err != nil {
			logger.Fatal("failed to load financial feed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if err := ingest.Apply(logger, pf, records); err != nil {
			logger.Fatal("failed to apply financial feed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	// Aggregate the portfolio statement and the monthly cash view.
	aggregate, err := pf.Aggregate("", "")
	if err != nil {
		logger.Fatal("failed to aggregate portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	cash, err := pf.MonthlyCash("", "")
	if err != nil {
		logger.Fatal("failed to compute monthly cash",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(pf.Name, aggregate)
		output.PrettyFormat(pf.Name+" monthly cash", cash)
	case constants.OutputFormatCSV:
		output.CsvFormat(aggregate)
	}
}
