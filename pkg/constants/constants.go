// Package constants provides shared constants for the payoff-chart application.
package constants

// Analysis constants
const (
	// RoundingPlaces is the number of decimal places break-even points are
	// rounded to.
	RoundingPlaces int32 = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Quote file format constants
const (
	// QuoteFormatJSON reads quotes from a JSON array
	QuoteFormatJSON = "json"

	// QuoteFormatCSV reads quotes from a CSV file with a header row
	QuoteFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is the dotenv file loaded when present
	DefaultEnvFile = ".env"

	// EnvPrefix is the prefix for environment overrides of config keys
	EnvPrefix = "PAYOFF"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for quote files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Chart defaults
const (
	DefaultChartTitle     = "Options Strategy Risk & Reward Analysis"
	DefaultChartPageTitle = "Payoff Chart"
	DefaultChartWidth     = 800
	DefaultChartHeight    = 600
	DefaultMaxMarkerColor = "#71ffbe"
	DefaultMinMarkerColor = "#ff758e"
	DefaultSeriesName     = "Profit/Loss"
)

// Logging defaults for rotated log files
const (
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 7
	DefaultLogMaxAgeDays = 30
)
