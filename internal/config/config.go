// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/iwvelando/payoff-chart/internal/chart"
	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for payoff-chart.
type Configuration struct {
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Quotes   QuotesConfig   `yaml:"quotes,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
	Chart    chart.Config   `yaml:"chart,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty"`  // rotate after this many megabytes
	MaxBackups int    `yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// QuotesConfig points at the quote list to analyze. An empty File selects
// the built-in dataset.
type QuotesConfig struct {
	File string `yaml:"file,omitempty"`
}

// AnalysisConfig toggles the optional analysis steps.
type AnalysisConfig struct {
	SortByStrike        bool `yaml:"sortByStrike"`
	ZeroSampleBreakEven bool `yaml:"zeroSampleBreakEven"`
}

// Options converts the analysis settings for payoff.NewAnalyzer.
func (a AnalysisConfig) Options() payoff.Options {
	return payoff.Options{
		SortByStrike:        a.SortByStrike,
		ZeroSampleBreakEven: a.ZeroSampleBreakEven,
	}
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	opts := payoff.DefaultOptions()
	return &Configuration{
		Logging: LoggingConfig{
			MaxSizeMB:  constants.DefaultLogMaxSizeMB,
			MaxBackups: constants.DefaultLogMaxBackups,
			MaxAgeDays: constants.DefaultLogMaxAgeDays,
		},
		Output: OutputConfig{Format: constants.OutputFormatPretty},
		Analysis: AnalysisConfig{
			SortByStrike:        opts.SortByStrike,
			ZeroSampleBreakEven: opts.ZeroSampleBreakEven,
		},
		Chart: chart.DefaultConfig(),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	defaults := DefaultConfiguration()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.outputFile", defaults.Logging.OutputFile)
	v.SetDefault("logging.maxSizeMB", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.maxBackups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.maxAgeDays", defaults.Logging.MaxAgeDays)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("quotes.file", defaults.Quotes.File)
	v.SetDefault("analysis.sortByStrike", defaults.Analysis.SortByStrike)
	v.SetDefault("analysis.zeroSampleBreakEven", defaults.Analysis.ZeroSampleBreakEven)
	v.SetDefault("chart.title", defaults.Chart.Title)
	v.SetDefault("chart.pageTitle", defaults.Chart.PageTitle)
	v.SetDefault("chart.seriesName", defaults.Chart.SeriesName)
	v.SetDefault("chart.width", defaults.Chart.Width)
	v.SetDefault("chart.height", defaults.Chart.Height)
	v.SetDefault("chart.maxMarkerColor", defaults.Chart.MaxMarkerColor)
	v.SetDefault("chart.minMarkerColor", defaults.Chart.MinMarkerColor)
	v.SetDefault("chart.smooth", defaults.Chart.Smooth)
	v.SetDefault("chart.toolbox", defaults.Chart.Toolbox)
	v.SetDefault("chart.averageLine", defaults.Chart.AverageLine)
	v.SetDefault("chart.showSummary", defaults.Chart.ShowSummary)

	// PAYOFF_CHART_WIDTH overrides chart.width, and so on.
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys missing from the file keep their defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// LoadDefaults returns the defaults with environment overrides applied.
func LoadDefaults() (*Configuration, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Chart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart configuration: %w", err)
	}
	return &configuration, nil
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	colors := []struct {
		name  string
		value string
	}{
		{"maxMarkerColor", c.Chart.MaxMarkerColor},
		{"minMarkerColor", c.Chart.MinMarkerColor},
	}
	for _, color := range colors {
		if color.value != "" && !colorPattern.MatchString(color.value) {
			warnings = append(warnings, fmt.Sprintf("Chart %s %q is not a hex colour; the browser may ignore it", color.name, color.value))
		}
	}

	if c.Chart.Width > 4096 || c.Chart.Height > 4096 {
		warnings = append(warnings, fmt.Sprintf("Chart size %dx%d is unusually large", c.Chart.Width, c.Chart.Height))
	}

	if c.Quotes.File != "" {
		if _, err := quotes.FormatFromPath(c.Quotes.File); err != nil {
			warnings = append(warnings, fmt.Sprintf("Quotes file %s will not load: %v", c.Quotes.File, err))
		}
	}

	if !c.Analysis.ZeroSampleBreakEven {
		warnings = append(warnings, "Zero-valued samples will not be reported as break-even points")
	}

	return warnings
}
