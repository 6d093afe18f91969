package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/payoff-chart/internal/config"
	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	configLocation string
	envFile        string
	logLevel       string
	quotesFile     string

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "payoff-chart",
		Short:         "Analyze and chart the payoff of an options position",
		Long:          "Computes maximum profit, maximum loss and break-even strikes for a list of option quotes and renders the payoff as a line chart.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file with "+constants.EnvPrefix+"_* overrides (default .env when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.quotesFile, "quotes", "", "quote file (.json or .csv); defaults to the built-in dataset")

	root.AddCommand(newAnalyzeCmd(a))
	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newQuotesCmd(a))
	root.AddCommand(newServeCmd(a))
	return root
}

// setup loads the environment file, the config file and the logger. An
// explicitly requested file must exist; the defaults are optional.
func (a *app) setup(cmd *cobra.Command) error {
	if err := loadEnvFile(a.envFile, constants.DefaultEnvFile); err != nil {
		return err
	}

	var err error
	switch {
	case cmd.Flags().Changed("config"):
		a.conf, err = config.LoadConfiguration(a.configLocation)
	default:
		if _, statErr := os.Stat(a.configLocation); errors.Is(statErr, fs.ErrNotExist) {
			a.conf, err = config.LoadDefaults()
		} else {
			a.conf, err = config.LoadConfiguration(a.configLocation)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configLocation, err)
	}

	a.logger, err = initializeLogger(a.conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range a.conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return nil
}

// loadEnvFile exports the variables of a dotenv file so viper's environment
// overrides see them. Variables already set in the process win.
func loadEnvFile(explicit, fallback string) error {
	path := explicit
	if path == "" {
		if _, err := os.Stat(fallback); err != nil {
			return nil
		}
		path = fallback
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s file: %w", path, err)
	}
	return nil
}

// loadQuotes resolves the quote source: the --quotes flag, then the config
// file, then the built-in dataset.
func (a *app) loadQuotes() ([]quotes.OptionQuote, error) {
	path := a.quotesFile
	if path == "" {
		path = a.conf.Quotes.File
	}
	if path == "" {
		a.logger.Debug("using built-in quote dataset",
			zap.String("op", "main.loadQuotes"),
		)
		return quotes.Default(), nil
	}

	list, err := quotes.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded quotes",
		zap.String("op", "main.loadQuotes"),
		zap.String("file", path),
		zap.Int("count", len(list)),
	)
	return list, nil
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		if a.logger != nil {
			a.logger.Error("command failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
			_ = a.logger.Sync()
		} else {
			fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		}
		os.Exit(1)
	}
}
