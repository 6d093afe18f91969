package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/internal/server"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		serverConfigLocation string
		address              string
		maxUploadSize        string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart page and the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			serverConf, err := loadServerConfig(serverConfigLocation, address, maxUploadSize)
			if err != nil {
				return err
			}
			return a.runServe(ctx, serverConf)
		},
	}
	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "upload size limit override (e.g. 512K, 2M)")
	return cmd
}

// loadServerConfig reads the server config file and applies the CLI
// overrides on top of it.
func loadServerConfig(location, addressOverride, maxUploadOverride string) (*server.Config, error) {
	serverConf, err := server.LoadConfig(location)
	if err != nil {
		return nil, fmt.Errorf("failed to load server configuration at %s: %w", location, err)
	}
	if addressOverride != "" {
		serverConf.Address = addressOverride
	}
	if maxUploadOverride != "" {
		size, err := server.ParseSize(maxUploadOverride)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-upload-size: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("invalid --max-upload-size: %q must be positive", maxUploadOverride)
		}
		serverConf.SetUploadSizeBytes(size)
	}
	return serverConf, nil
}

func (a *app) runServe(ctx context.Context, serverConf *server.Config) error {
	var err error

	// Server-specific logging replaces the CLI logger when configured.
	if serverConf.Logging.Level != "" || serverConf.Logging.Format != "" || serverConf.Logging.OutputFile != "" {
		logging := a.conf.Logging
		if serverConf.Logging.Level != "" {
			logging.Level = serverConf.Logging.Level
		}
		if serverConf.Logging.Format != "" {
			logging.Format = serverConf.Logging.Format
		}
		if serverConf.Logging.OutputFile != "" {
			logging.OutputFile = serverConf.Logging.OutputFile
		}
		logger, err := initializeLogger(logging, a.logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize server logger: %w", err)
		}
		_ = a.logger.Sync()
		a.logger = logger
	}

	var dataset []quotes.OptionQuote
	switch {
	case a.quotesFile != "" || serverConf.QuotesFile == "":
		dataset, err = a.loadQuotes()
	default:
		dataset, err = quotes.LoadFile(serverConf.QuotesFile)
	}
	if err != nil {
		return err
	}

	handler, err := server.NewHandler(a.logger, server.Options{
		MaxUploadSize: serverConf.UploadSizeBytes(),
		Version:       version,
		Analysis:      a.conf.Analysis.Options(),
		Chart:         a.conf.Chart,
		Quotes:        dataset,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadTimeout:       serverConf.ReadTimeoutDuration(),
		ReadHeaderTimeout: serverConf.ReadTimeoutDuration(),
		WriteTimeout:      serverConf.WriteTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("HTTP server starting",
			zap.String("op", "main.serve"),
			zap.String("address", serverConf.Address),
			zap.Int64("maxUploadSize", serverConf.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down HTTP server",
			zap.String("op", "main.serve"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
