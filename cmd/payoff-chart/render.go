package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/payoff-chart/internal/chart"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the payoff chart as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.writeOutput(cmd.OutOrStdout(), outPath, a.runRender)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output HTML file (stdout when empty)")
	return cmd
}

func (a *app) runRender(w io.Writer) error {
	result, err := a.analyze()
	if err != nil {
		return err
	}

	presenter, err := chart.NewPresenter(a.logger, a.conf.Chart)
	if err != nil {
		return err
	}
	return presenter.Render(w, chart.DataFromResult(result))
}

// writeOutput runs write against stdout, or against a newly created file
// when outPath is set.
func (a *app) writeOutput(stdout io.Writer, outPath string, write func(io.Writer) error) error {
	if outPath == "" {
		return write(stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}

	a.logger.Info("output written",
		zap.String("op", "main.writeOutput"),
		zap.String("file", outPath),
	)
	return nil
}
