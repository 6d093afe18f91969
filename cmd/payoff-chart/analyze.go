package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/pkg/output"
	"github.com/iwvelando/payoff-chart/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print maximum profit, maximum loss and break-even points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.OutOrStdout(), outputFormat)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

func (a *app) runAnalyze(w io.Writer, formatOverride string) error {
	// CLI override takes precedence over config
	outputFormat := a.conf.Output.Format
	if formatOverride != "" {
		outputFormat = formatOverride
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	result, err := a.analyze()
	if err != nil {
		return err
	}

	if err := output.Format(w, outputFormat, result); err != nil {
		return fmt.Errorf("failed to write %s output: %w", outputFormat, err)
	}
	return nil
}

// analyze loads the quotes and runs the configured analysis pipeline.
func (a *app) analyze() (payoff.Result, error) {
	list, err := a.loadQuotes()
	if err != nil {
		return payoff.Result{}, err
	}

	analyzer := payoff.NewAnalyzer(a.logger, a.conf.Analysis.Options())
	result, err := analyzer.Analyze(list)
	if err != nil {
		return payoff.Result{}, fmt.Errorf("failed to compute payoff: %w", err)
	}

	for _, warning := range result.Warnings {
		a.logger.Warn("Quote warning: "+warning,
			zap.String("op", "main.analyze"),
		)
	}
	return result, nil
}
