package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newQuotesCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Export the quote list being analyzed as CSV",
		Long:  "Writes the resolved quote list (--quotes, then quotes.file, then the built-in dataset) as a CSV file that --quotes accepts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.writeOutput(cmd.OutOrStdout(), outPath, a.runQuotes)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output CSV file (stdout when empty)")
	return cmd
}

func (a *app) runQuotes(w io.Writer) error {
	list, err := a.loadQuotes()
	if err != nil {
		return err
	}
	if err := quotes.WriteCSV(w, list); err != nil {
		return fmt.Errorf("failed to write quotes: %w", err)
	}

	a.logger.Debug("quotes exported",
		zap.String("op", "main.quotes"),
		zap.Int("count", len(list)),
	)
	return nil
}
