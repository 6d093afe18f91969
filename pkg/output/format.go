// Package output provides utilities for formatting and displaying payoff analyses.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/iwvelando/payoff-chart/internal/chart"
	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format writes result in the named output format.
func Format(w io.Writer, format string, result payoff.Result) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, result)
	case constants.OutputFormatCSV:
		return CsvFormat(w, result)
	case constants.OutputFormatJSON:
		return JSONFormat(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// PrettyFormat outputs the risk/reward text block followed by a
// human-readable table of the payoff series.
func PrettyFormat(w io.Writer, result payoff.Result) error {
	for _, line := range chart.Summary(result) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if result.Average != nil {
		if _, err := fmt.Fprintf(w, "Average: %s\n", chart.FormatNumber(*result.Average)); err != nil {
			return err
		}
	}
	if len(result.Series) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Strike", "Position", "Profit/Loss"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, point := range result.Series {
		table.Append([]string{
			p.Sprintf("%.2f", point.StrikePrice),
			point.Position.String(),
			p.Sprintf("%.2f", point.ProfitLoss),
		})
	}
	table.Render()

	for _, warning := range result.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs the payoff series in comma-separated value format.
func CsvFormat(w io.Writer, result payoff.Result) error {
	series := result.Series
	if series == nil {
		series = []payoff.Point{}
	}
	if err := gocsv.Marshal(&series, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// JSONFormat outputs the full analysis as indented JSON. Missing extremes
// are encoded as null.
func JSONFormat(w io.Writer, result payoff.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
