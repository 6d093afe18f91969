package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/pkg/testutil"
)

func analyzed(t *testing.T, list []quotes.OptionQuote) payoff.Result {
	t.Helper()
	result, err := payoff.Analyze(list)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	list := []quotes.OptionQuote{
		{StrikePrice: 1000, Bid: 1234.5, Ask: 1240, Position: quotes.Long},
		{StrikePrice: 1010, Bid: 3, Ask: 3.5, Position: quotes.Short},
	}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, analyzed(t, list)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Maximum Profit: 1234.5",
		"Maximum Loss: -3.5",
		"Break Even Points: 1009.97",
		"Average: 615.5",
		"STRIKE",
		"1,000.00",
		"1,234.50",
		"-3.50",
		"short",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, analyzed(t, nil)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}

	expected := "Maximum Profit: None\nMaximum Loss: None\nBreak Even Points: None\n"
	if buf.String() != expected {
		t.Errorf("PrettyFormat() = %q, expected %q", buf.String(), expected)
	}
}

func TestPrettyFormatWarnings(t *testing.T) {
	list := []quotes.OptionQuote{
		{StrikePrice: 110, Bid: 1, Ask: 1.1, Position: quotes.Long},
		{StrikePrice: 100, Bid: 1, Ask: 1.1, Position: quotes.Long},
	}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, analyzed(t, list)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	if !strings.Contains(buf.String(), "warning: Quotes are not in ascending strike order") {
		t.Errorf("PrettyFormat missing ordering warning:\n%s", buf.String())
	}
}

func TestCsvFormat(t *testing.T) {
	result := analyzed(t, testutil.Quotes(4, -2.5))

	var buf bytes.Buffer
	if err := CsvFormat(&buf, result); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	expected := "strike_price,profit_loss,long_short\n100,4,long\n110,-2.5,short\n"
	if buf.String() != expected {
		t.Errorf("CsvFormat() = %q, expected %q", buf.String(), expected)
	}
}

func TestCsvFormatEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, analyzed(t, nil)); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}
	if buf.String() != "strike_price,profit_loss,long_short\n" {
		t.Errorf("CsvFormat() = %q, expected header only", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, analyzed(t, testutil.Quotes(5, -5))); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["maxProfit"] != 5.0 || decoded["maxLoss"] != -5.0 {
		t.Errorf("unexpected extremes %v / %v", decoded["maxProfit"], decoded["maxLoss"])
	}
	breakEvens, ok := decoded["breakEvenPoints"].([]interface{})
	if !ok || len(breakEvens) != 1 || breakEvens[0] != 105.0 {
		t.Errorf("unexpected break-even points %v", decoded["breakEvenPoints"])
	}
}

func TestJSONFormatEmptyUsesNull(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, analyzed(t, nil)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, `"maxProfit": null`) || !strings.Contains(output, `"maxLoss": null`) {
		t.Errorf("expected null extremes, got %s", output)
	}
	if !strings.Contains(output, `"breakEvenPoints": []`) {
		t.Errorf("expected empty break-even array, got %s", output)
	}
}

func TestFormatDispatch(t *testing.T) {
	result := analyzed(t, testutil.Quotes(1))

	for _, format := range []string{"pretty", "csv", "json"} {
		var buf bytes.Buffer
		if err := Format(&buf, format, result); err != nil {
			t.Errorf("Format(%s) error = %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Format(%s) wrote nothing", format)
		}
	}

	if err := Format(&bytes.Buffer{}, "xml", result); err == nil {
		t.Error("expected error for unknown format")
	}
}
