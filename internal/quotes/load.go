package quotes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/iwvelando/payoff-chart/pkg/constants"
)

// ErrUnsupportedFormat is returned for quote files that are neither JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported quote format")

// jsonQuote uses pointers so missing fields can be told apart from zeros.
type jsonQuote struct {
	StrikePrice *float64  `json:"strike_price"`
	Bid         *float64  `json:"bid"`
	Ask         *float64  `json:"ask"`
	Position    *Position `json:"long_short"`
}

// csvQuote keeps raw cells so empty or missing columns are reported.
type csvQuote struct {
	StrikePrice string `csv:"strike_price"`
	Bid         string `csv:"bid"`
	Ask         string `csv:"ask"`
	Position    string `csv:"long_short"`
}

// FormatFromPath infers the quote format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return constants.QuoteFormatJSON, nil
	case ".csv":
		return constants.QuoteFormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads quotes from a JSON or CSV file.
func LoadFile(path string) ([]OptionQuote, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote file: %w", err)
	}

	list, err := Load(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotes from %s: %w", path, err)
	}
	return list, nil
}

// Load decodes quotes in the given format from r.
func Load(r io.Reader, format string) ([]OptionQuote, error) {
	switch format {
	case constants.QuoteFormatJSON:
		return decodeJSON(r)
	case constants.QuoteFormatCSV:
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Sniff guesses the format of an unnamed payload: JSON arrays start with '['.
func Sniff(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return constants.QuoteFormatJSON
	}
	return constants.QuoteFormatCSV
}

func decodeJSON(r io.Reader) ([]OptionQuote, error) {
	var records []jsonQuote
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON quotes: %w", err)
	}

	list := make([]OptionQuote, 0, len(records))
	for i, rec := range records {
		var missing []string
		if rec.StrikePrice == nil {
			missing = append(missing, "strike_price")
		}
		if rec.Bid == nil {
			missing = append(missing, "bid")
		}
		if rec.Ask == nil {
			missing = append(missing, "ask")
		}
		if rec.Position == nil {
			missing = append(missing, "long_short")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: quote %d is missing %s", ErrInvalidQuote, i, strings.Join(missing, ", "))
		}

		list = append(list, OptionQuote{
			StrikePrice: *rec.StrikePrice,
			Bid:         *rec.Bid,
			Ask:         *rec.Ask,
			Position:    *rec.Position,
		})
	}
	return list, nil
}

func decodeCSV(r io.Reader) ([]OptionQuote, error) {
	var records []csvQuote
	if err := gocsv.Unmarshal(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []OptionQuote{}, nil
		}
		return nil, fmt.Errorf("failed to decode CSV quotes: %w", err)
	}

	list := make([]OptionQuote, 0, len(records))
	for i, rec := range records {
		strike, err := parseCell(i, "strike_price", rec.StrikePrice)
		if err != nil {
			return nil, err
		}
		bid, err := parseCell(i, "bid", rec.Bid)
		if err != nil {
			return nil, err
		}
		ask, err := parseCell(i, "ask", rec.Ask)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rec.Position) == "" {
			return nil, fmt.Errorf("%w: quote %d is missing long_short", ErrInvalidQuote, i)
		}

		list = append(list, OptionQuote{
			StrikePrice: strike,
			Bid:         bid,
			Ask:         ask,
			Position:    ParsePosition(rec.Position),
		})
	}
	return list, nil
}

func parseCell(index int, column, raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: quote %d is missing %s", ErrInvalidQuote, index, column)
	}
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quote %d has non-numeric %s %q", ErrInvalidQuote, index, column, raw)
	}
	return val, nil
}

// WriteCSV encodes quotes as CSV with a header row.
func WriteCSV(w io.Writer, list []OptionQuote) error {
	if list == nil {
		list = []OptionQuote{}
	}
	return gocsv.Marshal(&list, w)
}
