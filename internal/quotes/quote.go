// Package quotes defines the option quote input shape and loads quote lists
// from the built-in dataset, JSON files and CSV files.
package quotes

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/iwvelando/payoff-chart/pkg/constants"
)

// Position is whether a quote is modeled as held long or short.
type Position string

const (
	Long  Position = "long"
	Short Position = "short"
)

// ParsePosition normalizes a raw long/short value. It never fails; unknown
// values are kept as-is so Validate can report them with their index.
func ParsePosition(raw string) Position {
	return Position(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether p is Long or Short.
func (p Position) Valid() bool {
	return p == Long || p == Short
}

func (p Position) String() string {
	return string(p)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	*p = ParsePosition(string(text))
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (p Position) MarshalCSV() (string, error) {
	return string(p), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (p *Position) UnmarshalCSV(raw string) error {
	*p = ParsePosition(raw)
	return nil
}

// OptionQuote is a single traded contract and how it is held.
type OptionQuote struct {
	StrikePrice float64  `json:"strike_price" yaml:"strike_price" csv:"strike_price"`
	Bid         float64  `json:"bid" yaml:"bid" csv:"bid"`
	Ask         float64  `json:"ask" yaml:"ask" csv:"ask"`
	Position    Position `json:"long_short" yaml:"long_short" csv:"long_short"`
}

//go:embed mock.json
var defaultData []byte

var defaultQuotes = mustLoadDefault()

func mustLoadDefault() []OptionQuote {
	list, err := Load(bytes.NewReader(defaultData), constants.QuoteFormatJSON)
	if err != nil {
		panic(fmt.Sprintf("built-in quote dataset is invalid: %v", err))
	}
	return list
}

// Default returns a copy of the built-in quote dataset.
func Default() []OptionQuote {
	return append([]OptionQuote(nil), defaultQuotes...)
}
