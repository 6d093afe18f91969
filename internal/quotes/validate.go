package quotes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iwvelando/payoff-chart/pkg/mathutil"
)

// ErrInvalidQuote marks a quote that cannot be analyzed.
var ErrInvalidQuote = errors.New("invalid quote")

// Validate checks every quote and returns warnings for suspicious but usable
// input. The first malformed quote aborts validation with ErrInvalidQuote.
func Validate(list []OptionQuote) ([]string, error) {
	var warnings []string

	for i, q := range list {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		if q.Bid > q.Ask {
			warnings = append(warnings, fmt.Sprintf("Quote %d at strike %g has bid above ask (%g > %g)",
				i, q.StrikePrice, q.Bid, q.Ask))
		}
	}

	if !IsSorted(list) {
		warnings = append(warnings, "Quotes are not in ascending strike order")
	}

	seen := make(map[float64]int, len(list))
	for i, q := range list {
		if first, ok := seen[q.StrikePrice]; ok {
			warnings = append(warnings, fmt.Sprintf("Quotes %d and %d share strike %g", first, i, q.StrikePrice))
			continue
		}
		seen[q.StrikePrice] = i
	}

	return warnings, nil
}

// Validate checks a single quote for values no analysis can use.
func (q OptionQuote) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"strike_price", q.StrikePrice},
		{"bid", q.Bid},
		{"ask", q.Ask},
	}
	for _, f := range fields {
		if !mathutil.IsFinite(f.val) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidQuote, f.name)
		}
		if f.val < 0 {
			return fmt.Errorf("%w: %s is negative (%g)", ErrInvalidQuote, f.name, f.val)
		}
	}
	if !q.Position.Valid() {
		return fmt.Errorf("%w: long_short must be %q or %q, got %q", ErrInvalidQuote, Long, Short, q.Position)
	}
	return nil
}

// IsSorted reports whether quotes are in ascending strike order.
func IsSorted(list []OptionQuote) bool {
	return sort.SliceIsSorted(list, func(i, j int) bool {
		return list[i].StrikePrice < list[j].StrikePrice
	})
}

// SortedByStrike returns a stably sorted copy; the input is left untouched.
func SortedByStrike(list []OptionQuote) []OptionQuote {
	sorted := append([]OptionQuote(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StrikePrice < sorted[j].StrikePrice
	})
	return sorted
}
