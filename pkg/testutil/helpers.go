// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/payoff-chart/internal/quotes"
)

// FirstStrike and StrikeStep lay out the strikes generated by Quotes.
const (
	FirstStrike = 100.0
	StrikeStep  = 10.0
)

// Quotes builds an ascending quote list whose profit/loss proxies equal
// pls: non-negative values become long quotes bid at the value, negative
// values become short quotes asked at its magnitude.
func Quotes(pls ...float64) []quotes.OptionQuote {
	list := make([]quotes.OptionQuote, 0, len(pls))
	for i, pl := range pls {
		q := quotes.OptionQuote{StrikePrice: FirstStrike + float64(i)*StrikeStep}
		if pl >= 0 {
			q.Position = quotes.Long
			q.Bid = pl
			q.Ask = pl
		} else {
			q.Position = quotes.Short
			q.Bid = -pl
			q.Ask = -pl
		}
		list = append(list, q)
	}
	return list
}
