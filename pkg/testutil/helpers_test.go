package testutil

import (
	"testing"

	"github.com/iwvelando/payoff-chart/internal/quotes"
)

func TestQuotes(t *testing.T) {
	list := Quotes(4, -2, 0)

	if len(list) != 3 {
		t.Fatalf("expected 3 quotes, got %d", len(list))
	}

	tests := []struct {
		name     string
		index    int
		strike   float64
		position quotes.Position
		bid, ask float64
	}{
		{"Positive value is long", 0, 100, quotes.Long, 4, 4},
		{"Negative value is short", 1, 110, quotes.Short, 2, 2},
		{"Zero is long", 2, 120, quotes.Long, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := list[tt.index]
			if q.StrikePrice != tt.strike {
				t.Errorf("strike = %v, expected %v", q.StrikePrice, tt.strike)
			}
			if q.Position != tt.position {
				t.Errorf("position = %v, expected %v", q.Position, tt.position)
			}
			if q.Bid != tt.bid || q.Ask != tt.ask {
				t.Errorf("bid/ask = %v/%v, expected %v/%v", q.Bid, q.Ask, tt.bid, tt.ask)
			}
		})
	}
}
