package payoff

import (
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genQuote produces valid quotes on a coarse strike grid so duplicates and
// unsorted lists both show up.
func genQuote() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 40),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 5),
		gen.Bool(),
	).Map(func(values []interface{}) quotes.OptionQuote {
		bid := values[1].(float64)
		position := quotes.Short
		if values[3].(bool) {
			position = quotes.Long
		}
		return quotes.OptionQuote{
			StrikePrice: float64(values[0].(int)) * 5,
			Bid:         bid,
			Ask:         bid + values[2].(float64),
			Position:    position,
		}
	})
}

func genQuotes() gopter.Gen {
	return gen.SliceOf(genQuote())
}

func TestPayoffProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("long quotes pay the bid and short quotes pay the negated ask", prop.ForAll(
		func(list []quotes.OptionQuote) bool {
			series := ComputePayoffSeries(list)
			if len(series) != len(list) {
				return false
			}
			for i, q := range list {
				switch q.Position {
				case quotes.Long:
					if series[i].ProfitLoss != q.Bid {
						return false
					}
				case quotes.Short:
					if series[i].ProfitLoss != -q.Ask {
						return false
					}
				}
				if series[i].StrikePrice != q.StrikePrice {
					return false
				}
			}
			return true
		},
		genQuotes(),
	))

	properties.Property("extremes bound every sample", prop.ForAll(
		func(list []quotes.OptionQuote) bool {
			series := ComputePayoffSeries(list)
			ext, ok := ComputeExtremes(series)
			if len(series) == 0 {
				return !ok
			}
			if !ok {
				return false
			}
			for _, p := range series {
				if p.ProfitLoss > ext.MaxProfit || p.ProfitLoss < ext.MaxLoss {
					return false
				}
			}
			return true
		},
		genQuotes(),
	))

	properties.Property("break-evens lie between neighbouring strikes in ascending order", prop.ForAll(
		func(list []quotes.OptionQuote) bool {
			result, err := Analyze(list)
			if err != nil {
				return false
			}
			if len(result.Series) == 0 {
				return len(result.BreakEvenPoints) == 0
			}
			low := result.Series[0].StrikePrice
			high := result.Series[len(result.Series)-1].StrikePrice
			prev := math.Inf(-1)
			for _, be := range result.BreakEvenPoints {
				if be < low-0.005 || be > high+0.005 || be < prev {
					return false
				}
				if math.Abs(be*100-math.Round(be*100)) > 1e-6 {
					return false
				}
				prev = be
			}
			return true
		},
		genQuotes(),
	))

	properties.Property("analysis is idempotent", prop.ForAll(
		func(list []quotes.OptionQuote) bool {
			first, err1 := Analyze(list)
			second, err2 := Analyze(list)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		genQuotes(),
	))

	properties.Property("sorting does not change the extremes", prop.ForAll(
		func(list []quotes.OptionQuote) bool {
			sorted, err := Analyze(list)
			if err != nil {
				return false
			}
			unsorted, err := NewAnalyzer(nil, Options{}).Analyze(list)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(sorted.MaxProfit, unsorted.MaxProfit) &&
				reflect.DeepEqual(sorted.MaxLoss, unsorted.MaxLoss)
		},
		genQuotes(),
	))

	properties.TestingRun(t)
}
