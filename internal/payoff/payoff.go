// Package payoff turns a list of option quotes into a profit/loss series and
// derives its risk/reward figures: maximum profit, maximum loss, the series
// average and the break-even strike prices.
package payoff

import (
	"errors"
	"fmt"

	"github.com/iwvelando/payoff-chart/internal/quotes"
	"github.com/iwvelando/payoff-chart/pkg/mathutil"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned by Analyze when a quote fails validation.
var ErrInvalidInput = errors.New("invalid analysis input")

// Point is the profit/loss proxy at one strike.
type Point struct {
	StrikePrice float64         `json:"strikePrice" csv:"strike_price"`
	ProfitLoss  float64         `json:"profitLoss" csv:"profit_loss"`
	Position    quotes.Position `json:"position" csv:"long_short"`
}

// Extremes holds the largest and smallest profit/loss of a series.
type Extremes struct {
	MaxProfit float64
	MaxLoss   float64
}

// Result is everything derived from one quote list. MaxProfit, MaxLoss and
// Average are nil when the series is empty.
type Result struct {
	Series          []Point   `json:"series"`
	MaxProfit       *float64  `json:"maxProfit"`
	MaxLoss         *float64  `json:"maxLoss"`
	Average         *float64  `json:"average"`
	BreakEvenPoints []float64 `json:"breakEvenPoints"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// Options controls the optional steps of Analyze.
type Options struct {
	// SortByStrike sorts a copy of the quotes before scanning.
	SortByStrike bool
	// ZeroSampleBreakEven counts a sample whose profit/loss is exactly zero
	// as a break-even at its own strike.
	ZeroSampleBreakEven bool
}

// DefaultOptions enables both the defensive sort and zero-sample break-evens.
func DefaultOptions() Options {
	return Options{SortByStrike: true, ZeroSampleBreakEven: true}
}

// ProfitLoss is the static payoff proxy of a quote: the bid when long and
// the negated ask when short.
func ProfitLoss(q quotes.OptionQuote) float64 {
	if q.Position == quotes.Long {
		return q.Bid
	}
	return -q.Ask
}

// ComputePayoffSeries maps each quote to its profit/loss point, keeping the
// input order.
func ComputePayoffSeries(list []quotes.OptionQuote) []Point {
	points := make([]Point, 0, len(list))
	for _, q := range list {
		points = append(points, Point{
			StrikePrice: q.StrikePrice,
			ProfitLoss:  ProfitLoss(q),
			Position:    q.Position,
		})
	}
	return points
}

// ComputeExtremes returns the maximum and minimum profit/loss. ok is false
// for an empty series.
func ComputeExtremes(points []Point) (Extremes, bool) {
	data := profitLosses(points)

	maxProfit, err := stats.Max(data)
	if err != nil {
		return Extremes{}, false
	}
	maxLoss, err := stats.Min(data)
	if err != nil {
		return Extremes{}, false
	}
	return Extremes{MaxProfit: maxProfit, MaxLoss: maxLoss}, true
}

// ComputeAverage returns the mean profit/loss. ok is false for an empty series.
func ComputeAverage(points []Point) (float64, bool) {
	mean, err := stats.Mean(profitLosses(points))
	if err != nil {
		return 0, false
	}
	return mean, true
}

// ComputeBreakEvenPoints scans adjacent samples left to right and linearly
// interpolates the strike where profit/loss strictly changes sign. Results
// are rounded to two decimals. Exact zero samples are ignored; see
// ComputeBreakEvenPointsWithOptions.
func ComputeBreakEvenPoints(points []Point) []float64 {
	return breakEvens(points, false)
}

// ComputeBreakEvenPointsWithOptions is ComputeBreakEvenPoints with the
// zero-sample rule of opts applied.
func ComputeBreakEvenPointsWithOptions(points []Point, opts Options) []float64 {
	return breakEvens(points, opts.ZeroSampleBreakEven)
}

func breakEvens(points []Point, includeZero bool) []float64 {
	result := []float64{}
	for i := range points {
		curr := points[i]
		if i > 0 {
			prev := points[i-1]
			if prev.ProfitLoss*curr.ProfitLoss < 0 {
				be := mathutil.Lerp(prev.StrikePrice, prev.ProfitLoss, curr.StrikePrice, curr.ProfitLoss)
				result = append(result, mathutil.Round(be))
			}
		}
		if includeZero && curr.ProfitLoss == 0 {
			result = append(result, mathutil.Round(curr.StrikePrice))
		}
	}
	return result
}

func profitLosses(points []Point) stats.Float64Data {
	data := make(stats.Float64Data, len(points))
	for i, p := range points {
		data[i] = p.ProfitLoss
	}
	return data
}

// Analyzer runs the full analysis pipeline with fixed options.
type Analyzer struct {
	logger *zap.Logger
	opts   Options
}

// NewAnalyzer constructs an Analyzer. A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger, opts Options) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger, opts: opts}
}

// Analyze validates the quotes and recomputes every derived value from
// scratch. The input slice is never modified.
func (a *Analyzer) Analyze(list []quotes.OptionQuote) (Result, error) {
	warnings, err := quotes.Validate(list)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for _, warning := range warnings {
		a.logger.Debug("quote warning: "+warning,
			zap.String("op", "payoff.Analyze"),
		)
	}

	input := list
	if a.opts.SortByStrike {
		input = quotes.SortedByStrike(list)
	}

	series := ComputePayoffSeries(input)
	result := Result{
		Series:          series,
		BreakEvenPoints: ComputeBreakEvenPointsWithOptions(series, a.opts),
		Warnings:        warnings,
	}

	if ext, ok := ComputeExtremes(series); ok {
		maxProfit, maxLoss := ext.MaxProfit, ext.MaxLoss
		result.MaxProfit = &maxProfit
		result.MaxLoss = &maxLoss
	}
	if avg, ok := ComputeAverage(series); ok {
		result.Average = &avg
	}

	a.logger.Debug("payoff analyzed",
		zap.String("op", "payoff.Analyze"),
		zap.Int("quotes", len(list)),
		zap.Int("breakEvens", len(result.BreakEvenPoints)),
		zap.Int("warnings", len(warnings)),
	)

	return result, nil
}

// Analyze runs the pipeline with DefaultOptions and no logging.
func Analyze(list []quotes.OptionQuote) (Result, error) {
	return NewAnalyzer(nil, DefaultOptions()).Analyze(list)
}

// Strikes returns the category axis of a series.
func (r Result) Strikes() []float64 {
	strikes := make([]float64, len(r.Series))
	for i, p := range r.Series {
		strikes[i] = p.StrikePrice
	}
	return strikes
}

// ProfitLosses returns the data series parallel to Strikes.
func (r Result) ProfitLosses() []float64 {
	return []float64(profitLosses(r.Series))
}
