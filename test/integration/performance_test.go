package integration

import (
	"io"
	"testing"
	"time"

	"github.com/iwvelando/payoff-chart/internal/chart"
	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/internal/quotes"
	"go.uber.org/zap"
)

// ladder builds n quotes alternating long and short around a rising strike.
func ladder(n int) []quotes.OptionQuote {
	list := make([]quotes.OptionQuote, n)
	for i := range list {
		q := quotes.OptionQuote{
			StrikePrice: float64(50 + i),
			Bid:         float64(i%7) + 0.25,
			Ask:         float64(i%5) + 0.5,
			Position:    quotes.Long,
		}
		if i%3 == 0 {
			q.Position = quotes.Short
		}
		list[i] = q
	}
	return list
}

// TestPerformance checks that a large chain analyzes and renders quickly.
func TestPerformance(t *testing.T) {
	list := ladder(10000)

	start := time.Now()
	result, err := payoff.Analyze(list)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	presenter, err := chart.NewPresenter(zap.NewNop(), chart.DefaultConfig())
	if err != nil {
		t.Fatalf("NewPresenter failed: %v", err)
	}
	if err := presenter.Render(io.Discard, chart.DataFromResult(result)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	elapsed := time.Since(start)

	if len(result.Series) != len(list) {
		t.Fatalf("expected %d points, got %d", len(list), len(result.Series))
	}
	if elapsed > 5*time.Second {
		t.Errorf("analysis of %d quotes took %v", len(list), elapsed)
	}
	t.Logf("Analyzed and rendered %d quotes in %v with %d break-even points", len(list), elapsed, len(result.BreakEvenPoints))
}

func BenchmarkAnalyze(b *testing.B) {
	list := ladder(1000)
	analyzer := payoff.NewAnalyzer(zap.NewNop(), payoff.DefaultOptions())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analyzer.Analyze(list); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	result, err := payoff.Analyze(ladder(1000))
	if err != nil {
		b.Fatal(err)
	}
	presenter, err := chart.NewPresenter(zap.NewNop(), chart.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	data := chart.DataFromResult(result)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := presenter.Render(io.Discard, data); err != nil {
			b.Fatal(err)
		}
	}
}
