// Package chart renders a payoff series as an interactive ECharts line chart.
// It only consumes analysis output; nothing it computes flows back.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/iwvelando/payoff-chart/internal/payoff"
	"github.com/iwvelando/payoff-chart/pkg/constants"
	"go.uber.org/zap"
)

// ErrSeriesMismatch is returned when the axis and data series differ in length.
var ErrSeriesMismatch = errors.New("strike axis and profit/loss series differ in length")

// Config holds every appearance setting of the chart.
type Config struct {
	Title          string `yaml:"title,omitempty"`
	PageTitle      string `yaml:"pageTitle,omitempty"`
	SeriesName     string `yaml:"seriesName,omitempty"`
	Width          int    `yaml:"width,omitempty"`  // px
	Height         int    `yaml:"height,omitempty"` // px
	MaxMarkerColor string `yaml:"maxMarkerColor,omitempty"`
	MinMarkerColor string `yaml:"minMarkerColor,omitempty"`
	Smooth         bool   `yaml:"smooth"`
	Toolbox        bool   `yaml:"toolbox"`
	AverageLine    bool   `yaml:"averageLine"`
	ShowSummary    bool   `yaml:"showSummary"`
}

// DefaultConfig returns the green/red marker look used by the CLI and server.
func DefaultConfig() Config {
	return Config{
		Title:          constants.DefaultChartTitle,
		PageTitle:      constants.DefaultChartPageTitle,
		SeriesName:     constants.DefaultSeriesName,
		Width:          constants.DefaultChartWidth,
		Height:         constants.DefaultChartHeight,
		MaxMarkerColor: constants.DefaultMaxMarkerColor,
		MinMarkerColor: constants.DefaultMinMarkerColor,
		Smooth:         true,
		Toolbox:        true,
		AverageLine:    true,
		ShowSummary:    true,
	}
}

// Validate rejects configurations that cannot produce a chart.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Data is what the presenter is handed: the category axis, the parallel
// series and the text block shown under the title.
type Data struct {
	Strikes      []float64
	ProfitLosses []float64
	Summary      []string
}

// DataFromResult extracts presenter input from an analysis.
func DataFromResult(r payoff.Result) Data {
	return Data{
		Strikes:      r.Strikes(),
		ProfitLosses: r.ProfitLosses(),
		Summary:      Summary(r),
	}
}

// Presenter renders charts with a fixed configuration.
type Presenter struct {
	logger *zap.Logger
	cfg    Config
}

// NewPresenter validates cfg and constructs a Presenter.
func NewPresenter(logger *zap.Logger, cfg Config) (*Presenter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Presenter{logger: logger, cfg: cfg}, nil
}

// Config returns the presenter's configuration.
func (p *Presenter) Config() Config {
	return p.cfg
}

// Build assembles the line chart without rendering it.
func (p *Presenter) Build(data Data) (*charts.Line, error) {
	if len(data.Strikes) != len(data.ProfitLosses) {
		return nil, fmt.Errorf("%w: %d strikes, %d values", ErrSeriesMismatch, len(data.Strikes), len(data.ProfitLosses))
	}

	line := charts.NewLine()

	title := opts.Title{Title: p.cfg.Title}
	if p.cfg.ShowSummary && len(data.Summary) > 0 {
		title.Subtitle = strings.Join(data.Summary, "\n")
	}

	globals := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: p.cfg.PageTitle,
			Width:     fmt.Sprintf("%dpx", p.cfg.Width),
			Height:    fmt.Sprintf("%dpx", p.cfg.Height),
		}),
		charts.WithTitleOpts(title),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: "{b0} : {c0}",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
	if p.cfg.Toolbox {
		globals = append(globals, charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				DataView:    &opts.ToolBoxFeatureDataView{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
			},
		}))
	}
	line.SetGlobalOptions(globals...)

	axis := make([]string, len(data.Strikes))
	for i, strike := range data.Strikes {
		axis[i] = FormatNumber(strike)
	}

	items := make([]opts.LineData, len(data.ProfitLosses))
	for i, pl := range data.ProfitLosses {
		items[i] = opts.LineData{Value: pl}
	}

	series := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(p.cfg.Smooth)}),
		charts.WithMarkPointNameTypeItemOpts(
			opts.MarkPointNameTypeItem{Name: "Max", Type: "max", ItemStyle: &opts.ItemStyle{Color: p.cfg.MaxMarkerColor}},
			opts.MarkPointNameTypeItem{Name: "Min", Type: "min", ItemStyle: &opts.ItemStyle{Color: p.cfg.MinMarkerColor}},
		),
	}
	if p.cfg.AverageLine {
		series = append(series, charts.WithMarkLineNameTypeItemOpts(
			opts.MarkLineNameTypeItem{Name: "Avg", Type: "average"},
		))
	}

	line.SetXAxis(axis).AddSeries(p.cfg.SeriesName, items, series...)
	return line, nil
}

// Render writes a standalone HTML page containing the chart.
func (p *Presenter) Render(w io.Writer, data Data) error {
	line, err := p.Build(data)
	if err != nil {
		return err
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	p.logger.Debug("chart rendered",
		zap.String("op", "chart.Render"),
		zap.Int("points", len(data.Strikes)),
	)
	return nil
}

// Summary is the three-line risk/reward text block.
func Summary(r payoff.Result) []string {
	breakEvens := "None"
	if len(r.BreakEvenPoints) > 0 {
		parts := make([]string, len(r.BreakEvenPoints))
		for i, be := range r.BreakEvenPoints {
			parts[i] = FormatNumber(be)
		}
		breakEvens = strings.Join(parts, ", ")
	}

	return []string{
		"Maximum Profit: " + FormatOptional(r.MaxProfit),
		"Maximum Loss: " + FormatOptional(r.MaxLoss),
		"Break Even Points: " + breakEvens,
	}
}

// FormatNumber prints the shortest decimal form of v (105, 106.67, -2.4).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatOptional prints v or "None" when it is nil.
func FormatOptional(v *float64) string {
	if v == nil {
		return "None"
	}
	return FormatNumber(*v)
}
