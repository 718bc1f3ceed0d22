package finance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"btcEthDCA/internal/dca"
)

// ChartOptions sizes the rendered PNG. Zero values fall back to 1400x700.
type ChartOptions struct {
	Width  int
	Height int
}

// Line colours per strategy, kept stable across charts so the legend reads the same.
var strategyColors = map[dca.Strategy]charts.Color{
	dca.StrategyATH:         {R: 0x00, G: 0xd2, B: 0x6a, A: 255}, // #00d26a
	dca.StrategyMarketCap:   {R: 0xff, G: 0x44, B: 0x44, A: 255}, // #ff4444
	dca.StrategyEqualWeight: {R: 0x44, G: 0x88, B: 0xff, A: 255}, // #4488ff
}

// go-charts picks series colours from the theme by position, so every ordered
// subset of strategies gets its own light theme. Registered once at init since
// the theme registry is not safe for concurrent writes.
func init() {
	var walk func(prefix []dca.Strategy)
	walk = func(prefix []dca.Strategy) {
		if len(prefix) > 0 {
			colors := make([]charts.Color, len(prefix))
			for i, s := range prefix {
				colors[i] = strategyColors[s]
			}
			charts.AddTheme(strategyTheme(prefix), charts.ThemeOption{
				AxisStrokeColor:    charts.Color{R: 110, G: 112, B: 121, A: 255},
				AxisSplitLineColor: charts.Color{R: 224, G: 230, B: 242, A: 255},
				BackgroundColor:    charts.Color{R: 255, G: 255, B: 255, A: 255},
				TextColor:          charts.Color{R: 70, G: 70, B: 70, A: 255},
				SeriesColors:       colors,
			})
		}
		for _, s := range dca.Strategies {
			if containsStrategy(prefix, s) {
				continue
			}
			walk(append(append([]dca.Strategy(nil), prefix...), s))
		}
	}
	walk(nil)
}

// strategyTheme names the registered theme for strategies in this order, e.g. "dca:ATH,MC,EQ".
func strategyTheme(order []dca.Strategy) string {
	codes := make([]string, len(order))
	for i, s := range order {
		codes[i] = s.String()
	}
	return "dca:" + strings.Join(codes, ",")
}

func containsStrategy(list []dca.Strategy, s dca.Strategy) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// MakeStrategyChart renders the value series of every simulated strategy on one line chart.
func MakeStrategyChart(res *dca.Result, opts ChartOptions) ([]byte, error) {
	if res == nil || len(res.Runs) == 0 {
		return nil, errors.New("no simulation result")
	}
	n := res.Series.Len()
	if n < 2 {
		return nil, errors.New("not enough data points")
	}
	if opts.Width <= 0 {
		opts.Width = 1400
	}
	if opts.Height <= 0 {
		opts.Height = 700
	}

	xLabels := make([]string, n)
	for i, p := range res.Series.Points {
		xLabels[i] = p.Time.Format("2006-01")
	}

	values := make([][]float64, 0, len(res.Runs))
	names := make([]string, 0, len(res.Runs))
	order := make([]dca.Strategy, 0, len(res.Runs))
	var yMax float64
	for _, run := range res.Runs {
		values = append(values, run.Values)
		names = append(names, run.Strategy.Label())
		order = append(order, run.Strategy)
		for _, v := range run.Values {
			if v > yMax {
				yMax = v
			}
		}
	}
	yMin := 0.0
	yMax *= 1.05
	if yMax == 0 {
		yMax = 1
	}

	// Determine split number for x-axis based on data points
	splitNum := 10
	if n <= 30 {
		splitNum = n / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	title := ChartTitle(res)
	subtitle := fmt.Sprintf("%s to %s • invested %s", xLabels[0], xLabels[n-1], usd(res.TotalInvested()))

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	p, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(strategyTheme(order)),
		charts.WidthOptionFunc(opts.Width),
		charts.HeightOptionFunc(opts.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// ChartTitle is the headline shared by the chart and the bot caption.
func ChartTitle(res *dca.Result) string {
	return fmt.Sprintf("%s Monthly DCA into %s + %s → Strategy Comparison",
		usd(res.Params.MonthlyBudget), assetLabel(res.Series.AssetA), assetLabel(res.Series.AssetB))
}

// assetLabel turns a Yahoo pair like "BTC-USD" into "BTC".
func assetLabel(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.Index(s, "-"); i > 0 {
		return s[:i]
	}
	return s
}
