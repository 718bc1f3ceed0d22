package finance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vicanso/go-charts/v2"

	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/model"
)

func sampleResult(t *testing.T, months int) *dca.Result {
	t.Helper()
	series := model.PriceSeries{AssetA: "BTC-USD", AssetB: "ETH-USD"}
	for i := 0; i < months; i++ {
		series.Points = append(series.Points, model.PricePoint{
			Time: window0.AddDate(0, i, 0),
			A:    20000 + float64(i%5)*1500,
			B:    1500 + float64(i%3)*200,
		})
	}
	res, err := dca.Simulate(series, dca.DefaultParams())
	require.NoError(t, err)
	return res
}

func TestFormatReport(t *testing.T) {
	res := sampleResult(t, 24)
	out := FormatReport(res)

	assert.True(t, strings.HasPrefix(out, "Got 24 monthly data points from 2022-01 to 2023-12\n\n"))
	assert.Contains(t, out, "Total invested: $12,000 over 24 months")
	for _, s := range dca.Strategies {
		assert.Contains(t, out, s.Label())
	}
	assert.Contains(t, out, "ROI ")
	assert.Contains(t, out, "MaxDD ")
}

func TestFormatRange_Empty(t *testing.T) {
	assert.Equal(t, "Got 0 monthly data points", FormatRange(&dca.Result{}))
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$1,234,568", usd(1234567.6))
	assert.Equal(t, "$0", usd(0.2))
}

func TestChartTitle(t *testing.T) {
	res := sampleResult(t, 12)
	assert.Equal(t, "$500 Monthly DCA into BTC + ETH → Strategy Comparison", ChartTitle(res))
	assert.Equal(t, "SOL", assetLabel(" sol-usd "))
	assert.Equal(t, "GLD", assetLabel("GLD"))
}

func TestMakeStrategyChart(t *testing.T) {
	img, err := MakeStrategyChart(sampleResult(t, 24), ChartOptions{Width: 600, Height: 300})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))

	_, err = MakeStrategyChart(nil, ChartOptions{})
	assert.Error(t, err)
}

func TestChartCache(t *testing.T) {
	c := NewChartCache(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", []byte{1, 2, 3})
	img, ok := c.Get("k")
	require.True(t, ok)
	img[0] = 9
	again, _ := c.Get("k")
	assert.Equal(t, byte(1), again[0])

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, DefaultChartCacheTTL, NewChartCache(0).ttl)
}

func TestStrategyThemeColors(t *testing.T) {
	green := charts.Color{R: 0x00, G: 0xd2, B: 0x6a, A: 255}
	red := charts.Color{R: 0xff, G: 0x44, B: 0x44, A: 255}
	blue := charts.Color{R: 0x44, G: 0x88, B: 0xff, A: 255}

	theme := charts.NewTheme(strategyTheme(dca.Strategies))
	assert.Equal(t, "dca:ATH,MC,EQ", strategyTheme(dca.Strategies))
	assert.Equal(t, green, theme.GetSeriesColor(0))
	assert.Equal(t, red, theme.GetSeriesColor(1))
	assert.Equal(t, blue, theme.GetSeriesColor(2))

	// colours follow the strategy, not its position
	theme = charts.NewTheme(strategyTheme([]dca.Strategy{dca.StrategyEqualWeight, dca.StrategyATH}))
	assert.Equal(t, blue, theme.GetSeriesColor(0))
	assert.Equal(t, green, theme.GetSeriesColor(1))

	theme = charts.NewTheme(strategyTheme([]dca.Strategy{dca.StrategyMarketCap}))
	assert.Equal(t, red, theme.GetSeriesColor(0))
}

func TestMakeStrategyChart_Subset(t *testing.T) {
	res := sampleResult(t, 12)
	sub, err := dca.SimulateStrategies(res.Series, res.Params, []dca.Strategy{dca.StrategyEqualWeight, dca.StrategyATH})
	require.NoError(t, err)
	img, err := MakeStrategyChart(sub, ChartOptions{Width: 600, Height: 300})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}
