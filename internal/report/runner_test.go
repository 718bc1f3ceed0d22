package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/finance"
	"btcEthDCA/internal/metrics"
	"btcEthDCA/internal/model"
)

type fakeProvider struct {
	calls  int
	months int
	err    error
	start  time.Time
	end    time.Time
}

func (f *fakeProvider) FetchMonthly(_ context.Context, symbolA, symbolB string, start, end time.Time) (model.PriceSeries, error) {
	f.calls++
	f.start, f.end = start, end
	if f.err != nil {
		return model.PriceSeries{}, f.err
	}
	series := model.PriceSeries{AssetA: symbolA, AssetB: symbolB}
	first := model.MonthKey(start)
	for i := 0; i < f.months; i++ {
		series.Points = append(series.Points, model.PricePoint{
			Time: first.AddDate(0, i, 0),
			A:    30000 + float64(i)*250,
			B:    2000 - float64(i%4)*50,
		})
	}
	return series, nil
}

var fixedNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func request() Request {
	return Request{AssetA: "BTC-USD", AssetB: "ETH-USD", Years: 2, Params: dca.DefaultParams()}
}

func TestRunner_Run(t *testing.T) {
	prov := &fakeProvider{months: 24}
	reg := metrics.New()
	r := &Runner{Provider: prov, Metrics: reg, Chart: finance.ChartOptions{Width: 600, Height: 300}, Now: func() time.Time { return fixedNow }}

	rep, err := r.Run(context.Background(), "cli", request())
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.Cached)
	require.NotNil(t, rep.Result)
	assert.Equal(t, 24, rep.Result.Series.Len())
	assert.NotEmpty(t, rep.Chart)
	assert.Contains(t, rep.Text, "Total invested: $12,000 over 24 months")

	assert.Equal(t, fixedNow, prov.end)
	assert.Equal(t, 730*24*time.Hour, prov.end.Sub(prov.start))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Simulations.WithLabelValues("cli", "ok")))
}

func TestRunner_InsufficientData(t *testing.T) {
	reg := metrics.New()
	r := &Runner{Provider: &fakeProvider{months: 11}, Metrics: reg, Now: func() time.Time { return fixedNow }}

	_, err := r.Run(context.Background(), "bot", request())
	require.Error(t, err)
	assert.ErrorIs(t, err, dca.ErrInsufficientData)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Simulations.WithLabelValues("bot", "error")))
}

func TestRunner_FetchError(t *testing.T) {
	boom := errors.New("yahoo down")
	r := &Runner{Provider: &fakeProvider{err: boom}}

	_, err := r.Run(context.Background(), "cli", request())
	assert.ErrorIs(t, err, boom)
}

func TestRunner_Cache(t *testing.T) {
	prov := &fakeProvider{months: 12}
	reg := metrics.New()
	r := &Runner{
		Provider: prov,
		Metrics:  reg,
		Chart:    finance.ChartOptions{Width: 600, Height: 300},
		Cache:    finance.NewChartCache(time.Hour),
		Now:      func() time.Time { return fixedNow },
	}

	first, err := r.Run(context.Background(), "bot", request())
	require.NoError(t, err)
	second, err := r.Run(context.Background(), "bot", request())
	require.NoError(t, err)

	assert.Equal(t, 1, prov.calls)
	assert.True(t, second.Cached)
	assert.Nil(t, second.Result)
	assert.Equal(t, first.Chart, second.Chart)
	assert.Equal(t, first.Text, second.Text)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ChartCacheHits.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ChartCacheHits.WithLabelValues("miss")))

	other := request()
	other.Params.MonthlyBudget = 100
	_, err = r.Run(context.Background(), "bot", other)
	require.NoError(t, err)
	assert.Equal(t, 2, prov.calls)
}
