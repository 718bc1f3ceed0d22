package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"btcEthDCA/internal/dca"
	"btcEthDCA/internal/finance"
	"btcEthDCA/internal/metrics"
)

// Request selects the assets, window and simulation parameters of one comparison.
type Request struct {
	AssetA string
	AssetB string
	Years  int
	Params dca.Params
}

// Report is a rendered comparison. Result is nil when the report came from the cache.
type Report struct {
	RunID  string
	Result *dca.Result
	Chart  []byte
	Text   string
	Cached bool
}

// Runner composes fetch, simulate and render.
type Runner struct {
	Provider finance.Provider
	Metrics  *metrics.Registry
	Chart    finance.ChartOptions
	Cache    *finance.ChartCache // optional
	Now      func() time.Time
}

// Run produces a report for req. trigger labels the caller in logs and metrics.
func (r *Runner) Run(ctx context.Context, trigger string, req Request) (*Report, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	runID := uuid.NewString()
	logger := log.With().Str("component", "report").Str("run_id", runID).Str("trigger", trigger).Logger()

	key := cacheKey(req, now())
	if r.Cache != nil {
		img, imgOK := r.Cache.Get(key)
		txt, txtOK := r.Cache.Get(key + "|summary")
		r.Metrics.ObserveCache(imgOK && txtOK)
		if imgOK && txtOK {
			logger.Debug().Str("key", key).Msg("report: served from cache")
			return &Report{RunID: runID, Chart: img, Text: string(txt), Cached: true}, nil
		}
	}

	start, end := finance.Lookback(req.Years, now())
	logger.Info().Str("asset_a", req.AssetA).Str("asset_b", req.AssetB).
		Time("start", start).Time("end", end).Msg("report: downloading monthly data")
	series, err := r.Provider.FetchMonthly(ctx, req.AssetA, req.AssetB, start, end)
	if err != nil {
		r.Metrics.ObserveSimulation(trigger, 0, err)
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	res, err := dca.Simulate(series, req.Params)
	if err != nil {
		r.Metrics.ObserveSimulation(trigger, series.Len(), err)
		return nil, err
	}
	r.Metrics.ObserveSimulation(trigger, series.Len(), nil)
	logger.Info().Int("months", series.Len()).Float64("invested", res.TotalInvested()).Msg("report: simulation complete")

	img, err := finance.MakeStrategyChart(res, r.Chart)
	if err != nil {
		return nil, err
	}
	text := finance.FormatReport(res)

	if r.Cache != nil {
		r.Cache.Set(key, img)
		r.Cache.Set(key+"|summary", []byte(text))
	}
	return &Report{RunID: runID, Result: res, Chart: img, Text: text}, nil
}

func cacheKey(req Request, now time.Time) string {
	return fmt.Sprintf("%s|%s|%d|%.2f|%.6f|%s",
		strings.ToUpper(req.AssetA), strings.ToUpper(req.AssetB), req.Years,
		req.Params.MonthlyBudget, req.Params.SupplyRatio, now.UTC().Format("2006-01-02"))
}
