package finance

import (
	"math"
	"sort"
	"time"

	"btcEthDCA/internal/model"
)

// filterValid removes points where close is missing, non-positive or not finite,
// keeping timestamp and value arrays aligned. Yahoo encodes missing closes as null,
// which decodes to 0.
func filterValid(ts []int64, cl []float64) ([]int64, []float64) {
	if len(ts) != len(cl) {
		n := len(ts)
		if len(cl) < n {
			n = len(cl)
		}
		ts = ts[:n]
		cl = cl[:n]
	}
	outTs := make([]int64, 0, len(ts))
	outCl := make([]float64, 0, len(cl))
	for i := 0; i < len(ts); i++ {
		v := cl[i]
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		outTs = append(outTs, ts[i])
		outCl = append(outCl, v)
	}
	return outTs, outCl
}

// monthlyCloses buckets an asset by calendar month. When a month has several
// points (Yahoo appends the live bar mid-month) the latest one wins.
func monthlyCloses(asset AssetData) map[time.Time]float64 {
	type bar struct {
		ts    int64
		price float64
	}
	latest := make(map[time.Time]bar, len(asset.Timestamps))
	for i, ts := range asset.Timestamps {
		if i >= len(asset.Prices) {
			break
		}
		key := model.MonthKey(time.Unix(ts, 0))
		if cur, ok := latest[key]; ok && cur.ts > ts {
			continue
		}
		latest[key] = bar{ts: ts, price: asset.Prices[i]}
	}
	out := make(map[time.Time]float64, len(latest))
	for k, b := range latest {
		out[k] = b.price
	}
	return out
}

// sortedMonths returns the keys of m in chronological order.
func sortedMonths(m map[time.Time]float64) []time.Time {
	out := make([]time.Time, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
