package finance

import (
	"fmt"

	"btcEthDCA/internal/model"
)

// alignMonthly inner-joins two assets on calendar month, dropping any month
// that either asset is missing.
func alignMonthly(a, b AssetData) (model.PriceSeries, error) {
	if len(a.Timestamps) == 0 {
		return model.PriceSeries{}, fmt.Errorf("no data available for %s", a.Symbol)
	}
	if len(b.Timestamps) == 0 {
		return model.PriceSeries{}, fmt.Errorf("no data available for %s", b.Symbol)
	}

	ma := monthlyCloses(a)
	mb := monthlyCloses(b)

	series := model.PriceSeries{AssetA: a.Symbol, AssetB: b.Symbol}
	for _, month := range sortedMonths(ma) {
		pb, ok := mb[month]
		if !ok {
			continue
		}
		series.Points = append(series.Points, model.PricePoint{Time: month, A: ma[month], B: pb})
	}
	if len(series.Points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("no overlapping months for %s and %s", a.Symbol, b.Symbol)
	}
	return series, nil
}
