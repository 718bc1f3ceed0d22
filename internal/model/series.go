package model

import "time"

// PricePoint is one monthly close for both assets.
type PricePoint struct {
	Time time.Time // first instant of the month, UTC
	A    float64
	B    float64
}

// PriceSeries holds two aligned monthly close series, oldest first.
type PriceSeries struct {
	AssetA string
	AssetB string
	Points []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// PricesA returns the asset A closes in series order.
func (s PriceSeries) PricesA() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.A
	}
	return out
}

// PricesB returns the asset B closes in series order.
func (s PriceSeries) PricesB() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.B
	}
	return out
}

// Times returns the point timestamps in series order.
func (s PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// MonthKey truncates t to the first instant of its calendar month in UTC.
func MonthKey(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
