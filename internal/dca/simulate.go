package dca

import (
	"fmt"
	"math"

	"btcEthDCA/internal/model"
)

// DefaultMonthlyBudget is the USD amount invested every month.
const DefaultMonthlyBudget = 500.0

// Params configures a simulation run.
type Params struct {
	MonthlyBudget float64
	SupplyRatio   float64
}

// DefaultParams returns the budget and supply ratio used when none are configured.
func DefaultParams() Params {
	return Params{MonthlyBudget: DefaultMonthlyBudget, SupplyRatio: DefaultSupplyRatio}
}

// Holding is the cumulative quantity owned of each asset.
type Holding struct {
	A float64
	B float64
}

// Value prices the holding at the given closes.
func (h Holding) Value(priceA, priceB float64) float64 {
	return h.A*priceA + h.B*priceB
}

// StrategyRun is the full path of one strategy over the series.
type StrategyRun struct {
	Strategy Strategy
	Weights  []Weights
	Holdings []Holding // after each month's purchase
	Values   []float64 // USD value after each month's purchase
}

// Final returns the holding after the last month.
func (r *StrategyRun) Final() Holding {
	if len(r.Holdings) == 0 {
		return Holding{}
	}
	return r.Holdings[len(r.Holdings)-1]
}

// FinalValue returns the portfolio value after the last month.
func (r *StrategyRun) FinalValue() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1]
}

// Result is the output of Simulate.
type Result struct {
	Series model.PriceSeries
	Params Params
	ATHA   []float64
	ATHB   []float64
	Runs   []*StrategyRun // in Strategies order
}

// Run returns the path for s, or nil if s was not simulated.
func (r *Result) Run(s Strategy) *StrategyRun {
	for _, run := range r.Runs {
		if run.Strategy == s {
			return run
		}
	}
	return nil
}

// TotalInvested is the budget times the number of months.
func (r *Result) TotalInvested() float64 {
	return r.Params.MonthlyBudget * float64(r.Series.Len())
}

// ROI returns final value over total invested minus one for s.
func (r *Result) ROI(s Strategy) float64 {
	run := r.Run(s)
	invested := r.TotalInvested()
	if run == nil || invested <= 0 {
		return 0
	}
	return run.FinalValue()/invested - 1
}

// Validate checks the preconditions of Simulate.
func Validate(series model.PriceSeries) error {
	if series.Len() < MinPoints {
		return &InsufficientDataError{Got: series.Len(), Min: MinPoints}
	}
	for i, p := range series.Points {
		if !PositiveFinite(p.A) {
			return &InvalidPriceError{Index: i, Asset: assetName(series.AssetA, "A"), Price: p.A}
		}
		if !PositiveFinite(p.B) {
			return &InvalidPriceError{Index: i, Asset: assetName(series.AssetB, "B"), Price: p.B}
		}
		if i > 0 && !p.Time.After(series.Points[i-1].Time) {
			return &NonMonotonicError{Index: i}
		}
	}
	return nil
}

// Simulate runs every strategy in Strategies over series.
func Simulate(series model.PriceSeries, params Params) (*Result, error) {
	return SimulateStrategies(series, params, Strategies)
}

// SimulateStrategies runs the given strategies in lockstep over series.
// Strategies keep separate holdings, so their order does not affect the result.
func SimulateStrategies(series model.PriceSeries, params Params, strategies []Strategy) (*Result, error) {
	if !PositiveFinite(params.MonthlyBudget) {
		return nil, fmt.Errorf("monthly budget must be a positive finite number, got %v", params.MonthlyBudget)
	}
	if !PositiveFinite(params.SupplyRatio) {
		return nil, fmt.Errorf("supply ratio must be a positive finite number, got %v", params.SupplyRatio)
	}
	if err := Validate(series); err != nil {
		return nil, err
	}

	n := series.Len()
	pricesA, pricesB := series.PricesA(), series.PricesB()
	res := &Result{
		Series: series,
		Params: params,
		ATHA:   RunningMax(pricesA),
		ATHB:   RunningMax(pricesB),
	}

	holdings := make([]Holding, len(strategies))
	for _, s := range strategies {
		res.Runs = append(res.Runs, &StrategyRun{
			Strategy: s,
			Weights:  make([]Weights, 0, n),
			Holdings: make([]Holding, 0, n),
			Values:   make([]float64, 0, n),
		})
	}

	for i := 0; i < n; i++ {
		m := Market{
			PriceA:      pricesA[i],
			PriceB:      pricesB[i],
			ATHA:        res.ATHA[i],
			ATHB:        res.ATHB[i],
			SupplyRatio: params.SupplyRatio,
		}
		for j, run := range res.Runs {
			w := run.Strategy.Weights(m)
			h := &holdings[j]
			h.A += params.MonthlyBudget * w.A / m.PriceA
			h.B += params.MonthlyBudget * w.B / m.PriceB

			run.Weights = append(run.Weights, w)
			run.Holdings = append(run.Holdings, *h)
			run.Values = append(run.Values, h.Value(m.PriceA, m.PriceB))
		}
	}
	return res, nil
}

// PositiveFinite reports whether v is usable as a price, budget or supply ratio.
// NaN and ±Inf are rejected.
func PositiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func assetName(symbol, fallback string) string {
	if symbol == "" {
		return fallback
	}
	return symbol
}
