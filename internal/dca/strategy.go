package dca

// athEpsilon keeps the ATH-distance denominator away from zero.
const athEpsilon = 1e-12

// DefaultSupplyRatio approximates ETH circulating supply over BTC circulating supply.
const DefaultSupplyRatio = 120_000_000.0 / 19_700_000.0

// Strategy is one of the three allocation rules.
type Strategy int

const (
	StrategyATH Strategy = iota
	StrategyMarketCap
	StrategyEqualWeight
)

// Strategies lists every strategy in report order.
var Strategies = []Strategy{StrategyATH, StrategyMarketCap, StrategyEqualWeight}

// String returns the short code used in logs and cache keys.
func (s Strategy) String() string {
	switch s {
	case StrategyATH:
		return "ATH"
	case StrategyMarketCap:
		return "MC"
	case StrategyEqualWeight:
		return "EQ"
	default:
		return "UNKNOWN"
	}
}

// Label returns the display name used in charts and summaries.
func (s Strategy) Label() string {
	switch s {
	case StrategyATH:
		return "ATH Strategy"
	case StrategyMarketCap:
		return "Market Cap Strategy"
	case StrategyEqualWeight:
		return "Equal Weight (50/50)"
	default:
		return "Unknown"
	}
}

// Weights is a budget split between asset A and asset B.
type Weights struct {
	A float64
	B float64
}

// Market is what a strategy sees at one step.
type Market struct {
	PriceA      float64
	PriceB      float64
	ATHA        float64
	ATHB        float64
	SupplyRatio float64
}

// Weights returns the split for m. The result is non-negative and sums to 1.
func (s Strategy) Weights(m Market) Weights {
	switch s {
	case StrategyATH:
		return athDistanceWeights(m.PriceA, m.ATHA, m.PriceB, m.ATHB)
	case StrategyMarketCap:
		return marketCapWeights(m.PriceA, m.PriceB, m.SupplyRatio)
	default:
		return Weights{A: 0.5, B: 0.5}
	}
}

// athDistanceWeights favours the asset trading further below its own peak.
func athDistanceWeights(priceA, athA, priceB, athB float64) Weights {
	distA := 1 - priceA/athA
	distB := 1 - priceB/athB
	total := distA + distB
	if total <= athEpsilon {
		// both at their ATH
		return Weights{A: 0.5, B: 0.5}
	}
	wA := distA / (total + athEpsilon)
	return Weights{A: wA, B: 1 - wA}
}

// marketCapWeights splits by approximate market cap using a fixed supply ratio.
func marketCapWeights(priceA, priceB, supplyRatio float64) Weights {
	ratio := priceB * supplyRatio / priceA
	wA := 1 / (1 + ratio)
	return Weights{A: wA, B: 1 - wA}
}
