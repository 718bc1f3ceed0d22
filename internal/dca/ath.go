package dca

// RunningMax returns out where out[i] is the maximum of prices[0..i].
func RunningMax(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	peak := prices[0]
	for i, p := range prices {
		if p > peak {
			peak = p
		}
		out[i] = peak
	}
	return out
}
