package dca

// Summary holds the end-of-run figures for one strategy.
type Summary struct {
	Strategy      Strategy
	Months        int
	TotalInvested float64
	FinalValue    float64
	ROI           float64 // fraction, 0.25 == +25%
	MaxDrawdown   float64 // fraction of the running peak value
	Final         Holding
}

// Summarize returns one Summary per simulated strategy, in run order.
func Summarize(res *Result) []Summary {
	if res == nil {
		return nil
	}
	invested := res.TotalInvested()
	out := make([]Summary, 0, len(res.Runs))
	for _, run := range res.Runs {
		out = append(out, Summary{
			Strategy:      run.Strategy,
			Months:        len(run.Values),
			TotalInvested: invested,
			FinalValue:    run.FinalValue(),
			ROI:           res.ROI(run.Strategy),
			MaxDrawdown:   MaxDrawdown(run.Values),
			Final:         run.Final(),
		})
	}
	return out
}

// MaxDrawdown is the largest peak-to-trough decline of values as a fraction of the peak.
// Contributions keep arriving, so this understates the drawdown of the invested capital.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	maxDrawdown := 0.0
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 && v >= 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}
