package finance

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"btcEthDCA/internal/dca"
)

// FormatRange describes the span of the aligned series.
func FormatRange(res *dca.Result) string {
	pts := res.Series.Points
	if len(pts) == 0 {
		return "Got 0 monthly data points"
	}
	return fmt.Sprintf("Got %d monthly data points from %s to %s",
		len(pts), pts[0].Time.Format("2006-01"), pts[len(pts)-1].Time.Format("2006-01"))
}

// FormatSummary renders total invested and one ROI line per strategy.
func FormatSummary(res *dca.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total invested: %s over %d months\n", usd(res.TotalInvested()), res.Series.Len()))
	for _, s := range dca.Summarize(res) {
		b.WriteString(fmt.Sprintf("%-25s → %s   |   ROI %+.1f%%   |   MaxDD %.1f%%\n",
			s.Strategy.Label(), usd(s.FinalValue), s.ROI*100, s.MaxDrawdown*100))
	}
	return b.String()
}

// FormatReport is the range line followed by the summary, as printed by the CLI.
func FormatReport(res *dca.Result) string {
	return FormatRange(res) + "\n\n" + FormatSummary(res)
}

// usd formats v as whole dollars with thousands separators.
func usd(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}
