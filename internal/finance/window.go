package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultYears is the default lookback for the monthly download.
const DefaultYears = 5

// MaxYears caps the lookback accepted from users.
const MaxYears = 10

// Lookback returns the [start, end] download window ending at now.
// A year is 365 days, so five years reaches back 1825 days.
func Lookback(years int, now time.Time) (time.Time, time.Time) {
	if years <= 0 {
		years = DefaultYears
	}
	return now.Add(-time.Duration(years) * 365 * 24 * time.Hour), now
}

// ParseYears accepts "5", "5y" or "5Y" and returns the year count.
func ParseYears(s string) (int, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "y")
	if s == "" {
		return DefaultYears, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid years %q (use a number like 5 or 5y)", s)
	}
	if n < 1 || n > MaxYears {
		return 0, fmt.Errorf("years must be between 1 and %d, got %d", MaxYears, n)
	}
	return n, nil
}

// sparkRange maps a window onto the coarse Yahoo range parameter used by the spark fallback.
func sparkRange(start, end time.Time) string {
	days := int(end.Sub(start).Hours() / 24)
	yearNum := (days + 364) / 365
	switch {
	case yearNum <= 1:
		return "1y"
	case yearNum <= 2:
		return "2y"
	case yearNum <= 5:
		return "5y"
	case yearNum <= 10:
		return "10y"
	default:
		return "max"
	}
}
