package finance

import (
	"time"
)

// yahooChartResp mirrors Yahoo v8 chart response (trimmed to needed fields)
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSparkResp mirrors Yahoo v7 spark fallback (trimmed)
type yahooSparkResp struct {
	Spark struct {
		Result []struct {
			Symbol   string `json:"symbol"`
			Response []struct {
				Timestamp []int64   `json:"timestamp"`
				Close     []float64 `json:"close"`
			} `json:"response"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"spark"`
}

// AssetData represents monthly closes for a single asset
type AssetData struct {
	Symbol     string
	Timestamps []int64
	Prices     []float64
}

// Chart image cache entry
type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

// DefaultChartCacheTTL bounds how long a rendered comparison is reused. Monthly data moves slowly.
const DefaultChartCacheTTL = time.Hour
