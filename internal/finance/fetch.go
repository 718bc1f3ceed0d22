package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"btcEthDCA/internal/metrics"
	"btcEthDCA/internal/model"
)

// Provider supplies two aligned monthly close series.
type Provider interface {
	FetchMonthly(ctx context.Context, symbolA, symbolB string, start, end time.Time) (model.PriceSeries, error)
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// YahooProvider fetches monthly closes from the public Yahoo Finance endpoints.
type YahooProvider struct {
	client   *http.Client
	hosts    []string
	backoffs []time.Duration
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Registry
}

// YahooOption customises a YahooProvider.
type YahooOption func(*YahooProvider)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) YahooOption {
	return func(p *YahooProvider) { p.client = c }
}

// WithHosts replaces the base URLs tried in order, e.g. "https://query1.finance.yahoo.com".
func WithHosts(hosts ...string) YahooOption {
	return func(p *YahooProvider) { p.hosts = hosts }
}

// WithBackoffs replaces the sleep schedule between retry rounds.
func WithBackoffs(b ...time.Duration) YahooOption {
	return func(p *YahooProvider) { p.backoffs = b }
}

// WithRateLimit allows one request per interval with the given burst.
func WithRateLimit(interval time.Duration, burst int) YahooOption {
	return func(p *YahooProvider) {
		if interval <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, burst)
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(interval), burst)
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *metrics.Registry) YahooOption {
	return func(p *YahooProvider) { p.metrics = m }
}

// WithProxy routes requests through proxyURL when it parses.
func WithProxy(proxyURL string) YahooOption {
	return func(p *YahooProvider) {
		if proxyURL == "" {
			return
		}
		u, err := url.Parse(proxyURL)
		if err != nil {
			log.Warn().Err(err).Str("component", "yahoo").Msg("yahoo: ignoring invalid proxy")
			return
		}
		p.client = &http.Client{Timeout: 30 * time.Second, Transport: &http.Transport{Proxy: http.ProxyURL(u)}}
	}
}

// NewYahooProvider returns a provider that tries query1 then query2 with backoff.
func NewYahooProvider(opts ...YahooOption) *YahooProvider {
	p := &YahooProvider{
		client:   &http.Client{Timeout: 30 * time.Second},
		hosts:    []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"},
		backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(120*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "yahoo",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("component", "yahoo").Str("from", from.String()).Str("to", to.String()).Msg("yahoo: circuit breaker state change")
		},
	})
	return p
}

// FetchMonthly downloads both symbols and aligns them by calendar month.
func (p *YahooProvider) FetchMonthly(ctx context.Context, symbolA, symbolB string, start, end time.Time) (model.PriceSeries, error) {
	assets := make([]AssetData, 0, 2)
	for _, symbol := range []string{symbolA, symbolB} {
		ts, prices, err := p.fetchMonthlySeries(ctx, symbol, start, end)
		if err != nil {
			return model.PriceSeries{}, fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}
		if len(ts) == 0 {
			return model.PriceSeries{}, fmt.Errorf("no data available for %s", symbol)
		}
		log.Debug().Str("component", "yahoo").Str("symbol", symbol).Int("points", len(ts)).Msg("yahoo: fetched monthly closes")
		assets = append(assets, AssetData{Symbol: symbol, Timestamps: ts, Prices: prices})
	}
	return alignMonthly(assets[0], assets[1])
}

// fetchMonthlySeries fetches timestamps and monthly close prices for a single symbol.
func (p *YahooProvider) fetchMonthlySeries(ctx context.Context, symbol string, start, end time.Time) ([]int64, []float64, error) {
	var yc yahooChartResp
	lastErr := p.retry(ctx, func(host string) error {
		u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1mo&events=div,splits",
			host, url.PathEscape(symbol), start.Unix(), end.Unix())
		yc = yahooChartResp{}
		if err := p.getJSON(ctx, "chart", symbol, u, &yc); err != nil {
			return err
		}
		if yc.Chart.Error != nil {
			return fmt.Errorf("yahoo api error: %s", yc.Chart.Error.Description)
		}
		return nil
	})
	if lastErr == nil {
		if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
			return nil, nil, errors.New("no data")
		}
		ts := yc.Chart.Result[0].Timestamp
		cl := yc.Chart.Result[0].Indicators.Quote[0].Close
		ts, cl = filterValid(ts, cl)
		return ts, cl, nil
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	// Spark fallback
	log.Warn().Err(lastErr).Str("component", "yahoo").Str("symbol", symbol).Msg("yahoo: chart endpoint failed, trying spark")
	var ts []int64
	var cl []float64
	sparkErr := p.retry(ctx, func(host string) error {
		u := fmt.Sprintf("%s/v7/finance/spark?symbols=%s&range=%s&interval=1mo",
			host, url.QueryEscape(strings.ToUpper(symbol)), sparkRange(start, end))
		var sp yahooSparkResp
		if err := p.getJSON(ctx, "spark", symbol, u, &sp); err != nil {
			return err
		}
		if len(sp.Spark.Result) == 0 || len(sp.Spark.Result[0].Response) == 0 {
			return errors.New("yahoo spark returned no series")
		}
		ts, cl = filterValid(sp.Spark.Result[0].Response[0].Timestamp, sp.Spark.Result[0].Response[0].Close)
		return nil
	})
	if sparkErr != nil {
		return nil, nil, sparkErr
	}
	ts, cl = clipWindow(ts, cl, start, end)
	return ts, cl, nil
}

// retry calls fn against each host until one succeeds, sleeping through the
// backoff schedule between rounds. It returns the last error seen.
func (p *YahooProvider) retry(ctx context.Context, fn func(host string) error) error {
	var lastErr error
	for attempt := 0; attempt < len(p.backoffs)+1; attempt++ {
		for _, host := range p.hosts {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
			_, err := p.breaker.Execute(func() (interface{}, error) {
				return nil, fn(host)
			})
			if err == nil {
				return nil
			}
			lastErr = err
		}
		if attempt < len(p.backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoffs[attempt]):
			}
		}
	}
	return lastErr
}

// getJSON performs one GET and decodes a JSON body into v, rejecting the
// throttling and HTML pages Yahoo serves with a 200 status.
func (p *YahooProvider) getJSON(ctx context.Context, endpoint, symbol, u string, v any) (err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveFetch(endpoint, start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(symbol)))
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("failed to read yahoo %s response: %w", endpoint, readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", req.URL.Host)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo %s %s returned %d: %s", req.URL.Host, endpoint, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse yahoo %s json: %v; body: %s", endpoint, err, preview(body))
	}
	return nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// clipWindow keeps points whose timestamp falls inside [start, end].
func clipWindow(ts []int64, cl []float64, start, end time.Time) ([]int64, []float64) {
	lo := model.MonthKey(start).Unix()
	hi := end.Unix()
	outTs := make([]int64, 0, len(ts))
	outCl := make([]float64, 0, len(cl))
	for i, t := range ts {
		if t < lo || t > hi {
			continue
		}
		outTs = append(outTs, t)
		outCl = append(outCl, cl[i])
	}
	return outTs, outCl
}
