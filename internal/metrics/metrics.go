package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus collectors for the price provider and simulations.
type Registry struct {
	reg *prometheus.Registry

	FetchRequests  *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	Simulations    *prometheus.CounterVec
	SimulatedMonth prometheus.Gauge
	ChartCacheHits *prometheus.CounterVec
}

// New creates a Registry with every collector registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		FetchRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_yahoo_requests_total",
				Help: "Yahoo Finance requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dca_yahoo_request_duration_seconds",
				Help:    "Duration of Yahoo Finance requests",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint"},
		),
		Simulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_simulations_total",
				Help: "Simulation runs by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		SimulatedMonth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dca_last_simulation_months",
				Help: "Number of monthly points in the last successful simulation",
			},
		),
		ChartCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dca_chart_cache_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"result"},
		),
	}
	r.reg.MustRegister(r.FetchRequests, r.FetchDuration, r.Simulations, r.SimulatedMonth, r.ChartCacheHits)
	return r
}

// ObserveFetch records one Yahoo request. Safe on a nil Registry.
func (r *Registry) ObserveFetch(endpoint string, start time.Time, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.FetchRequests.WithLabelValues(endpoint, result).Inc()
	r.FetchDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// ObserveSimulation records one simulation run. Safe on a nil Registry.
func (r *Registry) ObserveSimulation(trigger string, months int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.Simulations.WithLabelValues(trigger, "error").Inc()
		return
	}
	r.Simulations.WithLabelValues(trigger, "ok").Inc()
	r.SimulatedMonth.Set(float64(months))
}

// ObserveCache records a chart cache lookup. Safe on a nil Registry.
func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.ChartCacheHits.WithLabelValues("hit").Inc()
		return
	}
	r.ChartCacheHits.WithLabelValues("miss").Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
