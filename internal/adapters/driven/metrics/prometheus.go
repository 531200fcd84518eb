// Package metrics records search engine behaviour as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// Ensure Prometheus implements the interface.
var _ driven.SearchMetrics = (*Prometheus)(nil)

const namespace = "quickfind"

// Prometheus implements driven.SearchMetrics with Prometheus collectors.
type Prometheus struct {
	cacheTotal    *prometheus.CounterVec
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	staleTotal    *prometheus.CounterVec
}

// NewPrometheus creates the search collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Search cache lookups by category and result",
			},
			[]string{"category", "result"}, // "hit" / "miss"
		),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Category fetches by outcome",
			},
			[]string{"category", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Category fetch duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"category"},
		),
		staleTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_results_total",
				Help:      "Fetch results discarded because a newer query superseded them",
			},
			[]string{"category"},
		),
	}

	reg.MustRegister(p.cacheTotal, p.fetchTotal, p.fetchDuration, p.staleTotal)
	return p
}

// CacheLookup records a cache hit or miss.
func (p *Prometheus) CacheLookup(category domain.Category, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheTotal.WithLabelValues(string(category), result).Inc()
}

// FetchCompleted records a finished fetch.
func (p *Prometheus) FetchCompleted(category domain.Category, duration time.Duration, err error) {
	p.fetchDuration.WithLabelValues(string(category)).Observe(duration.Seconds())
	p.fetchTotal.WithLabelValues(string(category), fetchStatus(err)).Inc()
}

// StaleDiscarded records a result dropped by the generation guard.
func (p *Prometheus) StaleDiscarded(category domain.Category) {
	p.staleTotal.WithLabelValues(string(category)).Inc()
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrFetchPanicked):
		return "panic"
	default:
		return "error"
	}
}
