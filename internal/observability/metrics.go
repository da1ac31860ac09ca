package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Scraping metrics
	QuotesTotal         *prometheus.CounterVec
	PlansParsed         prometheus.Histogram
	ScrapeDuration      *prometheus.HistogramVec
	BrowserSessionsOpen prometheus.Gauge
	CatalogBuildsTotal  *prometheus.CounterVec
	ResolutionMisses    *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance with all Prometheus metrics
// registered
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "quotescout"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		QuotesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Quote submissions by outcome",
			},
			[]string{"outcome"},
		),
		PlansParsed: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plans_parsed",
				Help:      "Plans extracted per quote result page",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
			},
		),
		ScrapeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scrape_duration_seconds",
				Help:      "Duration of remote scraping flows",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
			},
			[]string{"flow"},
		),
		BrowserSessionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "browser_sessions_open",
				Help:      "Browser sessions currently open",
			},
		),
		CatalogBuildsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_builds_total",
				Help:      "Catalog rebuilds by outcome",
			},
			[]string{"outcome"},
		),
		ResolutionMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolution_misses_total",
				Help:      "Catalog resolution misses by field",
			},
			[]string{"field"},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one HTTP request
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveScrape records one scraping flow
func (m *Metrics) ObserveScrape(flow string, duration time.Duration) {
	m.ScrapeDuration.WithLabelValues(flow).Observe(duration.Seconds())
}
