package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blas_bench"

// Metrics holds the collectors exposed on /metrics by the results API.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RunsServed   prometheus.Counter
	ResultGFLOPS *prometheus.GaugeVec
	ResultAvgMs  *prometheus.GaugeVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.RunsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_served_total",
			Help:      "Total number of benchmark reports served",
		},
	)

	resultLabels := []string{"backend", "precision", "level", "function", "config", "threads"}

	m.ResultGFLOPS = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_gflops",
			Help:      "Throughput of the most recently served result per function and size",
		},
		resultLabels,
	)

	m.ResultAvgMs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_avg_milliseconds",
			Help:      "Mean latency of the most recently served result per function and size",
		},
		resultLabels,
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RunsServed,
		m.ResultGFLOPS,
		m.ResultAvgMs,
	)

	return m
}

// ObserveReport publishes every result of a served report.
func (m *Metrics) ObserveReport(r *domain.BenchmarkReport) {
	m.RunsServed.Inc()
	for _, res := range r.Results() {
		labels := prometheus.Labels{
			"backend":   r.Backend,
			"precision": r.Precision,
			"level":     strconv.Itoa(res.Level),
			"function":  res.Name,
			"config":    res.Config,
			"threads":   strconv.Itoa(res.Threads),
		}
		m.ResultGFLOPS.With(labels).Set(res.GFLOPS)
		m.ResultAvgMs.With(labels).Set(res.AvgMs)
	}
}

// Middleware records request counts and latency per route. It must run
// outside any middleware that renders errors so the final status is seen.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
