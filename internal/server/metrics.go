package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/songrec/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server instance.
//
// Collectors live in their own registry so several servers (and tests) can coexist in a process.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts recommendation requests by outcome (ok, empty, invalid, error).
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks end-to-end latency of recommendation requests.
	RequestDuration prometheus.Histogram

	// VideoResolutionsTotal counts link resolutions by result (confirmed, unresolved).
	VideoResolutionsTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts every routed HTTP request.
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the service collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songrec_requests_total",
				Help: "Total number of recommendation requests by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "songrec_request_duration_seconds",
				Help: "Duration of recommendation requests in seconds",
				// Model calls dominate; a full request takes seconds.
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
		),
		VideoResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songrec_video_resolutions_total",
				Help: "Total number of video link resolutions by result",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songrec_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// RecordRequest records a finished recommendation request.
func (m *Metrics) RecordRequest(status int, err error, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(outcomeLabel(status, err)).Inc()
	m.RequestDuration.Observe(duration.Seconds())
}

// RecordResolution records one finished video link resolution.
func (m *Metrics) RecordResolution(resolved bool) {
	result := "unresolved"
	if resolved {
		result = "confirmed"
	}
	m.VideoResolutionsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by method, path and status.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
	})
}

func outcomeLabel(status int, err error) string {
	switch {
	case status == http.StatusOK:
		return "ok"
	case errors.Is(err, shared.ErrEmptyInput):
		return "empty"
	case errors.Is(err, shared.ErrInvalidSong), status < http.StatusInternalServerError:
		return "invalid"
	default:
		return "error"
	}
}
