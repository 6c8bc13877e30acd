package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Generation
	GenerationsTotal       *prometheus.CounterVec
	GenerationRetriesTotal *prometheus.CounterVec

	// Rendering
	RenderStageDuration *prometheus.HistogramVec
	RenderFailuresTotal *prometheus.CounterVec

	ValidationFailures *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get creates and registers the metrics on first use.
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chordgen_http_requests_total",
					Help: "Total HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "chordgen_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "path"},
			),
			GenerationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chordgen_generations_total",
					Help: "Total generated progressions",
				},
				[]string{"mood"},
			),
			GenerationRetriesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chordgen_generation_retries_total",
					Help: "Progressions discarded for repeating the previous one",
				},
				[]string{"mood"},
			),
			RenderStageDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "chordgen_render_stage_duration_seconds",
					Help:    "Render stage duration in seconds",
					Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
				},
				[]string{"stage"},
			),
			RenderFailuresTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chordgen_render_failures_total",
					Help: "Total failed renders",
				},
				[]string{"stage"},
			),
			ValidationFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chordgen_validation_failures_total",
					Help: "Total rejected render options",
				},
				[]string{"field"},
			),
		}
	})
	return instance
}

func RecordGeneration(mood string, retries int) {
	m := Get()
	m.GenerationsTotal.WithLabelValues(mood).Inc()
	if retries > 0 {
		m.GenerationRetriesTotal.WithLabelValues(mood).Add(float64(retries))
	}
}

// ObserveStage records the time since start against stage.
func ObserveStage(stage string, start time.Time) {
	Get().RenderStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func RecordRenderFailure(stage string) {
	Get().RenderFailuresTotal.WithLabelValues(stage).Inc()
}

func RecordValidationFailure(field string) {
	Get().ValidationFailures.WithLabelValues(field).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests per route template.
func Middleware(next http.Handler) http.Handler {
	m := Get()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
