package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// generation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationRuns     *prometheus.CounterVec
	generationDuration prometheus.Observer
	coursesPlaced      prometheus.Counter
	coursesUnplaced    prometheus.Counter
	conflictChecks     prometheus.Counter
	conflictsFound     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Timetable generation runs by outcome",
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Wall time of timetable generation runs",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	coursesPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_courses_placed_total",
		Help: "Courses successfully placed across all runs",
	})

	coursesUnplaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_courses_unplaced_total",
		Help: "Courses the generator failed to place across all runs",
	})

	conflictChecks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_conflict_checks_total",
		Help: "Conflict detection passes over persisted schedules",
	})

	conflictsFound := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_conflicts_found_total",
		Help: "Conflicts reported by the detector",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, generationRuns, generationDuration, coursesPlaced, coursesUnplaced, conflictChecks, conflictsFound, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generationRuns:     generationRuns,
		generationDuration: generationDuration,
		coursesPlaced:      coursesPlaced,
		coursesUnplaced:    coursesUnplaced,
		conflictChecks:     conflictChecks,
		conflictsFound:     conflictsFound,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveRequest records one HTTP request.
func (m *MetricsService) ObserveRequest(method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

// ObserveGeneration records one generation run.
func (m *MetricsService) ObserveGeneration(placed, unplaced int, duration time.Duration) {
	outcome := "complete"
	if unplaced > 0 {
		outcome = "partial"
	}
	m.generationRuns.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(duration.Seconds())
	m.coursesPlaced.Add(float64(placed))
	m.coursesUnplaced.Add(float64(unplaced))
}

// ObserveConflictCheck records one detector pass and its findings.
func (m *MetricsService) ObserveConflictCheck(conflicts int) {
	m.conflictChecks.Inc()
	m.conflictsFound.Add(float64(conflicts))
}
