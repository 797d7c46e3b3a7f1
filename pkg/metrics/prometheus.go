// Package metrics provides Prometheus metrics for the scopebot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Game API client
	apiCalls       *prometheus.CounterVec
	apiErrors      *prometheus.CounterVec
	apiRateLimited prometheus.Counter
	apiRemaining   prometheus.Gauge

	// Eligibility sweep
	sweepCycles     prometheus.Counter
	sweepErrors     prometheus.Counter
	sweepDuration   prometheus.Histogram
	eligibleMembers prometheus.Counter

	// Notification delivery
	notificationsSent   prometheus.Counter
	notificationsFailed prometheus.Counter

	// Assignment reports
	assignmentReports   prometheus.Counter
	assignmentsProposed prometheus.Counter

	// Spreadsheet reads
	sheetFetches  *prometheus.CounterVec
	sheetErrors   *prometheus.CounterVec
	malformedRows prometheus.Counter

	// HTTP command API
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scopebot",
		subsystem:        "faction",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.apiCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_calls_total",
			Help:      "Total number of game API calls by endpoint",
		},
		[]string{"endpoint"},
	)

	m.apiErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_errors_total",
			Help:      "Total number of failed game API calls by endpoint",
		},
		[]string{"endpoint"},
	)

	m.apiRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_rate_limited_total",
		Help:      "Total number of game API calls skipped by the rate limiter",
	})

	m.apiRemaining = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "api_window_remaining",
		Help:      "Calls the rate-limit window would still admit",
	})

	m.sweepCycles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_cycles_total",
		Help:      "Total number of completed eligibility sweep cycles",
	})

	m.sweepErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_errors_total",
		Help:      "Total number of sweep cycles skipped due to data-source failure",
	})

	m.sweepDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sweep_duration_milliseconds",
		Help:      "Histogram of eligibility sweep duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.eligibleMembers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eligible_members_total",
		Help:      "Total number of positive tier suggestions produced by sweeps",
	})

	m.notificationsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered",
	})

	m.notificationsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_failed_total",
		Help:      "Total number of notifications that could not be delivered",
	})

	m.assignmentReports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignment_reports_total",
		Help:      "Total number of on-demand role-assignment reports",
	})

	m.assignmentsProposed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_proposed_total",
		Help:      "Total number of member-to-role pairings proposed by reports",
	})

	m.sheetFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sheet_fetches_total",
			Help:      "Total number of spreadsheet tab reads by tab",
		},
		[]string{"tab"},
	)

	m.sheetErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "sheet_errors_total",
			Help:      "Total number of failed spreadsheet reads by tab",
		},
		[]string{"tab"},
	)

	m.malformedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_rows_total",
		Help:      "Total number of spreadsheet cells coerced to a default value",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordAPICall increments the call counter for an endpoint.
func RecordAPICall(endpoint string) {
	globalManager.apiCalls.WithLabelValues(endpoint).Inc()
}

// RecordAPIError increments the error counter for an endpoint.
func RecordAPIError(endpoint string) {
	globalManager.apiErrors.WithLabelValues(endpoint).Inc()
}

// RecordAPIRateLimited counts a call skipped by the limiter.
func RecordAPIRateLimited() {
	globalManager.apiRateLimited.Inc()
}

// UpdateAPIRemaining sets the remaining-calls gauge.
func UpdateAPIRemaining(n int) {
	globalManager.apiRemaining.Set(float64(n))
}

// RecordSweep counts a completed sweep and its duration.
func RecordSweep(durationMs float64) {
	globalManager.sweepCycles.Inc()
	globalManager.sweepDuration.Observe(durationMs)
}

// RecordSweepError counts a sweep skipped on data-source failure.
func RecordSweepError() {
	globalManager.sweepErrors.Inc()
}

// RecordEligibleMember counts a positive tier suggestion.
func RecordEligibleMember() {
	globalManager.eligibleMembers.Inc()
}

// RecordNotification counts a delivery attempt by outcome.
func RecordNotification(delivered bool) {
	if delivered {
		globalManager.notificationsSent.Inc()
		return
	}
	globalManager.notificationsFailed.Inc()
}

// RecordAssignmentReport counts one report and the pairings it proposed.
func RecordAssignmentReport(proposed int) {
	globalManager.assignmentReports.Inc()
	globalManager.assignmentsProposed.Add(float64(proposed))
}

// RecordSheetFetch counts a tab read by outcome.
func RecordSheetFetch(tab string, err error) {
	if err != nil {
		globalManager.sheetErrors.WithLabelValues(tab).Inc()
		return
	}
	globalManager.sheetFetches.WithLabelValues(tab).Inc()
}

// RecordMalformedRow counts a cell coerced to its default.
func RecordMalformedRow() {
	globalManager.malformedRows.Inc()
}

// RecordHTTPRequest records basic HTTP request metrics.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration metrics.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
