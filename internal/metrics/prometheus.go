package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing one has no
// side effect on the registry until the engine records something.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments          *prometheus.CounterVec
	assignmentDuration   *prometheus.HistogramVec
	assignmentFailures   *prometheus.CounterVec
	fallbackSearches     *prometheus.CounterVec
	reservationConflicts prometheus.Counter
	providerFetches      *prometheus.CounterVec
	providerLatency      prometheus.Histogram
	providerRetries      prometheus.Counter
	degradedFetches      prometheus.Counter
	notifications        *prometheus.CounterVec
	queueDepth           prometheus.Gauge
	queueItems           *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace ("roomassign" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roomassign"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignments_total",
			Help:      "Total successful room assignments by method.",
		}, []string{"method"})
		p.assignmentDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignment_duration_seconds",
			Help:      "Latency of successful assignments by method.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		}, []string{"method"})
		p.assignmentFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "assignment_failures_total",
			Help:      "Total failed assignments by reason.",
		}, []string{"reason"})
		p.fallbackSearches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "fallback_searches_total",
			Help:      "Fallback window searches by outcome (found, empty).",
		}, []string{"outcome"})
		p.reservationConflicts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "engine",
			Name:      "reservation_conflicts_total",
			Help:      "Candidates lost to a concurrent reservation.",
		})

		p.providerFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "inventory",
			Name:      "fetches_total",
			Help:      "Inventory provider calls by result (success, failure).",
		}, []string{"result"})
		p.providerLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "inventory",
			Name:      "fetch_latency_seconds",
			Help:      "Inventory provider call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		})
		p.providerRetries = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "inventory",
			Name:      "retries_total",
			Help:      "Inventory provider retries.",
		})
		p.degradedFetches = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "inventory",
			Name:      "degraded_fetches_total",
			Help:      "Inventory reads served from the last-known snapshot.",
		})

		p.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Notification delivery attempts by channel and outcome.",
		}, []string{"channel", "delivered"})

		p.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Pending deferred assignment requests.",
		})
		p.queueItems = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "items_total",
			Help:      "Queue items drained by result (processed, failed).",
		}, []string{"result"})

		p.reg.MustRegister(
			p.assignments, p.assignmentDuration, p.assignmentFailures, p.fallbackSearches,
			p.reservationConflicts, p.providerFetches, p.providerLatency, p.providerRetries,
			p.degradedFetches, p.notifications, p.queueDepth, p.queueItems,
		)
	})
}

// RecordAssignment counts a successful assignment and observes its latency.
func (p *PrometheusCollector) RecordAssignment(method string, duration float64) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(method).Inc()
	p.assignmentDuration.WithLabelValues(method).Observe(duration)
}

// RecordAssignmentFailure counts a failed assignment.
func (p *PrometheusCollector) RecordAssignmentFailure(reason string) {
	p.ensureRegistered()
	p.assignmentFailures.WithLabelValues(reason).Inc()
}

// RecordFallbackSearch counts a fallback search by outcome.
func (p *PrometheusCollector) RecordFallbackSearch(found bool) {
	p.ensureRegistered()
	outcome := "empty"
	if found {
		outcome = "found"
	}
	p.fallbackSearches.WithLabelValues(outcome).Inc()
}

// RecordReservationConflict counts a lost reservation race.
func (p *PrometheusCollector) RecordReservationConflict() {
	p.ensureRegistered()
	p.reservationConflicts.Inc()
}

// RecordProviderFetch counts a provider call and observes its latency.
func (p *PrometheusCollector) RecordProviderFetch(success bool, duration float64) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.providerFetches.WithLabelValues(result).Inc()
	p.providerLatency.Observe(duration)
}

// RecordProviderRetry counts a provider retry.
func (p *PrometheusCollector) RecordProviderRetry() {
	p.ensureRegistered()
	p.providerRetries.Inc()
}

// RecordDegradedFetch counts a snapshot read.
func (p *PrometheusCollector) RecordDegradedFetch() {
	p.ensureRegistered()
	p.degradedFetches.Inc()
}

// RecordNotification counts a delivery attempt.
func (p *PrometheusCollector) RecordNotification(channel string, delivered bool) {
	p.ensureRegistered()
	p.notifications.WithLabelValues(channel, strconv.FormatBool(delivered)).Inc()
}

// RecordQueueDepth sets the queue depth gauge.
func (p *PrometheusCollector) RecordQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Set(float64(depth))
}

// RecordQueueDrain counts drained queue items.
func (p *PrometheusCollector) RecordQueueDrain(processed, failed int) {
	p.ensureRegistered()
	p.queueItems.WithLabelValues("processed").Add(float64(processed))
	p.queueItems.WithLabelValues("failed").Add(float64(failed))
}
