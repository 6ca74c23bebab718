// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/himmu2625/baithkaGhar-sub009/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the engine default and the base that partial
// collectors embed.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAssignment discards the metric.
func (n *NopMetrics) RecordAssignment(_ /* method */ string, _ /* duration */ float64) {}

// RecordAssignmentFailure discards the metric.
func (n *NopMetrics) RecordAssignmentFailure(_ /* reason */ string) {}

// RecordFallbackSearch discards the metric.
func (n *NopMetrics) RecordFallbackSearch(_ /* found */ bool) {}

// RecordReservationConflict discards the metric.
func (n *NopMetrics) RecordReservationConflict() {}

// RecordProviderFetch discards the metric.
func (n *NopMetrics) RecordProviderFetch(_ /* success */ bool, _ /* duration */ float64) {}

// RecordProviderRetry discards the metric.
func (n *NopMetrics) RecordProviderRetry() {}

// RecordDegradedFetch discards the metric.
func (n *NopMetrics) RecordDegradedFetch() {}

// RecordNotification discards the metric.
func (n *NopMetrics) RecordNotification(_ /* channel */ string, _ /* delivered */ bool) {}

// RecordQueueDepth discards the metric.
func (n *NopMetrics) RecordQueueDepth(_ /* depth */ int) {}

// RecordQueueDrain discards the metric.
func (n *NopMetrics) RecordQueueDrain(_ /* processed */, _ /* failed */ int) {}
