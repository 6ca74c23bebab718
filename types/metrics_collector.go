package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and safe for concurrent use.
// The interface composes small, domain-focused interfaces.
type MetricsCollector interface {
	AssignmentMetrics
	InventoryMetrics
	NotificationMetrics
	QueueMetrics
}

// AssignmentMetrics covers the orchestrator's outcomes.
type AssignmentMetrics interface {
	// RecordAssignment records a successful assignment.
	//
	// Parameters:
	//   - method: Assignment method ("automatic", "upgraded", "fallback", "manual")
	//   - duration: Time taken in seconds
	RecordAssignment(method string, duration float64)

	// RecordAssignmentFailure records a failed assignment by reason
	// ("no_rooms", "provider", "manual_required", "config", "invalid", "other").
	RecordAssignmentFailure(reason string)

	// RecordFallbackSearch records a fallback window search and whether it found a room.
	RecordFallbackSearch(found bool)

	// RecordReservationConflict records a candidate lost to a concurrent reservation.
	RecordReservationConflict()
}

// InventoryMetrics covers provider access.
type InventoryMetrics interface {
	// RecordProviderFetch records a provider call and its latency in seconds.
	RecordProviderFetch(success bool, duration float64)

	// RecordProviderRetry records a retry after a failed provider call.
	RecordProviderRetry()

	// RecordDegradedFetch records an inventory read served from the last snapshot.
	RecordDegradedFetch()
}

// NotificationMetrics covers dispatcher deliveries.
type NotificationMetrics interface {
	// RecordNotification records a delivery attempt on a channel.
	RecordNotification(channel string, delivered bool)
}

// QueueMetrics covers the deferred request queue.
type QueueMetrics interface {
	// RecordQueueDepth sets the number of pending queue items (gauge).
	RecordQueueDepth(depth int)

	// RecordQueueDrain records the outcome of one drain pass.
	RecordQueueDrain(processed, failed int)
}
