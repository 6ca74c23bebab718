package types

import "errors"

// Sentinel errors for the room assignment engine.
//
// Check them with errors.Is. Components wrap underlying failures with context using
// fmt.Errorf("%s: %w", msg, err) so the sentinel stays visible.

// Engine errors returned by the public assignment operations.
var (
	// ErrConfigurationUnavailable is returned when the property config is missing or disabled.
	ErrConfigurationUnavailable = errors.New("assignment configuration missing or disabled")

	// ErrManualAssignmentRequired is returned when automation is off and the request is
	// held for staff.
	ErrManualAssignmentRequired = errors.New("manual assignment required")

	// ErrAssignmentQueued is returned when the property defers assignment to the queue.
	ErrAssignmentQueued = errors.New("assignment queued for deferred processing")

	// ErrNoRoomsAvailable is returned when no room scores positively, including after the
	// fallback window search.
	ErrNoRoomsAvailable = errors.New("no rooms available")

	// ErrProviderUnavailable is returned when inventory cannot be fetched and no snapshot exists.
	ErrProviderUnavailable = errors.New("inventory provider unavailable")

	// ErrRoomNotAvailable is returned when a specific room cannot be reserved.
	ErrRoomNotAvailable = errors.New("room not available")

	// ErrNotificationFailed marks a failed channel delivery. It is recorded on the
	// result and never fails the assignment.
	ErrNotificationFailed = errors.New("notification failed")

	// ErrInvalidReassignment is returned when reassigning a booking with no current result.
	ErrInvalidReassignment = errors.New("invalid reassignment")

	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid assignment request")

	// ErrOverrideNotPermitted is returned when the override policy rejects a manual assignment.
	ErrOverrideNotPermitted = errors.New("manual override not permitted")

	// ErrAssignmentNotFound is returned when a booking has no current result.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// Lifecycle and construction errors.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInventoryRequired is returned when the inventory is nil.
	ErrInventoryRequired = errors.New("inventory is required")

	// ErrDispatcherRequired is returned when the notification dispatcher is nil.
	ErrDispatcherRequired = errors.New("notification dispatcher is required")

	// ErrAlreadyStarted is returned when Start is called on a running component.
	ErrAlreadyStarted = errors.New("already started")

	// ErrNotStarted is returned when Stop is called on a component that is not running.
	ErrNotStarted = errors.New("not started")
)
