package roomassign

import "github.com/himmu2625/baithkaGhar-sub009/types"

// Sentinel errors returned by the Engine. They are the same values as in the types
// package, so errors.Is works with either.
var (
	ErrConfigurationUnavailable = types.ErrConfigurationUnavailable
	ErrManualAssignmentRequired = types.ErrManualAssignmentRequired
	ErrAssignmentQueued         = types.ErrAssignmentQueued
	ErrNoRoomsAvailable         = types.ErrNoRoomsAvailable
	ErrProviderUnavailable      = types.ErrProviderUnavailable
	ErrRoomNotAvailable         = types.ErrRoomNotAvailable
	ErrNotificationFailed       = types.ErrNotificationFailed
	ErrInvalidReassignment      = types.ErrInvalidReassignment
	ErrInvalidRequest           = types.ErrInvalidRequest
	ErrOverrideNotPermitted     = types.ErrOverrideNotPermitted
	ErrAssignmentNotFound       = types.ErrAssignmentNotFound

	ErrInvalidConfig      = types.ErrInvalidConfig
	ErrInventoryRequired  = types.ErrInventoryRequired
	ErrDispatcherRequired = types.ErrDispatcherRequired
	ErrAlreadyStarted     = types.ErrAlreadyStarted
	ErrNotStarted         = types.ErrNotStarted
)
