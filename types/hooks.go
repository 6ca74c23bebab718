package types

import "context"

// Hooks defines callbacks for assignment lifecycle events.
//
// All hooks are optional. OnAssigned runs after the result has been stored and the
// property lock released. OnStateChanged and OnError may run while the lock is held and
// must not call back into the engine. Hook errors are logged and never fail the
// assignment.
//
// Example:
//
//	hooks := &roomassign.Hooks{
//	    OnAssigned: func(ctx context.Context, res *roomassign.RoomAssignmentResult) error {
//	        return audit.Record(ctx, res.BookingID, res.Room.RoomNumber)
//	    },
//	}
type Hooks struct {
	// OnAssigned is called after a result has been stored and notifications sent.
	OnAssigned func(ctx context.Context, result *RoomAssignmentResult) error

	// OnStateChanged is called when a booking's assignment state changes.
	OnStateChanged func(ctx context.Context, bookingID string, from, to AssignmentState) error

	// OnError is called when a recoverable error occurs, such as a dropped queue item.
	OnError func(ctx context.Context, err error) error
}
