package types

import (
	"context"
	"time"
)

// InventoryProvider reports rooms free for a stay window.
type InventoryProvider interface {
	// GetAvailableRooms returns rooms of the property that are free for the whole window.
	//
	// Parameters:
	//   - ctx: Context bounding the call
	//   - propertyID: Property to query
	//   - checkIn, checkOut: Half-open stay window
	//
	// Returns:
	//   - []RoomInventoryRecord: Candidate rooms, possibly empty
	//   - error: Transport or backend failure
	GetAvailableRooms(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]RoomInventoryRecord, error)
}

// InventoryReserver mutates room occupancy.
type InventoryReserver interface {
	// ReserveRoom marks the room occupied for the window on behalf of a booking.
	//
	// The call must be a compare-and-swap: it fails with ErrRoomNotAvailable if any
	// existing reservation of the room overlaps the window.
	ReserveRoom(ctx context.Context, propertyID, roomNumber string, window StayWindow, bookingID string) error

	// ReleaseRoom drops the booking's reservation on the room. Releasing a room the
	// booking does not hold is not an error.
	ReleaseRoom(ctx context.Context, propertyID, roomNumber, bookingID string) error
}

// Inventory is a provider that can also reserve rooms.
type Inventory interface {
	InventoryProvider
	InventoryReserver
}

// NotificationPayload is the message handed to a dispatcher.
type NotificationPayload struct {
	BookingID  string    `json:"bookingId"`
	GuestID    string    `json:"guestId"`
	PropertyID string    `json:"propertyId"`
	RoomNumber string    `json:"roomNumber"`
	RoomType   RoomType  `json:"roomType"`
	Floor      int       `json:"floor"`
	Method     string    `json:"method"`
	Upgrades   []Upgrade `json:"upgrades,omitempty"`
	Audience   Audience  `json:"audience"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
}

// NotificationDispatcher delivers assignment notifications.
type NotificationDispatcher interface {
	// Send delivers the payload on the named channel.
	//
	// Returns:
	//   - bool: true when the channel accepted the message
	//   - error: Delivery failure
	Send(ctx context.Context, channel string, payload NotificationPayload) (bool, error)
}

// ConfigStore persists AssignmentConfig documents keyed by property.
type ConfigStore interface {
	// Get returns the stored config, or DefaultAssignmentConfig when none exists.
	Get(ctx context.Context, propertyID string) (*AssignmentConfig, error)

	// Replace stores cfg as the whole config of cfg.PropertyID.
	Replace(ctx context.Context, cfg *AssignmentConfig) error
}

// AssignmentStore keeps the current result per booking and the append-only history.
type AssignmentStore interface {
	// Current returns the active result or ErrAssignmentNotFound.
	Current(ctx context.Context, bookingID string) (*RoomAssignmentResult, error)

	// Save appends the result to history and makes it the current result of its booking.
	Save(ctx context.Context, result *RoomAssignmentResult) error

	// History returns every result of the booking, oldest first.
	History(ctx context.Context, bookingID string) ([]*RoomAssignmentResult, error)

	// List returns history entries of a property with AssignedAt in [start, end).
	List(ctx context.Context, propertyID string, start, end time.Time) ([]*RoomAssignmentResult, error)
}

// ScoringContext carries everything the scorer needs besides the room itself.
type ScoringContext struct {
	Request *RoomAssignmentRequest
	Rules   []AssignmentRule
	Config  *AssignmentConfig

	// Window is the stay being scored. It differs from the request's window during a
	// fallback search. The zero value means the request's own window.
	Window StayWindow

	// TypeAvailability counts candidate rooms per type. ScoreAll fills it when nil.
	TypeAvailability map[RoomType]int

	// ConsecutiveStays is the back-to-back stay chain length per room number that ends
	// exactly at the request's check-in.
	ConsecutiveStays map[string]int
}

// StayWindow returns the window being scored.
func (sc *ScoringContext) StayWindow() StayWindow {
	if sc.Window.CheckIn.IsZero() && sc.Window.CheckOut.IsZero() {
		return sc.Request.Window()
	}

	return sc.Window
}

// RoomScorer ranks candidate rooms for a request.
type RoomScorer interface {
	// Score returns a non-negative fitness score for one room.
	Score(room RoomInventoryRecord, sc *ScoringContext) int

	// ScoreAll scores rooms, drops non-positive scores and sorts best first.
	ScoreAll(rooms []RoomInventoryRecord, sc *ScoringContext) []ScoredRoom
}

// Clock abstracts time for schedules and timestamps.
type Clock interface {
	Now() time.Time
}
