package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentMethod records how a result was produced.
type AssignmentMethod string

const (
	MethodAutomatic AssignmentMethod = "automatic"
	MethodManual    AssignmentMethod = "manual"
	MethodUpgraded  AssignmentMethod = "upgraded"
	MethodFallback  AssignmentMethod = "fallback"
)

// Upgrade describes a room type improvement granted to the guest.
type Upgrade struct {
	From   RoomType        `json:"from"`
	To     RoomType        `json:"to"`
	Reason string          `json:"reason"`
	Value  decimal.Decimal `json:"value"`
}

// NotificationOutcome is the per-channel delivery result of an assignment notification.
type NotificationOutcome struct {
	Channel   string   `json:"channel"`
	Audience  Audience `json:"audience"`
	Delivered bool     `json:"delivered"`
	Error     string   `json:"error,omitempty"`
}

// Conflict is a non-fatal issue recorded during assignment.
type Conflict struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const (
	// ConflictStayWindowShifted marks results found only after widening the stay window.
	ConflictStayWindowShifted = "stay_window_shifted"
	// ConflictRoomTaken marks a candidate lost to a concurrent reservation.
	ConflictRoomTaken = "room_taken"
	// ConflictDegradedInventory marks results computed from a stale inventory snapshot.
	ConflictDegradedInventory = "degraded_inventory"
)

// RoomAssignmentResult is the outcome of an assignment.
//
// Results are immutable once stored. Reassignment produces a new result with a higher
// Version and the previous room in PreviousRoom.
type RoomAssignmentResult struct {
	AssignmentID   string                `json:"assignmentId"`
	BookingID      string                `json:"bookingId"`
	PropertyID     string                `json:"propertyId"`
	GuestID        string                `json:"guestId"`
	GroupID        string                `json:"groupId,omitempty"`
	CheckIn        time.Time             `json:"checkIn"`
	CheckOut       time.Time             `json:"checkOut"`
	Room           RoomSnapshot          `json:"room"`
	RoomTypeBooked RoomType              `json:"roomTypeBooked"`
	Method         AssignmentMethod      `json:"method"`
	Confidence     float64               `json:"confidence"`
	Upgrades       []Upgrade             `json:"upgrades,omitempty"`
	Notifications  []NotificationOutcome `json:"notifications,omitempty"`
	Conflicts      []Conflict            `json:"conflicts,omitempty"`
	AssignedAt     time.Time             `json:"assignedAt"`
	AssignedBy     string                `json:"assignedBy"`
	Notes          []string              `json:"notes,omitempty"`
	PreviousRoom   string                `json:"previousRoom,omitempty"`
	Version        int                   `json:"version"`
}

// Window returns the stay window actually reserved for this result.
func (r *RoomAssignmentResult) Window() StayWindow {
	return StayWindow{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// Clone returns a deep copy safe to hand to callers.
func (r *RoomAssignmentResult) Clone() *RoomAssignmentResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Upgrades = append([]Upgrade(nil), r.Upgrades...)
	c.Notifications = append([]NotificationOutcome(nil), r.Notifications...)
	c.Conflicts = append([]Conflict(nil), r.Conflicts...)
	c.Notes = append([]string(nil), r.Notes...)

	return &c
}

// Analytics summarizes assignment history for a property over a period.
type Analytics struct {
	PropertyID           string                   `json:"propertyId"`
	Start                time.Time                `json:"start"`
	End                  time.Time                `json:"end"`
	TotalAssignments     int                      `json:"totalAssignments"`
	ByMethod             map[AssignmentMethod]int `json:"byMethod"`
	Upgrades             int                      `json:"upgrades"`
	UpgradeValue         decimal.Decimal          `json:"upgradeValue"`
	Reassignments        int                      `json:"reassignments"`
	AverageConfidence    float64                  `json:"averageConfidence"`
	NotificationFailures int                      `json:"notificationFailures"`
}

// BulkResult is the outcome of a bulk assignment. Failed is keyed by booking ID.
type BulkResult struct {
	Assigned []*RoomAssignmentResult `json:"assigned"`
	Failed   map[string]error        `json:"-"`
}
