package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyTier is the guest's membership level.
type LoyaltyTier string

const (
	LoyaltyNone     LoyaltyTier = ""
	LoyaltySilver   LoyaltyTier = "silver"
	LoyaltyGold     LoyaltyTier = "gold"
	LoyaltyPlatinum LoyaltyTier = "platinum"
)

// FloorBand is a coarse floor preference.
type FloorBand string

const (
	FloorLow    FloorBand = "low"
	FloorMiddle FloorBand = "middle"
	FloorHigh   FloorBand = "high"
)

// BandForFloor maps a floor number onto its band: low up to 3, middle 4-8, high 9 and above.
func BandForFloor(floor int) FloorBand {
	switch {
	case floor <= 3:
		return FloorLow
	case floor <= 8:
		return FloorMiddle
	default:
		return FloorHigh
	}
}

// GuestPreferences are soft preferences expressed by the guest.
type GuestPreferences struct {
	FloorBand    FloorBand `json:"floorBand,omitempty" validate:"omitempty,oneof=low middle high"`
	Views        []string  `json:"views,omitempty"`
	BedType      string    `json:"bedType,omitempty"`
	Smoking      *bool     `json:"smoking,omitempty"`
	QuietRoom    bool      `json:"quietRoom,omitempty"`
	NearElevator bool      `json:"nearElevator,omitempty"`
	HighFloor    bool      `json:"highFloor,omitempty"`
}

// AccessibilityNeeds lists the accessibility requirements of the party.
type AccessibilityNeeds struct {
	Wheelchair bool `json:"wheelchair,omitempty"`
	Hearing    bool `json:"hearing,omitempty"`
	Visual     bool `json:"visual,omitempty"`
}

// Any reports whether at least one need is present.
func (n *AccessibilityNeeds) Any() bool {
	return n != nil && (n.Wheelchair || n.Hearing || n.Visual)
}

// SatisfiedBy reports whether the room provides every requested accessibility feature.
func (n *AccessibilityNeeds) SatisfiedBy(f RoomFeatures) bool {
	if n == nil {
		return true
	}
	if n.Wheelchair && !f.WheelchairAccessible {
		return false
	}
	if n.Hearing && !f.HearingAccessible {
		return false
	}
	if n.Visual && !f.VisualAccessible {
		return false
	}

	return true
}

// GroupBooking links a request to a group block.
//
// AnchorFloor is the floor the rest of the group already occupies. The engine fills it
// from earlier assignments of the same group when the caller leaves it nil.
type GroupBooking struct {
	GroupID     string `json:"groupId" validate:"required"`
	Size        int    `json:"size" validate:"gte=0"`
	AnchorFloor *int   `json:"anchorFloor,omitempty"`
}

// RoomAssignmentRequest is a booking that needs a physical room.
type RoomAssignmentRequest struct {
	BookingID      string              `json:"bookingId" validate:"required"`
	GuestID        string              `json:"guestId" validate:"required"`
	PropertyID     string              `json:"propertyId" validate:"required"`
	CheckIn        time.Time           `json:"checkIn" validate:"required"`
	CheckOut       time.Time           `json:"checkOut" validate:"required,gtfield=CheckIn"`
	RoomTypeBooked RoomType            `json:"roomTypeBooked" validate:"required,oneof=standard deluxe suite presidential"`
	PartySize      int                 `json:"partySize" validate:"gte=1"`
	BookingValue   decimal.Decimal     `json:"bookingValue"`
	LoyaltyTier    LoyaltyTier         `json:"loyaltyTier,omitempty" validate:"omitempty,oneof=silver gold platinum"`
	Preferences    *GuestPreferences   `json:"preferences,omitempty" validate:"omitempty"`
	Accessibility  *AccessibilityNeeds `json:"accessibility,omitempty"`
	Group          *GroupBooking       `json:"group,omitempty" validate:"omitempty"`
}

// Window returns the requested stay window.
func (r *RoomAssignmentRequest) Window() StayWindow {
	return StayWindow{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// GroupID returns the group identifier or an empty string.
func (r *RoomAssignmentRequest) GroupID() string {
	if r.Group == nil {
		return ""
	}

	return r.Group.GroupID
}
