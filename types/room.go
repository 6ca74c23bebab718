package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomType is the sellable room category. Types are ordered by tier for upgrade math.
type RoomType string

const (
	RoomTypeStandard     RoomType = "standard"
	RoomTypeDeluxe       RoomType = "deluxe"
	RoomTypeSuite        RoomType = "suite"
	RoomTypePresidential RoomType = "presidential"
)

// Tier returns the position of the room type in the upgrade ladder.
//
// Returns:
//   - int: 0 for standard up to 3 for presidential, -1 for unknown types
func (t RoomType) Tier() int {
	switch t {
	case RoomTypeStandard:
		return 0
	case RoomTypeDeluxe:
		return 1
	case RoomTypeSuite:
		return 2
	case RoomTypePresidential:
		return 3
	default:
		return -1
	}
}

// Valid reports whether the room type is one of the known tiers.
func (t RoomType) Valid() bool {
	return t.Tier() >= 0
}

// RoomStatus is the housekeeping/sales status of a physical room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusBlocked     RoomStatus = "blocked"
	RoomStatusDirty       RoomStatus = "dirty"
	RoomStatusReserved    RoomStatus = "reserved"
)

// RoomFeatures describes the physical attributes used by scoring.
type RoomFeatures struct {
	BedType              string `json:"bedType" yaml:"bedType"`
	BedCount             int    `json:"bedCount" yaml:"bedCount"`
	MaxOccupancy         int    `json:"maxOccupancy" yaml:"maxOccupancy"`
	WheelchairAccessible bool   `json:"wheelchairAccessible" yaml:"wheelchairAccessible"`
	HearingAccessible    bool   `json:"hearingAccessible" yaml:"hearingAccessible"`
	VisualAccessible     bool   `json:"visualAccessible" yaml:"visualAccessible"`
	Balcony              bool   `json:"balcony" yaml:"balcony"`
	Kitchenette          bool   `json:"kitchenette" yaml:"kitchenette"`
	Workspace            bool   `json:"workspace" yaml:"workspace"`
	Smoking              bool   `json:"smoking" yaml:"smoking"`
}

// RoomInventoryRecord is a candidate room supplied by an InventoryProvider.
type RoomInventoryRecord struct {
	RoomNumber string          `json:"roomNumber" yaml:"roomNumber"`
	PropertyID string          `json:"propertyId" yaml:"propertyId"`
	RoomType   RoomType        `json:"roomType" yaml:"roomType"`
	Floor      int             `json:"floor" yaml:"floor"`
	Status     RoomStatus      `json:"status" yaml:"status"`
	Features   RoomFeatures    `json:"features" yaml:"features"`
	Amenities  []string        `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	View       string          `json:"view,omitempty" yaml:"view,omitempty"`
	Rate       decimal.Decimal `json:"rate" yaml:"rate"`
}

// HasAmenity reports whether the room carries the given amenity tag.
func (r RoomInventoryRecord) HasAmenity(tag string) bool {
	for _, a := range r.Amenities {
		if a == tag {
			return true
		}
	}

	return false
}

// Snapshot copies the attributes recorded on an assignment result.
func (r RoomInventoryRecord) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		RoomNumber: r.RoomNumber,
		RoomType:   r.RoomType,
		Floor:      r.Floor,
		Features:   r.Features,
		View:       r.View,
		Rate:       r.Rate,
	}
}

// RoomSnapshot is the room as it looked when it was assigned.
type RoomSnapshot struct {
	RoomNumber string          `json:"roomNumber"`
	RoomType   RoomType        `json:"roomType"`
	Floor      int             `json:"floor"`
	Features   RoomFeatures    `json:"features"`
	View       string          `json:"view,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
}

// ScoredRoom pairs a candidate room with its computed score.
type ScoredRoom struct {
	Room  RoomInventoryRecord
	Score int
}

// StayWindow is a half-open [CheckIn, CheckOut) interval.
type StayWindow struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// Overlaps reports whether two half-open windows share at least one instant.
func (w StayWindow) Overlaps(other StayWindow) bool {
	return w.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(w.CheckOut)
}

// Nights returns the length of stay rounded up to whole days.
func (w StayWindow) Nights() int {
	d := w.CheckOut.Sub(w.CheckIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}

	return nights
}
