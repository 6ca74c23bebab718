package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// RoomOption customizes a fixture room.
type RoomOption func(*types.RoomInventoryRecord)

// NewRoom builds an available room. The default is a standard room with a queen bed for two.
func NewRoom(number string, roomType types.RoomType, floor int, opts ...RoomOption) types.RoomInventoryRecord {
	r := types.RoomInventoryRecord{
		RoomNumber: number,
		PropertyID: "prop-1",
		RoomType:   roomType,
		Floor:      floor,
		Status:     types.RoomStatusAvailable,
		Features: types.RoomFeatures{
			BedType:      "queen",
			BedCount:     1,
			MaxOccupancy: 2,
		},
		Rate: decimal.NewFromInt(100),
	}
	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// WithProperty sets the property of a fixture room.
func WithProperty(id string) RoomOption {
	return func(r *types.RoomInventoryRecord) { r.PropertyID = id }
}

// Wheelchair marks the fixture room wheelchair accessible.
func Wheelchair() RoomOption {
	return func(r *types.RoomInventoryRecord) { r.Features.WheelchairAccessible = true }
}

// WithView sets the view of a fixture room.
func WithView(view string) RoomOption {
	return func(r *types.RoomInventoryRecord) { r.View = view }
}

// WithAmenities sets amenity tags on a fixture room.
func WithAmenities(tags ...string) RoomOption {
	return func(r *types.RoomInventoryRecord) { r.Amenities = tags }
}

// WithStatus sets the status of a fixture room.
func WithStatus(s types.RoomStatus) RoomOption {
	return func(r *types.RoomInventoryRecord) { r.Status = s }
}

// WithBeds sets bed type, count and occupancy of a fixture room.
func WithBeds(bedType string, count, occupancy int) RoomOption {
	return func(r *types.RoomInventoryRecord) {
		r.Features.BedType = bedType
		r.Features.BedCount = count
		r.Features.MaxOccupancy = occupancy
	}
}

// Smoking marks the fixture room as a smoking room.
func Smoking() RoomOption {
	return func(r *types.RoomInventoryRecord) { r.Features.Smoking = true }
}

// RequestOption customizes a fixture request.
type RequestOption func(*types.RoomAssignmentRequest)

// NewRequest builds a two-night request for a party of two checking in at 15:00 UTC on
// 2026-03-10.
func NewRequest(bookingID string, roomType types.RoomType, opts ...RequestOption) *types.RoomAssignmentRequest {
	checkIn := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	req := &types.RoomAssignmentRequest{
		BookingID:      bookingID,
		GuestID:        "guest-" + bookingID,
		PropertyID:     "prop-1",
		CheckIn:        checkIn,
		CheckOut:       checkIn.AddDate(0, 0, 2),
		RoomTypeBooked: roomType,
		PartySize:      2,
		BookingValue:   decimal.NewFromInt(300),
	}
	for _, opt := range opts {
		opt(req)
	}

	return req
}

// ForProperty sets the property of a fixture request.
func ForProperty(id string) RequestOption {
	return func(r *types.RoomAssignmentRequest) { r.PropertyID = id }
}

// WithLoyalty sets the loyalty tier of a fixture request.
func WithLoyalty(tier types.LoyaltyTier) RequestOption {
	return func(r *types.RoomAssignmentRequest) { r.LoyaltyTier = tier }
}

// NeedsWheelchair adds a wheelchair need to a fixture request.
func NeedsWheelchair() RequestOption {
	return func(r *types.RoomAssignmentRequest) {
		r.Accessibility = &types.AccessibilityNeeds{Wheelchair: true}
	}
}

// WithStay sets the stay window of a fixture request.
func WithStay(checkIn, checkOut time.Time) RequestOption {
	return func(r *types.RoomAssignmentRequest) {
		r.CheckIn = checkIn
		r.CheckOut = checkOut
	}
}

// WithPreferences sets guest preferences on a fixture request.
func WithPreferences(p types.GuestPreferences) RequestOption {
	return func(r *types.RoomAssignmentRequest) { r.Preferences = &p }
}

// InGroup attaches a fixture request to a group.
func InGroup(groupID string, size int) RequestOption {
	return func(r *types.RoomAssignmentRequest) {
		r.Group = &types.GroupBooking{GroupID: groupID, Size: size}
	}
}

// WithParty sets the party size of a fixture request.
func WithParty(size int) RequestOption {
	return func(r *types.RoomAssignmentRequest) { r.PartySize = size }
}
