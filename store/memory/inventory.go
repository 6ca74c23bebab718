package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/scoring"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

type reservation struct {
	bookingID string
	window    types.StayWindow
}

type roomEntry struct {
	record       types.RoomInventoryRecord
	reservations []reservation
}

// Inventory is an in-memory room inventory with overlap-checked reservations.
//
// GetAvailableRooms returns rooms with no reservation overlapping the window.
// ReserveRoom is a compare-and-swap under a single mutex: two overlapping windows of
// the same room can never both be held.
type Inventory struct {
	mu    sync.Mutex
	rooms map[string]map[string]*roomEntry
}

var _ types.Inventory = (*Inventory)(nil)

// NewInventory creates an inventory seeded with rooms.
//
// Example:
//
//	inv := memory.NewInventory(
//	    types.RoomInventoryRecord{PropertyID: "hotel-1", RoomNumber: "101", RoomType: types.RoomTypeStandard, Floor: 1},
//	)
func NewInventory(rooms ...types.RoomInventoryRecord) *Inventory {
	inv := &Inventory{rooms: make(map[string]map[string]*roomEntry)}
	for _, r := range rooms {
		inv.PutRoom(r)
	}

	return inv
}

// PutRoom adds the room or replaces its record, keeping existing reservations.
func (inv *Inventory) PutRoom(room types.RoomInventoryRecord) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	byRoom, ok := inv.rooms[room.PropertyID]
	if !ok {
		byRoom = make(map[string]*roomEntry)
		inv.rooms[room.PropertyID] = byRoom
	}
	if e, ok := byRoom[room.RoomNumber]; ok {
		e.record = room
		return
	}
	byRoom[room.RoomNumber] = &roomEntry{record: room}
}

// SetStatus changes the housekeeping status of a room.
func (inv *Inventory) SetStatus(propertyID, roomNumber string, status types.RoomStatus) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	e, ok := inv.rooms[propertyID][roomNumber]
	if !ok {
		return fmt.Errorf("room %s/%s not found", propertyID, roomNumber)
	}
	e.record.Status = status

	return nil
}

// GetAvailableRooms returns rooms of the property free for [checkIn, checkOut),
// ordered by room number.
func (inv *Inventory) GetAvailableRooms(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]types.RoomInventoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	window := types.StayWindow{CheckIn: checkIn, CheckOut: checkOut}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	out := make([]types.RoomInventoryRecord, 0, len(inv.rooms[propertyID]))
	for _, e := range inv.rooms[propertyID] {
		if e.conflict(window, "") {
			continue
		}
		out = append(out, e.record)
	}
	slices.SortFunc(out, func(a, b types.RoomInventoryRecord) int {
		switch {
		case scoring.LessRoomNumber(a.RoomNumber, b.RoomNumber):
			return -1
		case scoring.LessRoomNumber(b.RoomNumber, a.RoomNumber):
			return 1
		default:
			return 0
		}
	})

	return out, nil
}

// ReserveRoom holds the room for the window on behalf of the booking.
//
// A reservation the same booking already holds on the room is replaced.
//
// Returns:
//   - error: types.ErrRoomNotAvailable when the room is unknown or another booking
//     holds an overlapping window
func (inv *Inventory) ReserveRoom(ctx context.Context, propertyID, roomNumber string, window types.StayWindow, bookingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	e, ok := inv.rooms[propertyID][roomNumber]
	if !ok {
		return fmt.Errorf("%w: room %s/%s unknown", types.ErrRoomNotAvailable, propertyID, roomNumber)
	}
	if e.conflict(window, bookingID) {
		return fmt.Errorf("%w: room %s/%s taken", types.ErrRoomNotAvailable, propertyID, roomNumber)
	}

	e.reservations = slices.DeleteFunc(e.reservations, func(r reservation) bool { return r.bookingID == bookingID })
	e.reservations = append(e.reservations, reservation{bookingID: bookingID, window: window})

	return nil
}

// ReleaseRoom drops the booking's reservation of the room.
func (inv *Inventory) ReleaseRoom(ctx context.Context, propertyID, roomNumber, bookingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if e, ok := inv.rooms[propertyID][roomNumber]; ok {
		e.reservations = slices.DeleteFunc(e.reservations, func(r reservation) bool { return r.bookingID == bookingID })
	}

	return nil
}

// Holder returns the booking holding the room at instant t, if any.
func (inv *Inventory) Holder(propertyID, roomNumber string, t time.Time) (string, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	e, ok := inv.rooms[propertyID][roomNumber]
	if !ok {
		return "", false
	}
	for _, r := range e.reservations {
		if !t.Before(r.window.CheckIn) && t.Before(r.window.CheckOut) {
			return r.bookingID, true
		}
	}

	return "", false
}

// conflict reports whether a booking other than owner holds a window overlapping w.
func (e *roomEntry) conflict(w types.StayWindow, owner string) bool {
	for _, r := range e.reservations {
		if r.bookingID != owner && r.window.Overlaps(w) {
			return true
		}
	}

	return false
}
