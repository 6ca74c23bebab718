package roomassign

import (
	"context"
	"errors"
	"fmt"

	"github.com/himmu2625/baithkaGhar-sub009/internal/inventory"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// ManualAssignment places a booking in a room chosen by staff, bypassing rules and scoring.
//
// The room must be in the provider's available set for the stay and the reservation
// must succeed; otherwise ErrRoomNotAvailable is returned and neither the inventory nor
// the result cache changes. Disabled properties are rejected like in AssignRoom.
//
// Parameters:
//   - ctx: Context bounding provider and notification calls
//   - req: Booking to place, usually taken from PendingManual
//   - roomNumber: Room chosen by staff
//   - assignedBy: Staff member, checked against the property's override policy
//   - notes: Optional free text kept on the result
//
// Returns:
//   - *RoomAssignmentResult: The stored result with method manual
//   - error: ErrInvalidRequest, ErrConfigurationUnavailable, ErrOverrideNotPermitted,
//     ErrRoomNotAvailable, ErrProviderUnavailable or a store error
func (e *Engine) ManualAssignment(ctx context.Context, req *RoomAssignmentRequest, roomNumber, assignedBy, notes string) (res *RoomAssignmentResult, err error) {
	start := e.clock.Now()

	if err := e.validateRequest(req); err != nil {
		e.metrics.RecordAssignmentFailure("invalid")
		return nil, err
	}
	if roomNumber == "" || assignedBy == "" {
		e.metrics.RecordAssignmentFailure("invalid")
		return nil, fmt.Errorf("%w: room number and actor are required", ErrInvalidRequest)
	}

	f, owner := e.claim(req.BookingID)
	if !owner {
		return nil, fmt.Errorf("%w: booking %s is being assigned", ErrInvalidRequest, req.BookingID)
	}
	defer func() { e.settle(req.BookingID, f, res, err) }()

	existing, err := e.lookup(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: booking %s already in room %s, use ReassignRoom",
			ErrInvalidRequest, req.BookingID, existing.Room.RoomNumber)
	}

	cfg, err := e.propertyConfig(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !cfg.Overrides.MayOverride(assignedBy) {
		e.metrics.RecordAssignmentFailure("override")
		return nil, fmt.Errorf("%w: %s on property %s", ErrOverrideNotPermitted, assignedBy, req.PropertyID)
	}

	room, err := e.availableRoom(ctx, req.PropertyID, roomNumber, req.Window())
	if err != nil {
		return nil, err
	}

	own := *req
	e.requests.Store(req.BookingID, &own)

	unlock := e.locker.Lock(req.PropertyID)
	if _, ok := e.results.Load(req.BookingID); ok {
		unlock()
		return nil, fmt.Errorf("%w: booking %s was assigned concurrently", ErrInvalidRequest, req.BookingID)
	}
	if err := e.inventory.ReserveRoom(ctx, req.PropertyID, roomNumber, req.Window(), req.BookingID); err != nil {
		unlock()
		e.metrics.RecordReservationConflict()
		return nil, e.reserveError(roomNumber, err)
	}

	res = e.newResult(&own, room, req.Window(), MethodManual, cfg, nil)
	res.AssignedBy = assignedBy
	if notes != "" {
		res.Notes = []string{notes}
	}
	if len(res.Upgrades) > 0 {
		res.Upgrades[0].Reason = "manual"
	}
	e.resetState(req.BookingID)
	e.commit(ctx, &own, res, StateAssigned)
	unlock()

	e.logger.Info("manual assignment reserved", "booking_id", req.BookingID, "room", roomNumber, "assigned_by", assignedBy)

	return e.finish(ctx, res, cfg, start, func() { e.rollback(ctx, res) })
}

// ReassignRoom moves a booking to another room and records a new history version.
//
// The new room is reserved before the old one is released, so the guest always holds a
// room. The result keeps the previous notes and adds an audit note naming the old room
// and the reason.
//
// Returns:
//   - *RoomAssignmentResult: The new current result
//   - error: ErrInvalidReassignment when the booking has no result or is already in
//     the room, ErrRoomNotAvailable when the new room cannot be reserved
func (e *Engine) ReassignRoom(ctx context.Context, bookingID, newRoomNumber, reason, assignedBy string) (res *RoomAssignmentResult, err error) {
	start := e.clock.Now()

	f, owner := e.claim(bookingID)
	if !owner {
		return nil, fmt.Errorf("%w: booking %s is being assigned", ErrInvalidReassignment, bookingID)
	}
	defer func() { e.settle(bookingID, f, res, err) }()

	current, err := e.lookup(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: booking %s has no assignment", ErrInvalidReassignment, bookingID)
	}
	if newRoomNumber == "" || newRoomNumber == current.Room.RoomNumber {
		return nil, fmt.Errorf("%w: booking %s is already in room %q", ErrInvalidReassignment, bookingID, newRoomNumber)
	}
	if assignedBy == "" {
		assignedBy = e.cfg.SystemActor
	}

	cfg, err := e.GetConfiguration(ctx, current.PropertyID)
	if err != nil {
		return nil, err
	}

	window := current.Window()
	room, err := e.availableRoom(ctx, current.PropertyID, newRoomNumber, window)
	if err != nil {
		return nil, err
	}

	req := e.requestFor(current)

	unlock := e.locker.Lock(current.PropertyID)
	latest, ok := e.results.Load(bookingID)
	if !ok || latest.Version != current.Version {
		unlock()
		return nil, fmt.Errorf("%w: booking %s changed concurrently", ErrInvalidReassignment, bookingID)
	}
	if err := e.inventory.ReserveRoom(ctx, current.PropertyID, newRoomNumber, window, bookingID); err != nil {
		unlock()
		e.metrics.RecordReservationConflict()
		return nil, e.reserveError(newRoomNumber, err)
	}
	if err := e.inventory.ReleaseRoom(ctx, current.PropertyID, current.Room.RoomNumber, bookingID); err != nil {
		e.logger.Warn("release previous room failed",
			"booking_id", bookingID, "room", current.Room.RoomNumber, "error", err)
	}
	e.turnover.Forget(current.PropertyID, current.Room.RoomNumber, bookingID)

	res = e.newResult(req, room, window, MethodManual, cfg, nil)
	res.AssignedBy = assignedBy
	res.Version = current.Version + 1
	res.PreviousRoom = current.Room.RoomNumber
	res.Notes = append(append([]string(nil), current.Notes...),
		fmt.Sprintf("reassigned from room %s: %s", current.Room.RoomNumber, reason))
	if len(res.Upgrades) > 0 {
		res.Upgrades[0].Reason = "reassignment"
	}
	e.commit(ctx, req, res, StateAssigned)
	unlock()

	e.logger.Info("booking reassigned",
		"booking_id", bookingID, "from", current.Room.RoomNumber, "to", newRoomNumber, "reason", reason)

	return e.finish(ctx, res, cfg, start, func() {
		e.rollback(ctx, res)
		bg := context.WithoutCancel(ctx)
		if err := e.inventory.ReserveRoom(bg, current.PropertyID, current.Room.RoomNumber, window, bookingID); err != nil {
			e.logger.Error("restore previous room failed",
				"booking_id", bookingID, "room", current.Room.RoomNumber, "error", err)
		}
		e.turnover.Record(current.PropertyID, current.Room.RoomNumber, bookingID, window)
	})
}

// availableRoom returns the room when the provider lists it free for the window.
func (e *Engine) availableRoom(ctx context.Context, propertyID, roomNumber string, window types.StayWindow) (RoomInventoryRecord, error) {
	fetched, err := e.fetcher.Fetch(ctx, propertyID, window, inventory.FetchOptions{})
	if err != nil {
		return RoomInventoryRecord{}, err
	}
	for _, r := range fetched.Rooms {
		if r.RoomNumber != roomNumber {
			continue
		}
		switch r.Status {
		case types.RoomStatusMaintenance, types.RoomStatusBlocked, types.RoomStatusOccupied, types.RoomStatusReserved:
			return RoomInventoryRecord{}, fmt.Errorf("%w: room %s is %s", ErrRoomNotAvailable, roomNumber, r.Status)
		}

		return r, nil
	}

	return RoomInventoryRecord{}, fmt.Errorf("%w: room %s on property %s", ErrRoomNotAvailable, roomNumber, propertyID)
}

func (e *Engine) reserveError(roomNumber string, err error) error {
	if errors.Is(err, ErrRoomNotAvailable) {
		return fmt.Errorf("reserve room %s: %w", roomNumber, err)
	}

	return fmt.Errorf("%w: reserve room %s: %w", ErrRoomNotAvailable, roomNumber, err)
}

// requestFor returns the booking's last request, or one rebuilt from the result when
// the engine has restarted since.
func (e *Engine) requestFor(res *RoomAssignmentResult) *RoomAssignmentRequest {
	if req, ok := e.requests.Load(res.BookingID); ok {
		c := *req
		return &c
	}

	req := &RoomAssignmentRequest{
		BookingID:      res.BookingID,
		GuestID:        res.GuestID,
		PropertyID:     res.PropertyID,
		CheckIn:        res.CheckIn,
		CheckOut:       res.CheckOut,
		RoomTypeBooked: res.RoomTypeBooked,
		PartySize:      1,
	}
	if res.GroupID != "" {
		req.Group = &types.GroupBooking{GroupID: res.GroupID}
	}

	return req
}
