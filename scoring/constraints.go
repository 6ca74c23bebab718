package scoring

import (
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// violatesConstraints reports whether the room breaks a hard constraint of the property.
func violatesConstraints(room types.RoomInventoryRecord, sc *types.ScoringContext) bool {
	switch room.Status {
	case types.RoomStatusMaintenance, types.RoomStatusBlocked, types.RoomStatusOccupied, types.RoomStatusReserved:
		return true
	}
	if sc.Config == nil {
		return false
	}

	c := sc.Config.Constraints
	if contains(c.BlockedRooms, room.RoomNumber) || contains(c.MaintenanceRooms, room.RoomNumber) {
		return true
	}

	window := sc.StayWindow()
	for _, rr := range c.ReservedRooms {
		if rr.RoomNumber != room.RoomNumber {
			continue
		}
		if rr.To.IsZero() || window.Overlaps(types.StayWindow{CheckIn: rr.From, CheckOut: rr.To}) {
			return true
		}
	}

	// Protected inventory only limits upgrades into the type, never exact-type sales.
	if floor := c.MinimumInventory[room.RoomType]; floor > 0 && room.RoomType != sc.Request.RoomTypeBooked {
		if sc.TypeAvailability != nil && sc.TypeAvailability[room.RoomType] <= floor {
			return true
		}
	}

	if limit := c.MaxConsecutiveAssignments; limit > 0 && sc.ConsecutiveStays != nil {
		if sc.ConsecutiveStays[room.RoomNumber] >= limit {
			return true
		}
	}

	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
