package inventory

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

type stay struct {
	bookingID string
	window    types.StayWindow
}

type roomStays struct {
	mu    sync.Mutex
	stays []stay
}

// Turnover tracks the stays this engine has placed in each room so back-to-back chains
// can be measured for the consecutive-assignment limit.
type Turnover struct {
	rooms *xsync.Map[string, *roomStays]
}

// NewTurnover creates an empty tracker.
func NewTurnover() *Turnover {
	return &Turnover{rooms: xsync.NewMap[string, *roomStays]()}
}

func roomKey(propertyID, roomNumber string) string {
	return propertyID + "/" + roomNumber
}

// Record adds a stay for the room.
func (t *Turnover) Record(propertyID, roomNumber, bookingID string, window types.StayWindow) {
	rs, _ := t.rooms.LoadOrStore(roomKey(propertyID, roomNumber), &roomStays{})
	rs.mu.Lock()
	rs.stays = append(rs.stays, stay{bookingID: bookingID, window: window})
	rs.mu.Unlock()
}

// Forget removes the booking's stays from the room.
func (t *Turnover) Forget(propertyID, roomNumber, bookingID string) {
	rs, ok := t.rooms.Load(roomKey(propertyID, roomNumber))
	if !ok {
		return
	}
	rs.mu.Lock()
	kept := rs.stays[:0]
	for _, s := range rs.stays {
		if s.bookingID != bookingID {
			kept = append(kept, s)
		}
	}
	rs.stays = kept
	rs.mu.Unlock()
}

// ChainLength counts the back-to-back stays that end on the calendar day of checkIn,
// following each stay's check-in backwards.
func (t *Turnover) ChainLength(propertyID, roomNumber string, checkIn time.Time) int {
	rs, ok := t.rooms.Load(roomKey(propertyID, roomNumber))
	if !ok {
		return 0
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	chain := 0
	cursor := checkIn
	for range len(rs.stays) {
		found := false
		for _, s := range rs.stays {
			if sameDay(s.window.CheckOut, cursor) {
				chain++
				cursor = s.window.CheckIn
				found = true

				break
			}
		}
		if !found {
			break
		}
	}

	return chain
}

// Chains returns ChainLength for every room, omitting rooms with no chain.
func (t *Turnover) Chains(propertyID string, rooms []types.RoomInventoryRecord, checkIn time.Time) map[string]int {
	out := make(map[string]int)
	for _, r := range rooms {
		if n := t.ChainLength(propertyID, r.RoomNumber, checkIn); n > 0 {
			out[r.RoomNumber] = n
		}
	}

	return out
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
