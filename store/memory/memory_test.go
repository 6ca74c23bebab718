package memory

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	roomtest "github.com/himmu2625/baithkaGhar-sub009/testing"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

func day(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }

func TestConfigStore(t *testing.T) {
	s := NewConfigStore()

	cfg, err := s.Get(t.Context(), "prop-1")
	require.NoError(t, err)
	require.Equal(t, "prop-1", cfg.PropertyID)
	require.True(t, cfg.Enabled)

	cfg.Enabled = false
	cfg.Automation.AutoAssign = false
	require.NoError(t, s.Replace(t.Context(), cfg))

	cfg.Enabled = true // mutation after Replace must not leak in
	got, err := s.Get(t.Context(), "prop-1")
	require.NoError(t, err)
	require.False(t, got.Enabled)
	require.False(t, got.Automation.AutoAssign)

	require.ErrorIs(t, s.Replace(t.Context(), &types.AssignmentConfig{}), types.ErrInvalidConfig)
}

func TestAssignmentStore(t *testing.T) {
	s := NewAssignmentStore()

	_, err := s.Current(t.Context(), "b1")
	require.ErrorIs(t, err, types.ErrAssignmentNotFound)

	first := &types.RoomAssignmentResult{BookingID: "b1", PropertyID: "p", Room: types.RoomSnapshot{RoomNumber: "101"}, AssignedAt: day(1, 10), Version: 1}
	second := &types.RoomAssignmentResult{BookingID: "b1", PropertyID: "p", Room: types.RoomSnapshot{RoomNumber: "102"}, AssignedAt: day(2, 10), Version: 2, PreviousRoom: "101"}
	other := &types.RoomAssignmentResult{BookingID: "b2", PropertyID: "p", AssignedAt: day(5, 10), Version: 1}

	for _, r := range []*types.RoomAssignmentResult{first, second, other} {
		require.NoError(t, s.Save(t.Context(), r))
	}

	cur, err := s.Current(t.Context(), "b1")
	require.NoError(t, err)
	require.Equal(t, "102", cur.Room.RoomNumber)

	hist, err := s.History(t.Context(), "b1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, 1, hist[0].Version)
	require.Equal(t, 2, hist[1].Version)

	listed, err := s.List(t.Context(), "p", day(1, 0), day(5, 10))
	require.NoError(t, err)
	require.Len(t, listed, 2, "end is exclusive")

	listed, err = s.List(t.Context(), "other", day(1, 0), day(30, 0))
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestInventory_AvailabilityAndReservation(t *testing.T) {
	inv := NewInventory(
		roomtest.NewRoom("110", types.RoomTypeStandard, 1),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
		roomtest.NewRoom("201", types.RoomTypeDeluxe, 2),
	)
	stay := types.StayWindow{CheckIn: day(10, 15), CheckOut: day(12, 11)}

	rooms, err := inv.GetAvailableRooms(t.Context(), "prop-1", stay.CheckIn, stay.CheckOut)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	require.Equal(t, []string{"102", "110", "201"}, []string{rooms[0].RoomNumber, rooms[1].RoomNumber, rooms[2].RoomNumber})

	require.NoError(t, inv.ReserveRoom(t.Context(), "prop-1", "102", stay, "b1"))
	require.ErrorIs(t, inv.ReserveRoom(t.Context(), "prop-1", "102", stay, "b2"), types.ErrRoomNotAvailable)
	require.ErrorIs(t, inv.ReserveRoom(t.Context(), "prop-1", "999", stay, "b2"), types.ErrRoomNotAvailable)

	// Same booking re-reserving is idempotent.
	require.NoError(t, inv.ReserveRoom(t.Context(), "prop-1", "102", stay, "b1"))

	// Back-to-back stays do not overlap.
	next := types.StayWindow{CheckIn: day(12, 11), CheckOut: day(13, 11)}
	require.NoError(t, inv.ReserveRoom(t.Context(), "prop-1", "102", next, "b3"))

	rooms, err = inv.GetAvailableRooms(t.Context(), "prop-1", stay.CheckIn, stay.CheckOut)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	holder, ok := inv.Holder("prop-1", "102", day(11, 0))
	require.True(t, ok)
	require.Equal(t, "b1", holder)

	require.NoError(t, inv.ReleaseRoom(t.Context(), "prop-1", "102", "b1"))
	require.NoError(t, inv.ReleaseRoom(t.Context(), "prop-1", "102", "b1"))
	_, ok = inv.Holder("prop-1", "102", day(11, 0))
	require.False(t, ok)

	require.NoError(t, inv.SetStatus("prop-1", "201", types.RoomStatusMaintenance))
	require.Error(t, inv.SetStatus("prop-1", "404", types.RoomStatusMaintenance))
}

func TestInventory_ConcurrentReservationsNeverOverlap(t *testing.T) {
	inv := NewInventory(roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	stay := types.StayWindow{CheckIn: day(10, 15), CheckOut: day(12, 11)}

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := types.StayWindow{CheckIn: stay.CheckIn.Add(time.Duration(i) * time.Minute), CheckOut: stay.CheckOut}
			if inv.ReserveRoom(t.Context(), "prop-1", "101", w, fmt.Sprintf("b%d", i)) == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, won.Load())
}
