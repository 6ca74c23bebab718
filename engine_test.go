package roomassign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himmu2625/baithkaGhar-sub009/store/memory"
	roomtest "github.com/himmu2625/baithkaGhar-sub009/testing"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	engine     *Engine
	inv        *memory.Inventory
	dispatcher *roomtest.RecordingDispatcher
	configs    *memory.ConfigStore
	store      *memory.AssignmentStore
	clock      *roomtest.FakeClock
}

func newFixture(t *testing.T, rooms ...RoomInventoryRecord) *fixture {
	t.Helper()
	return newFixtureWith(t, nil, rooms...)
}

// newFixtureWith builds an engine over a memory inventory, optionally wrapped.
func newFixtureWith(t *testing.T, wrap func(*memory.Inventory) Inventory, rooms ...RoomInventoryRecord) *fixture {
	t.Helper()

	f := &fixture{
		inv:        memory.NewInventory(rooms...),
		dispatcher: roomtest.NewRecordingDispatcher(),
		configs:    memory.NewConfigStore(),
		store:      memory.NewAssignmentStore(),
		clock:      roomtest.NewFakeClock(testNow),
	}

	var inv Inventory = f.inv
	if wrap != nil {
		inv = wrap(f.inv)
	}

	cfg := TestConfig()
	engine, err := NewEngine(&cfg, inv, f.dispatcher,
		WithConfigStore(f.configs),
		WithAssignmentStore(f.store),
		WithClock(f.clock),
		WithLogger(roomtest.NewTestLogger(t)),
	)
	require.NoError(t, err)
	f.engine = engine

	return f
}

// configure stores the default config of prop-1 after applying mutate.
func (f *fixture) configure(t *testing.T, mutate func(cfg *AssignmentConfig)) {
	t.Helper()

	cfg := types.DefaultAssignmentConfig("prop-1")
	mutate(cfg)
	require.NoError(t, f.engine.UpdateConfiguration(t.Context(), cfg))
}

type countingInventory struct {
	*memory.Inventory
	reserves atomic.Int32
}

func (c *countingInventory) ReserveRoom(ctx context.Context, propertyID, roomNumber string, window types.StayWindow, bookingID string) error {
	c.reserves.Add(1)
	return c.Inventory.ReserveRoom(ctx, propertyID, roomNumber, window, bookingID)
}

func TestNewEngine_Validation(t *testing.T) {
	inv := memory.NewInventory()
	disp := roomtest.NewRecordingDispatcher()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewEngine(nil, inv, disp)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("nil inventory", func(t *testing.T) {
		cfg := TestConfig()
		_, err := NewEngine(&cfg, nil, disp)
		require.ErrorIs(t, err, ErrInventoryRequired)
	})

	t.Run("nil dispatcher", func(t *testing.T) {
		cfg := TestConfig()
		_, err := NewEngine(&cfg, inv, nil)
		require.ErrorIs(t, err, ErrDispatcherRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := TestConfig()
		cfg.Queue.DropPolicy = "retry-forever"
		_, err := NewEngine(&cfg, inv, disp)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("optional dependencies get defaults", func(t *testing.T) {
		cfg := Config{}
		engine, err := NewEngine(&cfg, inv, disp)
		require.NoError(t, err)

		require.NotNil(t, engine.configs)
		require.NotNil(t, engine.assignments)
		require.NotNil(t, engine.scorer)
		require.NotNil(t, engine.clock)
		require.NotNil(t, engine.metrics)
		require.NotNil(t, engine.logger)
		require.NotNil(t, engine.hooks.OnAssigned)
		require.Equal(t, DefaultConfig(), cfg)
	})
}

func TestAssignRoom_AccessibleRoomWins(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1, roomtest.Wheelchair()),
		roomtest.NewRoom("201", types.RoomTypeDeluxe, 2),
	)

	req := roomtest.NewRequest("b1", types.RoomTypeStandard, roomtest.NeedsWheelchair())
	res, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, "101", res.Room.RoomNumber)
	assert.Equal(t, MethodAutomatic, res.Method)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.Empty(t, res.Upgrades)
	assert.Equal(t, "system", res.AssignedBy)
	assert.Equal(t, 1, res.Version)
	assert.Equal(t, testNow, res.AssignedAt)
	assert.Equal(t, StateAssigned, f.engine.State("b1"))

	holder, ok := f.inv.Holder("prop-1", "101", req.CheckIn)
	require.True(t, ok)
	assert.Equal(t, "b1", holder)
}

func TestAssignRoom_ExactTypeConfidence(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("201", types.RoomTypeDeluxe, 2),
	)

	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)

	assert.Equal(t, "101", res.Room.RoomNumber)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestAssignRoom_VIPUpgrade(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("201", types.RoomTypeDeluxe, 2),
	)
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Preferences.RoomTypeRates = map[RoomType]decimal.Decimal{
			types.RoomTypeStandard: decimal.NewFromInt(100),
			types.RoomTypeDeluxe:   decimal.NewFromInt(150),
		}
	})

	req := roomtest.NewRequest("b1", types.RoomTypeStandard, roomtest.WithLoyalty(types.LoyaltyPlatinum))
	res, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, "201", res.Room.RoomNumber)
	assert.Equal(t, MethodUpgraded, res.Method)
	assert.InDelta(t, 0.75, res.Confidence, 1e-9)
	require.Len(t, res.Upgrades, 1)
	assert.Equal(t, types.RoomTypeStandard, res.Upgrades[0].From)
	assert.Equal(t, types.RoomTypeDeluxe, res.Upgrades[0].To)
	assert.Equal(t, "VIP upgrade", res.Upgrades[0].Reason)
	assert.True(t, decimal.NewFromInt(100).Equal(res.Upgrades[0].Value), "got %s", res.Upgrades[0].Value)
}

func TestAssignRoom_BlockedRoomNeverChosen(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1, roomtest.Wheelchair()),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
	)
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Constraints.BlockedRooms = []string{"101"}
	})

	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard, roomtest.NeedsWheelchair()))
	require.NoError(t, err)
	assert.Equal(t, "102", res.Room.RoomNumber)
}

func TestAssignRoom_Idempotent(t *testing.T) {
	var counting *countingInventory
	f := newFixtureWith(t, func(inv *memory.Inventory) Inventory {
		counting = &countingInventory{Inventory: inv}
		return counting
	}, roomtest.NewRoom("101", types.RoomTypeStandard, 1), roomtest.NewRoom("102", types.RoomTypeStandard, 1))

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	first, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	second, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), counting.reserves.Load())
	assert.Len(t, f.dispatcher.Sent(), 2)

	history, err := f.engine.GetAssignmentHistory(t.Context(), "b1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAssignRoom_ConcurrentRequestsNeverShareRoom(t *testing.T) {
	const rooms, bookings = 5, 20

	var inventory []RoomInventoryRecord
	for i := range rooms {
		inventory = append(inventory, roomtest.NewRoom(fmt.Sprintf("%d", 101+i), types.RoomTypeStandard, 1))
	}
	f := newFixture(t, inventory...)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned = make(map[string]string)
		failures int
	)
	for i := range bookings {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			id := fmt.Sprintf("b%d", i)
			res, err := f.engine.AssignRoom(context.Background(), roomtest.NewRequest(id, types.RoomTypeStandard))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrNoRoomsAvailable)
				failures++
				return
			}
			assert.NotContains(t, assigned, res.Room.RoomNumber)
			assigned[res.Room.RoomNumber] = id
		}(i)
	}
	wg.Wait()

	require.Len(t, assigned, rooms)
	assert.Equal(t, bookings-rooms, failures)

	checkIn := roomtest.NewRequest("x", types.RoomTypeStandard).CheckIn
	for room, booking := range assigned {
		holder, ok := f.inv.Holder("prop-1", room, checkIn)
		require.True(t, ok)
		assert.Equal(t, booking, holder)
	}
}

func TestAssignRoom_FallbackWindow(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	require.NoError(t, f.inv.ReserveRoom(t.Context(), "prop-1", "101",
		types.StayWindow{CheckIn: req.CheckIn, CheckOut: req.CheckIn.AddDate(0, 0, 1)}, "other"))

	res, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, req.CheckIn.AddDate(0, 0, 1), res.CheckIn)
	assert.Equal(t, req.CheckOut, res.CheckOut)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, types.ConflictStayWindowShifted, res.Conflicts[0].Type)
	assert.Equal(t, StateFallbackAssigned, f.engine.State("b1"))
}

func TestAssignRoom_FallbackAroundConfiguredHold(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	req := roomtest.NewRequest("b1", types.RoomTypeStandard)

	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Constraints.ReservedRooms = []types.ReservedRoom{{
			RoomNumber: "101",
			From:       req.CheckIn,
			To:         req.CheckIn.AddDate(0, 0, 1),
			Reason:     "owner stay",
		}}
	})

	res, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)

	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, "101", res.Room.RoomNumber)
	assert.Equal(t, req.CheckIn.AddDate(0, 0, 1), res.CheckIn)
	assert.Equal(t, req.CheckOut, res.CheckOut)
}

func TestAssignRoom_FallbackRespectsHoldOutsideRequest(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	req := roomtest.NewRequest("b1", types.RoomTypeStandard)

	// the first night is sold, and the night after check-out is held by config
	require.NoError(t, f.inv.ReserveRoom(t.Context(), "prop-1", "101",
		types.StayWindow{CheckIn: req.CheckIn, CheckOut: req.CheckIn.AddDate(0, 0, 1)}, "other"))
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Constraints.ReservedRooms = []types.ReservedRoom{{
			RoomNumber: "101",
			From:       req.CheckOut,
			To:         req.CheckOut.AddDate(0, 0, 1),
		}}
	})

	_, err := f.engine.AssignRoom(t.Context(), req)
	require.ErrorIs(t, err, ErrNoRoomsAvailable)

	_, err = f.engine.GetAssignment(t.Context(), "b1")
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignRoom_NoRoomsAvailable(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1, roomtest.WithStatus(types.RoomStatusMaintenance)))

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.ErrorIs(t, err, ErrNoRoomsAvailable)
	assert.Equal(t, StateFailed, f.engine.State("b1"))

	_, err = f.engine.GetAssignment(t.Context(), "b1")
	require.ErrorIs(t, err, ErrAssignmentNotFound)

	// a failed booking may be attempted again once a room frees up
	f.inv.PutRoom(roomtest.NewRoom("102", types.RoomTypeStandard, 1))
	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)
	assert.Equal(t, "102", res.Room.RoomNumber)
	assert.Equal(t, StateAssigned, f.engine.State("b1"))
}

func TestAssignRoom_DegradedInventory(t *testing.T) {
	var flaky *roomtest.FlakyInventory
	f := newFixtureWith(t, func(inv *memory.Inventory) Inventory {
		flaky = roomtest.NewFlakyInventory(inv, 0)
		return flaky
	}, roomtest.NewRoom("101", types.RoomTypeStandard, 1), roomtest.NewRoom("102", types.RoomTypeStandard, 1))

	first, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)
	require.Equal(t, "101", first.Room.RoomNumber)

	flaky.SetDown(true)
	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b2", types.RoomTypeStandard))
	require.NoError(t, err)

	// the stale snapshot still lists 101, so the reservation skips to 102
	assert.Equal(t, "102", res.Room.RoomNumber)
	var kinds []string
	for _, c := range res.Conflicts {
		kinds = append(kinds, c.Type)
	}
	assert.Equal(t, []string{types.ConflictRoomTaken, types.ConflictDegradedInventory}, kinds)

	var staff *roomtest.SentNotification
	for _, n := range f.dispatcher.Sent() {
		if n.Payload.BookingID == "b2" && n.Payload.Audience == types.AudienceStaff {
			staff = &n
		}
	}
	require.NotNil(t, staff)
	assert.Equal(t, "high", staff.Payload.Severity)
}

func TestAssignRoom_ProviderUnavailableWithoutSnapshot(t *testing.T) {
	var flaky *roomtest.FlakyInventory
	f := newFixtureWith(t, func(inv *memory.Inventory) Inventory {
		flaky = roomtest.NewFlakyInventory(inv, 0)
		flaky.SetDown(true)
		return flaky
	}, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Automation.MaxRetries = 2
		cfg.Automation.RetryBackoff = time.Millisecond
	})

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 3, flaky.Calls())
}

func TestAssignRoom_RetriesTransientProviderFailure(t *testing.T) {
	var flaky *roomtest.FlakyInventory
	f := newFixtureWith(t, func(inv *memory.Inventory) Inventory {
		flaky = roomtest.NewFlakyInventory(inv, 2)
		return flaky
	}, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, 3, flaky.Calls())
}

func TestAssignRoom_NotificationFailureIsRecorded(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.dispatcher.SetFailing("guest", true)

	res, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)

	require.Len(t, res.Notifications, 2)
	assert.Equal(t, "guest", res.Notifications[0].Channel)
	assert.False(t, res.Notifications[0].Delivered)
	assert.Contains(t, res.Notifications[0].Error, ErrNotificationFailed.Error())
	assert.True(t, res.Notifications[1].Delivered)
	assert.Equal(t, 1, f.engine.QueueLen())

	f.dispatcher.SetFailing("guest", false)
	processed, failed := f.engine.DrainQueue(t.Context())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, failed)

	var guest int
	for _, n := range f.dispatcher.Sent() {
		if n.Channel == "guest" {
			guest++
			assert.Equal(t, "info", n.Payload.Severity)
			assert.Contains(t, n.Payload.Message, "room 101")
		}
	}
	assert.Equal(t, 1, guest)
}

func TestAssignRoom_DisabledProperty(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) { cfg.Enabled = false })

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.ErrorIs(t, err, ErrConfigurationUnavailable)
}

func TestAssignRoom_InvalidRequest(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	req.CheckOut = req.CheckIn

	_, err := f.engine.AssignRoom(t.Context(), req)
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.engine.AssignRoom(t.Context(), nil)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAssignRoom_GroupKeepsAnchorFloor(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
		roomtest.NewRoom("104", types.RoomTypeStandard, 3),
		roomtest.NewRoom("106", types.RoomTypeStandard, 1),
	)

	first, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("g1-a", types.RoomTypeStandard, roomtest.InGroup("g1", 2)))
	require.NoError(t, err)
	require.Equal(t, "102", first.Room.RoomNumber)
	assert.Equal(t, "g1", first.GroupID)

	second, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("g1-b", types.RoomTypeStandard, roomtest.InGroup("g1", 2)))
	require.NoError(t, err)
	assert.Equal(t, "106", second.Room.RoomNumber)
}

func TestAssignRoom_ManualRequired(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) { cfg.Automation.AutoAssign = false })

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	_, err := f.engine.AssignRoom(t.Context(), req)
	require.ErrorIs(t, err, ErrManualAssignmentRequired)

	assert.Equal(t, StatePendingManual, f.engine.State("b1"))
	pending := f.engine.PendingManual("prop-1")
	require.Len(t, pending, 1)
	assert.Equal(t, "b1", pending[0].BookingID)

	_, held := f.inv.Holder("prop-1", "101", req.CheckIn)
	assert.False(t, held)

	res, err := f.engine.ManualAssignment(t.Context(), pending[0], "101", "alice", "guest asked at the desk")
	require.NoError(t, err)
	assert.Equal(t, MethodManual, res.Method)
	assert.Equal(t, "alice", res.AssignedBy)
	assert.Equal(t, []string{"guest asked at the desk"}, res.Notes)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	assert.Empty(t, f.engine.PendingManual("prop-1"))
	assert.Equal(t, StateAssigned, f.engine.State("b1"))
}

func TestManualAssignment_RoomNotAvailable(t *testing.T) {
	var counting *countingInventory
	f := newFixtureWith(t, func(inv *memory.Inventory) Inventory {
		counting = &countingInventory{Inventory: inv}
		return counting
	}, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	_, err := f.engine.ManualAssignment(t.Context(), req, "999", "alice", "")
	require.ErrorIs(t, err, ErrRoomNotAvailable)

	_, err = f.engine.GetAssignment(t.Context(), "b1")
	require.ErrorIs(t, err, ErrAssignmentNotFound)
	assert.Equal(t, int32(0), counting.reserves.Load())
	assert.Empty(t, f.dispatcher.Sent())
}

func TestManualAssignment_RoomTaken(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)

	_, err = f.engine.ManualAssignment(t.Context(), roomtest.NewRequest("b2", types.RoomTypeStandard), "101", "alice", "")
	require.ErrorIs(t, err, ErrRoomNotAvailable)

	holder, _ := f.inv.Holder("prop-1", "101", roomtest.NewRequest("b2", types.RoomTypeStandard).CheckIn)
	assert.Equal(t, "b1", holder)
}

func TestManualAssignment_OverridePolicy(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Overrides = types.OverridePolicy{AllowManual: true, RequireApproval: true, Approvers: []string{"manager"}}
	})

	_, err := f.engine.ManualAssignment(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard), "101", "alice", "")
	require.ErrorIs(t, err, ErrOverrideNotPermitted)

	res, err := f.engine.ManualAssignment(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard), "101", "manager", "")
	require.NoError(t, err)
	assert.Equal(t, "manager", res.AssignedBy)
}

func TestReassignRoom(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
	)

	req := roomtest.NewRequest("b1", types.RoomTypeStandard)
	first, err := f.engine.AssignRoom(t.Context(), req)
	require.NoError(t, err)
	require.Equal(t, "101", first.Room.RoomNumber)

	res, err := f.engine.ReassignRoom(t.Context(), "b1", "102", "noisy neighbours", "bob")
	require.NoError(t, err)

	assert.Equal(t, "102", res.Room.RoomNumber)
	assert.Equal(t, "101", res.PreviousRoom)
	assert.Equal(t, 2, res.Version)
	assert.Equal(t, "bob", res.AssignedBy)
	assert.Contains(t, res.Notes, "reassigned from room 101: noisy neighbours")
	assert.NotEqual(t, first.AssignmentID, res.AssignmentID)

	_, held := f.inv.Holder("prop-1", "101", req.CheckIn)
	assert.False(t, held)
	holder, _ := f.inv.Holder("prop-1", "102", req.CheckIn)
	assert.Equal(t, "b1", holder)

	current, err := f.engine.GetAssignment(t.Context(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version)

	history, err := f.engine.GetAssignmentHistory(t.Context(), "b1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "101", history[0].Room.RoomNumber)
	assert.Equal(t, "102", history[1].Room.RoomNumber)
}

func TestReassignRoom_Errors(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
	)

	_, err := f.engine.ReassignRoom(t.Context(), "missing", "102", "upgrade", "bob")
	require.ErrorIs(t, err, ErrInvalidReassignment)

	_, err = f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)
	_, err = f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b2", types.RoomTypeStandard))
	require.NoError(t, err)

	_, err = f.engine.ReassignRoom(t.Context(), "b1", "101", "same room", "bob")
	require.ErrorIs(t, err, ErrInvalidReassignment)

	_, err = f.engine.ReassignRoom(t.Context(), "b1", "102", "taken", "bob")
	require.ErrorIs(t, err, ErrRoomNotAvailable)

	current, err := f.engine.GetAssignment(t.Context(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "101", current.Room.RoomNumber)
}

func TestBulkAssignment(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
	)

	invalid := roomtest.NewRequest("bad", types.RoomTypeStandard)
	invalid.GuestID = ""

	out := f.engine.BulkAssignment(t.Context(), []*RoomAssignmentRequest{
		roomtest.NewRequest("b1", types.RoomTypeStandard),
		invalid,
		roomtest.NewRequest("b2", types.RoomTypeStandard),
		roomtest.NewRequest("b3", types.RoomTypeStandard),
	})

	require.Len(t, out.Assigned, 2)
	assert.Equal(t, "b1", out.Assigned[0].BookingID)
	assert.Equal(t, "b2", out.Assigned[1].BookingID)
	require.Len(t, out.Failed, 2)
	assert.ErrorIs(t, out.Failed["bad"], ErrInvalidRequest)
	assert.ErrorIs(t, out.Failed["b3"], ErrNoRoomsAvailable)
}

func TestScheduledTimingQueuesRequests(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) { cfg.Preferences.Timing = types.TimingScheduled })

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.ErrorIs(t, err, ErrAssignmentQueued)
	assert.Equal(t, 1, f.engine.QueueLen())

	processed, failed := f.engine.DrainQueue(t.Context())
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, failed)

	res, err := f.engine.GetAssignment(t.Context(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "101", res.Room.RoomNumber)
}

func TestEngine_StartStop(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))

	require.NoError(t, f.engine.Start(t.Context()))
	require.ErrorIs(t, f.engine.Start(t.Context()), ErrAlreadyStarted)

	require.NoError(t, f.engine.Enqueue(roomtest.NewRequest("b1", types.RoomTypeStandard)))
	require.Eventually(t, func() bool {
		_, err := f.engine.GetAssignment(context.Background(), "b1")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	require.NoError(t, f.engine.Stop(ctx))
	require.ErrorIs(t, f.engine.Stop(ctx), ErrNotStarted)

	require.ErrorIs(t, f.engine.Enqueue(&RoomAssignmentRequest{}), ErrInvalidRequest)
}

func TestEngine_DeadLetters(t *testing.T) {
	f := &fixture{
		inv:        memory.NewInventory(),
		dispatcher: roomtest.NewRecordingDispatcher(),
	}
	cfg := TestConfig()
	cfg.Queue.DropPolicy = "dead_letter"
	engine, err := NewEngine(&cfg, f.inv, f.dispatcher, WithLogger(roomtest.NewTestLogger(t)))
	require.NoError(t, err)

	require.NoError(t, engine.Enqueue(roomtest.NewRequest("b1", types.RoomTypeStandard)))
	processed, failed := engine.DrainQueue(t.Context())
	assert.Equal(t, 0, processed)
	assert.Equal(t, 1, failed)

	letters := engine.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "assignment", letters[0].Kind)
	assert.Equal(t, "b1", letters[0].BookingID)
	assert.Contains(t, letters[0].LastError, ErrNoRoomsAvailable.Error())
}

func TestEngine_Hooks(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []string
		assigned    []string
		hookErrors  []error
	)
	hooks := &Hooks{
		OnAssigned: func(_ context.Context, res *RoomAssignmentResult) error {
			mu.Lock()
			defer mu.Unlock()
			assigned = append(assigned, res.BookingID)
			return errors.New("ignored")
		},
		OnStateChanged: func(_ context.Context, _ string, from, to AssignmentState) error {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, from.String()+"->"+to.String())
			return nil
		},
		OnError: func(_ context.Context, err error) error {
			mu.Lock()
			defer mu.Unlock()
			hookErrors = append(hookErrors, err)
			return nil
		},
	}

	cfg := TestConfig()
	engine, err := NewEngine(&cfg, memory.NewInventory(roomtest.NewRoom("101", types.RoomTypeStandard, 1)),
		roomtest.NewRecordingDispatcher(), WithHooks(hooks))
	require.NoError(t, err)

	_, err = engine.AssignRoom(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.NoError(t, err)
	_, err = engine.AssignRoom(t.Context(), roomtest.NewRequest("b2", types.RoomTypeStandard))
	require.ErrorIs(t, err, ErrNoRoomsAvailable)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"b1"}, assigned)
	assert.Equal(t, []string{
		"Unassigned->RulesApplied", "RulesApplied->Scored", "Scored->Assigned",
		"Unassigned->RulesApplied", "RulesApplied->Scored", "Scored->Failed",
	}, transitions)
	require.Len(t, hookErrors, 1)
	assert.ErrorIs(t, hookErrors[0], ErrNoRoomsAvailable)
}

func TestConfiguration_GetAndUpdate(t *testing.T) {
	f := newFixture(t)

	cfg, err := f.engine.GetConfiguration(t.Context(), "prop-9")
	require.NoError(t, err)
	assert.Equal(t, "prop-9", cfg.PropertyID)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "accessibility-priority", cfg.Rules[0].ID)

	cfg.Automation.AutoAssign = false
	require.NoError(t, f.engine.UpdateConfiguration(t.Context(), cfg))

	stored, err := f.engine.GetConfiguration(t.Context(), "prop-9")
	require.NoError(t, err)
	assert.False(t, stored.Automation.AutoAssign)
	assert.Equal(t, testNow, stored.UpdatedAt)

	bad := types.DefaultAssignmentConfig("")
	require.ErrorIs(t, f.engine.UpdateConfiguration(t.Context(), bad), ErrInvalidConfig)

	bad = types.DefaultAssignmentConfig("prop-9")
	bad.Automation.ConflictResolution = "coin_flip"
	require.ErrorIs(t, f.engine.UpdateConfiguration(t.Context(), bad), ErrInvalidConfig)
	require.ErrorIs(t, f.engine.UpdateConfiguration(t.Context(), nil), ErrInvalidConfig)
}

func TestAnalytics(t *testing.T) {
	f := newFixture(t,
		roomtest.NewRoom("101", types.RoomTypeStandard, 1),
		roomtest.NewRoom("102", types.RoomTypeStandard, 1),
		roomtest.NewRoom("201", types.RoomTypeDeluxe, 2),
	)
	f.configure(t, func(cfg *AssignmentConfig) {
		cfg.Preferences.RoomTypeRates = map[RoomType]decimal.Decimal{
			types.RoomTypeStandard: decimal.NewFromInt(100),
			types.RoomTypeDeluxe:   decimal.NewFromInt(160),
		}
	})

	_, err := f.engine.AssignRoom(t.Context(), roomtest.NewRequest("vip", types.RoomTypeStandard, roomtest.WithLoyalty(types.LoyaltyGold)))
	require.NoError(t, err)
	_, err = f.engine.AssignRoom(t.Context(), roomtest.NewRequest("b2", types.RoomTypeStandard))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.engine.ReassignRoom(t.Context(), "b2", "102", "late checkout next door", "bob")
	require.NoError(t, err)

	start, end := testNow.Add(-time.Hour), testNow.Add(24*time.Hour)
	a, err := f.engine.GetAnalytics(t.Context(), "prop-1", start, end)
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalAssignments)
	assert.Equal(t, 1, a.Reassignments)
	assert.Equal(t, 1, a.Upgrades)
	assert.Equal(t, 1, a.ByMethod[MethodUpgraded])
	assert.Equal(t, 1, a.ByMethod[MethodAutomatic])
	assert.True(t, decimal.NewFromInt(120).Equal(a.UpgradeValue), "got %s", a.UpgradeValue)
	assert.InDelta(t, (0.75+0.9)/2, a.AverageConfidence, 1e-9)

	data, err := f.engine.ExportAnalytics(t.Context(), "prop-1", start, end)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	_, err = f.engine.GetAnalytics(t.Context(), "prop-1", end, start)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

// gatedDispatcher holds every send until release is closed.
type gatedDispatcher struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedDispatcher() *gatedDispatcher {
	return &gatedDispatcher{entered: make(chan struct{}), release: make(chan struct{})}
}

func (d *gatedDispatcher) Send(ctx context.Context, _ string, _ types.NotificationPayload) (bool, error) {
	d.once.Do(func() { close(d.entered) })
	select {
	case <-d.release:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type brokenStore struct {
	*memory.AssignmentStore
}

func (brokenStore) Save(context.Context, *RoomAssignmentResult) error {
	return errors.New("db down")
}

type outcome struct {
	res *RoomAssignmentResult
	err error
}

func newGatedEngine(t *testing.T, store AssignmentStore) (*Engine, *memory.Inventory, *gatedDispatcher) {
	t.Helper()

	inv := memory.NewInventory(roomtest.NewRoom("101", types.RoomTypeStandard, 1), roomtest.NewRoom("102", types.RoomTypeStandard, 1))
	gate := newGatedDispatcher()

	cfg := TestConfig()
	cfg.Notification.Timeout = 5 * time.Second
	engine, err := NewEngine(&cfg, inv, gate,
		WithAssignmentStore(store),
		WithClock(roomtest.NewFakeClock(testNow)),
		WithLogger(roomtest.NewTestLogger(t)),
	)
	require.NoError(t, err)

	return engine, inv, gate
}

func assignAsync(engine *Engine, req *RoomAssignmentRequest) <-chan outcome {
	out := make(chan outcome, 1)
	go func() {
		res, err := engine.AssignRoom(context.Background(), req)
		out <- outcome{res: res, err: err}
	}()

	return out
}

func TestAssignRoom_ConcurrentCallWaitsForStoredResult(t *testing.T) {
	engine, _, gate := newGatedEngine(t, memory.NewAssignmentStore())
	req := roomtest.NewRequest("b1", types.RoomTypeStandard)

	first := assignAsync(engine, req)
	<-gate.entered

	second := assignAsync(engine, req)
	select {
	case o := <-second:
		t.Fatalf("second call returned before the first was stored: %+v", o)
	case <-time.After(50 * time.Millisecond):
	}

	// staff actions on the booking are refused while it is being assigned
	_, err := engine.ManualAssignment(t.Context(), req, "102", "front-desk", "")
	require.ErrorIs(t, err, ErrInvalidRequest)
	_, err = engine.ReassignRoom(t.Context(), "b1", "102", "upgrade", "front-desk")
	require.ErrorIs(t, err, ErrInvalidReassignment)

	close(gate.release)

	a, b := <-first, <-second
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Equal(t, a.res, b.res)
	assert.Len(t, b.res.Notifications, 2)
	for _, n := range b.res.Notifications {
		assert.True(t, n.Delivered)
	}
}

func TestAssignRoom_ConcurrentCallSeesSaveFailure(t *testing.T) {
	engine, inv, gate := newGatedEngine(t, brokenStore{memory.NewAssignmentStore()})
	req := roomtest.NewRequest("b1", types.RoomTypeStandard)

	first := assignAsync(engine, req)
	<-gate.entered
	second := assignAsync(engine, req)
	time.Sleep(20 * time.Millisecond)
	close(gate.release)

	a, b := <-first, <-second
	require.ErrorContains(t, a.err, "db down")
	require.ErrorContains(t, b.err, "db down")
	assert.Nil(t, b.res)

	_, err := engine.GetAssignment(t.Context(), "b1")
	require.ErrorIs(t, err, ErrAssignmentNotFound)
	_, held := inv.Holder("prop-1", "101", req.CheckIn)
	assert.False(t, held)
	assert.Equal(t, StateFailed, engine.State("b1"))
}

func TestManualAssignment_DisabledProperty(t *testing.T) {
	f := newFixture(t, roomtest.NewRoom("101", types.RoomTypeStandard, 1))
	f.configure(t, func(cfg *AssignmentConfig) { cfg.Enabled = false })

	_, err := f.engine.ManualAssignment(t.Context(), roomtest.NewRequest("b1", types.RoomTypeStandard), "101", "front-desk", "")
	require.ErrorIs(t, err, ErrConfigurationUnavailable)

	_, held := f.inv.Holder("prop-1", "101", testNow.AddDate(0, 0, 10))
	assert.False(t, held)
}
