package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssignmentStateString(t *testing.T) {
	tests := []struct {
		state AssignmentState
		want  string
	}{
		{StateUnassigned, "Unassigned"},
		{StateRulesApplied, "RulesApplied"},
		{StateScored, "Scored"},
		{StateAssigned, "Assigned"},
		{StateFallbackAssigned, "FallbackAssigned"},
		{StatePendingManual, "PendingManual"},
		{StateFailed, "Failed"},
		{AssignmentState(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestAssignmentStateTransitions(t *testing.T) {
	require.True(t, StateUnassigned.CanTransitionTo(StateRulesApplied))
	require.True(t, StateRulesApplied.CanTransitionTo(StateScored))
	require.True(t, StateScored.CanTransitionTo(StateFallbackAssigned))
	require.True(t, StatePendingManual.CanTransitionTo(StateAssigned))
	require.True(t, StateAssigned.CanTransitionTo(StateAssigned))

	require.False(t, StateFailed.CanTransitionTo(StateAssigned))
	require.False(t, StateRulesApplied.CanTransitionTo(StateAssigned))
	require.False(t, StatePendingManual.CanTransitionTo(StateScored))
}

func TestStayWindow(t *testing.T) {
	base := mustDate(t, "2026-03-10T15:00:00Z")

	t.Run("nights rounds partial days up", func(t *testing.T) {
		w := StayWindow{CheckIn: base, CheckOut: base.Add(49 * time.Hour)}
		require.Equal(t, 3, w.Nights())
	})

	t.Run("touching windows do not overlap", func(t *testing.T) {
		a := StayWindow{CheckIn: base, CheckOut: base.AddDate(0, 0, 2)}
		b := StayWindow{CheckIn: base.AddDate(0, 0, 2), CheckOut: base.AddDate(0, 0, 4)}
		require.False(t, a.Overlaps(b))
		require.False(t, b.Overlaps(a))
	})

	t.Run("nested windows overlap", func(t *testing.T) {
		a := StayWindow{CheckIn: base, CheckOut: base.AddDate(0, 0, 5)}
		b := StayWindow{CheckIn: base.AddDate(0, 0, 1), CheckOut: base.AddDate(0, 0, 2)}
		require.True(t, a.Overlaps(b))
	})
}

func TestRoomTypeTier(t *testing.T) {
	require.Equal(t, 0, RoomTypeStandard.Tier())
	require.Equal(t, 3, RoomTypePresidential.Tier())
	require.Equal(t, -1, RoomType("penthouse").Tier())
	require.False(t, RoomType("penthouse").Valid())
}

func TestBandForFloor(t *testing.T) {
	require.Equal(t, FloorLow, BandForFloor(3))
	require.Equal(t, FloorMiddle, BandForFloor(4))
	require.Equal(t, FloorMiddle, BandForFloor(8))
	require.Equal(t, FloorHigh, BandForFloor(9))
}

func TestOverridePolicy(t *testing.T) {
	require.False(t, OverridePolicy{}.MayOverride("alice"))
	require.True(t, OverridePolicy{AllowManual: true}.MayOverride("alice"))

	p := OverridePolicy{AllowManual: true, RequireApproval: true, Approvers: []string{"duty-manager"}}
	require.True(t, p.MayOverride("duty-manager"))
	require.False(t, p.MayOverride("night-clerk"))
}

func TestDefaultAssignmentConfig(t *testing.T) {
	cfg := DefaultAssignmentConfig("prop-1")

	require.Equal(t, "prop-1", cfg.PropertyID)
	require.True(t, cfg.Enabled)
	require.True(t, cfg.Automation.AutoAssign)
	require.Len(t, cfg.Rules, 2)
	require.False(t, cfg.Rules[0].AllowsAutomaticUpgrade())
	require.True(t, cfg.Rules[1].AllowsAutomaticUpgrade())

	// each call returns an independent copy
	cfg.Rules[0].Active = false
	require.True(t, DefaultAssignmentConfig("prop-1").Rules[0].Active)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)

	return ts
}
