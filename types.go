package roomassign

import "github.com/himmu2625/baithkaGhar-sub009/types"

// Re-export types from the types package.
//
// Internal packages depend on types without importing the root package, while users
// get roomassign.RoomAssignmentRequest, roomassign.Logger and so on.
type (
	RoomType              = types.RoomType
	RoomStatus            = types.RoomStatus
	RoomInventoryRecord   = types.RoomInventoryRecord
	RoomSnapshot          = types.RoomSnapshot
	StayWindow            = types.StayWindow
	RoomAssignmentRequest = types.RoomAssignmentRequest
	RoomAssignmentResult  = types.RoomAssignmentResult
	AssignmentConfig      = types.AssignmentConfig
	AssignmentRule        = types.AssignmentRule
	AssignmentMethod      = types.AssignmentMethod
	AssignmentState       = types.AssignmentState
	Analytics             = types.Analytics
	BulkResult            = types.BulkResult
	NotificationPayload   = types.NotificationPayload
	RoomFeatures          = types.RoomFeatures
	GuestPreferences      = types.GuestPreferences
	AccessibilityNeeds    = types.AccessibilityNeeds
	GroupBooking          = types.GroupBooking
	LoyaltyTier           = types.LoyaltyTier
)

// Re-export interfaces from the types package.
type (
	InventoryProvider      = types.InventoryProvider
	Inventory              = types.Inventory
	NotificationDispatcher = types.NotificationDispatcher
	ConfigStore            = types.ConfigStore
	AssignmentStore        = types.AssignmentStore
	RoomScorer             = types.RoomScorer
	Clock                  = types.Clock
	MetricsCollector       = types.MetricsCollector
	Logger                 = types.Logger
	Hooks                  = types.Hooks
)

// Re-export assignment methods.
const (
	MethodAutomatic = types.MethodAutomatic
	MethodManual    = types.MethodManual
	MethodUpgraded  = types.MethodUpgraded
	MethodFallback  = types.MethodFallback
)

// Re-export assignment states.
const (
	StateUnassigned       = types.StateUnassigned
	StateRulesApplied     = types.StateRulesApplied
	StateScored           = types.StateScored
	StateAssigned         = types.StateAssigned
	StateFallbackAssigned = types.StateFallbackAssigned
	StatePendingManual    = types.StatePendingManual
	StateFailed           = types.StateFailed
)

// Re-export room types.
const (
	RoomTypeStandard     = types.RoomTypeStandard
	RoomTypeDeluxe       = types.RoomTypeDeluxe
	RoomTypeSuite        = types.RoomTypeSuite
	RoomTypePresidential = types.RoomTypePresidential
)

// Re-export room statuses.
const (
	RoomStatusAvailable   = types.RoomStatusAvailable
	RoomStatusOccupied    = types.RoomStatusOccupied
	RoomStatusMaintenance = types.RoomStatusMaintenance
	RoomStatusBlocked     = types.RoomStatusBlocked
	RoomStatusDirty       = types.RoomStatusDirty
	RoomStatusReserved    = types.RoomStatusReserved
)

// Re-export loyalty tiers.
const (
	LoyaltyNone     = types.LoyaltyNone
	LoyaltySilver   = types.LoyaltySilver
	LoyaltyGold     = types.LoyaltyGold
	LoyaltyPlatinum = types.LoyaltyPlatinum
)
