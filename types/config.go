package types

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentTiming decides whether assignment happens inline or through the queue.
type AssignmentTiming string

const (
	TimingOnBooking AssignmentTiming = "on_booking"
	TimingScheduled AssignmentTiming = "scheduled"
)

// ConflictResolution decides what happens when the best room is taken during reservation.
type ConflictResolution string

const (
	ConflictNextBest ConflictResolution = "next_best"
	ConflictFail     ConflictResolution = "fail"
)

// Audience is the recipient class of a notification channel.
type Audience string

const (
	AudienceGuest Audience = "guest"
	AudienceStaff Audience = "staff"
)

// GroupCohesionPolicy controls group scoring heuristics.
type GroupCohesionPolicy struct {
	SameFloor        bool `json:"sameFloor" yaml:"sameFloor"`
	ConsecutiveRooms bool `json:"consecutiveRooms" yaml:"consecutiveRooms"`
}

// VIPPolicy bounds automatic upgrades. MaxUpgradeTiers of 0 means unlimited.
type VIPPolicy struct {
	MaxUpgradeTiers int `json:"maxUpgradeTiers" yaml:"maxUpgradeTiers" validate:"gte=0"`
}

// FamilyPolicy favours rooms that fit larger parties.
type FamilyPolicy struct {
	Enabled      bool `json:"enabled" yaml:"enabled"`
	MinPartySize int  `json:"minPartySize" yaml:"minPartySize" validate:"gte=0"`
}

// Preferences are property-level soft policies.
type Preferences struct {
	Timing        AssignmentTiming             `json:"timing" yaml:"timing" validate:"omitempty,oneof=on_booking scheduled"`
	GroupCohesion GroupCohesionPolicy          `json:"groupCohesion" yaml:"groupCohesion"`
	VIP           VIPPolicy                    `json:"vip" yaml:"vip"`
	Family        FamilyPolicy                 `json:"family" yaml:"family"`
	RoomTypeRates map[RoomType]decimal.Decimal `json:"roomTypeRates,omitempty" yaml:"roomTypeRates,omitempty"`
}

// ReservedRoom holds a room out of automatic assignment for a window.
type ReservedRoom struct {
	RoomNumber string    `json:"roomNumber" yaml:"roomNumber" validate:"required"`
	From       time.Time `json:"from" yaml:"from"`
	To         time.Time `json:"to" yaml:"to"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Constraints are hard limits. A room that violates any of them is never auto-assigned.
type Constraints struct {
	BlockedRooms              []string         `json:"blockedRooms,omitempty" yaml:"blockedRooms,omitempty"`
	MaintenanceRooms          []string         `json:"maintenanceRooms,omitempty" yaml:"maintenanceRooms,omitempty"`
	ReservedRooms             []ReservedRoom   `json:"reservedRooms,omitempty" yaml:"reservedRooms,omitempty" validate:"dive"`
	MinimumInventory          map[RoomType]int `json:"minimumInventory,omitempty" yaml:"minimumInventory,omitempty"`
	MaxConsecutiveAssignments int              `json:"maxConsecutiveAssignments" yaml:"maxConsecutiveAssignments" validate:"gte=0"`
}

// NotificationChannel is a named destination with a message template.
type NotificationChannel struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Audience Audience `json:"audience" yaml:"audience" validate:"oneof=guest staff"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
}

// NotificationSettings lists the channels notified after an assignment.
type NotificationSettings struct {
	Enabled  bool                  `json:"enabled" yaml:"enabled"`
	Channels []NotificationChannel `json:"channels,omitempty" yaml:"channels,omitempty" validate:"dive"`
}

// AutomationSettings controls automatic assignment.
type AutomationSettings struct {
	AutoAssign         bool               `json:"autoAssign" yaml:"autoAssign"`
	MaxRetries         int                `json:"maxRetries" yaml:"maxRetries" validate:"gte=0"`
	RetryBackoff       time.Duration      `json:"retryBackoff" yaml:"retryBackoff" validate:"gte=0"`
	ConflictResolution ConflictResolution `json:"conflictResolution" yaml:"conflictResolution" validate:"omitempty,oneof=next_best fail"`
}

// OverridePolicy governs manual assignments.
type OverridePolicy struct {
	AllowManual     bool     `json:"allowManual" yaml:"allowManual"`
	RequireApproval bool     `json:"requireApproval" yaml:"requireApproval"`
	Approvers       []string `json:"approvers,omitempty" yaml:"approvers,omitempty"`
}

// MayOverride reports whether the actor is permitted to assign rooms manually.
func (p OverridePolicy) MayOverride(actor string) bool {
	if !p.AllowManual {
		return false
	}
	if !p.RequireApproval {
		return true
	}
	for _, a := range p.Approvers {
		if a == actor {
			return true
		}
	}

	return false
}

// AssignmentConfig is the per-property policy document. It is replaced as a whole.
type AssignmentConfig struct {
	PropertyID    string               `json:"propertyId" yaml:"propertyId" validate:"required"`
	Enabled       bool                 `json:"enabled" yaml:"enabled"`
	Rules         []AssignmentRule     `json:"rules" yaml:"rules" validate:"dive"`
	Preferences   Preferences          `json:"preferences" yaml:"preferences"`
	Constraints   Constraints          `json:"constraints" yaml:"constraints"`
	Notifications NotificationSettings `json:"notifications" yaml:"notifications"`
	Automation    AutomationSettings   `json:"automation" yaml:"automation"`
	Overrides     OverridePolicy       `json:"overrides" yaml:"overrides"`
	UpdatedAt     time.Time            `json:"updatedAt" yaml:"updatedAt"`
}

// DefaultAssignmentConfig returns the policy seeded for a property with no stored config.
//
// It contains an accessibility priority rule and a VIP auto-upgrade rule, enables
// automatic assignment and notifies both guest and staff.
//
// Parameters:
//   - propertyID: Property the config belongs to
//
// Returns:
//   - *AssignmentConfig: A fresh config the caller may mutate
func DefaultAssignmentConfig(propertyID string) *AssignmentConfig {
	return &AssignmentConfig{
		PropertyID: propertyID,
		Enabled:    true,
		Rules: []AssignmentRule{
			{
				ID:       "accessibility-priority",
				Name:     "Accessibility priority",
				Priority: 100,
				Active:   true,
				Conditions: []RuleCondition{
					{Type: ConditionAccessibility, Operator: OpEquals, Value: true, Weight: 1},
				},
				Assignments: []RoomAssignmentTemplate{{UpgradePolicy: UpgradeNone}},
			},
			{
				ID:       "vip-upgrade",
				Name:     "VIP upgrade",
				Priority: 90,
				Active:   true,
				Conditions: []RuleCondition{
					{Type: ConditionLoyaltyTier, Operator: OpIn, Value: []any{"gold", "platinum"}, Weight: 1},
				},
				Assignments: []RoomAssignmentTemplate{{UpgradePolicy: UpgradeAutomatic}},
			},
		},
		Preferences: Preferences{
			Timing:        TimingOnBooking,
			GroupCohesion: GroupCohesionPolicy{SameFloor: true, ConsecutiveRooms: true},
			Family:        FamilyPolicy{MinPartySize: 3},
		},
		Notifications: NotificationSettings{
			Enabled: true,
			Channels: []NotificationChannel{
				{Name: "guest", Audience: AudienceGuest, Template: "Dear guest, room {{.RoomNumber}} on floor {{.Floor}} is ready for booking {{.BookingID}}."},
				{Name: "front-desk", Audience: AudienceStaff, Template: "Booking {{.BookingID}} assigned to room {{.RoomNumber}} ({{.RoomType}})."},
			},
		},
		Automation: AutomationSettings{
			AutoAssign:         true,
			MaxRetries:         3,
			RetryBackoff:       100 * time.Millisecond,
			ConflictResolution: ConflictNextBest,
		},
		Overrides: OverridePolicy{AllowManual: true},
	}
}

// Clone returns a deep copy of the config.
//
// Rule condition values are copied through their JSON form, so numbers come back as
// float64 and lists as []any, the same shapes a config read from a store has.
func (c *AssignmentConfig) Clone() *AssignmentConfig {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(c)
	if err == nil {
		var out AssignmentConfig
		if err = json.Unmarshal(data, &out); err == nil {
			return &out
		}
	}

	out := *c
	out.Rules = append([]AssignmentRule(nil), c.Rules...)

	return &out
}
