package types

import "time"

// ConditionType names the request attribute a rule condition inspects.
type ConditionType string

const (
	ConditionLoyaltyTier   ConditionType = "loyalty_tier"
	ConditionBookingValue  ConditionType = "booking_value"
	ConditionAccessibility ConditionType = "accessibility"
	ConditionPartySize     ConditionType = "party_size"
	ConditionLengthOfStay  ConditionType = "length_of_stay"
	ConditionArrivalHour   ConditionType = "arrival_hour"
)

// Operator is the comparison applied between the attribute and the condition value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpContains    Operator = "contains"
	OpIn          Operator = "in"
	OpBetween     Operator = "between"
)

// UpgradePolicy controls whether a matching rule may upgrade the guest.
type UpgradePolicy string

const (
	UpgradeNone      UpgradePolicy = "none"
	UpgradeAutomatic UpgradePolicy = "automatic"
	UpgradeOnRequest UpgradePolicy = "on_request"
)

// RuleCondition is a single predicate over a request attribute.
//
// Value holds a scalar for equals/not_equals/greater_than/less_than/contains, a list for
// in, and a two element list for between.
type RuleCondition struct {
	Type     ConditionType `json:"type" yaml:"type" validate:"required"`
	Operator Operator      `json:"operator" yaml:"operator" validate:"required"`
	Value    any           `json:"value" yaml:"value"`
	Weight   float64       `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// RoomAssignmentTemplate is the action side of a rule.
type RoomAssignmentTemplate struct {
	PreferredRoomTypes []RoomType    `json:"preferredRoomTypes,omitempty" yaml:"preferredRoomTypes,omitempty"`
	UpgradePolicy      UpgradePolicy `json:"upgradePolicy,omitempty" yaml:"upgradePolicy,omitempty"`
	FallbackRoomTypes  []RoomType    `json:"fallbackRoomTypes,omitempty" yaml:"fallbackRoomTypes,omitempty"`
}

// TimeWindow is a daily window in "HH:MM" form. End before Start wraps past midnight.
type TimeWindow struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// RuleSchedule limits when a rule is in effect. Zero fields are unrestricted.
type RuleSchedule struct {
	StartDate  *time.Time     `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Weekdays   []time.Weekday `json:"weekdays,omitempty" yaml:"weekdays,omitempty"`
	TimeWindow *TimeWindow    `json:"timeWindow,omitempty" yaml:"timeWindow,omitempty"`
}

// AssignmentRule is a prioritized business rule.
type AssignmentRule struct {
	ID          string                   `json:"id" yaml:"id" validate:"required"`
	Name        string                   `json:"name" yaml:"name"`
	Priority    int                      `json:"priority" yaml:"priority"`
	Conditions  []RuleCondition          `json:"conditions" yaml:"conditions" validate:"dive"`
	Assignments []RoomAssignmentTemplate `json:"assignments,omitempty" yaml:"assignments,omitempty"`
	Active      bool                     `json:"active" yaml:"active"`
	Schedule    *RuleSchedule            `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// AllowsAutomaticUpgrade reports whether any template of the rule upgrades automatically.
func (r AssignmentRule) AllowsAutomaticUpgrade() bool {
	for _, tpl := range r.Assignments {
		if tpl.UpgradePolicy == UpgradeAutomatic {
			return true
		}
	}

	return false
}
