package types

// AssignmentState is the lifecycle of a single assignment request.
//
// Normal progression:
//
//	StateUnassigned → StateRulesApplied → StateScored → StateAssigned
//
// Alternative outcomes from StateScored are StateFallbackAssigned and StateFailed.
// A request held for staff goes from StateUnassigned to StatePendingManual, and a manual
// assignment moves it to StateAssigned.
type AssignmentState int

const (
	// StateUnassigned is the state of a request that has not been processed.
	StateUnassigned AssignmentState = iota

	// StateRulesApplied indicates applicable rules have been selected.
	StateRulesApplied

	// StateScored indicates candidate rooms have been scored.
	StateScored

	// StateAssigned indicates a room has been reserved within the requested window.
	StateAssigned

	// StateFallbackAssigned indicates a room was reserved in a shifted window.
	StateFallbackAssigned

	// StatePendingManual indicates the request waits for staff.
	StatePendingManual

	// StateFailed indicates no room could be assigned.
	StateFailed
)

// String returns the string representation of the state.
func (s AssignmentState) String() string {
	switch s {
	case StateUnassigned:
		return "Unassigned"
	case StateRulesApplied:
		return "RulesApplied"
	case StateScored:
		return "Scored"
	case StateAssigned:
		return "Assigned"
	case StateFallbackAssigned:
		return "FallbackAssigned"
	case StatePendingManual:
		return "PendingManual"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s AssignmentState) CanTransitionTo(next AssignmentState) bool {
	switch s {
	case StateUnassigned:
		return next == StateRulesApplied || next == StatePendingManual || next == StateAssigned || next == StateFailed
	case StateRulesApplied:
		return next == StateScored || next == StateFailed
	case StateScored:
		return next == StateAssigned || next == StateFallbackAssigned || next == StateFailed
	case StatePendingManual:
		return next == StateAssigned
	case StateAssigned, StateFallbackAssigned:
		// reassignment
		return next == StateAssigned
	default:
		return false
	}
}
