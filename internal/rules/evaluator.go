// Package rules selects the assignment rules that apply to a request.
package rules

import (
	"sort"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Evaluator filters and orders a property's rules for a request.
//
// Evaluator is stateless apart from its clock and is safe for concurrent use.
type Evaluator struct {
	clock types.Clock
}

// NewEvaluator creates an evaluator that checks schedules against clock.
func NewEvaluator(clock types.Clock) *Evaluator {
	return &Evaluator{clock: clock}
}

// FindApplicableRules returns the active, in-schedule rules whose conditions all hold
// for the request, ordered by descending priority. Rules with equal priority keep
// their configured order.
//
// Parameters:
//   - req: Request under evaluation
//   - cfg: Property configuration holding the rules
//
// Returns:
//   - []types.AssignmentRule: Applicable rules, empty when none match
func (e *Evaluator) FindApplicableRules(req *types.RoomAssignmentRequest, cfg *types.AssignmentConfig) []types.AssignmentRule {
	if req == nil || cfg == nil {
		return nil
	}

	now := e.clock.Now()
	if loc := req.CheckIn.Location(); loc != nil {
		now = now.In(loc)
	}

	out := make([]types.AssignmentRule, 0, len(cfg.Rules))
	for _, rule := range cfg.Rules {
		if !rule.Active {
			continue
		}
		if !InSchedule(rule.Schedule, now) {
			continue
		}
		if !matchesAll(rule.Conditions, req) {
			continue
		}
		out = append(out, rule)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})

	return out
}

// InSchedule reports whether now falls inside the schedule. A nil schedule always applies.
//
// Date bounds are inclusive and compared by calendar day in now's location. A malformed
// time window never matches.
func InSchedule(s *types.RuleSchedule, now time.Time) bool {
	if s == nil {
		return true
	}

	day := dayOf(now)
	if s.StartDate != nil && day.Before(dayOf(s.StartDate.In(now.Location()))) {
		return false
	}
	if s.EndDate != nil && day.After(dayOf(s.EndDate.In(now.Location()))) {
		return false
	}

	if len(s.Weekdays) > 0 {
		found := false
		for _, wd := range s.Weekdays {
			if wd == now.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.TimeWindow != nil {
		start, ok1 := parseClock(s.TimeWindow.Start)
		end, ok2 := parseClock(s.TimeWindow.End)
		if !ok1 || !ok2 {
			return false
		}
		minute := now.Hour()*60 + now.Minute()
		if start <= end {
			return minute >= start && minute <= end
		}
		// wraps past midnight, e.g. 22:00-06:30
		return minute >= start || minute <= end
	}

	return true
}

func matchesAll(conds []types.RuleCondition, req *types.RoomAssignmentRequest) bool {
	for _, c := range conds {
		if !Matches(c, req) {
			return false
		}
	}

	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}

	return t.Hour()*60 + t.Minute(), true
}
