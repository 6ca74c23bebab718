package rules

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// loyaltyRank orders tiers so greater_than, less_than and between work on loyalty.
var loyaltyRank = map[string]int{
	"":         0,
	"silver":   1,
	"gold":     2,
	"platinum": 3,
}

// Matches evaluates a single condition against the request.
//
// Unknown condition types, unknown operators and values of the wrong shape all
// evaluate to false.
func Matches(c types.RuleCondition, req *types.RoomAssignmentRequest) bool {
	switch c.Type {
	case types.ConditionLoyaltyTier:
		return compareLoyalty(string(req.LoyaltyTier), c.Operator, c.Value)
	case types.ConditionBookingValue:
		return compareNumber(req.BookingValue, c.Operator, c.Value)
	case types.ConditionAccessibility:
		return compareBool(req.Accessibility.Any(), c.Operator, c.Value)
	case types.ConditionPartySize:
		return compareNumber(decimal.NewFromInt(int64(req.PartySize)), c.Operator, c.Value)
	case types.ConditionLengthOfStay:
		return compareNumber(decimal.NewFromInt(int64(req.Window().Nights())), c.Operator, c.Value)
	case types.ConditionArrivalHour:
		return compareNumber(decimal.NewFromInt(int64(req.CheckIn.Hour())), c.Operator, c.Value)
	default:
		return false
	}
}

func compareNumber(attr decimal.Decimal, op types.Operator, value any) bool {
	switch op {
	case types.OpEquals, types.OpNotEquals, types.OpGreaterThan, types.OpLessThan:
		v, ok := toDecimal(value)
		if !ok {
			return false
		}
		switch op {
		case types.OpEquals:
			return attr.Equal(v)
		case types.OpNotEquals:
			return !attr.Equal(v)
		case types.OpGreaterThan:
			return attr.GreaterThan(v)
		default:
			return attr.LessThan(v)
		}
	case types.OpIn:
		for _, item := range toList(value) {
			if v, ok := toDecimal(item); ok && attr.Equal(v) {
				return true
			}
		}

		return false
	case types.OpBetween:
		lo, hi, ok := bounds(value, toDecimal)
		if !ok {
			return false
		}

		return attr.GreaterThanOrEqual(lo) && attr.LessThanOrEqual(hi)
	default:
		return false
	}
}

func compareLoyalty(attr string, op types.Operator, value any) bool {
	attr = strings.ToLower(attr)
	switch op {
	case types.OpEquals:
		return strings.EqualFold(attr, fmt.Sprint(value))
	case types.OpNotEquals:
		return !strings.EqualFold(attr, fmt.Sprint(value))
	case types.OpContains:
		s, ok := value.(string)
		return ok && s != "" && strings.Contains(attr, strings.ToLower(s))
	case types.OpIn:
		for _, item := range toList(value) {
			if strings.EqualFold(attr, fmt.Sprint(item)) {
				return true
			}
		}

		return false
	case types.OpGreaterThan, types.OpLessThan:
		rank, ok := toRank(value)
		if !ok {
			return false
		}
		if op == types.OpGreaterThan {
			return loyaltyRank[attr] > rank
		}

		return loyaltyRank[attr] < rank
	case types.OpBetween:
		lo, hi, ok := bounds(value, toRank)
		if !ok {
			return false
		}
		r := loyaltyRank[attr]

		return r >= lo && r <= hi
	default:
		return false
	}
}

func compareBool(attr bool, op types.Operator, value any) bool {
	v, ok := toBool(value)
	if !ok {
		return false
	}
	switch op {
	case types.OpEquals:
		return attr == v
	case types.OpNotEquals:
		return attr != v
	default:
		return false
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	default:
		return false, false
	}
}

func toRank(v any) (int, bool) {
	if s, ok := v.(string); ok {
		r, known := loyaltyRank[strings.ToLower(s)]
		return r, known
	}
	d, ok := toDecimal(v)
	if !ok {
		return 0, false
	}

	return int(d.IntPart()), true
}

// toList flattens any slice value into []any. Non-slices yield nil.
func toList(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out
}

func bounds[T any](v any, conv func(any) (T, bool)) (T, T, bool) {
	var zero T
	items := toList(v)
	if len(items) != 2 {
		return zero, zero, false
	}
	lo, ok1 := conv(items[0])
	hi, ok2 := conv(items[1])
	if !ok1 || !ok2 {
		return zero, zero, false
	}

	return lo, hi, true
}
