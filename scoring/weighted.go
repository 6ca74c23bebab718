package scoring

import (
	"sort"
	"strconv"
	"strings"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// WeightedOption configures a WeightedScorer.
type WeightedOption func(*WeightedScorer)

// WeightedScorer scores rooms as a sum of weighted terms.
//
// WeightedScorer is immutable after construction and safe for concurrent use.
type WeightedScorer struct {
	w Weights
}

var _ types.RoomScorer = (*WeightedScorer)(nil)

// NewWeighted creates a scorer with DefaultWeights.
//
// Parameters:
//   - opts: Optional configuration (WithWeights)
//
// Returns:
//   - *WeightedScorer: Initialized scorer
//
// Example:
//
//	scorer := scoring.NewWeighted()
//	eng, _ := roomassign.NewEngine(&cfg, inv, disp, roomassign.WithScorer(scorer))
func NewWeighted(opts ...WeightedOption) *WeightedScorer {
	s := &WeightedScorer{w: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithWeights replaces the default weights.
func WithWeights(w Weights) WeightedOption {
	return func(s *WeightedScorer) {
		s.w = w
	}
}

// Weights returns the weights in use.
func (s *WeightedScorer) Weights() Weights {
	return s.w
}

// Score computes the fitness of a single room. The result is never negative, and a
// room violating a hard constraint scores zero.
//
// Parameters:
//   - room: Candidate room
//   - sc: Request, applicable rules, property config and inventory context
//
// Returns:
//   - int: Score, 0 meaning the room must not be assigned
func (s *WeightedScorer) Score(room types.RoomInventoryRecord, sc *types.ScoringContext) int {
	if sc == nil || sc.Request == nil {
		return 0
	}
	if violatesConstraints(room, sc) {
		return 0
	}

	req := sc.Request
	score := s.w.Base
	score += s.roomTypeScore(room, req)
	score += s.accessibilityScore(room, req.Accessibility)
	score += s.preferenceScore(room, req.Preferences)
	score += s.upgradeScore(room, sc)
	score += s.groupScore(room, sc)
	score += s.familyScore(room, sc)

	if score < 0 {
		return 0
	}

	return score
}

// ScoreAll scores every room, drops rooms scoring zero or less and sorts the rest by
// descending score. Equal scores are ordered by room number, lowest first.
//
// Parameters:
//   - rooms: Candidate rooms
//   - sc: Scoring context; TypeAvailability is filled from rooms when nil
//
// Returns:
//   - []types.ScoredRoom: Ranked candidates, best first
func (s *WeightedScorer) ScoreAll(rooms []types.RoomInventoryRecord, sc *types.ScoringContext) []types.ScoredRoom {
	if sc != nil && sc.TypeAvailability == nil {
		ctx := *sc
		ctx.TypeAvailability = CountByType(rooms)
		sc = &ctx
	}

	out := make([]types.ScoredRoom, 0, len(rooms))
	for _, room := range rooms {
		if score := s.Score(room, sc); score > 0 {
			out = append(out, types.ScoredRoom{Room: room, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return LessRoomNumber(out[i].Room.RoomNumber, out[j].Room.RoomNumber)
	})

	return out
}

func (s *WeightedScorer) roomTypeScore(room types.RoomInventoryRecord, req *types.RoomAssignmentRequest) int {
	booked, offered := req.RoomTypeBooked.Tier(), room.RoomType.Tier()
	if booked < 0 || offered < 0 {
		return 0
	}

	switch d := offered - booked; {
	case d == 0:
		return s.w.ExactType
	case d > 0:
		return s.w.UpgradeBase + s.w.UpgradePerTier*d
	default:
		return s.w.DowngradePerTier * d
	}
}

func (s *WeightedScorer) accessibilityScore(room types.RoomInventoryRecord, needs *types.AccessibilityNeeds) int {
	if needs == nil {
		return 0
	}

	score := 0
	if needs.Wheelchair && room.Features.WheelchairAccessible {
		score += s.w.Wheelchair
	}
	if needs.Hearing && room.Features.HearingAccessible {
		score += s.w.Hearing
	}
	if needs.Visual && room.Features.VisualAccessible {
		score += s.w.Visual
	}

	return score
}

func (s *WeightedScorer) preferenceScore(room types.RoomInventoryRecord, p *types.GuestPreferences) int {
	if p == nil {
		return 0
	}

	score := 0
	if p.FloorBand != "" {
		score += s.floorBandScore(room.Floor, p.FloorBand)
	}
	if room.View != "" {
		for _, v := range p.Views {
			if strings.EqualFold(v, room.View) {
				score += s.w.View
				break
			}
		}
	}
	if p.BedType != "" && strings.EqualFold(p.BedType, room.Features.BedType) {
		score += s.w.BedType
	}
	if p.Smoking != nil {
		if *p.Smoking == room.Features.Smoking {
			score += s.w.SmokingMatch
		} else {
			score -= s.w.SmokingMismatch
		}
	}

	nearElevator := hasAnyAmenity(room, elevatorTags)
	if p.QuietRoom {
		if room.Floor >= quietFloorMin {
			score += s.w.QuietHighFloor
		}
		if strings.HasSuffix(room.RoomNumber, "01") || strings.HasSuffix(room.RoomNumber, "99") {
			score += s.w.QuietEndRoom
		}
		if !nearElevator {
			score += s.w.QuietNoElevator
		}
	}
	if p.NearElevator && nearElevator {
		score += s.w.NearElevator
	}
	if p.HighFloor && room.Floor >= highFloorMin {
		score += s.w.HighFloor
	}

	return score
}

var bandOrder = map[types.FloorBand]int{
	types.FloorLow:    0,
	types.FloorMiddle: 1,
	types.FloorHigh:   2,
}

func (s *WeightedScorer) floorBandScore(floor int, want types.FloorBand) int {
	wantIdx, ok := bandOrder[want]
	if !ok {
		return 0
	}

	switch diff := bandOrder[types.BandForFloor(floor)] - wantIdx; diff {
	case 0:
		return s.w.FloorBandMatch
	case -1, 1:
		return s.w.FloorBandAdjacent
	default:
		return 0
	}
}

func (s *WeightedScorer) upgradeScore(room types.RoomInventoryRecord, sc *types.ScoringContext) int {
	d := room.RoomType.Tier() - sc.Request.RoomTypeBooked.Tier()
	if sc.Request.RoomTypeBooked.Tier() < 0 || d <= 0 {
		return 0
	}
	if sc.Config != nil && sc.Config.Preferences.VIP.MaxUpgradeTiers > 0 && d > sc.Config.Preferences.VIP.MaxUpgradeTiers {
		return 0
	}
	if !AllowsAutomaticUpgrade(sc.Rules) {
		return 0
	}

	bonus := s.w.LoyaltyOther
	switch sc.Request.LoyaltyTier {
	case types.LoyaltyPlatinum:
		bonus = s.w.LoyaltyPlatinum
	case types.LoyaltyGold:
		bonus = s.w.LoyaltyGold
	}

	return bonus + d*s.w.UpgradeDistance
}

func (s *WeightedScorer) groupScore(room types.RoomInventoryRecord, sc *types.ScoringContext) int {
	g := sc.Request.Group
	if g == nil || sc.Config == nil {
		return 0
	}

	score := 0
	policy := sc.Config.Preferences.GroupCohesion
	if policy.SameFloor && (g.AnchorFloor == nil || *g.AnchorFloor == room.Floor) {
		score += s.w.SameFloor
	}
	if policy.ConsecutiveRooms && evenSuffix(room.RoomNumber) {
		score += s.w.Consecutive
	}

	return score
}

func (s *WeightedScorer) familyScore(room types.RoomInventoryRecord, sc *types.ScoringContext) int {
	if sc.Config == nil {
		return 0
	}
	fam := sc.Config.Preferences.Family
	party := sc.Request.PartySize
	if !fam.Enabled || fam.MinPartySize <= 0 || party < fam.MinPartySize {
		return 0
	}
	if room.Features.MaxOccupancy >= party && room.Features.BedCount >= 2 {
		return s.w.Family
	}

	return 0
}

// AllowsAutomaticUpgrade reports whether any rule carries an automatic upgrade policy.
func AllowsAutomaticUpgrade(rules []types.AssignmentRule) bool {
	for _, r := range rules {
		if r.AllowsAutomaticUpgrade() {
			return true
		}
	}

	return false
}

// CountByType counts rooms per room type.
func CountByType(rooms []types.RoomInventoryRecord) map[types.RoomType]int {
	counts := make(map[types.RoomType]int, 4)
	for _, r := range rooms {
		counts[r.RoomType]++
	}

	return counts
}

// LessRoomNumber orders room numbers numerically when both are integers and
// lexically otherwise.
func LessRoomNumber(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		if na != nb {
			return na < nb
		}
	}

	return a < b
}

func hasAnyAmenity(room types.RoomInventoryRecord, tags []string) bool {
	for _, t := range tags {
		if room.HasAmenity(t) {
			return true
		}
	}

	return false
}

func evenSuffix(roomNumber string) bool {
	if roomNumber == "" {
		return false
	}
	last := roomNumber[len(roomNumber)-1]
	if last < '0' || last > '9' {
		return false
	}

	return (last-'0')%2 == 0
}
