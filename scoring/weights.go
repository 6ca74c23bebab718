package scoring

// Weights are the additive terms used by WeightedScorer.
type Weights struct {
	Base int

	ExactType        int
	UpgradeBase      int
	UpgradePerTier   int
	DowngradePerTier int

	Wheelchair int
	Hearing    int
	Visual     int

	FloorBandMatch    int
	FloorBandAdjacent int
	View              int
	BedType           int
	SmokingMatch      int
	SmokingMismatch   int
	QuietHighFloor    int
	QuietEndRoom      int
	QuietNoElevator   int
	NearElevator      int
	HighFloor         int

	LoyaltyPlatinum int
	LoyaltyGold     int
	LoyaltyOther    int
	UpgradeDistance int

	SameFloor   int
	Consecutive int
	Family      int
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Base: 50,

		ExactType:        30,
		UpgradeBase:      20,
		UpgradePerTier:   5,
		DowngradePerTier: 10,

		Wheelchair: 25,
		Hearing:    20,
		Visual:     20,

		FloorBandMatch:    15,
		FloorBandAdjacent: 5,
		View:              15,
		BedType:           10,
		SmokingMatch:      10,
		SmokingMismatch:   20,
		QuietHighFloor:    5,
		QuietEndRoom:      5,
		QuietNoElevator:   3,
		NearElevator:      8,
		HighFloor:         10,

		LoyaltyPlatinum: 15,
		LoyaltyGold:     10,
		LoyaltyOther:    5,
		UpgradeDistance: 8,

		SameFloor:   10,
		Consecutive: 5,
		Family:      10,
	}
}

const (
	// quietFloorMin is the lowest floor counted as quiet.
	quietFloorMin = 5
	// highFloorMin is the lowest floor satisfying a high-floor request.
	highFloorMin = 8
)

// elevatorTags are amenity tags marking a room next to the elevator.
var elevatorTags = []string{"near_elevator", "elevator"}
