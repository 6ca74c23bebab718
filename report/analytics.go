// Package report summarizes assignment history and exports it as a spreadsheet.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Summarize aggregates history entries into analytics for a property and period.
//
// Entries with Version 1 are assignments; later versions are reassignments. Method,
// upgrade and confidence figures cover assignments only, while notification failures
// are counted on every entry.
//
// Parameters:
//   - propertyID, start, end: Echoed into the result
//   - results: History entries already filtered to the period
//
// Returns:
//   - *types.Analytics: Aggregated figures, never nil
func Summarize(propertyID string, start, end time.Time, results []*types.RoomAssignmentResult) *types.Analytics {
	a := &types.Analytics{
		PropertyID:   propertyID,
		Start:        start,
		End:          end,
		ByMethod:     make(map[types.AssignmentMethod]int),
		UpgradeValue: decimal.Zero,
	}

	var confidence float64
	for _, r := range results {
		for _, n := range r.Notifications {
			if !n.Delivered {
				a.NotificationFailures++
			}
		}

		if r.Version > 1 {
			a.Reassignments++
			continue
		}

		a.TotalAssignments++
		a.ByMethod[r.Method]++
		confidence += r.Confidence
		if len(r.Upgrades) > 0 {
			a.Upgrades++
		}
		for _, u := range r.Upgrades {
			a.UpgradeValue = a.UpgradeValue.Add(u.Value)
		}
	}

	if a.TotalAssignments > 0 {
		a.AverageConfidence = confidence / float64(a.TotalAssignments)
	}

	return a
}
