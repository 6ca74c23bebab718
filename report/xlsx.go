package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

const (
	summarySheet     = "Summary"
	assignmentsSheet = "Assignments"
	timeLayout       = "2006-01-02 15:04"
)

var assignmentHeaders = []string{
	"Booking", "Version", "Room", "Type Booked", "Room Type", "Floor", "Method",
	"Confidence", "Upgrade Value", "Check In", "Check Out", "Assigned At", "Assigned By",
	"Previous Room", "Conflicts", "Notes",
}

// Workbook renders the analytics and the underlying history entries as an XLSX file.
//
// The first sheet holds the summary figures; the second lists one row per entry with
// a frozen header row.
//
// Returns:
//   - []byte: XLSX file content
//   - error: Spreadsheet construction failure
func Workbook(a *types.Analytics, results []*types.RoomAssignmentResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummary(f, a); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(assignmentsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeAssignments(f, results); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, a *types.Analytics) error {
	rows := [][]any{
		{"Property", a.PropertyID},
		{"From", a.Start.Format(timeLayout)},
		{"To", a.End.Format(timeLayout)},
		{"Assignments", a.TotalAssignments},
		{"Reassignments", a.Reassignments},
		{"Upgrades", a.Upgrades},
		{"Upgrade Value", a.UpgradeValue.StringFixed(2)},
		{"Average Confidence", a.AverageConfidence},
		{"Notification Failures", a.NotificationFailures},
	}

	methods := make([]string, 0, len(a.ByMethod))
	for m := range a.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		rows = append(rows, []any{"Method: " + m, a.ByMethod[types.AssignmentMethod(m)]})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 24)
}

func writeAssignments(f *excelize.File, results []*types.RoomAssignmentResult) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(assignmentsSheet, "A1", &assignmentHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(assignmentHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(assignmentsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, r := range results {
		upgradeValue := "0.00"
		if len(r.Upgrades) > 0 {
			total := r.Upgrades[0].Value
			for _, u := range r.Upgrades[1:] {
				total = total.Add(u.Value)
			}
			upgradeValue = total.StringFixed(2)
		}

		conflicts := make([]string, 0, len(r.Conflicts))
		for _, c := range r.Conflicts {
			conflicts = append(conflicts, c.Type)
		}

		row := []any{
			r.BookingID, r.Version, r.Room.RoomNumber, string(r.RoomTypeBooked), string(r.Room.RoomType),
			r.Room.Floor, string(r.Method), r.Confidence, upgradeValue,
			r.CheckIn.Format(timeLayout), r.CheckOut.Format(timeLayout), r.AssignedAt.Format(timeLayout),
			r.AssignedBy, r.PreviousRoom, strings.Join(conflicts, ", "), strings.Join(r.Notes, "; "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(assignmentsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.SetPanes(assignmentsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
