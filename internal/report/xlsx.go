package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// SheetName is the worksheet holding the week grid.
const SheetName = "Timesheet"

// XLSX writes the grid as an Excel workbook: a title row, the header, one row
// per project, the total/schedule/overtime rows and the comment. Hour cells
// are numeric so the sheet can be summed further.
func XLSX(w io.Writer, s grid.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(s.Dates) + 2)
	f.SetColWidth(SheetName, "A", "A", 18)
	f.SetColWidth(SheetName, "B", lastCol, 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E4DCF8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	todayStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#7F55DE"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E4DCF8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	labelStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	title := timecalc.WeekLabel(s.WeekStart, s.WeekStart.Weekday())
	if s.Subject != "" {
		title = s.Subject + " – " + title
	}
	f.SetCellValue(SheetName, "A1", title)
	f.MergeCell(SheetName, "A1", lastCol+"1")
	f.SetCellStyle(SheetName, "A1", "A1", labelStyle)

	row := 2
	f.SetCellValue(SheetName, cell(1, row), LabelProject)
	for i, d := range s.Dates {
		f.SetCellValue(SheetName, cell(i+2, row), d.Format("02 Jan"))
	}
	f.SetCellValue(SheetName, cell(len(s.Dates)+2, row), LabelTotal)
	f.SetCellStyle(SheetName, cell(1, row), cell(len(s.Dates)+2, row), headerStyle)
	for i, today := range s.Today {
		if today {
			f.SetCellStyle(SheetName, cell(i+2, row), cell(i+2, row), todayStyle)
		}
	}

	writeRow := func(label string, cells []float64, total float64) {
		row++
		f.SetCellValue(SheetName, cell(1, row), label)
		for i, v := range cells {
			f.SetCellValue(SheetName, cell(i+2, row), v)
		}
		f.SetCellValue(SheetName, cell(len(cells)+2, row), total)
	}
	for _, r := range s.Rows {
		writeRow(r.ProjectCode, r.Hours, r.Total)
	}

	schedule := make([]float64, len(s.Dates))
	for i := range schedule {
		schedule[i] = s.WorkSchedule
	}
	for _, r := range []struct {
		label string
		cells []float64
		total float64
	}{
		{LabelTotalHours, s.DayTotals, s.WeekTotal},
		{LabelWorkSchedule, schedule, s.ScheduleSum},
		{LabelOvertime, s.DayOvertime, s.OvertimeSum},
	} {
		writeRow(r.label, r.cells, r.total)
		f.SetCellStyle(SheetName, cell(1, row), cell(1, row), labelStyle)
	}

	row += 2
	f.SetCellValue(SheetName, cell(1, row), "Comment")
	f.SetCellStyle(SheetName, cell(1, row), cell(1, row), labelStyle)
	comment := s.Comment
	if comment == "" {
		comment = NoComment
	}
	f.SetCellValue(SheetName, cell(1, row+1), comment)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
