package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/report"
)

func snapshot() grid.Snapshot {
	start := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return grid.Snapshot{
		Subject:   "emp-7",
		WeekStart: start,
		Dates:     dates,
		Today:     []bool{false, false, false, true, false, false, false},
		Rows: []grid.Row{
			{ProjectCode: "X", Hours: []float64{0, 4, 0, 0, 0, 0, 0}, Total: 4},
			{ProjectCode: "Y,Z", Hours: []float64{0, 6, 0, 3, 0, 0, 0}, Total: 9},
		},
		DayTotals:    []float64{0, 10, 0, 3, 0, 0, 0},
		WorkSchedule: 8,
		DayOvertime:  []float64{0, 2, 0, 0, 0, 0, 0},
		WeekTotal:    13,
		ScheduleSum:  56,
		OvertimeSum:  2,
	}
}

func TestTable(t *testing.T) {
	rows := report.Table(snapshot())
	require.Len(t, rows, 1+2+3)
	assert.Equal(t, []string{"Project Code", "02 Jun", "03 Jun", "04 Jun", "05 Jun", "06 Jun", "07 Jun", "08 Jun", "Total"}, rows[0])
	assert.Equal(t, []string{"X", "0", "4", "0", "0", "0", "0", "0", "4"}, rows[1])
	assert.Equal(t, []string{"Total Hours", "0", "10", "0", "3", "0", "0", "0", "13"}, rows[3])
	assert.Equal(t, []string{"Work Schedule", "8", "8", "8", "8", "8", "8", "8", "56"}, rows[4])
	assert.Equal(t, []string{"Daily Overtime", "0", "2", "0", "0", "0", "0", "0", "2"}, rows[5])
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, snapshot()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "emp-7 – Week of 02 Jun 2024\n"), out)
	assert.Contains(t, out, "05 Jun*")
	assert.Contains(t, out, "Daily Overtime")
	assert.Contains(t, out, report.NoComment)
	assert.NotContains(t, out, "[editing]")

	s := snapshot()
	s.Mode = grid.Edit
	s.Comment = "left early on tuesday"
	buf.Reset()
	require.NoError(t, report.Text(&buf, s))
	assert.Contains(t, buf.String(), "[editing]")
	assert.Contains(t, buf.String(), "left early on tuesday")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.CSV(&buf, snapshot()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Project Code,02 Jun,03 Jun,04 Jun,05 Jun,06 Jun,07 Jun,08 Jun,Total", lines[0])
	assert.Equal(t, `"Y,Z",0,6,0,3,0,0,0,9`, lines[2])
}

func TestCSVEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := report.CSVEscape(tt.input)
		if got != tt.want {
			t.Errorf("CSVEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, snapshot()))

	var out struct {
		WeekStart string `json:"weekStart"`
		Days      []struct {
			Date     string  `json:"date"`
			Today    bool    `json:"today"`
			Overtime float64 `json:"overtime"`
		} `json:"days"`
		Projects []struct {
			ProjectCode string  `json:"projectCode"`
			Total       float64 `json:"total"`
		} `json:"projects"`
		TotalHours float64 `json:"totalHours"`
		Overtime   float64 `json:"overtime"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "2024-06-02", out.WeekStart)
	require.Len(t, out.Days, 7)
	assert.True(t, out.Days[3].Today)
	assert.Equal(t, 2.0, out.Days[1].Overtime)
	assert.Equal(t, "Y,Z", out.Projects[1].ProjectCode)
	assert.Equal(t, 13.0, out.TotalHours)
	assert.Equal(t, 2.0, out.Overtime)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.XLSX(&buf, snapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetName}, f.GetSheetList())

	v, err := f.GetCellValue(report.SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "X", v)

	v, err = f.GetCellValue(report.SheetName, "C5")
	require.NoError(t, err)
	assert.Equal(t, "10", v)

	v, err = f.GetCellValue(report.SheetName, "I7")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	v, err = f.GetCellValue(report.SheetName, "A10")
	require.NoError(t, err)
	assert.Equal(t, report.NoComment, v)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := report.Write(&bytes.Buffer{}, snapshot(), "pdf")
	assert.ErrorContains(t, err, "unknown format")
}
