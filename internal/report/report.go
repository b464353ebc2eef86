// Package report renders a week of the timesheet grid as a text table, CSV,
// JSON or an Excel workbook.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// Row labels shared by every format.
const (
	LabelProject      = "Project Code"
	LabelTotal        = "Total"
	LabelTotalHours   = "Total Hours"
	LabelWorkSchedule = "Work Schedule"
	LabelOvertime     = "Daily Overtime"
	NoComment         = "No Comments Available"
)

// Formats lists the supported output formats.
var Formats = []string{"md", "csv", "json", "xlsx"}

// Write renders s to w in format.
func Write(w io.Writer, s grid.Snapshot, format string) error {
	switch format {
	case "md", "":
		return Text(w, s)
	case "csv":
		return CSV(w, s)
	case "json":
		return JSON(w, s)
	case "xlsx":
		return XLSX(w, s)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Table is the grid as rows of display strings: a header row, one row per
// project, then the total, schedule and overtime rows. Every row has the
// label, seven day cells and the week total.
func Table(s grid.Snapshot) [][]string {
	header := []string{LabelProject}
	for _, d := range s.Dates {
		header = append(header, d.Format("02 Jan"))
	}
	header = append(header, LabelTotal)

	rows := [][]string{header}
	for _, r := range s.Rows {
		rows = append(rows, line(r.ProjectCode, r.Hours, r.Total))
	}
	schedule := make([]float64, len(s.Dates))
	for i := range schedule {
		schedule[i] = s.WorkSchedule
	}
	rows = append(rows,
		line(LabelTotalHours, s.DayTotals, s.WeekTotal),
		line(LabelWorkSchedule, schedule, s.ScheduleSum),
		line(LabelOvertime, s.DayOvertime, s.OvertimeSum),
	)
	return rows
}

func line(label string, cells []float64, total float64) []string {
	out := make([]string, 0, len(cells)+2)
	out = append(out, label)
	for _, c := range cells {
		out = append(out, timecalc.FormatHours(c))
	}
	return append(out, timecalc.FormatHours(total))
}

// Text writes the grid as an aligned plain-text table followed by the
// comment. Today's column header is marked with '*', and the mode is shown
// when editing.
func Text(w io.Writer, s grid.Snapshot) error {
	rows := Table(s)
	for i, today := range s.Today {
		if today {
			rows[0][i+1] += "*"
		}
	}

	widths := make([]int, len(rows[0]))
	for _, r := range rows {
		for i, c := range r {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	title := timecalc.WeekLabel(s.WeekStart, s.WeekStart.Weekday())
	if s.Subject != "" {
		title = s.Subject + " – " + title
	}
	if s.Mode == grid.Edit {
		title += " [editing]"
	}
	b.WriteString(title + "\n")
	for i, r := range rows {
		for j, c := range r {
			if j == 0 {
				fmt.Fprintf(&b, "%-*s", widths[j], c)
			} else {
				fmt.Fprintf(&b, "  %*s", widths[j], c)
			}
		}
		b.WriteString("\n")
		if i == 0 || i == len(s.Rows) {
			b.WriteString(strings.Repeat("-", sum(widths)+2*(len(widths)-1)) + "\n")
		}
	}
	b.WriteString("\nComment\n")
	if s.Comment != "" {
		b.WriteString(s.Comment + "\n")
	} else {
		b.WriteString(NoComment + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// CSV writes the grid table as comma-separated values.
func CSV(w io.Writer, s grid.Snapshot) error {
	var b strings.Builder
	for _, r := range Table(s) {
		for i, c := range r {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(CSVEscape(c))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// CSVEscape wraps a field in quotes if it contains a comma, quote, or newline.
func CSVEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type jsonDay struct {
	Date     string  `json:"date"`
	Today    bool    `json:"today,omitempty"`
	Total    float64 `json:"total"`
	Overtime float64 `json:"overtime"`
}

type jsonProject struct {
	ProjectCode string    `json:"projectCode"`
	Hours       []float64 `json:"hours"`
	Total       float64   `json:"total"`
}

type jsonWeek struct {
	Subject      string        `json:"subject,omitempty"`
	WeekStart    string        `json:"weekStart"`
	Days         []jsonDay     `json:"days"`
	Projects     []jsonProject `json:"projects"`
	WorkSchedule float64       `json:"workSchedule"`
	TotalHours   float64       `json:"totalHours"`
	ScheduleSum  float64       `json:"scheduledHours"`
	Overtime     float64       `json:"overtime"`
	Comment      string        `json:"comment"`
}

// JSON writes the grid as an indented JSON document.
func JSON(w io.Writer, s grid.Snapshot) error {
	out := jsonWeek{
		Subject:      s.Subject,
		WeekStart:    s.WeekStart.Format("2006-01-02"),
		Projects:     []jsonProject{},
		WorkSchedule: s.WorkSchedule,
		TotalHours:   s.WeekTotal,
		ScheduleSum:  s.ScheduleSum,
		Overtime:     s.OvertimeSum,
		Comment:      s.Comment,
	}
	for i, d := range s.Dates {
		out.Days = append(out.Days, jsonDay{
			Date:     d.Format("2006-01-02"),
			Today:    s.Today[i],
			Total:    s.DayTotals[i],
			Overtime: s.DayOvertime[i],
		})
	}
	for _, r := range s.Rows {
		out.Projects = append(out.Projects, jsonProject{ProjectCode: r.ProjectCode, Hours: r.Hours, Total: r.Total})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
