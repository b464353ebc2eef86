package cmd

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/grid"
	"github.com/Tiliavir/timesheet-grid/internal/timecalc"
)

// pivotDate resolves the --date and --offset flags: the given date (or now)
// moved by offset weeks.
func pivotDate(date string, offset int, now time.Time, loc *time.Location) (time.Time, error) {
	pivot := now.In(loc)
	if date != "" {
		d, err := timecalc.ParseDate(date, loc)
		if err != nil {
			return time.Time{}, err
		}
		pivot = d
	}
	return pivot.AddDate(0, 0, offset*timecalc.DaysPerWeek), nil
}

// cellEdit is one --set DATE=HOURS assignment.
type cellEdit struct {
	date  time.Time
	hours float64
}

// parseCellEdit parses "2024-06-03=7.5".
func parseCellEdit(s string, loc *time.Location) (cellEdit, error) {
	dateStr, hoursStr, ok := strings.Cut(s, "=")
	if !ok {
		return cellEdit{}, fmt.Errorf("invalid --set %q (want YYYY-MM-DD=HOURS)", s)
	}
	d, err := timecalc.ParseDate(strings.TrimSpace(dateStr), loc)
	if err != nil {
		return cellEdit{}, err
	}
	hours, err := parseHours(hoursStr)
	if err != nil {
		return cellEdit{}, err
	}
	return cellEdit{date: d, hours: hours}, nil
}

// parseHours accepts any finite number, negative values included.
func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	return h, nil
}

// loadFailure formats a load error for the terminal.
func loadFailure(err error) string {
	var fe *grid.FetchError
	if errors.As(err, &fe) {
		return "Error: " + fe.Message
	}
	return "Error: " + err.Error()
}
