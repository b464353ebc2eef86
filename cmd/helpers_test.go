package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/timesheet-grid/internal/api"
	"github.com/Tiliavir/timesheet-grid/internal/grid"
)

func TestPivotDate(t *testing.T) {
	now := time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		date   string
		offset int
		want   string
	}{
		{"", 0, "2024-06-05"},
		{"", -1, "2024-05-29"},
		{"", 2, "2024-06-19"},
		{"2024-01-03", 0, "2024-01-03"},
		{"2024-01-03", -1, "2023-12-27"},
	}
	for _, tt := range tests {
		got, err := pivotDate(tt.date, tt.offset, now, time.UTC)
		if err != nil {
			t.Fatalf("pivotDate(%q, %d): %v", tt.date, tt.offset, err)
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("pivotDate(%q, %d) = %s, want %s", tt.date, tt.offset, s, tt.want)
		}
	}

	if _, err := pivotDate("yesterday", 0, now, time.UTC); err == nil {
		t.Error("pivotDate(\"yesterday\") should fail")
	}
}

func TestParseCellEdit(t *testing.T) {
	tests := []struct {
		in      string
		date    string
		hours   float64
		wantErr bool
	}{
		{"2024-06-03=7.5", "2024-06-03", 7.5, false},
		{" 2024-06-03 = 8 ", "2024-06-03", 8, false},
		{"2024-06-03=0", "2024-06-03", 0, false},
		{"2024-06-03=-2", "2024-06-03", -2, false},
		{"2024-06-03", "", 0, true},
		{"2024-06-03=", "", 0, true},
		{"2024-06-03=abc", "", 0, true},
		{"2024-06-03=NaN", "", 0, true},
		{"2024-06-03=Inf", "", 0, true},
		{"03.06.2024=8", "", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCellEdit(tt.in, time.UTC)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCellEdit(%q) should fail, got %+v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCellEdit(%q): %v", tt.in, err)
			continue
		}
		if d := got.date.Format("2006-01-02"); d != tt.date || got.hours != tt.hours {
			t.Errorf("parseCellEdit(%q) = %s/%v, want %s/%v", tt.in, d, got.hours, tt.date, tt.hours)
		}
	}
}

func TestLoadFailure(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&grid.FetchError{Message: grid.FetchFailedMessage, Err: errors.New("dial tcp")}, "Error: Error fetching data"},
		{&grid.FetchError{Message: "Employee not found", Err: &api.StatusError{StatusCode: 404}}, "Error: Employee not found"},
		{grid.ErrNotEditing, "Error: timesheet is not in edit mode"},
	}
	for _, tt := range tests {
		if got := loadFailure(tt.err); got != tt.want {
			t.Errorf("loadFailure(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
