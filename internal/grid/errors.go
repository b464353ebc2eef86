package grid

import (
	"errors"

	"github.com/Tiliavir/timesheet-grid/internal/api"
)

// User-facing messages.
const (
	FetchFailedMessage = "Error fetching data"
	SavedMessage       = "Data updated successfully"
	SaveFailedMessage  = "Failed to update data"
)

var (
	// ErrNotEditing is returned by edits and Save outside edit mode.
	ErrNotEditing = errors.New("timesheet is not in edit mode")
	// ErrNoEntry is returned when editing a day that has no entry.
	ErrNoEntry = errors.New("no time entry for that day")
	// ErrSaveInFlight is returned when Save is called while another save runs.
	ErrSaveInFlight = errors.New("a save is already in progress")
	// ErrStaleResponse is returned by a load that a newer load superseded.
	ErrStaleResponse = errors.New("timesheet response superseded by a newer request")
	// ErrNoSubject is returned when no subject has been loaded.
	ErrNoSubject = errors.New("no subject selected")
)

// FetchError is the error state left by a failed load.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string { return e.Message }
func (e *FetchError) Unwrap() error { return e.Err }

// newFetchError prefers the message the backend sent over a generic one.
func newFetchError(err error) *FetchError {
	msg := FetchFailedMessage
	var se *api.StatusError
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}
	return &FetchError{Message: msg, Err: err}
}

// SaveError reports a failed Save. The grid stays in edit mode.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }
