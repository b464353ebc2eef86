package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusError is a non-2xx response. Message is the backend's {message}
// field when it sent one.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	se := &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}
	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &msg) == nil {
		se.Message = msg.Message
	}
	return se
}
