// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by GitLabClient implementations.
var (
	// ErrNotFound indicates the requested remote resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotConnected indicates the user has not linked a GitLab account.
	ErrNotConnected = errors.New("gitlab account not connected")
)

// notConnectedID is the error id the plugin server uses for an unlinked account.
const notConnectedID = "not_connected"

// StatusError is a failed plugin API call carrying the HTTP status code.
type StatusError struct {
	StatusCode int
	ID         string // Server error id, e.g. "not_connected".
	Message    string
	URL        string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Message)
}

// Is maps status codes onto the port sentinels so callers can use errors.Is.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrNotConnected:
		return e.ID == notConnectedID
	default:
		return false
	}
}

// IsTransient reports whether err is neither a not-found nor a not-connected
// signal. Transient failures are surfaced but never cached.
func IsTransient(err error) bool {
	return err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotConnected)
}
