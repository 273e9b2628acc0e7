package model

import "fmt"

// ViewMode is the category of items the sidebar is currently showing.
type ViewMode string

const (
	ViewModeNone        ViewMode = ""
	ViewModePRs         ViewMode = "pullRequests"
	ViewModeReviews     ViewMode = "reviews"
	ViewModeUnreads     ViewMode = "unreads"
	ViewModeAssignments ViewMode = "assignments"
)

// ViewModes lists every selectable mode in sidebar button order.
var ViewModes = []ViewMode{ViewModePRs, ViewModeReviews, ViewModeUnreads, ViewModeAssignments}

// HasDetails reports whether items in this mode are enriched by a detail
// batch. Unreads and assignments have no detail concept.
func (m ViewMode) HasDetails() bool {
	return m == ViewModePRs || m == ViewModeReviews
}

// ParseViewMode converts a raw string into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	for _, m := range ViewModes {
		if string(m) == s {
			return m, nil
		}
	}
	return ViewModeNone, fmt.Errorf("unknown view mode %q", s)
}
