package application

import "github.com/ericfisherdev/glsidebar/internal/domain/model"

// NeedsRefetch decides whether the detail records for targetMode must be
// requested again.
//
// Nothing is fetched while another mode is showing. Entering the mode always
// refetches. Otherwise the lists are compared by length and then by item ID
// position. In-place edits of an item that keeps its ID and position are not
// detected.
func NeedsRefetch(current, previous []model.RemoteItem, targetMode, currentMode, previousMode model.ViewMode) bool {
	if currentMode != targetMode {
		return false
	}

	if currentMode != previousMode {
		return true
	}

	if len(current) != len(previous) {
		return true
	}

	for i := range current {
		if current[i].ID != previous[i].ID {
			return true
		}
	}

	return false
}
