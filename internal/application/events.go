package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// newEvent builds an event stamped with a fresh id and the current time.
func newEvent(typ model.EventType, mode model.ViewMode, userID string, count int) model.Event {
	return model.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Mode:       mode,
		UserID:     userID,
		Count:      count,
		OccurredAt: time.Now(),
	}
}
