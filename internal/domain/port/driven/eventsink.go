package driven

import (
	"context"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// EventSink receives one-way notifications when sidebar data changes. The
// core does not hold the canonical store; it only reports changes.
type EventSink interface {
	Publish(ctx context.Context, event model.Event)
}
