// Package eventlog implements the EventSink port as a structured log plus a
// bounded in-memory history and in-process subscribers.
package eventlog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// DefaultCapacity is the number of events kept when New is given zero.
const DefaultCapacity = 256

// subscriberBuffer is the channel depth of each subscriber. Events published
// while a subscriber's buffer is full are dropped for that subscriber.
const subscriberBuffer = 16

// Compile-time interface satisfaction check.
var _ driven.EventSink = (*Log)(nil)

// Log records every published event with slog and keeps the most recent ones
// in a ring buffer.
type Log struct {
	logger *slog.Logger

	mu     sync.Mutex
	events []model.Event
	next   int
	full   bool
	subs   map[int]chan model.Event
	nextID int
}

// New creates a Log that keeps up to capacity events.
func New(logger *slog.Logger, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		logger: logger,
		events: make([]model.Event, capacity),
		subs:   make(map[int]chan model.Event),
	}
}

// Publish records event. It never blocks on consumers.
func (l *Log) Publish(ctx context.Context, event model.Event) {
	l.logger.LogAttrs(ctx, slog.LevelDebug, "event dispatched",
		slog.String("id", event.ID),
		slog.String("type", string(event.Type)),
		slog.String("mode", string(event.Mode)),
		slog.String("user_id", event.UserID),
		slog.Int("count", event.Count),
	)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.events[l.next] = event
	l.next = (l.next + 1) % len(l.events)
	if l.next == 0 {
		l.full = true
	}

	for id, ch := range l.subs {
		select {
		case ch <- event:
		default:
			l.logger.Warn("event subscriber full, dropping event", "subscriber", id, "type", event.Type)
		}
	}
}

// Subscribe returns a channel that receives every event published after the
// call, and a cancel func that unregisters it and closes the channel.
func (l *Log) Subscribe() (<-chan model.Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan model.Event, subscriberBuffer)
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}

// Recent returns the retained events, oldest first.
func (l *Log) Recent() []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]model.Event, l.next)
		copy(out, l.events[:l.next])
		return out
	}

	out := make([]model.Event, 0, len(l.events))
	out = append(out, l.events[l.next:]...)
	out = append(out, l.events[:l.next]...)
	return out
}
