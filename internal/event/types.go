package event

import (
	"context"

	"github.com/dleon/timemachine/internal/event/topic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for the display adapter and panel manager,
	// which must observe events before anything else.
	PriorityCritical Priority = 0

	// PriorityHigh is for panel renderers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and metrics handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TopicProvider is implemented by every event payload struct.
// The bus routes an event by asking it for its topic, so a payload
// can never be published under the wrong name.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event any) bool

// Stats contains event bus statistics.
type Stats struct {
	// Published is the total number of events accepted for delivery.
	Published uint64

	// Delivered is the total number of successful handler executions.
	Delivered uint64

	// Dropped is the number of events dropped (deferred queue full or
	// publish recursion cap exceeded).
	Dropped uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int

	// DeferredDepth is the current deferred queue depth.
	DeferredDepth int
}

// PanicHandler is called when a handler panics.
// The default handler swallows the panic; delivery continues with the
// next subscriber either way.
type PanicHandler func(event any, recovered any)
