package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrBusNotRunning is returned when operations are attempted on a stopped bus.
	ErrBusNotRunning = errors.New("event bus is not running")

	// ErrBusAlreadyRunning is returned when Start is called on a running bus.
	ErrBusAlreadyRunning = errors.New("event bus is already running")

	// ErrInvalidEvent is returned when an event does not provide a topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned when a topic is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidSubscription is returned when a nil subscription is passed
	// to Unsubscribe.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing a subscription
	// the bus does not know about.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrPublishDepth is returned when a re-entrant publish chain exceeds
	// the recursion cap.
	ErrPublishDepth = errors.New("publish recursion cap exceeded")

	// ErrQueueFull is returned when the deferred queue cannot accept an event.
	ErrQueueFull = errors.New("deferred queue is full")
)
