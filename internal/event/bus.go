// Package event provides the synchronous publish/subscribe bus the
// appliance components communicate through.
//
// Events are plain structs that name their own topic via TopicProvider;
// the bus never carries an untyped (topic, pointer) pair. Delivery is
// synchronous on the publisher's call stack, in priority-then-registration
// order. Handlers that must not run inline — anything reached from the
// touch sampling path — go through Defer, a bounded single-worker queue
// with a non-blocking enqueue.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dleon/timemachine/internal/event/topic"
)

// MaxPublishDepth caps re-entrant publishing. A handler may publish
// further events, but a chain deeper than this is dropped rather than
// allowed to recurse without bound.
const MaxPublishDepth = 8

// DefaultDeferredQueueSize is the capacity of the deferred delivery queue.
const DefaultDeferredQueueSize = 64

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers the event synchronously to every matching
	// subscriber before returning.
	Publish(ctx context.Context, event any) error

	// Defer queues the event for delivery from the bus worker goroutine.
	// It never blocks; a full queue drops the event and returns ErrQueueFull.
	Defer(event any) error

	// Subscribe registers a handler for a topic.
	Subscribe(t topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc is a convenience method for subscribing with a function handler.
	SubscribeFunc(t topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Start starts the deferred delivery worker.
	Start() error

	// Stop drains the deferred queue and stops the worker, or gives up
	// when the context is cancelled.
	Stop(ctx context.Context) error

	// Stats returns current bus statistics.
	Stats() Stats

	// IsRunning returns true if the bus is running.
	IsRunning() bool
}

type depthKey struct{}

func publishDepth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

// bus is the default Bus implementation.
type bus struct {
	registry *Registry

	deferred chan any
	running  atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup

	panicHandler PanicHandler

	published     atomic.Uint64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*bus)

// WithDeferredQueueSize sets the deferred queue capacity.
func WithDeferredQueueSize(size int) BusOption {
	return func(b *bus) {
		if size > 0 {
			b.deferred = make(chan any, size)
		}
	}
}

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *bus) {
		b.panicHandler = h
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) Bus {
	b := &bus{
		registry: NewRegistry(),
		deferred: make(chan any, DefaultDeferredQueueSize),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start starts the deferred delivery worker.
func (b *bus) Start() error {
	if b.running.Load() {
		return ErrBusAlreadyRunning
	}
	b.done = make(chan struct{})
	b.running.Store(true)

	b.wg.Add(1)
	go b.deferredLoop()
	return nil
}

// Stop stops the bus, draining queued deferred events first.
func (b *bus) Stop(ctx context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	close(b.done)

	finished := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning returns true if the bus is running.
func (b *bus) IsRunning() bool {
	return b.running.Load()
}

func (b *bus) deferredLoop() {
	defer b.wg.Done()
	for {
		select {
		case ev := <-b.deferred:
			b.dispatch(context.Background(), ev)
		case <-b.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case ev := <-b.deferred:
					b.dispatch(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

// Publish delivers the event synchronously.
func (b *bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	if publishDepth(ctx) >= MaxPublishDepth {
		b.dropped.Add(1)
		return ErrPublishDepth
	}
	return b.dispatch(ctx, event)
}

// Defer queues the event for asynchronous delivery. Never blocks.
func (b *bus) Defer(event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	if _, ok := event.(TopicProvider); !ok {
		return ErrInvalidEvent
	}
	select {
	case b.deferred <- event:
		return nil
	default:
		b.dropped.Add(1)
		return ErrQueueFull
	}
}

func (b *bus) dispatch(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	if !t.IsValid() {
		return ErrInvalidTopic
	}

	subs := b.registry.MatchActive(t)
	if len(subs) == 0 {
		return nil
	}

	b.published.Add(1)
	ctx = context.WithValue(ctx, depthKey{}, publishDepth(ctx)+1)

	for _, sub := range subs {
		if !sub.ShouldDeliver(event) {
			continue
		}
		b.invoke(ctx, event, sub)

		if sub.Config().Once {
			sub.Cancel()
			b.registry.Remove(sub.ID())
		}
	}
	return nil
}

// invoke runs a single handler with panic isolation. A panicking or
// erroring subscriber never prevents delivery to later subscribers.
func (b *bus) invoke(ctx context.Context, event any, sub *subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(event, r)
			}
		}
	}()

	if err := sub.Handler().Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		return
	}
	b.delivered.Add(1)
}

// Subscribe creates a new subscription for the given topic.
// This method is safe to call concurrently, including from handlers.
func (b *bus) Subscribe(t topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !t.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), t, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(t topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(t, fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		Published:         b.published.Load(),
		Delivered:         b.delivered.Load(),
		Dropped:           b.dropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
		DeferredDepth:     len(b.deferred),
	}
}
