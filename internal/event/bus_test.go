package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dleon/timemachine/internal/event/topic"
)

type testEvent struct {
	t     topic.Topic
	value int
}

func (e testEvent) EventTopic() topic.Topic { return e.t }

func startedBus(t *testing.T, opts ...BusOption) Bus {
	t.Helper()
	b := NewBus(opts...)
	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = b.Stop(ctx)
	})
	return b
}

func TestBus_StartStop(t *testing.T) {
	b := NewBus()

	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !b.IsRunning() {
		t.Error("expected bus to be running after Start()")
	}
	if err := b.Start(); !errors.Is(err, ErrBusAlreadyRunning) {
		t.Errorf("expected ErrBusAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if b.IsRunning() {
		t.Error("expected bus to not be running after Stop()")
	}
	if err := b.Stop(ctx); !errors.Is(err, ErrBusNotRunning) {
		t.Errorf("expected ErrBusNotRunning, got %v", err)
	}
}

func TestBus_Subscribe_Validation(t *testing.T) {
	b := startedBus(t)

	if _, err := b.Subscribe(topic.Topic("a.b"), nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: expected ErrNilHandler, got %v", err)
	}

	h := HandlerFunc(func(ctx context.Context, event any) error { return nil })
	for _, bad := range []topic.Topic{"", "a..b", ".a"} {
		if _, err := b.Subscribe(bad, h); !errors.Is(err, ErrInvalidTopic) {
			t.Errorf("topic %q: expected ErrInvalidTopic, got %v", bad, err)
		}
	}

	sub, err := b.Subscribe(topic.Topic("a.b"), h)
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	if sub.Topic() != topic.Topic("a.b") {
		t.Errorf("expected topic a.b, got %s", sub.Topic())
	}
	if !sub.IsActive() {
		t.Error("expected subscription to be active")
	}
}

func TestBus_Publish_DeliveryOrder(t *testing.T) {
	b := startedBus(t)

	var order []string
	record := func(name string) HandlerFunc {
		return func(ctx context.Context, event any) error {
			order = append(order, name)
			return nil
		}
	}

	// Registered out of priority order on purpose.
	b.SubscribeFunc("x.y", record("normal-1"))
	b.SubscribeFunc("x.y", record("low"), WithPriority(PriorityLow))
	b.SubscribeFunc("x.y", record("critical"), WithPriority(PriorityCritical))
	b.SubscribeFunc("x.y", record("normal-2"))

	if err := b.Publish(context.Background(), testEvent{t: "x.y"}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %d (%v)", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("delivery %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestBus_Publish_NoTopicProvider(t *testing.T) {
	b := startedBus(t)

	if err := b.Publish(context.Background(), 42); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestBus_Publish_FailingSubscriberDoesNotBlockOthers(t *testing.T) {
	b := startedBus(t)

	var delivered atomic.Int32
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		return errors.New("boom")
	}, WithPriority(PriorityCritical))
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		panic("boom")
	}, WithPriority(PriorityHigh))
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		delivered.Add(1)
		return nil
	}, WithPriority(PriorityLow))

	if err := b.Publish(context.Background(), testEvent{t: "x.y"}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if delivered.Load() != 1 {
		t.Errorf("expected final subscriber to run, delivered=%d", delivered.Load())
	}

	stats := b.Stats()
	if stats.HandlerErrors != 1 {
		t.Errorf("expected 1 handler error, got %d", stats.HandlerErrors)
	}
	if stats.HandlerPanics != 1 {
		t.Errorf("expected 1 handler panic, got %d", stats.HandlerPanics)
	}
}

func TestBus_Publish_RecursionCap(t *testing.T) {
	b := startedBus(t)

	var count atomic.Int32
	b.SubscribeFunc("loop.forever", func(ctx context.Context, event any) error {
		count.Add(1)
		// Re-entrant publish from the handler; the depth cap must stop it.
		return b.Publish(ctx, testEvent{t: "loop.forever"})
	})

	if err := b.Publish(context.Background(), testEvent{t: "loop.forever"}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if got := count.Load(); got != MaxPublishDepth {
		t.Errorf("expected %d nested deliveries, got %d", MaxPublishDepth, got)
	}
	if b.Stats().Dropped == 0 {
		t.Error("expected the capped publish to be counted as dropped")
	}
}

func TestBus_SubscribeOnce(t *testing.T) {
	b := startedBus(t)

	var count atomic.Int32
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		count.Add(1)
		return nil
	}, WithOnce())

	b.Publish(context.Background(), testEvent{t: "x.y"})
	b.Publish(context.Background(), testEvent{t: "x.y"})

	if count.Load() != 1 {
		t.Errorf("expected once-subscription to fire exactly once, got %d", count.Load())
	}
}

func TestBus_Filter(t *testing.T) {
	b := startedBus(t)

	var got []int
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		got = append(got, event.(testEvent).value)
		return nil
	}, WithFilter(func(event any) bool {
		return event.(testEvent).value%2 == 0
	}))

	for i := 0; i < 4; i++ {
		b.Publish(context.Background(), testEvent{t: "x.y", value: i})
	}

	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("expected [0 2], got %v", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := startedBus(t)

	var count atomic.Int32
	sub, _ := b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		count.Add(1)
		return nil
	})

	if err := b.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() failed: %v", err)
	}
	if err := b.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("expected ErrSubscriptionNotFound, got %v", err)
	}
	if err := b.Unsubscribe(nil); !errors.Is(err, ErrInvalidSubscription) {
		t.Errorf("expected ErrInvalidSubscription, got %v", err)
	}

	b.Publish(context.Background(), testEvent{t: "x.y"})
	if count.Load() != 0 {
		t.Error("unsubscribed handler still received an event")
	}
}

func TestBus_Defer(t *testing.T) {
	b := startedBus(t)

	done := make(chan int, 1)
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		done <- event.(testEvent).value
		return nil
	})

	if err := b.Defer(testEvent{t: "x.y", value: 7}); err != nil {
		t.Fatalf("Defer() failed: %v", err)
	}

	select {
	case v := <-done:
		if v != 7 {
			t.Errorf("expected deferred value 7, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("deferred event was never delivered")
	}
}

func TestBus_Defer_QueueFull(t *testing.T) {
	// No worker running: events pile up in the queue.
	b := NewBus(WithDeferredQueueSize(2)).(*bus)
	b.running.Store(true)

	if err := b.Defer(testEvent{t: "x.y"}); err != nil {
		t.Fatalf("first Defer() failed: %v", err)
	}
	if err := b.Defer(testEvent{t: "x.y"}); err != nil {
		t.Fatalf("second Defer() failed: %v", err)
	}
	if err := b.Defer(testEvent{t: "x.y"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if b.Stats().Dropped != 1 {
		t.Errorf("expected 1 dropped event, got %d", b.Stats().Dropped)
	}
}

func TestBus_Stop_DrainsDeferred(t *testing.T) {
	b := NewBus()
	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var count atomic.Int32
	b.SubscribeFunc("x.y", func(ctx context.Context, event any) error {
		count.Add(1)
		return nil
	})

	for i := 0; i < 10; i++ {
		if err := b.Defer(testEvent{t: "x.y"}); err != nil {
			t.Fatalf("Defer() failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if count.Load() != 10 {
		t.Errorf("expected all 10 deferred events delivered before Stop returned, got %d", count.Load())
	}
}
