package display

import (
	"context"
	"testing"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/scene"
)

func startedAdapter(t *testing.T) (event.Bus, *NullDriver, *Adapter) {
	t.Helper()

	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("bus start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	})

	driver := NewNullDriver()
	adapter := NewAdapter(bus, driver, logging.Null)
	if err := adapter.Start(); err != nil {
		t.Fatalf("adapter start failed: %v", err)
	}
	t.Cleanup(func() { _ = adapter.Stop() })

	return bus, driver, adapter
}

func TestAdapter_RendersSceneEvents(t *testing.T) {
	bus, driver, _ := startedAdapter(t)

	s := scene.Scene{Elements: []scene.Element{scene.NewText("12", "")}}
	if err := bus.Publish(context.Background(), events.RenderScene{Scene: s}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	frame, ok := driver.LastFrame()
	if !ok {
		t.Fatal("expected a rendered frame")
	}

	lit := false
	for _, c := range frame.Columns {
		if c != 0 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("rendered frame is blank")
	}
}

func TestAdapter_RunsBeforeNormalSubscribers(t *testing.T) {
	bus, driver, _ := startedAdapter(t)

	// A default-priority observer on the same topic must see the frame
	// already on the device when it runs.
	sawFrame := false
	_, err := bus.SubscribeFunc(events.TopicRenderScene, func(ctx context.Context, ev any) error {
		_, sawFrame = driver.LastFrame()
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	s := scene.Scene{Elements: []scene.Element{scene.NewText("12", "")}}
	if err := bus.Publish(context.Background(), events.RenderScene{Scene: s}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !sawFrame {
		t.Error("adapter did not render before the default-priority observer")
	}
}

func TestAdapter_IgnoresEmptyScene(t *testing.T) {
	bus, driver, _ := startedAdapter(t)

	if err := bus.Publish(context.Background(), events.RenderScene{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, ok := driver.LastFrame(); ok {
		t.Error("empty scene must not reach the driver")
	}
}

func TestAdapter_AppliesBrightness(t *testing.T) {
	bus, driver, _ := startedAdapter(t)

	if err := bus.Publish(context.Background(), events.BrightnessChanged{Level: 12}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if got := driver.Brightness(); got != 12 {
		t.Errorf("driver brightness = %d, want 12", got)
	}
}

func TestAdapter_ClearsOnStartAndStop(t *testing.T) {
	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("bus start failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	}()

	driver := NewNullDriver()
	adapter := NewAdapter(bus, driver, nil)

	if err := adapter.Start(); err != nil {
		t.Fatalf("adapter start failed: %v", err)
	}
	if driver.Clears() != 1 {
		t.Errorf("clears after start = %d, want 1", driver.Clears())
	}

	if err := adapter.Stop(); err != nil {
		t.Fatalf("adapter stop failed: %v", err)
	}
	if driver.Clears() != 2 {
		t.Errorf("clears after stop = %d, want 2", driver.Clears())
	}

	// Unsubscribed: further scenes must not render.
	_ = bus.Publish(context.Background(), events.RenderScene{
		Scene: scene.Scene{FallbackText: "X"},
	})
	if len(driver.Frames()) != 0 {
		t.Error("adapter still rendering after Stop")
	}
}
