package clockpanel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/i18n"
	"github.com/dleon/timemachine/internal/timesync"
)

type sceneRecorder struct {
	mu     sync.Mutex
	scenes []events.RenderScene
	notify chan struct{}
}

func newSceneRecorder(t *testing.T, bus event.Bus) *sceneRecorder {
	t.Helper()
	r := &sceneRecorder{notify: make(chan struct{}, 16)}
	_, err := bus.SubscribeFunc(events.TopicRenderScene, func(ctx context.Context, ev any) error {
		if sc, ok := ev.(events.RenderScene); ok {
			r.mu.Lock()
			r.scenes = append(r.scenes, sc)
			r.mu.Unlock()
			select {
			case r.notify <- struct{}{}:
			default:
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	return r
}

func (r *sceneRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenes)
}

func (r *sceneRecorder) last() (events.RenderScene, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.scenes) == 0 {
		return events.RenderScene{}, false
	}
	return r.scenes[len(r.scenes)-1], true
}

func (r *sceneRecorder) waitForCount(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for r.count() < n {
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d scenes, have %d", n, r.count())
		}
	}
}

func startedBus(t *testing.T) event.Bus {
	t.Helper()
	b := event.NewBus()
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

func startedPanel(t *testing.T, bus event.Bus, clock timesync.Source, cfg Config) *Panel {
	t.Helper()
	names := i18n.NewTranslator(bus, i18n.LangEN, nil)
	p := New(bus, clock, names, cfg)
	if err := p.Start(); err != nil {
		t.Fatalf("panel Start() failed: %v", err)
	}
	t.Cleanup(p.Stop)
	return p
}

func activate(t *testing.T, bus event.Bus, id events.PanelID) {
	t.Helper()
	if err := bus.Publish(context.Background(), events.PanelActivated{ID: id}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		second int
		format events.TimeFormat
		blink  bool
		want   string
	}{
		{"24h morning", 9, 5, 0, events.TimeFormat24H, true, "9:05"},
		{"24h afternoon", 14, 30, 0, events.TimeFormat24H, true, "14:30"},
		{"24h midnight", 0, 0, 0, events.TimeFormat24H, true, "0:00"},
		{"odd second blanks colon", 14, 30, 1, events.TimeFormat24H, true, "14 30"},
		{"blink disabled keeps colon", 14, 30, 1, events.TimeFormat24H, false, "14:30"},
		{"12h midnight is 12", 0, 15, 0, events.TimeFormat12H, true, "12:15"},
		{"12h noon is 12", 12, 0, 0, events.TimeFormat12H, true, "12:00"},
		{"12h afternoon wraps", 13, 45, 0, events.TimeFormat12H, true, "1:45"},
		{"12h evening", 23, 59, 0, events.TimeFormat12H, true, "11:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2024, 6, 15, tt.hour, tt.minute, tt.second, 0, time.UTC)
			got := formatTime(now, tt.format, tt.blink)
			if got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPanel_RendersOnActivation(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	// Saturday June 15 2024, 14:30:00.
	clock := timesync.NewFakeSource(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC))
	startedPanel(t, bus, clock, Config{Format: events.TimeFormat24H, BlinkSeparator: true, TickInterval: time.Hour})

	activate(t, bus, events.PanelClock)

	sc, ok := rec.last()
	if !ok {
		t.Fatal("no scene rendered on activation")
	}
	if got := len(sc.Scene.Elements); got != 2 {
		t.Fatalf("scene has %d elements, want 2", got)
	}
	if got := sc.Scene.Elements[0].Text.Str; got != "Sat" {
		t.Errorf("day element = %q, want Sat", got)
	}
	if got := sc.Scene.Elements[1].Text.Str; got != "14:30" {
		t.Errorf("time element = %q, want 14:30", got)
	}
	if got := sc.Scene.FallbackText; got != "Sat 14:30" {
		t.Errorf("fallback = %q, want %q", got, "Sat 14:30")
	}
}

func TestPanel_SilentWhenUnsynced(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	clock := timesync.NewFakeSource(time.Time{})
	startedPanel(t, bus, clock, Config{TickInterval: time.Hour})

	activate(t, bus, events.PanelClock)

	if got := rec.count(); got != 0 {
		t.Errorf("unsynced panel rendered %d scenes, want 0", got)
	}
}

func TestPanel_IgnoresOtherPanelActivation(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	clock := timesync.NewFakeSource(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC))
	startedPanel(t, bus, clock, Config{TickInterval: time.Hour})

	activate(t, bus, events.PanelDate)

	if got := rec.count(); got != 0 {
		t.Errorf("panel rendered %d scenes for foreign activation, want 0", got)
	}
}

func TestPanel_TicksWhileActive(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	clock := timesync.NewFakeSource(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC))
	startedPanel(t, bus, clock, Config{TickInterval: 10 * time.Millisecond})

	activate(t, bus, events.PanelClock)
	rec.waitForCount(t, 3)
}

func TestPanel_StopsTickingOnDeactivation(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	clock := timesync.NewFakeSource(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC))
	startedPanel(t, bus, clock, Config{TickInterval: 10 * time.Millisecond})

	activate(t, bus, events.PanelClock)
	rec.waitForCount(t, 2)

	if err := bus.Publish(context.Background(), events.PanelDeactivated{ID: events.PanelClock}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	n := rec.count()
	time.Sleep(50 * time.Millisecond)
	if got := rec.count(); got != n {
		t.Errorf("panel kept rendering after deactivation: %d -> %d", n, got)
	}
}

func TestPanel_ConfigChangeRerenders(t *testing.T) {
	bus := startedBus(t)
	rec := newSceneRecorder(t, bus)

	clock := timesync.NewFakeSource(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC))
	startedPanel(t, bus, clock, Config{Format: events.TimeFormat24H, TickInterval: time.Hour})

	activate(t, bus, events.PanelClock)
	rec.waitForCount(t, 1)

	err := bus.Publish(context.Background(), events.ClockConfigChanged{Format: events.TimeFormat12H})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	sc, _ := rec.last()
	if got := sc.Scene.Elements[1].Text.Str; got != "2:30" {
		t.Errorf("time after format change = %q, want 2:30", got)
	}
}
