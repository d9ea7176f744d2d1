package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/event/topic"
)

type changeRecorder struct {
	mu     sync.Mutex
	events []any
	notify chan struct{}
}

func newChangeRecorder(t *testing.T, bus event.Bus) *changeRecorder {
	t.Helper()
	r := &changeRecorder{notify: make(chan struct{}, 16)}
	for _, tp := range []topic.Topic{
		events.TopicClockConfigChanged,
		events.TopicLanguageChanged,
		events.TopicPanelsConfigChanged,
	} {
		_, err := bus.SubscribeFunc(tp, func(ctx context.Context, ev any) error {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
			select {
			case r.notify <- struct{}{}:
			default:
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}
	return r
}

func (r *changeRecorder) snapshot() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}

func (r *changeRecorder) waitForCount(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		r.mu.Lock()
		have := len(r.events)
		r.mu.Unlock()
		if have >= n {
			return
		}
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d change events, have %d", n, have)
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

func startedWatcher(t *testing.T, bus event.Bus, path string) *Watcher {
	t.Helper()
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	w := NewWatcher(bus, path, cfg, nil)
	if err := w.Start(); err != nil {
		t.Fatalf("watcher Start() failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_PublishesChangesOnEdit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "language = \"en\"\n")

	bus := startedBus(t)
	rec := newChangeRecorder(t, bus)
	w := startedWatcher(t, bus, path)

	writeFile(t, dir, "config.toml", "language = \"es\"\n")
	rec.waitForCount(t, 1)

	got := rec.snapshot()
	ev, ok := got[0].(events.LanguageChanged)
	if !ok {
		t.Fatalf("event type = %T, want LanguageChanged", got[0])
	}
	if ev.Language != "es" {
		t.Errorf("language = %q, want es", ev.Language)
	}
	if w.Current().Language != "es" {
		t.Errorf("Current().Language = %q, want es", w.Current().Language)
	}
}

func TestWatcher_InvalidEditKeepsRunningConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "language = \"en\"\n")

	bus := startedBus(t)
	rec := newChangeRecorder(t, bus)
	w := startedWatcher(t, bus, path)

	writeFile(t, dir, "config.toml", "language = \"klingon\"\n")

	// Give the debounce and reload a chance to run, then confirm the
	// rejected edit changed nothing.
	time.Sleep(500 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("rejected edit published %d events, want 0", len(got))
	}
	if w.Current().Language != "en" {
		t.Errorf("Current().Language = %q, want en", w.Current().Language)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "language = \"en\"\n")

	bus := startedBus(t)
	rec := newChangeRecorder(t, bus)
	startedWatcher(t, bus, path)

	writeFile(t, dir, "other.toml", "language = \"es\"\n")

	time.Sleep(300 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("sibling file edit published %d events, want 0", len(got))
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "language = \"en\"\n")

	bus := startedBus(t)
	w := startedWatcher(t, bus, path)

	w.Stop()
	w.Stop()

	if err := os.Remove(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
}
