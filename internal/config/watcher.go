package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
)

// debounceWindow coalesces the burst of write events editors produce
// for a single save.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads the config file when it changes and publishes the
// differences. Editors replace files on save, so the watch is on the
// containing directory and events are filtered by name.
type Watcher struct {
	bus  event.Bus
	path string
	log  *logging.Logger

	mu      sync.Mutex
	current Config

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher creates a Watcher for the file at path, seeded with the
// configuration that was loaded from it.
func NewWatcher(bus event.Bus, path string, current Config, log *logging.Logger) *Watcher {
	if log == nil {
		log = logging.Null
	}
	return &Watcher{
		bus:     bus,
		path:    path,
		log:     log.WithComponent("config"),
		current: current,
	}
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start begins watching the config file's directory.
func (w *Watcher) Start() error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	w.path = abs

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.watchLoop()

	w.log.Info("watching %s", abs)
	return nil
}

// Stop halts the watcher.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		if w.fsw == nil {
			return
		}
		close(w.done)
		w.fsw.Close()
		w.wg.Wait()
	})
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var reload <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reload = time.After(debounceWindow)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

// reload re-reads the file and publishes one event per changed
// section. A file that fails to parse or validate is ignored and the
// running configuration stays in effect.
func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		w.log.Warn("reload rejected: %v", err)
		return
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	w.mu.Unlock()

	for _, ev := range diff(prev, next) {
		if err := w.bus.Publish(context.Background(), ev); err != nil {
			w.log.Warn("change publish failed: %v", err)
		}
	}
}

// diff returns the bus events describing what changed between two
// configurations. Sections nothing subscribes to (display, touch) need
// a restart and produce no event.
func diff(prev, next Config) []any {
	var out []any
	if prev.Clock != next.Clock {
		out = append(out, events.ClockConfigChanged{
			Format:      next.TimeFormat(),
			ShowSeconds: next.Clock.BlinkSeparator,
		})
	}
	if prev.Language != next.Language {
		out = append(out, events.LanguageChanged{Language: next.Language})
	}
	if prev.Panels != next.Panels {
		id, err := next.DefaultPanel()
		if err == nil {
			out = append(out, events.PanelsConfigChanged{
				Default:     id,
				IdleTimeout: next.Panels.IdleTimeoutS,
			})
		}
	}
	return out
}
