package display

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/compose"
)

// Adapter connects the bus to an output driver. It owns the composer
// and is the single writer to the driver: scene and brightness events
// can arrive from different goroutines, so every driver call happens
// under the adapter's mutex.
type Adapter struct {
	driver   Driver
	composer *compose.Composer
	bus      event.Bus
	log      *logging.Logger

	mu   sync.Mutex
	subs []event.Subscription
}

// NewAdapter creates an adapter for the given driver.
func NewAdapter(bus event.Bus, driver Driver, log *logging.Logger) *Adapter {
	if log == nil {
		log = logging.Null
	}
	return &Adapter{
		driver:   driver,
		composer: compose.NewComposer(),
		bus:      bus,
		log:      log.WithComponent("display"),
	}
}

// Start initializes the driver, blanks it, and subscribes to render
// and brightness events.
func (a *Adapter) Start() error {
	if err := a.driver.Init(); err != nil {
		return fmt.Errorf("display: init %s driver: %w", a.driver.Name(), err)
	}
	if err := a.driver.Clear(); err != nil {
		return fmt.Errorf("display: clear: %w", err)
	}

	sceneSub, err := a.bus.SubscribeFunc(events.TopicRenderScene, a.onScene, event.WithPriority(event.PriorityCritical))
	if err != nil {
		return err
	}
	brightSub, err := a.bus.SubscribeFunc(events.TopicBrightnessChanged, a.onBrightness, event.WithPriority(event.PriorityCritical))
	if err != nil {
		a.bus.Unsubscribe(sceneSub)
		return err
	}
	a.subs = []event.Subscription{sceneSub, brightSub}

	a.log.Info("started with %s driver", a.driver.Name())
	return nil
}

// Stop unsubscribes, blanks the display, and closes the driver.
func (a *Adapter) Stop() error {
	for _, sub := range a.subs {
		a.bus.Unsubscribe(sub)
	}
	a.subs = nil

	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.driver.Clear()
	return a.driver.Close()
}

func (a *Adapter) onScene(ctx context.Context, ev any) error {
	rs, ok := ev.(events.RenderScene)
	if !ok {
		return nil
	}

	frame, err := a.composer.Render(rs.Scene)
	if err != nil {
		// An empty scene means "nothing to show", not a fault.
		if errors.Is(err, compose.ErrEmptyScene) {
			a.log.Debug("skipping empty scene")
			return nil
		}
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.driver.Render(frame); err != nil {
		a.log.Error("render failed: %v", err)
		return err
	}
	return nil
}

func (a *Adapter) onBrightness(ctx context.Context, ev any) error {
	bc, ok := ev.(events.BrightnessChanged)
	if !ok {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.driver.SetBrightness(bc.Level); err != nil {
		a.log.Error("set brightness failed: %v", err)
		return err
	}
	a.log.Debug("brightness set to %d", bc.Level)
	return nil
}
