// Package brightness implements hold-to-dim: holding the touch pad
// while the clock shows sweeps the display intensity up and down
// through a fixed ladder of levels until the pad is released. The
// sweep pauses for one step at each end so the user can land on
// minimum or maximum without overshooting.
package brightness

import (
	"context"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
)

// DefaultCycleInterval is the dwell time per level while sweeping.
const DefaultCycleInterval = 300 * time.Millisecond

// levels is the intensity ladder, in the device range [0, 15].
var levels = []int{2, 5, 9, 12, 15}

// Config configures the Controller.
type Config struct {
	// InitialLevel seeds the ladder position. The controller starts at
	// the first ladder level at or above it.
	InitialLevel int

	// CycleInterval overrides the 300ms dwell per level, for tests.
	CycleInterval time.Duration

	// Logger for diagnostics. Nil discards.
	Logger *logging.Logger
}

// Controller owns the brightness sweep state machine.
type Controller struct {
	bus event.Bus
	log *logging.Logger

	mu          sync.Mutex
	interval    time.Duration
	index       int
	goingUp     bool
	atLimit     bool
	cycling     bool
	activePanel events.PanelID
	done        chan struct{}
	wg          sync.WaitGroup

	subs []event.Subscription
}

// New creates a Controller seeded at cfg.InitialLevel.
func New(bus event.Bus, cfg Config) *Controller {
	interval := cfg.CycleInterval
	if interval <= 0 {
		interval = DefaultCycleInterval
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}

	index := 0
	for i, lvl := range levels {
		if lvl >= cfg.InitialLevel {
			index = i
			break
		}
	}

	return &Controller{
		bus:         bus,
		log:         log.WithComponent("brightness"),
		interval:    interval,
		index:       index,
		goingUp:     true,
		activePanel: events.PanelClock,
	}
}

// Start subscribes to long-press and panel activation events.
func (c *Controller) Start() error {
	pressSub, err := c.bus.SubscribeFunc(events.TopicInputLongPressStart, c.onLongPressStart)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, pressSub)

	releaseSub, err := c.bus.SubscribeFunc(events.TopicInputLongPressEnd, c.onLongPressEnd)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, releaseSub)

	panelSub, err := c.bus.SubscribeFunc(events.TopicPanelActivated, c.onPanelActivated)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, panelSub)

	return nil
}

// Stop halts any running sweep and removes the subscriptions.
func (c *Controller) Stop() {
	c.stopSweep()
	for _, s := range c.subs {
		c.bus.Unsubscribe(s)
	}
	c.subs = nil
}

// Level returns the current ladder level.
func (c *Controller) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return levels[c.index]
}

// Cycling reports whether a sweep is in progress.
func (c *Controller) Cycling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycling
}

func (c *Controller) onPanelActivated(ctx context.Context, ev any) error {
	act, ok := ev.(events.PanelActivated)
	if !ok {
		return nil
	}
	c.mu.Lock()
	c.activePanel = act.ID
	c.mu.Unlock()
	return nil
}

func (c *Controller) onLongPressStart(ctx context.Context, ev any) error {
	c.mu.Lock()
	// Brightness is a clock-panel gesture; on other panels a hold means
	// nothing.
	if c.activePanel != events.PanelClock || c.cycling {
		c.mu.Unlock()
		return nil
	}
	c.cycling = true
	c.goingUp = true
	c.atLimit = false
	c.done = make(chan struct{})
	done := c.done
	interval := c.interval
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Info("long press, starting brightness sweep at %d", c.Level())

	go c.sweepLoop(done, interval)
	return nil
}

func (c *Controller) onLongPressEnd(ctx context.Context, ev any) error {
	c.mu.Lock()
	if !c.cycling {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.stopSweep()
	c.log.Info("release, brightness stays at %d", c.Level())
	return nil
}

func (c *Controller) stopSweep() {
	c.mu.Lock()
	if !c.cycling {
		c.mu.Unlock()
		return
	}
	c.cycling = false
	close(c.done)
	c.done = nil
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) sweepLoop(done <-chan struct{}, interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.step(context.Background())
		}
	}
}

// step advances the sweep one level and publishes the result. At
// either end of the ladder it reverses direction but skips one step,
// holding the limit level for a full dwell.
func (c *Controller) step(ctx context.Context) {
	c.mu.Lock()
	if c.atLimit {
		c.atLimit = false
		c.mu.Unlock()
		return
	}

	if c.goingUp {
		c.index++
		if c.index >= len(levels) {
			c.index = len(levels) - 1
			c.atLimit = true
			c.goingUp = false
		}
	} else {
		if c.index == 0 {
			c.atLimit = true
			c.goingUp = true
		} else {
			c.index--
		}
	}
	level := levels[c.index]
	c.mu.Unlock()

	c.log.Debug("brightness %d", level)
	if err := c.bus.Publish(ctx, events.BrightnessChanged{Level: level}); err != nil {
		c.log.Warn("brightness publish failed: %v", err)
	}
}
