// Package clockpanel renders the time panel: a three-letter day of the
// week in the small roof font next to the current time, with a colon
// that blinks on the second. It listens for its own activation, ticks
// once a second while active, and stays dark until the clock is set.
package clockpanel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/i18n"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
	"github.com/dleon/timemachine/internal/timesync"
)

// tickInterval is the redraw period while the panel is active.
const tickInterval = time.Second

// Config configures the clock panel.
type Config struct {
	// Format selects 12 or 24 hour rendering.
	Format events.TimeFormat

	// BlinkSeparator makes the colon blink with the seconds parity.
	// When false the colon is always lit.
	BlinkSeparator bool

	// TickInterval overrides the 1s redraw period, for tests.
	TickInterval time.Duration

	// Logger for render diagnostics. Nil discards.
	Logger *logging.Logger
}

// Panel is the clock panel.
type Panel struct {
	bus   event.Bus
	clock timesync.Source
	names *i18n.Translator
	log   *logging.Logger

	mu     sync.Mutex
	cfg    Config
	active bool
	done   chan struct{}
	wg     sync.WaitGroup

	subs []event.Subscription
}

// New creates the clock panel. It renders nothing until activated.
func New(bus event.Bus, clock timesync.Source, names *i18n.Translator, cfg Config) *Panel {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = tickInterval
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}
	return &Panel{
		bus:   bus,
		clock: clock,
		names: names,
		log:   log.WithComponent("clockpanel"),
		cfg:   cfg,
	}
}

// ID returns the panel identity.
func (p *Panel) ID() events.PanelID { return events.PanelClock }

// Start subscribes to activation and config changes.
func (p *Panel) Start() error {
	actSub, err := p.bus.SubscribeFunc(events.TopicPanelActivated, p.onActivated, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	p.subs = append(p.subs, actSub)

	deactSub, err := p.bus.SubscribeFunc(events.TopicPanelDeactivated, p.onDeactivated, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	p.subs = append(p.subs, deactSub)

	cfgSub, err := p.bus.SubscribeFunc(events.TopicClockConfigChanged, p.onConfigChanged, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	p.subs = append(p.subs, cfgSub)

	return nil
}

// Stop deactivates the panel and removes its subscriptions.
func (p *Panel) Stop() {
	p.deactivate()
	for _, s := range p.subs {
		p.bus.Unsubscribe(s)
	}
	p.subs = nil
}

func (p *Panel) onActivated(ctx context.Context, ev any) error {
	act, ok := ev.(events.PanelActivated)
	if !ok || act.ID != events.PanelClock {
		return nil
	}

	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return nil
	}
	p.active = true
	p.done = make(chan struct{})
	done := p.done
	interval := p.cfg.TickInterval
	p.wg.Add(1)
	p.mu.Unlock()

	p.render(ctx)

	go p.tickLoop(done, interval)
	return nil
}

func (p *Panel) onDeactivated(ctx context.Context, ev any) error {
	deact, ok := ev.(events.PanelDeactivated)
	if !ok || deact.ID != events.PanelClock {
		return nil
	}
	p.deactivate()
	return nil
}

func (p *Panel) onConfigChanged(ctx context.Context, ev any) error {
	changed, ok := ev.(events.ClockConfigChanged)
	if !ok {
		return nil
	}

	p.mu.Lock()
	p.cfg.Format = changed.Format
	p.cfg.BlinkSeparator = changed.ShowSeconds
	active := p.active
	p.mu.Unlock()

	p.log.Info("clock format changed to %s", changed.Format)
	if active {
		p.render(ctx)
	}
	return nil
}

func (p *Panel) deactivate() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	close(p.done)
	p.done = nil
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Panel) tickLoop(done <-chan struct{}, interval time.Duration) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.render(context.Background())
		}
	}
}

// render publishes the current time as a scene. Before the clock is
// set there is nothing truthful to show, so it does nothing; the panel
// stays on screen with whatever was rendered last.
func (p *Panel) render(ctx context.Context) {
	if !p.clock.Synced() {
		p.log.Debug("clock not synced, skipping render")
		return
	}

	p.mu.Lock()
	format := p.cfg.Format
	blink := p.cfg.BlinkSeparator
	p.mu.Unlock()

	now := p.clock.Now()
	day := p.names.DayName(now.Weekday())
	timeStr := formatTime(now, format, blink)

	sc := scene.Scene{
		Elements: []scene.Element{
			scene.NewText(day, font.NameDotmatrixSmall),
			scene.NewText(timeStr, font.NameDefault),
		},
		FallbackText: day + " " + timeStr,
	}

	if err := p.bus.Publish(ctx, events.RenderScene{Scene: sc}); err != nil {
		p.log.Error("render publish failed: %v", err)
	}
}

// formatTime renders HH:MM with the blinking separator. Hours below 10
// drop the leading zero so the group sits better centered.
func formatTime(now time.Time, format events.TimeFormat, blink bool) string {
	hour := now.Hour()
	if format == events.TimeFormat12H {
		hour = hour % 12
		if hour == 0 {
			hour = 12
		}
	}

	sep := byte(':')
	if blink && now.Second()%2 == 1 {
		sep = ' '
	}

	if hour < 10 {
		return fmt.Sprintf("%d%c%02d", hour, sep, now.Minute())
	}
	return fmt.Sprintf("%02d%c%02d", hour, sep, now.Minute())
}
