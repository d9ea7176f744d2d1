// Package weatherpanel renders the temperature panel from the most
// recent weather reading on the bus. The provider publishes on its own
// schedule; the panel caches the last payload and redraws every ten
// seconds while active so a fresh reading shows up without waiting for
// the next activation.
package weatherpanel

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
)

// refreshInterval is the redraw period while the panel is active.
const refreshInterval = 10 * time.Second

// degreeSign is the degree glyph in the roof font.
const degreeSign = 0xB0

// Config configures the weather panel.
type Config struct {
	// RefreshInterval overrides the 10s redraw period, for tests.
	RefreshInterval time.Duration

	// Logger for render diagnostics. Nil discards.
	Logger *logging.Logger
}

// Panel is the weather panel.
type Panel struct {
	bus event.Bus
	log *logging.Logger

	mu       sync.Mutex
	interval time.Duration
	last     events.WeatherUpdated
	hasData  bool
	active   bool
	done     chan struct{}
	wg       sync.WaitGroup

	subs []event.Subscription
}

// New creates the weather panel.
func New(bus event.Bus, cfg Config) *Panel {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = refreshInterval
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}
	return &Panel{
		bus:      bus,
		log:      log.WithComponent("weatherpanel"),
		interval: interval,
	}
}

// ID returns the panel identity.
func (p *Panel) ID() events.PanelID { return events.PanelWeather }

// Start subscribes to activation and weather updates.
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

	wxSub, err := p.bus.SubscribeFunc(events.TopicWeatherUpdated, p.onWeatherUpdated, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	p.subs = append(p.subs, wxSub)

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

func (p *Panel) onWeatherUpdated(ctx context.Context, ev any) error {
	wx, ok := ev.(events.WeatherUpdated)
	if !ok {
		return nil
	}

	p.mu.Lock()
	p.last = wx
	p.hasData = wx.Valid
	active := p.active
	p.mu.Unlock()

	p.log.Debug("weather updated: %.1f°C valid=%v", wx.Temperature, wx.Valid)
	if active {
		p.render(ctx)
	}
	return nil
}

func (p *Panel) onActivated(ctx context.Context, ev any) error {
	act, ok := ev.(events.PanelActivated)
	if !ok || act.ID != events.PanelWeather {
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
	interval := p.interval
	p.wg.Add(1)
	p.mu.Unlock()

	p.render(ctx)

	go p.refreshLoop(done, interval)
	return nil
}

func (p *Panel) onDeactivated(ctx context.Context, ev any) error {
	deact, ok := ev.(events.PanelDeactivated)
	if !ok || deact.ID != events.PanelWeather {
		return nil
	}
	p.deactivate()
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

func (p *Panel) refreshLoop(done <-chan struct{}, interval time.Duration) {
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

func (p *Panel) render(ctx context.Context) {
	p.mu.Lock()
	wx := p.last
	hasData := p.hasData
	p.mu.Unlock()

	if !hasData {
		p.log.Warn("no weather data, requesting skip")
		if err := p.bus.Publish(ctx, events.PanelSkipRequested{ID: events.PanelWeather}); err != nil {
			p.log.Error("skip publish failed: %v", err)
		}
		return
	}

	text := formatTemperature(wx.Temperature)
	sc := scene.Scene{
		Elements: []scene.Element{
			scene.NewText(text, font.NameDotmatrix),
		},
		FallbackText: text,
	}
	if err := p.bus.Publish(ctx, events.RenderScene{Scene: sc}); err != nil {
		p.log.Error("render publish failed: %v", err)
	}
}

// formatTemperature rounds to the nearest degree and appends the
// degree glyph and unit as raw bytes, matching the roof font's
// single-byte encoding.
func formatTemperature(celsius float64) string {
	rounded := int(celsius + 0.5)
	b := []byte(strconv.Itoa(rounded))
	b = append(b, degreeSign, 'C')
	return string(b)
}
