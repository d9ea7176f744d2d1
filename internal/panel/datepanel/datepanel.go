// Package datepanel renders the calendar panel: the three-letter month
// name in the roof font next to the day of the month. The date never
// changes while the user is looking at it, so it renders once per
// activation with no timer.
package datepanel

import (
	"context"
	"strconv"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/i18n"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
	"github.com/dleon/timemachine/internal/timesync"
)

// Panel is the date panel.
type Panel struct {
	bus   event.Bus
	clock timesync.Source
	names *i18n.Translator
	log   *logging.Logger

	sub event.Subscription
}

// New creates the date panel.
func New(bus event.Bus, clock timesync.Source, names *i18n.Translator, log *logging.Logger) *Panel {
	if log == nil {
		log = logging.Null
	}
	return &Panel{
		bus:   bus,
		clock: clock,
		names: names,
		log:   log.WithComponent("datepanel"),
	}
}

// ID returns the panel identity.
func (p *Panel) ID() events.PanelID { return events.PanelDate }

// Start subscribes to activation.
func (p *Panel) Start() error {
	sub, err := p.bus.SubscribeFunc(events.TopicPanelActivated, p.onActivated, event.WithPriority(event.PriorityHigh))
	if err != nil {
		return err
	}
	p.sub = sub
	return nil
}

// Stop removes the activation subscription.
func (p *Panel) Stop() {
	if p.sub != nil {
		p.bus.Unsubscribe(p.sub)
		p.sub = nil
	}
}

func (p *Panel) onActivated(ctx context.Context, ev any) error {
	act, ok := ev.(events.PanelActivated)
	if !ok || act.ID != events.PanelDate {
		return nil
	}

	// An unset clock means an unknown date; ask navigation to move on.
	if !p.clock.Synced() {
		p.log.Warn("clock not synced, requesting skip")
		return p.bus.Publish(ctx, events.PanelSkipRequested{ID: events.PanelDate})
	}

	now := p.clock.Now()
	month := p.names.MonthName(now.Month())
	day := strconv.Itoa(now.Day())

	sc := scene.Scene{
		Elements: []scene.Element{
			scene.NewText(month, font.NameDotmatrix),
			scene.NewText(day, font.NameDefault),
		},
		FallbackText: month + " " + day,
	}
	return p.bus.Publish(ctx, events.RenderScene{Scene: sc})
}
