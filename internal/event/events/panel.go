package events

import "github.com/dleon/timemachine/internal/event/topic"

// Panel event topics.
const (
	// TopicPanelActivated is published when a panel becomes active.
	TopicPanelActivated topic.Topic = "panel.activated"

	// TopicPanelDeactivated is published when a panel stops being active.
	TopicPanelDeactivated topic.Topic = "panel.deactivated"

	// TopicPanelSkipRequested is published by a panel renderer that has
	// no data to show. Navigation does not react; the last rendered
	// frame stays on the display.
	TopicPanelSkipRequested topic.Topic = "panel.skip.requested"
)

// PanelID identifies a registrable panel.
type PanelID int

// The panels known to the appliance, in registration order.
const (
	PanelClock PanelID = iota
	PanelDate
	PanelWeather
)

// String returns the panel name.
func (id PanelID) String() string {
	switch id {
	case PanelClock:
		return "clock"
	case PanelDate:
		return "date"
	case PanelWeather:
		return "weather"
	default:
		return "unknown"
	}
}

// PanelActivated is published when a panel becomes active.
type PanelActivated struct {
	// ID is the panel that was activated.
	ID PanelID
}

// EventTopic implements event.TopicProvider.
func (PanelActivated) EventTopic() topic.Topic { return TopicPanelActivated }

// PanelDeactivated is published when a panel stops being active.
type PanelDeactivated struct {
	// ID is the panel that was deactivated.
	ID PanelID
}

// EventTopic implements event.TopicProvider.
func (PanelDeactivated) EventTopic() topic.Topic { return TopicPanelDeactivated }

// PanelSkipRequested is published by a panel renderer with nothing to show.
type PanelSkipRequested struct {
	// ID is the panel asking to be skipped.
	ID PanelID
}

// EventTopic implements event.TopicProvider.
func (PanelSkipRequested) EventTopic() topic.Topic { return TopicPanelSkipRequested }
