package events

import "github.com/dleon/timemachine/internal/event/topic"

// Configuration change topics, published by the config watcher when a
// reloaded file differs from the running configuration.
const (
	// TopicClockConfigChanged is published when the clock section changes.
	TopicClockConfigChanged topic.Topic = "config.clock.changed"

	// TopicLanguageChanged is published when the language setting changes.
	TopicLanguageChanged topic.Topic = "config.language.changed"

	// TopicPanelsConfigChanged is published when the panels section changes.
	TopicPanelsConfigChanged topic.Topic = "config.panels.changed"
)

// TimeFormat selects 12 or 24 hour clock rendering.
type TimeFormat int

const (
	// TimeFormat24H renders hours 0-23.
	TimeFormat24H TimeFormat = iota

	// TimeFormat12H renders hours 1-12.
	TimeFormat12H
)

// String returns the format name.
func (f TimeFormat) String() string {
	if f == TimeFormat12H {
		return "12h"
	}
	return "24h"
}

// ClockConfigChanged carries the new clock settings.
type ClockConfigChanged struct {
	// Format is the new hour format.
	Format TimeFormat

	// ShowSeconds controls the blinking separator.
	ShowSeconds bool
}

// EventTopic implements event.TopicProvider.
func (ClockConfigChanged) EventTopic() topic.Topic { return TopicClockConfigChanged }

// LanguageChanged carries the new language tag ("en", "es").
type LanguageChanged struct {
	// Language is the new language tag.
	Language string
}

// EventTopic implements event.TopicProvider.
func (LanguageChanged) EventTopic() topic.Topic { return TopicLanguageChanged }

// PanelsConfigChanged carries new navigation settings.
type PanelsConfigChanged struct {
	// Default is the panel to fall back to on idle timeout.
	Default PanelID

	// IdleTimeout is the inactivity timeout in seconds.
	IdleTimeout int
}

// EventTopic implements event.TopicProvider.
func (PanelsConfigChanged) EventTopic() topic.Topic { return TopicPanelsConfigChanged }
