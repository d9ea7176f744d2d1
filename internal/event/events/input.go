// Package events defines the typed payloads published on the bus,
// one file per producing subsystem. Every payload names its own topic,
// so a subscriber can type-assert without guessing.
package events

import (
	"time"

	"github.com/dleon/timemachine/internal/event/topic"
)

// Input event topics.
const (
	// TopicInputTap is published when a short touch is classified.
	TopicInputTap topic.Topic = "input.tap"

	// TopicInputLongPressStart is published when a touch is held past
	// the long-press threshold.
	TopicInputLongPressStart topic.Topic = "input.longpress.start"

	// TopicInputLongPressEnd is published when a long press is released.
	TopicInputLongPressEnd topic.Topic = "input.longpress.end"
)

// InputTap is published when a short touch is classified.
type InputTap struct {
	// Timestamp is when the release edge was accepted.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (InputTap) EventTopic() topic.Topic { return TopicInputTap }

// InputLongPressStart is published when the long-press threshold elapses
// with the touch still held.
type InputLongPressStart struct {
	// Timestamp is when the threshold timer fired.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (InputLongPressStart) EventTopic() topic.Topic { return TopicInputLongPressStart }

// InputLongPressEnd is published when a long press is released.
type InputLongPressEnd struct {
	// Timestamp is when the release was observed.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (InputLongPressEnd) EventTopic() topic.Topic { return TopicInputLongPressEnd }
