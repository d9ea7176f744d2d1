package events

import (
	"github.com/dleon/timemachine/internal/event/topic"
	"github.com/dleon/timemachine/internal/render/scene"
)

// Render and brightness event topics.
const (
	// TopicRenderScene is published by the active panel to put a scene
	// on the display.
	TopicRenderScene topic.Topic = "render.scene"

	// TopicBrightnessChanged is published when the brightness listener
	// selects a new level.
	TopicBrightnessChanged topic.Topic = "brightness.changed"
)

// RenderScene carries a scene to the display adapter.
type RenderScene struct {
	// Scene is the composition to draw.
	Scene scene.Scene
}

// EventTopic implements event.TopicProvider.
func (RenderScene) EventTopic() topic.Topic { return TopicRenderScene }

// BrightnessChanged carries a new display intensity level.
type BrightnessChanged struct {
	// Level is the intensity in the device range [0, 15].
	Level int
}

// EventTopic implements event.TopicProvider.
func (BrightnessChanged) EventTopic() topic.Topic { return TopicBrightnessChanged }
