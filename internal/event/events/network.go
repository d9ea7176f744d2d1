package events

import (
	"time"

	"github.com/dleon/timemachine/internal/event/topic"
)

// Network and time-sync event topics. These are produced by collaborators
// outside the core (connectivity manager, NTP client); the core only
// consumes them.
const (
	// TopicNetworkConnecting is published when a connection attempt starts.
	TopicNetworkConnecting topic.Topic = "network.connecting"

	// TopicNetworkConnected is published when the network comes up.
	TopicNetworkConnected topic.Topic = "network.connected"

	// TopicNetworkFailed is published when a connection attempt gives up.
	TopicNetworkFailed topic.Topic = "network.failed"

	// TopicTimeSynced is published after a successful wall-clock sync.
	TopicTimeSynced topic.Topic = "time.synced"

	// TopicWeatherUpdated is published when the weather provider has
	// fresh data.
	TopicWeatherUpdated topic.Topic = "weather.updated"
)

// NetworkConnecting is published when a connection attempt starts.
type NetworkConnecting struct{}

// EventTopic implements event.TopicProvider.
func (NetworkConnecting) EventTopic() topic.Topic { return TopicNetworkConnecting }

// NetworkConnected is published when the network comes up.
type NetworkConnected struct{}

// EventTopic implements event.TopicProvider.
func (NetworkConnected) EventTopic() topic.Topic { return TopicNetworkConnected }

// NetworkFailed is published when a connection attempt gives up.
type NetworkFailed struct {
	// Reason describes the failure, for logging only.
	Reason string
}

// EventTopic implements event.TopicProvider.
func (NetworkFailed) EventTopic() topic.Topic { return TopicNetworkFailed }

// TimeSynced is published after a successful wall-clock sync.
type TimeSynced struct {
	// Success is false when the sync attempt timed out.
	Success bool

	// Timestamp is when the sync completed.
	Timestamp time.Time
}

// EventTopic implements event.TopicProvider.
func (TimeSynced) EventTopic() topic.Topic { return TopicTimeSynced }

// WeatherUpdated carries fresh provider data for the weather panel.
type WeatherUpdated struct {
	// Temperature is in degrees Celsius.
	Temperature float64

	// Valid is false when the provider has no usable reading.
	Valid bool

	// FetchedAt is when the reading was taken.
	FetchedAt time.Time
}

// EventTopic implements event.TopicProvider.
func (WeatherUpdated) EventTopic() topic.Topic { return TopicWeatherUpdated }
