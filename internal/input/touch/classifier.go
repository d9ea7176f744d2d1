// Package touch turns the raw contact signal of a capacitive touch
// pad into discrete gestures: Tap, LongPressStart, LongPressEnd.
//
// The package splits into a pure state machine (Classifier) and the
// goroutine that feeds it (Sensor). The classifier owns all timing
// decisions but no timers: callers report edges and timer expiries,
// and the classifier answers with the gesture to emit and the timer
// action to take. That keeps every transition table-testable with
// synthetic clocks.
package touch

import "time"

// Timing defaults, matching the TTP223 sensor the appliance ships with.
const (
	// DefaultDebounce is the window after an accepted edge during which
	// further edges of either polarity are discarded as switch bounce.
	DefaultDebounce = 50 * time.Millisecond

	// LongPressThreshold is how long the pad must stay pressed before a
	// press becomes a long press.
	LongPressThreshold = 200 * time.Millisecond

	// PollPeriod is the sampling interval while a long press is active,
	// watching for the release the edge interrupt may have missed.
	PollPeriod = 50 * time.Millisecond
)

// Gesture is a classified touch event.
type Gesture int

const (
	// GestureNone means the input produced no gesture.
	GestureNone Gesture = iota

	// GestureTap is a press released before the long-press threshold.
	GestureTap

	// GestureLongPressStart fires when a press crosses the threshold.
	GestureLongPressStart

	// GestureLongPressEnd fires when a long press is released.
	GestureLongPressEnd
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureTap:
		return "tap"
	case GestureLongPressStart:
		return "longpress-start"
	case GestureLongPressEnd:
		return "longpress-end"
	default:
		return "unknown"
	}
}

// TimerOp tells the caller what to do with its one-shot timer after a
// transition.
type TimerOp int

const (
	// TimerKeep leaves the timer as it is.
	TimerKeep TimerOp = iota

	// TimerArmThreshold arms the timer for LongPressThreshold.
	TimerArmThreshold

	// TimerArmPoll arms the timer for PollPeriod.
	TimerArmPoll

	// TimerStop cancels the timer.
	TimerStop
)

// Classifier is the gesture state machine. It is not safe for
// concurrent use; the Sensor serializes all calls.
//
// States: idle, pressed (timer armed for the threshold), long press
// (timer polling for release). Debounce is measured from the last
// accepted edge of either polarity, so a bouncing release cannot
// immediately re-trigger a press.
type Classifier struct {
	debounce time.Duration

	lastEdge  time.Time
	hasEdge   bool
	pressed   bool
	longPress bool
}

// NewClassifier creates a classifier with the given debounce window.
// A non-positive debounce disables debouncing.
func NewClassifier(debounce time.Duration) *Classifier {
	return &Classifier{debounce: debounce}
}

// Edge reports a contact edge: pressed is the signal level after the
// edge, now the sample time. Bounced edges are absorbed silently.
func (c *Classifier) Edge(pressed bool, now time.Time) (Gesture, TimerOp) {
	if c.hasEdge && c.debounce > 0 && now.Sub(c.lastEdge) < c.debounce {
		return GestureNone, TimerKeep
	}
	c.lastEdge = now
	c.hasEdge = true

	switch {
	case pressed && !c.pressed:
		c.pressed = true
		c.longPress = false
		return GestureNone, TimerArmThreshold

	case !pressed && c.pressed:
		c.pressed = false
		if c.longPress {
			c.longPress = false
			return GestureLongPressEnd, TimerStop
		}
		return GestureTap, TimerStop
	}
	// Same level as before: a bounce that slipped past the window.
	return GestureNone, TimerKeep
}

// TimerFired reports expiry of the armed timer together with the raw
// signal level at that moment.
func (c *Classifier) TimerFired(pressed bool, now time.Time) (Gesture, TimerOp) {
	if !pressed {
		// Released without the edge being seen (or the release edge was
		// debounced away). Resolve the press now.
		switch {
		case c.longPress:
			c.pressed = false
			c.longPress = false
			return GestureLongPressEnd, TimerStop
		case c.pressed:
			c.pressed = false
			return GestureTap, TimerStop
		}
		return GestureNone, TimerStop
	}

	if !c.pressed {
		// Spurious expiry after the state already resolved.
		return GestureNone, TimerStop
	}

	if !c.longPress {
		c.longPress = true
		return GestureLongPressStart, TimerArmPoll
	}
	// Still held: keep polling for the release.
	return GestureNone, TimerArmPoll
}

// Pressed reports whether the classifier currently considers the pad
// pressed.
func (c *Classifier) Pressed() bool { return c.pressed }

// InLongPress reports whether a long press is active.
func (c *Classifier) InLongPress() bool { return c.longPress }
