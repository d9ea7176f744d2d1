package touch

import (
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
)

// edgeWaitSlice bounds a single WaitForEdge call so the watch
// goroutine notices shutdown promptly.
const edgeWaitSlice = 250 * time.Millisecond

// Sensor drives a Classifier from a Line and publishes gestures on
// the bus.
//
// Two goroutines cooperate: the watcher blocks on the line's edge
// detection and does nothing but post to a single-slot channel — the
// software analog of an interrupt handler, O(1) and non-blocking. The
// runner owns the classifier and the one-shot timer, samples the line,
// and publishes through the bus's deferred queue so a slow subscriber
// can never back up into the sampling path.
type Sensor struct {
	line Line
	bus  event.Bus
	log  *logging.Logger

	classifier *Classifier
	threshold  time.Duration
	now        func() time.Time

	edges chan struct{}
	stop  chan struct{}
	wg    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// SensorConfig configures a Sensor.
type SensorConfig struct {
	// Debounce is the edge debounce window. Zero means DefaultDebounce.
	Debounce time.Duration

	// LongPress is how long a press must last to become a long press.
	// Zero means LongPressThreshold.
	LongPress time.Duration

	// Logger for sensor diagnostics. Nil discards.
	Logger *logging.Logger
}

// NewSensor creates a sensor reading the given line.
func NewSensor(bus event.Bus, line Line, cfg SensorConfig) *Sensor {
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	threshold := cfg.LongPress
	if threshold <= 0 {
		threshold = LongPressThreshold
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}
	return &Sensor{
		line:       line,
		bus:        bus,
		log:        log.WithComponent("touch"),
		classifier: NewClassifier(debounce),
		threshold:  threshold,
		now:        time.Now,
		edges:      make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
}

// Start launches the watch and classification goroutines.
func (s *Sensor) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(2)
		go s.watch()
		go s.run()
		s.log.Info("started")
	})
}

// Stop halts the line and waits for both goroutines to exit.
func (s *Sensor) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		_ = s.line.Halt()
	})
	s.wg.Wait()
}

// watch posts edge notifications. A full slot means the runner has not
// consumed the previous edge yet; collapsing bursts is fine because
// the runner re-samples the level anyway.
func (s *Sensor) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		if s.line.WaitForEdge(edgeWaitSlice) {
			select {
			case s.edges <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Sensor) run() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	applyOp := func(op TimerOp) {
		switch op {
		case TimerKeep:
		case TimerStop:
			if armed && !timer.Stop() {
				<-timer.C
			}
			armed = false
		case TimerArmThreshold, TimerArmPoll:
			if armed && !timer.Stop() {
				<-timer.C
			}
			d := s.threshold
			if op == TimerArmPoll {
				d = PollPeriod
			}
			timer.Reset(d)
			armed = true
		}
	}

	for {
		select {
		case <-s.stop:
			return

		case <-s.edges:
			g, op := s.classifier.Edge(s.line.Level(), s.now())
			applyOp(op)
			s.emit(g)

		case <-timer.C:
			armed = false
			g, op := s.classifier.TimerFired(s.line.Level(), s.now())
			applyOp(op)
			s.emit(g)
		}
	}
}

func (s *Sensor) emit(g Gesture) {
	var ev any
	now := s.now()
	switch g {
	case GestureTap:
		ev = events.InputTap{Timestamp: now}
	case GestureLongPressStart:
		ev = events.InputLongPressStart{Timestamp: now}
	case GestureLongPressEnd:
		ev = events.InputLongPressEnd{Timestamp: now}
	default:
		return
	}

	if err := s.bus.Defer(ev); err != nil {
		s.log.Warn("dropped %s: %v", g, err)
		return
	}
	s.log.Debug("gesture %s", g)
}
