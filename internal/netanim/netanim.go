// Package netanim shows connection progress on the matrix: the word
// "WiFi" next to signal bars that grow from one to three. It runs
// between network.connecting and network.connected/failed, a window in
// which no panel is active and the display would otherwise be blank.
package netanim

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
)

// DefaultFrameInterval is how often the bars advance.
const DefaultFrameInterval = 500 * time.Millisecond

// barFrames are the 8x8 column bitmaps, bit 0 = top pixel. One short
// bar, then short+medium, then all three.
var barFrames = [][]byte{
	{0xC0, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xC0, 0xC0, 0x00, 0xF0, 0xF0, 0x00, 0x00, 0x00},
	{0xC0, 0xC0, 0x00, 0xF0, 0xF0, 0x00, 0xFC, 0xFC},
}

// Config configures the animator.
type Config struct {
	// FrameInterval overrides the 500ms frame advance, for tests.
	FrameInterval time.Duration

	// Logger for diagnostics. Nil discards.
	Logger *logging.Logger
}

// Animator publishes the connecting animation.
type Animator struct {
	bus event.Bus
	log *logging.Logger

	mu       sync.Mutex
	interval time.Duration
	running  bool
	frame    int
	done     chan struct{}
	wg       sync.WaitGroup

	subs []event.Subscription
}

// New creates an Animator. It stays idle until a network.connecting
// event arrives.
func New(bus event.Bus, cfg Config) *Animator {
	interval := cfg.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}
	return &Animator{
		bus:      bus,
		log:      log.WithComponent("netanim"),
		interval: interval,
	}
}

// Start subscribes to the network lifecycle topics.
func (a *Animator) Start() error {
	connSub, err := a.bus.SubscribeFunc(events.TopicNetworkConnecting, a.onConnecting)
	if err != nil {
		return err
	}
	a.subs = append(a.subs, connSub)

	upSub, err := a.bus.SubscribeFunc(events.TopicNetworkConnected, a.onSettled)
	if err != nil {
		return err
	}
	a.subs = append(a.subs, upSub)

	failSub, err := a.bus.SubscribeFunc(events.TopicNetworkFailed, a.onSettled)
	if err != nil {
		return err
	}
	a.subs = append(a.subs, failSub)

	return nil
}

// Stop halts any running animation and removes the subscriptions.
func (a *Animator) Stop() {
	a.stopAnimation()
	for _, s := range a.subs {
		a.bus.Unsubscribe(s)
	}
	a.subs = nil
}

// Running reports whether the animation is playing.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Animator) onConnecting(ctx context.Context, ev any) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = true
	a.frame = 0
	a.done = make(chan struct{})
	done := a.done
	interval := a.interval
	a.wg.Add(1)
	a.mu.Unlock()

	a.log.Info("network connecting, starting animation")
	a.publishFrame(ctx)

	go a.frameLoop(done, interval)
	return nil
}

func (a *Animator) onSettled(ctx context.Context, ev any) error {
	a.log.Info("network settled, stopping animation")
	a.stopAnimation()
	return nil
}

func (a *Animator) stopAnimation() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.frame = 0
	close(a.done)
	a.done = nil
	a.mu.Unlock()
	a.wg.Wait()
}

func (a *Animator) frameLoop(done <-chan struct{}, interval time.Duration) {
	defer a.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			a.publishFrame(context.Background())
		}
	}
}

// publishFrame renders the current frame and advances to the next.
func (a *Animator) publishFrame(ctx context.Context) {
	a.mu.Lock()
	frame := a.frame
	a.frame = (a.frame + 1) % len(barFrames)
	a.mu.Unlock()

	sc := scene.Scene{
		Elements: []scene.Element{
			scene.NewText("WiFi", font.NameDefault),
			scene.NewAnimation(scene.Animation{
				Frames: barFrames,
				Frame:  frame,
				Width:  8,
				Height: 8,
			}),
		},
		FallbackText: "WiFi" + strings.Repeat(".", frame+1),
	}

	if err := a.bus.Publish(ctx, events.RenderScene{Scene: sc}); err != nil {
		a.log.Error("frame publish failed: %v", err)
	}
}
