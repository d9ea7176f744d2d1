// Package panel owns panel navigation: the ordered registry of
// registered panels, which one is active, and the inactivity policy
// that returns the display to the default panel.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
)

// MaxPanels caps the registry size.
const MaxPanels = 8

// DefaultTickInterval is the inactivity tick period.
const DefaultTickInterval = time.Second

// Registry errors.
var (
	ErrRegistryFull = errors.New("panel: registry is full")
	ErrNoPanels     = errors.New("panel: no panels registered")
)

// Info describes a registrable panel.
type Info struct {
	ID   events.PanelID
	Name string
}

// Config configures the Manager.
type Config struct {
	// Default is the panel the display falls back to.
	Default events.PanelID

	// IdleTimeout is how many ticks of inactivity trigger the return to
	// the default panel. Zero or negative disables the fallback.
	IdleTimeout int

	// TickInterval overrides the 1s inactivity tick, for tests.
	TickInterval time.Duration

	// Logger for navigation diagnostics. Nil discards.
	Logger *logging.Logger
}

// Manager is the panel lifecycle state machine. Taps advance
// cyclically through the registration order; the idle tick counts
// seconds since the last activation and falls back to the default
// panel on timeout. All registry mutation happens under one mutex: tap
// events arrive from the bus worker while the tick arrives from the
// ticker goroutine. Activation events are published after the lock is
// released — subscribers render synchronously on the publishing stack
// and must not be able to deadlock against the registry.
type Manager struct {
	bus event.Bus
	cfg Config
	log *logging.Logger

	mu      sync.Mutex
	panels  []Info
	active  int
	hasAct  bool
	idleCnt int

	tapSub event.Subscription
	cfgSub event.Subscription
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewManager creates a Manager. Panels register afterwards; Start
// begins tap handling and the inactivity tick.
func NewManager(bus event.Bus, cfg Config) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null
	}
	return &Manager{
		bus: bus,
		cfg: cfg,
		log: log.WithComponent("panel"),
	}
}

// Register adds a panel to the registry. Registering an id twice is a
// no-op; a full registry returns ErrRegistryFull. If the panel is the
// configured default and nothing is active yet, it activates
// immediately.
func (m *Manager) Register(p Info) error {
	m.mu.Lock()
	for _, existing := range m.panels {
		if existing.ID == p.ID {
			m.mu.Unlock()
			m.log.Warn("panel %s already registered", p.ID)
			return nil
		}
	}
	if len(m.panels) >= MaxPanels {
		m.mu.Unlock()
		return ErrRegistryFull
	}

	m.panels = append(m.panels, p)
	m.log.Info("registered panel %s (%s)", p.ID, p.Name)

	var pending []any
	if p.ID == m.cfg.Default && !m.hasAct {
		m.active = len(m.panels) - 1
		m.hasAct = true
		m.idleCnt = 0
		pending = append(pending, events.PanelActivated{ID: p.ID})
	}
	m.mu.Unlock()

	m.publish(pending)
	return nil
}

// Active returns the currently active panel id, or the configured
// default when the registry is empty.
func (m *Manager) Active() events.PanelID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.panels) == 0 {
		return m.cfg.Default
	}
	return m.panels[m.active].ID
}

// Start subscribes to tap and config events and begins the
// inactivity tick.
func (m *Manager) Start() error {
	sub, err := m.bus.SubscribeFunc(events.TopicInputTap, m.onTap, event.WithPriority(event.PriorityCritical))
	if err != nil {
		return err
	}
	m.tapSub = sub

	cfgSub, err := m.bus.SubscribeFunc(events.TopicPanelsConfigChanged, m.onPanelsConfig, event.WithPriority(event.PriorityCritical))
	if err != nil {
		return err
	}
	m.cfgSub = cfgSub

	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.tickLoop()

	m.log.Info("started (default %s, idle timeout %d ticks)", m.cfg.Default, m.cfg.IdleTimeout)
	return nil
}

// Stop ends tap handling and the tick loop.
func (m *Manager) Stop() {
	m.once.Do(func() {
		if m.tapSub != nil {
			m.bus.Unsubscribe(m.tapSub)
		}
		if m.cfgSub != nil {
			m.bus.Unsubscribe(m.cfgSub)
		}
		if m.done != nil {
			close(m.done)
		}
	})
	m.wg.Wait()
}

func (m *Manager) tickLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Tick()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) onTap(ctx context.Context, ev any) error {
	return m.Advance()
}

func (m *Manager) onPanelsConfig(ctx context.Context, ev any) error {
	changed, ok := ev.(events.PanelsConfigChanged)
	if !ok {
		return nil
	}
	m.mu.Lock()
	m.cfg.Default = changed.Default
	m.cfg.IdleTimeout = changed.IdleTimeout
	m.idleCnt = 0
	m.mu.Unlock()
	m.log.Info("navigation config changed (default %s, idle timeout %d)", changed.Default, changed.IdleTimeout)
	return nil
}

// Advance deactivates the current panel and activates the next one in
// registration order, wrapping around.
func (m *Manager) Advance() error {
	m.mu.Lock()
	if len(m.panels) == 0 {
		m.mu.Unlock()
		m.log.Warn("tap with no panels registered")
		return ErrNoPanels
	}

	prev := m.panels[m.active].ID
	m.active = (m.active + 1) % len(m.panels)
	m.hasAct = true
	m.idleCnt = 0
	next := m.panels[m.active].ID
	m.mu.Unlock()

	m.publish([]any{
		events.PanelDeactivated{ID: prev},
		events.PanelActivated{ID: next},
	})
	return nil
}

// Tick advances the inactivity counter. When it reaches the
// configured timeout it performs at most one transition back to the
// default panel and resets, so the fallback does not repeat every
// subsequent tick.
func (m *Manager) Tick() {
	m.mu.Lock()

	if m.cfg.IdleTimeout <= 0 {
		m.mu.Unlock()
		return
	}

	m.idleCnt++
	if m.idleCnt < m.cfg.IdleTimeout {
		m.mu.Unlock()
		return
	}
	m.idleCnt = 0

	if len(m.panels) == 0 {
		m.mu.Unlock()
		return
	}

	current := m.panels[m.active].ID
	if current == m.cfg.Default {
		m.mu.Unlock()
		return
	}

	var pending []any
	for i, p := range m.panels {
		if p.ID == m.cfg.Default {
			m.log.Info("inactivity timeout, returning to %s", m.cfg.Default)
			m.active = i
			pending = []any{
				events.PanelDeactivated{ID: current},
				events.PanelActivated{ID: p.ID},
			}
			break
		}
	}
	// Default not registered: stay where we are.
	m.mu.Unlock()

	m.publish(pending)
}

func (m *Manager) publish(evs []any) {
	for _, ev := range evs {
		if err := m.bus.Publish(context.Background(), ev); err != nil {
			m.log.Error("publish %T: %v", ev, err)
		}
	}
}
