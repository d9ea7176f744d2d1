// Package app wires the appliance together: configuration, the event
// bus, the display pipeline, touch input, navigation and the panels.
// It owns startup order, the run loop and idempotent shutdown.
package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dleon/timemachine/internal/brightness"
	"github.com/dleon/timemachine/internal/config"
	"github.com/dleon/timemachine/internal/display"
	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/i18n"
	"github.com/dleon/timemachine/internal/input/touch"
	"github.com/dleon/timemachine/internal/logging"
	"github.com/dleon/timemachine/internal/netanim"
	"github.com/dleon/timemachine/internal/panel"
	"github.com/dleon/timemachine/internal/panel/clockpanel"
	"github.com/dleon/timemachine/internal/panel/datepanel"
	"github.com/dleon/timemachine/internal/panel/weatherpanel"
	"github.com/dleon/timemachine/internal/timesync"
)

// tapPulse is the simulated touch duration for a console-mode tap:
// longer than the default debounce window, well short of a long press.
const tapPulse = 80 * time.Millisecond

// shutdownTimeout bounds the bus drain during shutdown.
const shutdownTimeout = 2 * time.Second

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML configuration file.
	ConfigPath string

	// Driver overrides the configured display driver.
	Driver string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput overrides the log destination. Nil means stderr.
	LogOutput io.Writer
}

// Application is the central coordinator for all appliance components.
type Application struct {
	opts Options
	cfg  config.Config
	log  *logging.Logger

	bus     event.Bus
	watcher *config.Watcher

	driver  display.Driver
	console *display.Console
	adapter *display.Adapter

	line    touch.Line
	simLine *touch.SimLine
	sensor  *touch.Sensor

	clock      timesync.Source
	translator *i18n.Translator

	manager      *panel.Manager
	clockPanel   *clockpanel.Panel
	datePanel    *datepanel.Panel
	weatherPanel *weatherpanel.Panel

	animator   *netanim.Animator
	brightness *brightness.Controller
	skipSub    event.Subscription

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New creates an Application and initializes every component in
// dependency order. A failed New leaves nothing running.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// Config returns the loaded configuration.
func (app *Application) Config() config.Config { return app.cfg }

// Bus returns the event bus, for collaborators that publish external
// events (network, time sync, weather).
func (app *Application) Bus() event.Bus { return app.bus }

func (app *Application) bootstrap() error {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.Driver != "" {
		cfg.Display.Driver = app.opts.Driver
	}
	if app.opts.LogLevel != "" {
		cfg.LogLevel = app.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	if app.opts.LogOutput != nil {
		logCfg.Output = app.opts.LogOutput
	}
	app.log = logging.New(logCfg)

	app.bus = event.NewBus()
	if err := app.bus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}

	if err := app.initDisplay(); err != nil {
		return err
	}
	if err := app.initInput(); err != nil {
		return err
	}
	if err := app.initPanels(); err != nil {
		return err
	}
	if err := app.initListeners(); err != nil {
		return err
	}

	if app.opts.ConfigPath != "" {
		app.watcher = config.NewWatcher(app.bus, app.opts.ConfigPath, cfg, app.log)
		if err := app.watcher.Start(); err != nil {
			// Live reload is a convenience; run with the boot config.
			app.log.Warn("config watch unavailable: %v", err)
			app.watcher = nil
		}
	}

	return nil
}

func (app *Application) initDisplay() error {
	switch app.cfg.Display.Driver {
	case config.DriverMAX7219:
		app.driver = display.NewMAX7219(display.MAX7219Config{
			Port:       app.cfg.Display.SPIPort,
			Cascade:    app.cfg.Display.Cascade,
			Brightness: app.cfg.Display.Brightness,
		})
	case config.DriverConsole:
		console, err := display.NewConsole()
		if err != nil {
			return &InitError{Component: "console display", Err: err}
		}
		app.console = console
		app.driver = console
	default:
		app.driver = display.NewNullDriver()
	}

	app.adapter = display.NewAdapter(app.bus, app.driver, app.log)
	if err := app.adapter.Start(); err != nil {
		return &InitError{Component: "display adapter", Err: err}
	}

	// Seed the configured intensity through the same path runtime
	// changes take.
	if err := app.bus.Publish(context.Background(), events.BrightnessChanged{Level: app.cfg.Display.Brightness}); err != nil {
		app.log.Warn("initial brightness publish failed: %v", err)
	}
	return nil
}

func (app *Application) initInput() error {
	if app.cfg.Display.Driver == config.DriverMAX7219 {
		line, err := touch.OpenGPIOLine(app.cfg.Touch.Pin, app.cfg.Touch.ActiveHigh)
		if err != nil {
			return &InitError{Component: "touch line", Err: err}
		}
		app.line = line
	} else {
		// No pad off-device; the run loop feeds this from the keyboard.
		app.simLine = touch.NewSimLine()
		app.line = app.simLine
	}

	app.sensor = touch.NewSensor(app.bus, app.line, touch.SensorConfig{
		Debounce:  time.Duration(app.cfg.Touch.DebounceMs) * time.Millisecond,
		LongPress: time.Duration(app.cfg.Touch.LongPressMs) * time.Millisecond,
		Logger:    app.log,
	})
	app.sensor.Start()
	return nil
}

func (app *Application) initPanels() error {
	app.clock = timesync.System()

	app.translator = i18n.NewTranslator(app.bus, app.cfg.Language, app.log)
	if err := app.translator.Start(); err != nil {
		return &InitError{Component: "i18n", Err: err}
	}

	defaultPanel, err := app.cfg.DefaultPanel()
	if err != nil {
		return &InitError{Component: "panel manager", Err: err}
	}
	app.manager = panel.NewManager(app.bus, panel.Config{
		Default:     defaultPanel,
		IdleTimeout: app.cfg.Panels.IdleTimeoutS,
		Logger:      app.log,
	})

	app.clockPanel = clockpanel.New(app.bus, app.clock, app.translator, clockpanel.Config{
		Format:         app.cfg.TimeFormat(),
		BlinkSeparator: app.cfg.Clock.BlinkSeparator,
		Logger:         app.log,
	})
	app.datePanel = datepanel.New(app.bus, app.clock, app.translator, app.log)
	app.weatherPanel = weatherpanel.New(app.bus, weatherpanel.Config{Logger: app.log})

	// Panels subscribe before registration so nobody misses the
	// activation that registering the default panel publishes.
	if err := app.clockPanel.Start(); err != nil {
		return &InitError{Component: "clock panel", Err: err}
	}
	if err := app.datePanel.Start(); err != nil {
		return &InitError{Component: "date panel", Err: err}
	}
	if err := app.weatherPanel.Start(); err != nil {
		return &InitError{Component: "weather panel", Err: err}
	}

	for _, info := range []panel.Info{
		{ID: app.clockPanel.ID(), Name: "clock"},
		{ID: app.datePanel.ID(), Name: "date"},
		{ID: app.weatherPanel.ID(), Name: "weather"},
	} {
		if err := app.manager.Register(info); err != nil {
			return &InitError{Component: "panel manager", Err: err}
		}
	}
	if err := app.manager.Start(); err != nil {
		return &InitError{Component: "panel manager", Err: err}
	}
	return nil
}

func (app *Application) initListeners() error {
	app.animator = netanim.New(app.bus, netanim.Config{Logger: app.log})
	if err := app.animator.Start(); err != nil {
		return &InitError{Component: "network animation", Err: err}
	}

	app.brightness = brightness.New(app.bus, brightness.Config{
		InitialLevel: app.cfg.Display.Brightness,
		Logger:       app.log,
	})
	if err := app.brightness.Start(); err != nil {
		return &InitError{Component: "brightness control", Err: err}
	}

	// Skip requests have no navigation consumer; the last frame stays
	// on screen. Log them so an always-skipping panel is visible.
	skipSub, err := app.bus.SubscribeFunc(events.TopicPanelSkipRequested, app.onPanelSkip, event.WithPriority(event.PriorityLow))
	if err != nil {
		return &InitError{Component: "skip listener", Err: err}
	}
	app.skipSub = skipSub
	return nil
}

func (app *Application) onPanelSkip(ctx context.Context, ev any) error {
	skip, ok := ev.(events.PanelSkipRequested)
	if !ok {
		return nil
	}
	app.log.WithComponent("panel").Info("panel %s requested skip, nothing to show", skip.ID)
	return nil
}

// Run blocks until Shutdown is called. In console mode it also
// services the keyboard, translating keys into simulated touches.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	app.log.Info("running (display %s)", app.driver.Name())

	if app.console != nil {
		return app.runConsole()
	}

	<-app.done
	return nil
}

// runConsole maps keys onto the simulated touch line: 't' is a tap
// pulse, 'h' toggles a hold, 'q' (or Ctrl+C/Esc) quits.
func (app *Application) runConsole() error {
	holding := false
	for {
		select {
		case <-app.done:
			return nil
		case key := <-app.console.Keys():
			switch key {
			case 't':
				go app.tapPulse()
			case 'h':
				holding = !holding
				app.simLine.Set(holding)
			case 'q', 0:
				app.Shutdown()
				return ErrQuit
			}
		}
	}
}

func (app *Application) tapPulse() {
	app.simLine.Set(true)
	time.Sleep(tapPulse)
	app.simLine.Set(false)
}

// Shutdown stops every component in reverse start order. It is safe
// to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() {
		if app.log != nil {
			app.log.Info("shutting down")
		}

		if app.watcher != nil {
			app.watcher.Stop()
		}
		if app.skipSub != nil {
			app.bus.Unsubscribe(app.skipSub)
		}
		if app.brightness != nil {
			app.brightness.Stop()
		}
		if app.animator != nil {
			app.animator.Stop()
		}
		if app.manager != nil {
			app.manager.Stop()
		}
		if app.weatherPanel != nil {
			app.weatherPanel.Stop()
		}
		if app.datePanel != nil {
			app.datePanel.Stop()
		}
		if app.clockPanel != nil {
			app.clockPanel.Stop()
		}
		if app.translator != nil {
			app.translator.Stop()
		}
		if app.sensor != nil {
			app.sensor.Stop()
		}
		if app.line != nil {
			if err := app.line.Halt(); err != nil && app.log != nil {
				app.log.Warn("halting touch line: %v", err)
			}
		}
		if app.adapter != nil {
			app.adapter.Stop()
		}
		if app.bus != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.bus.Stop(ctx); err != nil && app.log != nil {
				app.log.Warn("bus stop: %v", err)
			}
		}

		close(app.done)
		app.running.Store(false)
	})
}
