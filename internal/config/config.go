// Package config loads and watches the appliance configuration file.
// The file is TOML; a missing file is not an error, every field has a
// usable default, and edits while running are diffed against the
// loaded state and announced on the bus.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/render/compose"
)

// Driver names accepted by [display].driver.
const (
	DriverMAX7219 = "max7219"
	DriverConsole = "console"
	DriverNull    = "null"
)

// Clock configures the time panel.
type Clock struct {
	// Format is "24h" or "12h".
	Format string `toml:"format"`

	// BlinkSeparator makes the colon blink with the seconds.
	BlinkSeparator bool `toml:"blink_separator"`
}

// Display configures the output device.
type Display struct {
	// Driver selects the output backend: max7219, console or null.
	Driver string `toml:"driver"`

	// Brightness is the initial intensity, 0-15.
	Brightness int `toml:"brightness"`

	// Cascade is the number of daisy-chained 8x8 modules.
	Cascade int `toml:"cascade"`

	// SPIPort names the SPI port for the max7219 driver. Empty opens
	// the first available port.
	SPIPort string `toml:"spi_port"`
}

// Touch configures the touch input line.
type Touch struct {
	// Pin names the GPIO line, e.g. "GPIO4".
	Pin string `toml:"pin"`

	// ActiveHigh is true when a touch drives the line high.
	ActiveHigh bool `toml:"active_high"`

	// DebounceMs is the contact debounce window in milliseconds.
	DebounceMs int `toml:"debounce_ms"`

	// LongPressMs is how long a press must last, in milliseconds,
	// before it counts as a long press.
	LongPressMs int `toml:"long_press_ms"`
}

// Panels configures navigation.
type Panels struct {
	// Default is the panel shown on boot and after the idle timeout.
	Default string `toml:"default"`

	// IdleTimeoutS is the seconds of inactivity before returning to
	// the default panel. Zero disables the fallback.
	IdleTimeoutS int `toml:"idle_timeout_s"`
}

// Config is the full appliance configuration.
type Config struct {
	Clock   Clock   `toml:"clock"`
	Display Display `toml:"display"`
	Touch   Touch   `toml:"touch"`
	Panels  Panels  `toml:"panels"`

	// Language is the calendar language tag ("en", "es").
	Language string `toml:"language"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clock: Clock{
			Format:         "24h",
			BlinkSeparator: true,
		},
		Display: Display{
			Driver:     DriverMAX7219,
			Brightness: 9,
			Cascade:    4,
		},
		Touch: Touch{
			Pin:         "GPIO4",
			ActiveHigh:  true,
			DebounceMs:  50,
			LongPressMs: 200,
		},
		Panels: Panels{
			Default:      "clock",
			IdleTimeoutS: 30,
		},
		Language: "en",
		LogLevel: "info",
	}
}

// ValidationError reports an invalid field by its TOML path.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if c.Clock.Format != "24h" && c.Clock.Format != "12h" {
		return &ValidationError{Field: "clock.format", Message: fmt.Sprintf("unknown format %q", c.Clock.Format)}
	}
	switch c.Display.Driver {
	case DriverMAX7219, DriverConsole, DriverNull:
	default:
		return &ValidationError{Field: "display.driver", Message: fmt.Sprintf("unknown driver %q", c.Display.Driver)}
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 15 {
		return &ValidationError{Field: "display.brightness", Message: "must be between 0 and 15"}
	}
	if c.Display.Cascade < 1 || c.Display.Cascade > compose.FrameBlocks {
		return &ValidationError{Field: "display.cascade", Message: fmt.Sprintf("must be between 1 and %d", compose.FrameBlocks)}
	}
	if c.Touch.DebounceMs < 0 {
		return &ValidationError{Field: "touch.debounce_ms", Message: "must not be negative"}
	}
	if c.Touch.LongPressMs < 1 {
		return &ValidationError{Field: "touch.long_press_ms", Message: "must be at least 1"}
	}
	if _, err := c.DefaultPanel(); err != nil {
		return err
	}
	if c.Panels.IdleTimeoutS < 0 {
		return &ValidationError{Field: "panels.idle_timeout_s", Message: "must not be negative"}
	}
	switch c.Language {
	case "en", "es":
	default:
		return &ValidationError{Field: "language", Message: fmt.Sprintf("unknown language %q", c.Language)}
	}
	return nil
}

// TimeFormat converts the clock.format string.
func (c *Config) TimeFormat() events.TimeFormat {
	if c.Clock.Format == "12h" {
		return events.TimeFormat12H
	}
	return events.TimeFormat24H
}

// DefaultPanel converts the panels.default string.
func (c *Config) DefaultPanel() (events.PanelID, error) {
	switch c.Panels.Default {
	case "clock":
		return events.PanelClock, nil
	case "date":
		return events.PanelDate, nil
	case "weather":
		return events.PanelWeather, nil
	default:
		return 0, &ValidationError{Field: "panels.default", Message: fmt.Sprintf("unknown panel %q", c.Panels.Default)}
	}
}

// Load reads the config file at path, layered over the defaults. A
// missing file returns the defaults unchanged; a malformed or invalid
// file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
