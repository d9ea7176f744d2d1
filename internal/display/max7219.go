package display

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/dleon/timemachine/internal/render/compose"
)

// MAX7219 register map. The controller has no RAM addressing; every
// write is a (register, data) pair shifted through the cascade.
const (
	regNoOp        = 0x00
	regDigit0      = 0x01 // digits 0-7 occupy 0x01-0x08
	regDecodeMode  = 0x09
	regIntensity   = 0x0A
	regScanLimit   = 0x0B
	regShutdown    = 0x0C
	regDisplayTest = 0x0F
)

// DefaultCascade is the number of chained MAX7219 modules making up
// the 32x8 matrix.
const DefaultCascade = 4

// txConn is the slice of spi.Conn the driver needs. Tests substitute a
// recording fake.
type txConn interface {
	Tx(w, r []byte) error
}

// MAX7219Config configures the hardware driver.
type MAX7219Config struct {
	// Port is the SPI port name for spireg.Open. Empty selects the
	// first available port.
	Port string

	// Cascade is the number of chained modules. Zero means DefaultCascade.
	Cascade int

	// Brightness is the initial intensity, 0-15.
	Brightness int
}

// MAX7219 drives the cascaded LED modules over SPI.
type MAX7219 struct {
	cfg  MAX7219Config
	port spi.PortCloser
	conn txConn
}

// NewMAX7219 creates the driver. The SPI port is not opened until Init.
// The cascade is clamped to the blocks a frame actually carries, so a
// misdeclared chain length cannot push Render past the frame.
func NewMAX7219(cfg MAX7219Config) *MAX7219 {
	if cfg.Cascade <= 0 {
		cfg.Cascade = DefaultCascade
	}
	if cfg.Cascade > compose.FrameBlocks {
		cfg.Cascade = compose.FrameBlocks
	}
	return &MAX7219{cfg: cfg}
}

func (d *MAX7219) Name() string { return "max7219" }

// Init opens the SPI port and brings every module out of shutdown.
func (d *MAX7219) Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("display: host init: %w", err)
	}

	port, err := spireg.Open(d.cfg.Port)
	if err != nil {
		return fmt.Errorf("display: open spi port %q: %w", d.cfg.Port, err)
	}

	conn, err := port.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return fmt.Errorf("display: connect spi: %w", err)
	}

	d.port = port
	d.conn = conn
	return d.setup()
}

// setup runs the power-on register sequence on an established
// connection.
func (d *MAX7219) setup() error {
	seq := []struct {
		reg, data byte
	}{
		{regDisplayTest, 0x00},
		{regScanLimit, 0x07},  // drive all 8 rows
		{regDecodeMode, 0x00}, // raw pixels, no BCD decoding
		{regShutdown, 0x01},   // normal operation
		{regIntensity, byte(clampBrightness(d.cfg.Brightness))},
	}
	for _, s := range seq {
		if err := d.writeAll(s.reg, s.data); err != nil {
			return err
		}
	}
	return d.Clear()
}

// writeAll sends the same (register, data) pair to every module in the
// cascade.
func (d *MAX7219) writeAll(reg, data byte) error {
	buf := make([]byte, 0, d.cfg.Cascade*2)
	for i := 0; i < d.cfg.Cascade; i++ {
		buf = append(buf, reg, data)
	}
	return d.tx(buf)
}

// writeRow sends one digit register with per-module data. row[s] is
// the byte for transmission slot s.
func (d *MAX7219) writeRow(reg byte, row []byte) error {
	buf := make([]byte, 0, d.cfg.Cascade*2)
	for s := 0; s < d.cfg.Cascade; s++ {
		buf = append(buf, reg, row[s])
	}
	return d.tx(buf)
}

func (d *MAX7219) tx(w []byte) error {
	if d.conn == nil {
		return fmt.Errorf("display: max7219 not initialized")
	}
	if err := d.conn.Tx(w, nil); err != nil {
		return fmt.Errorf("display: spi tx: %w", err)
	}
	return nil
}

// Render rotates each 8x8 block into the wire's row layout and streams
// the digit registers. Blocks go out in reverse logical order so the
// leftmost block ends up in the module at the far end of the chain.
func (d *MAX7219) Render(f compose.Frame) error {
	rotated := make([][8]byte, d.cfg.Cascade)
	for slot := 0; slot < d.cfg.Cascade; slot++ {
		rotated[slot] = Rotate8x8(f.Block(WireBlockOrder(slot, d.cfg.Cascade)))
	}

	row := make([]byte, d.cfg.Cascade)
	for digit := 0; digit < 8; digit++ {
		for slot := 0; slot < d.cfg.Cascade; slot++ {
			row[slot] = rotated[slot][digit]
		}
		if err := d.writeRow(byte(regDigit0+digit), row); err != nil {
			return err
		}
	}
	return nil
}

// SetBrightness sets the intensity register on every module.
func (d *MAX7219) SetBrightness(level int) error {
	return d.writeAll(regIntensity, byte(clampBrightness(level)))
}

// Clear blanks all digit registers.
func (d *MAX7219) Clear() error {
	for digit := 0; digit < 8; digit++ {
		if err := d.writeAll(byte(regDigit0+digit), 0x00); err != nil {
			return err
		}
	}
	return nil
}

// Close blanks the display, puts the modules into shutdown, and
// releases the SPI port.
func (d *MAX7219) Close() error {
	if d.conn != nil {
		_ = d.Clear()
		_ = d.writeAll(regShutdown, 0x00)
	}
	if d.port != nil {
		err := d.port.Close()
		d.port = nil
		d.conn = nil
		return err
	}
	return nil
}
