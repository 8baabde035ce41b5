package serialplot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultBufferSize is the number of readings of each kind shown per batch figure.
const DefaultBufferSize = 20

// LineReader is the source of decoded text lines. *SerialReader implements it.
type LineReader interface {
	ReadLine() (string, error)
}

// Renderer draws the temperature and pressure series. Each call receives
// fresh copies of both series.
type Renderer interface {
	Render(temperature, pressure []float64) error
}

// Mode selects the buffering and redraw policy of the driver loop.
type Mode int

const (
	// Batch collects BufferSize readings of each kind, renders them once and
	// starts over with empty series.
	Batch Mode = iota
	// Live keeps every reading and redraws after each accepted sample.
	Live
)

func (m Mode) String() string {
	switch m {
	case Batch:
		return "batch"
	case Live:
		return "live"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFromString maps the config spelling onto a Mode.
func ModeFromString(s string) (Mode, bool) {
	switch s {
	case "", "batch":
		return Batch, true
	case "live":
		return Live, true
	default:
		return Batch, false
	}
}

// State is the driver loop state.
type State int32

const (
	Filling State = iota
	Displaying
)

func (s State) String() string {
	if s == Displaying {
		return "displaying"
	}
	return "filling"
}

// DriverConfig holds configuration for creating a driver loop.
type DriverConfig struct {
	Reader      LineReader
	Renderer    Renderer
	Mode        Mode
	BufferSize  int // batch only, default 20
	ParseErrors ParsePolicy

	// Banner receives the first line read from the device. Defaults to
	// printing it on stdout.
	Banner func(line string)
	Logger logrus.FieldLogger
}

// Driver reads lines, parses samples, accumulates them and hands the series
// to a renderer. All of it happens on the goroutine calling Run.
type Driver struct {
	reader      LineReader
	renderer    Renderer
	mode        Mode
	bufferSize  int
	parseErrors ParsePolicy
	banner      func(string)
	log         logrus.FieldLogger

	acc   *Accumulator
	state atomic.Int32
	cycle atomic.Int32
}

// NewDriver creates a driver loop.
func NewDriver(cfg DriverConfig) (*Driver, error) {
	if cfg.Reader == nil {
		return nil, errors.New("driver: line reader is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("driver: renderer is required")
	}
	if cfg.Mode != Batch && cfg.Mode != Live {
		return nil, fmt.Errorf("driver: unsupported mode %v", cfg.Mode)
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BufferSize < 0 {
		return nil, fmt.Errorf("driver: invalid buffer size %d", cfg.BufferSize)
	}
	if cfg.Banner == nil {
		cfg.Banner = func(line string) { fmt.Fprintln(os.Stdout, line) }
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &Driver{
		reader:      cfg.Reader,
		renderer:    cfg.Renderer,
		mode:        cfg.Mode,
		bufferSize:  cfg.BufferSize,
		parseErrors: cfg.ParseErrors,
		banner:      cfg.Banner,
		log:         cfg.Logger.WithField("mode", cfg.Mode.String()),
		acc:         NewAccumulator(),
	}, nil
}

// State returns the current loop state. Safe to call from any goroutine.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Cycles returns how many times the renderer has been invoked. Safe to call
// from any goroutine.
func (d *Driver) Cycles() int {
	return int(d.cycle.Load())
}

// Accumulator exposes the series being filled.
func (d *Driver) Accumulator() *Accumulator {
	return d.acc
}

// Run prints the device banner and then processes lines until a read fails,
// a fatal error occurs or ctx is cancelled. It never returns nil.
//
// Cancellation is observed between lines; a ReadLine blocked on a silent
// device only returns once the reader is closed (see Worker.Stop).
func (d *Driver) Run(ctx context.Context) error {
	banner, err := d.reader.ReadLine()
	if err != nil {
		return d.readError(ctx, err)
	}
	d.banner(banner)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := d.reader.ReadLine()
		if err != nil {
			return d.readError(ctx, err)
		}
		if err := d.Process(line); err != nil {
			return err
		}
	}
}

func (d *Driver) readError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) || errors.Is(err, ErrClosed) {
		return err
	}
	return &IOError{Op: "read", Err: err}
}

// Process handles one decoded line: parse, accumulate and render when the
// mode's policy says so.
func (d *Driver) Process(line string) error {
	s, ok, err := ParseLine(line)
	if err != nil {
		if d.parseErrors == ParseDrop {
			d.log.WithError(err).Warn("dropping malformed reading")
			return nil
		}
		return err
	}
	if !ok {
		d.log.WithField("line", line).Debug("ignoring line without reading")
		return nil
	}

	d.acc.Add(s)
	d.log.WithFields(logrus.Fields{
		"kind":            s.Kind.String(),
		"reading":         s.String(),
		"temperature_len": d.acc.Len(Temperature),
		"pressure_len":    d.acc.Len(Pressure),
	}).Debug("sample accepted")

	switch d.mode {
	case Live:
		d.redraw()
	default:
		if d.acc.Full(d.bufferSize) {
			return d.display()
		}
	}
	return nil
}

// display renders a full batch and blocks until the renderer returns, then
// clears both series.
func (d *Driver) display() error {
	d.state.Store(int32(Displaying))
	cycle := int(d.cycle.Add(1))
	d.log.WithFields(logrus.Fields{
		"cycle":           cycle,
		"state":           Displaying.String(),
		"temperature_len": d.acc.Len(Temperature),
		"pressure_len":    d.acc.Len(Pressure),
	}).Info("buffer full, displaying")

	err := d.renderer.Render(d.acc.Temperature(), d.acc.Pressure())
	d.acc.Reset()
	d.state.Store(int32(Filling))
	if err != nil {
		return &RenderError{Cycle: cycle, Err: err}
	}
	return nil
}

// redraw renders the whole history. Failures are logged and the loop goes on.
func (d *Driver) redraw() {
	cycle := int(d.cycle.Add(1))
	if err := d.renderer.Render(d.acc.Temperature(), d.acc.Pressure()); err != nil {
		d.log.WithError(&RenderError{Cycle: cycle, Err: err}).Error("redraw failed")
	}
}
