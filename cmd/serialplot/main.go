package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/luhtfiimanal/serialplot"
	"github.com/luhtfiimanal/serialplot/chart"
	"github.com/luhtfiimanal/serialplot/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	device := flag.String("device", "", "serial device path, skips auto-detection")
	mode := flag.String("mode", "", "plot mode: batch or live")
	bufferSize := flag.Int("buffer-size", 0, "readings of each kind per batch figure")
	outputDir := flag.String("output-dir", "", "also write every figure as PNG into this directory")
	background := flag.Bool("background", false, "live mode: read the device on a worker goroutine")
	flag.Parse()

	cfg, err := loadConfig(*configPath, overrides{
		device:     *device,
		mode:       *mode,
		bufferSize: *bufferSize,
		outputDir:  *outputDir,
		background: *background,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

// overrides holds the command line flags that take precedence over the file.
type overrides struct {
	device     string
	mode       string
	bufferSize int
	outputDir  string
	background bool
}

// loadConfig reads the file, applies the flag overrides and validates once,
// so a flag can make an otherwise invalid file usable.
func loadConfig(path string, o overrides) (*config.Config, error) {
	loader := config.NewLoader(path)
	cfg, err := loader.Read()
	if err != nil {
		return nil, err
	}
	if o.device != "" {
		cfg.Serial.Device = o.device
	}
	if o.mode != "" {
		cfg.Plot.Mode = o.mode
	}
	if o.bufferSize != 0 {
		cfg.Plot.BufferSize = o.bufferSize
	}
	if o.outputDir != "" {
		cfg.Plot.OutputDir = o.outputDir
	}
	if o.background {
		cfg.Plot.Background = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.NewValidationError(path, err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(f)
	}
	return logger, nil
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	device := cfg.Serial.Device
	if device == "" {
		sel := serialplot.NewSelector(cfg.Serial.DeviceMarker)
		sel.Logger = logger
		var err error
		if device, err = sel.Select(); err != nil {
			return err
		}
	}

	reader, err := serialplot.Open(serialplot.Config{
		Device:    device,
		BaudRate:  cfg.Serial.BaudRate,
		Delimiter: cfg.Serial.Delimiter,
	})
	if err != nil {
		return err
	}
	defer reader.Close()
	logger.WithField("device", device).Info("serial port open")

	mode, _ := serialplot.ModeFromString(cfg.Plot.Mode)
	parseErrors, _ := serialplot.ParsePolicyFromString(cfg.Parse.OnError)
	opts := chart.Options{
		Title:  device,
		Width:  cfg.Plot.Width,
		Height: cfg.Plot.Height,
	}

	var renderers []chart.Renderer
	var win *chart.Live
	if cfg.Plot.Display == config.DisplayTerminal {
		if mode == serialplot.Live {
			opts.AltScreen = true
			win = chart.NewLive(opts)
			renderers = append(renderers, win)
		} else {
			opts.XTicks = cfg.Plot.BufferSize
			renderers = append(renderers, chart.NewWindow(opts))
		}
	}
	if cfg.Plot.OutputDir != "" {
		pngOpts := chart.PNGOptions{Dir: cfg.Plot.OutputDir, Overwrite: mode == serialplot.Live}
		if mode == serialplot.Batch {
			pngOpts.XTicks = cfg.Plot.BufferSize
		}
		png, err := chart.NewPNG(pngOpts)
		if err != nil {
			return err
		}
		renderers = append(renderers, png)
	}

	dcfg := serialplot.DriverConfig{
		Reader:      reader,
		Renderer:    chart.Multi(renderers...),
		Mode:        mode,
		BufferSize:  cfg.Plot.BufferSize,
		ParseErrors: parseErrors,
		Logger:      logger,
	}
	if win != nil {
		dcfg.Banner = win.SetStatus
	}
	d, err := serialplot.NewDriver(dcfg)
	if err != nil {
		return err
	}

	if win == nil {
		return d.Run(context.Background())
	}
	if cfg.Plot.Background {
		return runBackground(d, win, logger)
	}
	return runLive(d, win, reader, logger)
}

// runLive drives the loop on the main goroutine; closing the window ends it.
func runLive(d *serialplot.Driver, win *chart.Live, reader *serialplot.SerialReader, logger *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := win.Run(); err != nil {
			logger.WithError(err).Error("live chart stopped")
		}
		cancel()
		reader.Close()
	}()

	err := d.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	win.Close()
	<-win.Done()
	return err
}

// runBackground drives the loop on a worker while the main goroutine runs the
// window's event loop.
func runBackground(d *serialplot.Driver, win *chart.Live, logger *logrus.Logger) error {
	w := serialplot.Start(context.Background(), d)
	go func() {
		<-w.Done()
		win.Close()
	}()

	if err := win.Run(); err != nil {
		logger.WithError(err).Error("live chart stopped")
	}
	return w.Stop()
}
