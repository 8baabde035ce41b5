package config

import (
	"fmt"
	"slices"
)

type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Plot   PlotConfig   `yaml:"plot"`
	Parse  ParseConfig  `yaml:"parse"`
	Log    LogConfig    `yaml:"log"`
}

type SerialConfig struct {
	// Device skips auto-detection when set.
	Device       string `yaml:"device"`
	DeviceMarker string `yaml:"device_marker"`
	BaudRate     int    `yaml:"baud_rate"`
	Delimiter    string `yaml:"delimiter"`
}

type PlotConfig struct {
	Mode       string `yaml:"mode"`
	BufferSize int    `yaml:"buffer_size"`
	Display    string `yaml:"display"`
	OutputDir  string `yaml:"output_dir"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`

	// Background runs the driver loop on a worker goroutine while the main
	// goroutine runs the live window.
	Background bool `yaml:"background"`
}

type ParseConfig struct {
	OnError string `yaml:"on_error"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

const (
	DefaultDeviceMarker = "STMicroelectronics STLink Virtual COM Port"
	DefaultBaudRate     = 115200
	DefaultDelimiter    = "\n"
	DefaultMode         = ModeBatch
	DefaultBufferSize   = 20
	DefaultDisplay      = DisplayTerminal
	DefaultOnError      = OnErrorFatal
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

const (
	ModeBatch = "batch"
	ModeLive  = "live"

	DisplayTerminal = "terminal"
	DisplayNone     = "none"

	OnErrorFatal = "fatal"
	OnErrorDrop  = "drop"
)

var (
	supportedBaudRates = []int{9600, 19200, 38400, 57600, 115200, 230400}
	logLevels          = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
)

func NewConfig() *Config {
	return &Config{}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := NewConfig()
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Serial.DeviceMarker == "" {
		c.Serial.DeviceMarker = DefaultDeviceMarker
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = DefaultBaudRate
	}
	if c.Serial.Delimiter == "" {
		c.Serial.Delimiter = DefaultDelimiter
	}
	if c.Plot.Mode == "" {
		c.Plot.Mode = DefaultMode
	}
	if c.Plot.BufferSize == 0 {
		c.Plot.BufferSize = DefaultBufferSize
	}
	if c.Plot.Display == "" {
		c.Plot.Display = DefaultDisplay
	}
	if c.Parse.OnError == "" {
		c.Parse.OnError = DefaultOnError
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(supportedBaudRates, c.Serial.BaudRate) {
		return fmt.Errorf("serial: unsupported baud_rate %d", c.Serial.BaudRate)
	}
	if c.Plot.Mode != ModeBatch && c.Plot.Mode != ModeLive {
		return fmt.Errorf("plot: mode must be %q or %q, got %q", ModeBatch, ModeLive, c.Plot.Mode)
	}
	if c.Plot.BufferSize <= 0 {
		return fmt.Errorf("plot: buffer_size must be positive, got %d", c.Plot.BufferSize)
	}
	if c.Plot.Display != DisplayTerminal && c.Plot.Display != DisplayNone {
		return fmt.Errorf("plot: display must be %q or %q, got %q", DisplayTerminal, DisplayNone, c.Plot.Display)
	}
	if c.Plot.Display == DisplayNone && c.Plot.OutputDir == "" {
		return fmt.Errorf("plot: display %q needs an output_dir", DisplayNone)
	}
	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return fmt.Errorf("plot: width and height must not be negative")
	}
	if c.Plot.Background && c.Plot.Mode != ModeLive {
		return fmt.Errorf("plot: background requires mode %q", ModeLive)
	}
	if c.Parse.OnError != OnErrorFatal && c.Parse.OnError != OnErrorDrop {
		return fmt.Errorf("parse: on_error must be %q or %q, got %q", OnErrorFatal, OnErrorDrop, c.Parse.OnError)
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log: unknown level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log: format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}
