// Package chart draws the temperature and pressure series as two stacked line
// charts sharing the sample index axis, either in the terminal or as PNG files.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ErrClosed is returned by Render once the chart window has been closed.
var ErrClosed = errors.New("chart window closed")

// ErrInterrupted is returned by a blocking window dismissed with ctrl+c.
var ErrInterrupted = errors.New("chart window interrupted")

// Panel titles, top to bottom.
const (
	TemperatureTitle = "Temperature"
	PressureTitle    = "Pressure"
)

// Renderer draws one update of both series.
type Renderer interface {
	Render(temperature, pressure []float64) error
}

// Options controls the terminal chart windows.
type Options struct {
	// Title is shown above both panels.
	Title string
	// Width and Height of each panel's plot area in cells. Zero picks a size
	// from the terminal.
	Width  int
	Height int
	// XTicks, when positive, fixes the horizontal axis to 0..XTicks.
	XTicks int
	// Precision of the vertical axis labels.
	Precision uint

	// Input and Output default to the process terminal.
	Input  io.Reader
	Output io.Writer
	// AltScreen draws the window on the terminal's alternate screen.
	AltScreen bool
}

const (
	defaultWidth     = 60
	defaultHeight    = 10
	defaultPrecision = 2
)

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "BMP280"
	}
	if o.Precision == 0 {
		o.Precision = defaultPrecision
	}
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	return o
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// fit fills unset panel sizes from the terminal size.
func fit(o Options, termWidth, termHeight int) Options {
	if o.Width <= 0 && termWidth > 0 {
		// border, padding and y axis labels
		o.Width = max(termWidth-20, 10)
	}
	if o.Height <= 0 && termHeight > 0 {
		// two panels with caption and border, title, axis and hint lines
		o.Height = max((termHeight-12)/2, 3)
	}
	return o
}

// Figure draws both series as stacked panels followed by the shared axis line.
func Figure(temperature, pressure []float64, o Options) string {
	o = o.withDefaults()
	n := max(len(temperature), len(pressure))
	if o.XTicks > 0 {
		n = max(n, o.XTicks+1)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(o.Title),
		panelStyle.Render(panel(TemperatureTitle, temperature, n, o)),
		panelStyle.Render(panel(PressureTitle, pressure, n, o)),
		axisLine(n, o.XTicks),
	)
}

func panel(title string, data []float64, n int, o Options) string {
	if len(data) == 0 {
		blank := strings.Repeat("\n", max(o.Height-1, 0))
		return fmt.Sprintf("%s\n%s(no readings yet)", title, blank)
	}
	plotted, finite := gaps(data)
	if finite == 0 {
		blank := strings.Repeat("\n", max(o.Height-1, 0))
		return fmt.Sprintf("%s (%d samples)\n%s(no finite readings)", title, len(data), blank)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(o.Height),
		asciigraph.Precision(o.Precision),
		asciigraph.Caption(fmt.Sprintf("%s (%d samples)", title, len(data))),
	}
	if len(data) > 1 {
		// width proportional to this series' share of the common axis
		w := o.Width
		if n > 1 {
			w = max(2, o.Width*(len(data)-1)/(n-1))
		}
		opts = append(opts, asciigraph.Width(w))
	}
	return asciigraph.Plot(plotted, opts...)
}

// gaps copies data with ±Inf replaced by NaN, which asciigraph leaves blank,
// and counts the finite values.
func gaps(data []float64) ([]float64, int) {
	out := make([]float64, len(data))
	finite := 0
	for i, v := range data {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
		finite++
	}
	return out, finite
}

func axisLine(n, xticks int) string {
	if n == 0 {
		return hintStyle.Render("sample: none")
	}
	if xticks > 0 {
		return hintStyle.Render(fmt.Sprintf("sample: 0 .. %d", xticks))
	}
	return hintStyle.Render(fmt.Sprintf("sample: 0 .. %d", n-1))
}

// Multi returns a renderer that calls each renderer in order and joins their
// errors.
func Multi(renderers ...Renderer) Renderer {
	return multi(renderers)
}

type multi []Renderer

func (m multi) Render(temperature, pressure []float64) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(temperature, pressure); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
