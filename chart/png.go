package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PNGOptions controls the figure files written by PNG.
type PNGOptions struct {
	// Dir receives the figures. It is created if missing.
	Dir string
	// Overwrite writes every figure to the same file instead of numbering them.
	Overwrite bool
	// Width and Height of the whole two-panel figure.
	Width  vg.Length
	Height vg.Length
	// XTicks, when positive, places a tick at every sample index 0..XTicks.
	XTicks int
}

// PNG writes each rendered figure as a two-panel PNG file.
type PNG struct {
	opts PNGOptions

	mu sync.Mutex
	n  int
}

// NewPNG returns a figure writer for opts.Dir.
func NewPNG(opts PNGOptions) (*PNG, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("png: output directory is required")
	}
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 6 * vg.Inch
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("png: create %s: %w", opts.Dir, err)
	}
	return &PNG{opts: opts}, nil
}

// Render writes the figure and returns once the file is closed.
func (p *PNG) Render(temperature, pressure []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := "figure.png"
	if !p.opts.Overwrite {
		p.n++
		name = fmt.Sprintf("figure-%04d.png", p.n)
	}
	return p.write(filepath.Join(p.opts.Dir, name), temperature, pressure)
}

// LastPath returns the path of the most recent figure.
func (p *PNG) LastPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.Overwrite {
		return filepath.Join(p.opts.Dir, "figure.png")
	}
	if p.n == 0 {
		return ""
	}
	return filepath.Join(p.opts.Dir, fmt.Sprintf("figure-%04d.png", p.n))
}

func (p *PNG) write(path string, temperature, pressure []float64) error {
	n := max(len(temperature), len(pressure))
	top, err := linePlot(TemperatureTitle, temperature, n, p.opts.XTicks)
	if err != nil {
		return err
	}
	bottom, err := linePlot(PressureTitle, pressure, n, p.opts.XTicks)
	if err != nil {
		return err
	}
	bottom.X.Label.Text = "Sample"

	img := vgimg.New(p.opts.Width, p.opts.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      2 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	plots := [][]*plot.Plot{{top}, {bottom}}
	canvases := plot.Align(plots, tiles, dc)
	top.Draw(canvases[0][0])
	bottom.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("png: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("png: close %s: %w", path, err)
	}
	return nil
}

// linePlot draws one series against its sample index. The vertical axis uses
// absolute tick labels and both panels share the horizontal range 0..n-1.
func linePlot(title string, data []float64, n, xticks int) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = title
	p.Add(plotter.NewGrid())

	p.X.Min = 0
	p.X.Max = float64(max(n-1, 1))
	if xticks > 0 {
		p.X.Max = max(p.X.Max, float64(xticks))
		ticks := make([]plot.Tick, 0, xticks+1)
		for i := 0; i <= xticks; i++ {
			ticks = append(ticks, plot.Tick{Value: float64(i), Label: strconv.Itoa(i)})
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	if len(data) == 0 {
		return p, nil
	}
	for _, xys := range segments(data) {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("png: %s series: %w", title, err)
		}
		p.Add(line)
	}
	return p, nil
}

// segments splits data into runs of finite values indexed by sample number.
// NaN and ±Inf readings end a run and are not drawn.
func segments(data []float64) []plotter.XYs {
	var (
		out []plotter.XYs
		cur plotter.XYs
	)
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(i), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
