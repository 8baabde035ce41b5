package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestNewPNG_RequiresDir(t *testing.T) {
	_, err := NewPNG(PNGOptions{})
	require.Error(t, err)
}

func TestPNG_NumberedFigures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	p, err := NewPNG(PNGOptions{Dir: dir, Width: 4 * vg.Inch, Height: 3 * vg.Inch, XTicks: 20})
	require.NoError(t, err)
	require.Empty(t, p.LastPath())

	temps := []float64{21.5, 21.6, 21.8, 21.7}
	press := []float64{1013.2, 1013.3, 1013.1, 1013.25}
	require.NoError(t, p.Render(temps, press))
	require.NoError(t, p.Render(temps[:2], press))

	require.FileExists(t, filepath.Join(dir, "figure-0001.png"))
	require.FileExists(t, filepath.Join(dir, "figure-0002.png"))
	require.Equal(t, filepath.Join(dir, "figure-0002.png"), p.LastPath())

	data, err := os.ReadFile(p.LastPath())
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Greater(t, cfg.Width, 0)
	require.Greater(t, cfg.Height, cfg.Width/2)
}

func TestPNG_Overwrite(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPNG(PNGOptions{Dir: dir, Overwrite: true})
	require.NoError(t, err)

	require.NoError(t, p.Render([]float64{21}, nil))
	require.NoError(t, p.Render([]float64{21, 22}, []float64{1000}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Join(dir, "figure.png"), p.LastPath())
}

func TestLinePlot_SharedRange(t *testing.T) {
	top, err := linePlot(TemperatureTitle, []float64{1, 2, 3, 4, 5}, 5, 0)
	require.NoError(t, err)
	bottom, err := linePlot(PressureTitle, []float64{1, 2}, 5, 0)
	require.NoError(t, err)

	require.Equal(t, top.X.Min, bottom.X.Min)
	require.Equal(t, top.X.Max, bottom.X.Max)
	require.Equal(t, 4.0, bottom.X.Max)

	ticked, err := linePlot(TemperatureTitle, []float64{1}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 20.0, ticked.X.Max)
	require.Len(t, ticked.X.Tick.Marker.Ticks(0, 20), 21)
}

func TestPNG_NonFiniteReadings(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPNG(PNGOptions{Dir: dir})
	require.NoError(t, err)

	temps := []float64{21.5, math.Inf(1), 21.7, math.NaN(), 21.9, 22}
	press := []float64{math.NaN(), math.Inf(-1)}
	require.NoError(t, p.Render(temps, press))
	require.FileExists(t, filepath.Join(dir, "figure-0001.png"))
}

func TestSegments(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()

	got := segments([]float64{nan, 1, 2, inf, 3, math.Inf(-1), nan, 4, 5})
	require.Len(t, got, 3)
	require.Equal(t, 1.0, got[0][0].X)
	require.Equal(t, 2.0, got[0][1].X)
	require.Equal(t, 2.0, got[0][1].Y)
	require.Len(t, got[1], 1)
	require.Equal(t, 4.0, got[1][0].X)
	require.Equal(t, 7.0, got[2][0].X)
	require.Equal(t, 5.0, got[2][1].Y)

	require.Empty(t, segments([]float64{nan, inf}))
	require.Len(t, segments([]float64{1, 2, 3}), 1)
}

func TestLinePlot_NonFinite(t *testing.T) {
	p, err := linePlot(PressureTitle, []float64{1000, math.NaN(), 1001, math.Inf(1)}, 4, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, p.X.Max)
}
