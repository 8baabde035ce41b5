package chart

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestFigure_BothPanels(t *testing.T) {
	out := Figure([]float64{21.5, 21.75, 22}, []float64{1013.25, 1013.5}, Options{Title: "/dev/ttyACM0", Width: 30, Height: 5})

	require.Contains(t, out, "/dev/ttyACM0")
	require.Contains(t, out, "Temperature (3 samples)")
	require.Contains(t, out, "Pressure (2 samples)")
	require.Contains(t, out, "1013.50", "absolute axis labels")
	require.Contains(t, out, "sample: 0 .. 2")
	require.Less(t, strings.Index(out, "Temperature"), strings.Index(out, "Pressure"))
}

func TestFigure_EmptySeries(t *testing.T) {
	out := Figure(nil, []float64{1000}, Options{})

	require.Contains(t, out, "Temperature")
	require.Contains(t, out, "(no readings yet)")
	require.Contains(t, out, "Pressure (1 samples)")

	out = Figure(nil, nil, Options{})
	require.Contains(t, out, "sample: none")
}

func TestFigure_FixedTicks(t *testing.T) {
	out := Figure([]float64{1, 2}, []float64{3, 4}, Options{XTicks: 20})
	require.Contains(t, out, "sample: 0 .. 20")
}

func TestFigure_NonFiniteReadings(t *testing.T) {
	inf, nan := math.Inf(1), math.NaN()
	temps := []float64{inf, 21.5, math.Inf(-1), 22, nan}
	press := []float64{1013.25, nan, 1013.5, inf}

	var out string
	require.NotPanics(t, func() {
		out = Figure(temps, press, Options{Width: 30, Height: 5})
	})
	require.Contains(t, out, "Temperature (5 samples)")
	require.Contains(t, out, "Pressure (4 samples)")
	require.Contains(t, out, "22.00")
	require.NotContains(t, out, "Inf")
	require.NotContains(t, out, "NaN")
	require.Contains(t, out, "sample: 0 .. 4")
}

func TestFigure_OnlyNonFiniteReadings(t *testing.T) {
	var out string
	require.NotPanics(t, func() {
		out = Figure([]float64{math.Inf(1)}, []float64{math.NaN(), math.Inf(-1)}, Options{})
	})
	require.Contains(t, out, "Temperature (1 samples)")
	require.Contains(t, out, "Pressure (2 samples)")
	require.Equal(t, 2, strings.Count(out, "(no finite readings)"))
}

func TestGaps(t *testing.T) {
	data := []float64{1, math.Inf(1), math.NaN(), math.Inf(-1), 2}
	out, finite := gaps(data)

	require.Equal(t, 2, finite)
	require.Len(t, out, len(data))
	require.Equal(t, 1.0, out[0])
	require.True(t, math.IsNaN(out[1]))
	require.True(t, math.IsNaN(out[2]))
	require.True(t, math.IsNaN(out[3]))
	require.Equal(t, 2.0, out[4])
	require.True(t, math.IsInf(data[1], 1), "input left untouched")
}

func TestFit(t *testing.T) {
	o := fit(Options{}, 120, 40)
	require.Equal(t, 100, o.Width)
	require.Equal(t, 14, o.Height)

	o = fit(Options{Width: 50, Height: 8}, 120, 40)
	require.Equal(t, 50, o.Width)
	require.Equal(t, 8, o.Height)

	o = fit(Options{}, 0, 0)
	require.Zero(t, o.Width)
	require.Zero(t, o.Height)
}

func TestFigureModel_Keys(t *testing.T) {
	m := figureModel{temperature: []float64{1}, pressure: []float64{2}}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Nil(t, cmd)
	require.False(t, next.(figureModel).interrupted)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.True(t, next.(figureModel).interrupted)
}

func TestFigureModel_ResizesToTerminal(t *testing.T) {
	m := figureModel{temperature: []float64{1, 2, 3}, pressure: []float64{4, 5, 6}}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	fm := next.(figureModel)
	require.Equal(t, 80, fm.termWidth)
	require.Contains(t, fm.View(), "q/esc/enter: close")
}

func TestLiveModel_ReplacesSeries(t *testing.T) {
	var m tea.Model = liveModel{}
	require.Contains(t, m.View(), "waiting for device")

	m, _ = m.Update(statusMsg("BMP280 ready"))
	m, _ = m.Update(seriesMsg{temperature: []float64{21}, pressure: nil})
	m, _ = m.Update(seriesMsg{temperature: []float64{21, 22}, pressure: []float64{1000}})

	lm := m.(liveModel)
	require.Equal(t, []float64{21, 22}, lm.temperature)
	require.Equal(t, []float64{1000}, lm.pressure)
	require.Equal(t, 2, lm.updates)

	view := lm.View()
	require.Contains(t, view, "BMP280 ready")
	require.Contains(t, view, "Temperature (2 samples)")
	require.Contains(t, view, "updates: 2")

	_, cmd := lm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestLive_RenderAfterCloseFails(t *testing.T) {
	l := NewLive(Options{})
	close(l.done)

	require.ErrorIs(t, l.Render([]float64{1}, nil), ErrClosed)
	l.SetStatus("ignored")
}

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) Render(temperature, pressure []float64) error {
	s.calls++
	return s.err
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b, c := &stubRenderer{}, &stubRenderer{err: boom}, &stubRenderer{}

	err := Multi(a, b, c).Render([]float64{1}, []float64{2})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, a.calls)
	require.Equal(t, 1, b.calls)
	require.Equal(t, 1, c.calls)

	require.NoError(t, Multi().Render(nil, nil))
}
