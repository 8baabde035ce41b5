package chart

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Window shows each rendered figure in the terminal and blocks until the
// viewer dismisses it.
type Window struct {
	opts Options
}

// NewWindow returns a blocking terminal chart window.
func NewWindow(opts Options) *Window {
	return &Window{opts: opts}
}

// Render displays both series and returns once the figure is closed with
// q, esc or enter. Ctrl+c closes it with ErrInterrupted.
func (w *Window) Render(temperature, pressure []float64) error {
	m := figureModel{
		opts:        w.opts,
		temperature: temperature,
		pressure:    pressure,
	}
	final, err := tea.NewProgram(m, programOptions(w.opts)...).Run()
	if err != nil {
		return fmt.Errorf("chart window: %w", err)
	}
	if fm, ok := final.(figureModel); ok && fm.interrupted {
		return ErrInterrupted
	}
	return nil
}

func programOptions(o Options) []tea.ProgramOption {
	var opts []tea.ProgramOption
	if o.Input != nil {
		opts = append(opts, tea.WithInput(o.Input))
	}
	if o.Output != nil {
		opts = append(opts, tea.WithOutput(o.Output))
	}
	if o.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return opts
}

type figureModel struct {
	opts        Options
	temperature []float64
	pressure    []float64

	termWidth, termHeight int
	interrupted           bool
}

func (m figureModel) Init() tea.Cmd {
	return nil
}

func (m figureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter":
			return m, tea.Quit
		case "ctrl+c":
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m figureModel) View() string {
	o := fit(m.opts, m.termWidth, m.termHeight)
	return Figure(m.temperature, m.pressure, o) + "\n" + hintStyle.Render("q/esc/enter: close") + "\n"
}
