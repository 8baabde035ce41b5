package chart

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Live is a persistent terminal chart window. Run drives its event loop on
// the calling goroutine while Render, called from the driver goroutine,
// replaces the plotted series wholesale.
type Live struct {
	program *tea.Program
	done    chan struct{}
	runOnce sync.Once
}

// NewLive returns a live chart window. Nothing is drawn until Run is called.
func NewLive(opts Options) *Live {
	return &Live{
		program: tea.NewProgram(liveModel{opts: opts}, programOptions(opts)...),
		done:    make(chan struct{}),
	}
}

// Run processes UI events until the window is closed with q or ctrl+c, or
// Close is called.
func (l *Live) Run() error {
	err := ErrClosed
	l.runOnce.Do(func() {
		defer close(l.done)
		_, err = l.program.Run()
		if err != nil {
			err = fmt.Errorf("live chart: %w", err)
		}
	})
	return err
}

// Done is closed once the window's event loop has ended.
func (l *Live) Done() <-chan struct{} {
	return l.done
}

// Render hands the full series to the window. It blocks only until the event
// loop has picked up the update, never on a repaint or a viewer.
func (l *Live) Render(temperature, pressure []float64) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	l.program.Send(seriesMsg{temperature: temperature, pressure: pressure})
	return nil
}

// SetStatus shows line under the window title, e.g. the device banner.
func (l *Live) SetStatus(line string) {
	select {
	case <-l.done:
	default:
		l.program.Send(statusMsg(line))
	}
}

// Close ends the event loop.
func (l *Live) Close() {
	l.program.Quit()
}

type seriesMsg struct {
	temperature []float64
	pressure    []float64
}

type statusMsg string

type liveModel struct {
	opts        Options
	temperature []float64
	pressure    []float64
	status      string
	updates     int

	termWidth, termHeight int
}

func (m liveModel) Init() tea.Cmd {
	return nil
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case seriesMsg:
		m.temperature, m.pressure = msg.temperature, msg.pressure
		m.updates++
	case statusMsg:
		m.status = string(msg)
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m liveModel) View() string {
	o := fit(m.opts, m.termWidth, m.termHeight)
	status := m.status
	if status == "" {
		status = "waiting for device"
	}
	return hintStyle.Render(status) + "\n" +
		Figure(m.temperature, m.pressure, o) + "\n" +
		hintStyle.Render(fmt.Sprintf("updates: %d  q: quit", m.updates)) + "\n"
}
