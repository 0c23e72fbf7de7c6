package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-synthctl/control"
	"go-synthctl/debug"
	"go-synthctl/synth"
	"go-synthctl/theme"
	"go-synthctl/widgets"
)

const frameRate = 30

// Model is the terminal frontend. Terminals report key presses only, so a
// key counts as held while its repeats keep arriving and is released
// holdTimeout after the last one.
type Model struct {
	Controller *control.Controller
	Broker     *synth.Broker
	Theme      *theme.Theme
	Title      string

	hud         *widgets.HUD
	help        help.Model
	keys        globalKeys
	holdTimeout time.Duration

	down map[control.Key]uint64 // key -> generation of its latest press
	gen  uint64

	view     synth.View
	haveView bool
	viewport control.Viewport
	lastX    int
	lastY    int
	tracking bool

	err      error
	quitting bool
}

type frameMsg time.Time

type releaseMsg struct {
	key control.Key
	gen uint64
}

func NewModel(ctrl *control.Controller, broker *synth.Broker, th *theme.Theme, holdTimeout time.Duration) Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Muted())
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(th.Accent())
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(th.FG())
	return Model{
		Controller:  ctrl,
		Broker:      broker,
		Theme:       th,
		Title:       "go-synthctl",
		hud:         widgets.NewHUD(th),
		help:        h,
		keys:        newGlobalKeys(),
		holdTimeout: holdTimeout,
		down:        make(map[control.Key]uint64),
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) holdRelease(k control.Key, gen uint64) tea.Cmd {
	return tea.Tick(m.holdTimeout, func(time.Time) tea.Msg {
		return releaseMsg{key: k, gen: gen}
	})
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		k := KeyName(msg)
		m.gen++
		_, held := m.down[k]
		m.down[k] = m.gen
		tick := m.holdRelease(k, m.gen)
		if held {
			return m, tick
		}
		if err := m.send(m.Controller.Dispatch(control.KeyPress{Key: k})); err != nil {
			return m, tea.Quit
		}
		return m, tick

	case releaseMsg:
		if m.down[msg.key] != msg.gen {
			return m, nil
		}
		delete(m.down, msg.key)
		if err := m.send(m.Controller.Dispatch(control.KeyRelease{Key: msg.key})); err != nil {
			return m, tea.Quit
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionMotion {
			return m, nil
		}
		if err := m.send(m.pointer(msg.X, msg.Y)); err != nil {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// Cell coordinates run 0..size-1.
		m.viewport = control.Viewport{Width: float64(msg.Width - 1), Height: float64(msg.Height - 1)}
		m.help.Width = msg.Width

	case frameMsg:
		select {
		case <-m.Broker.Done():
			m.err = synth.ErrEngineGone
			return m, tea.Quit
		default:
		}
		if v, ok := m.Broker.Poll(); ok {
			m.view, m.haveView = v, true
		}
		return m, frame()
	}

	return m, nil
}

func (m *Model) pointer(x, y int) []synth.Command {
	if m.Controller.Pointer() == control.Absolute {
		return m.Controller.Dispatch(control.PointerMoveAbsolute{X: float64(x), Y: float64(y), Viewport: m.viewport})
	}
	if !m.tracking {
		m.lastX, m.lastY, m.tracking = x, y, true
		return nil
	}
	dx, dy := x-m.lastX, y-m.lastY
	m.lastX, m.lastY = x, y
	if dx == 0 && dy == 0 {
		return nil
	}
	return m.Controller.Dispatch(control.PointerMoveRelative{DX: float64(dx), DY: float64(dy), Viewport: m.viewport})
}

// send delivers cmds to the engine. A failed send is fatal: the caller
// quits and Err reports why.
func (m *Model) send(cmds []synth.Command) error {
	if len(cmds) == 0 {
		return nil
	}
	if err := m.Broker.Send(cmds...); err != nil {
		debug.Log("tui", "send failed: %v", err)
		m.err = err
		return err
	}
	return nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	// Best effort; the engine silences everything when it stops anyway.
	_ = m.Broker.Send(m.Controller.ReleaseAll()...)
	return m, tea.Quit
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	mode := m.Controller.Mode()
	header := headerStyle.Render(fmt.Sprintf("%s  %s", m.Title, mode))

	ctx := newContextKeys(m.Controller.Keymap(), mode.Context(), m.keys)

	var out strings.Builder
	out.WriteString("\n")
	if m.haveView {
		out.WriteString(m.hud.Render(header, m.view))
	} else {
		out.WriteString(header + "\n" + m.hud.Waiting())
	}
	out.WriteString("\n\n")
	out.WriteString(m.help.View(ctx))
	if m.err != nil {
		out.WriteString("\n")
		out.WriteString(errStyle.Render(m.err.Error()))
	}
	return out.String()
}
