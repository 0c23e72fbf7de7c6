package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-synthctl/control"
	"go-synthctl/synth"
	"go-synthctl/theme"
)

func newTestModel(pointer control.Pointer, queue int) Model {
	ctrl := control.New(nil, pointer)
	return NewModel(ctrl, synth.NewBroker(queue), theme.Default(), 100*time.Millisecond)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func drain(b *synth.Broker) []synth.Command {
	var out []synth.Command
	for {
		select {
		case c := <-b.ToEngine:
			out = append(out, c)
		default:
			return out
		}
	}
}

func TestKeyRepeatHoldsNote(t *testing.T) {
	m := newTestModel(control.Absolute, 16)

	m = update(t, m, runeKey('q'))
	first := m.down["q"]
	cmds := drain(m.Broker)
	if len(cmds) != 1 {
		t.Fatalf("first press: got %v, want one NoteOn", cmds)
	}
	if _, ok := cmds[0].(synth.NoteOn); !ok {
		t.Fatalf("first press: got %T, want NoteOn", cmds[0])
	}

	// Terminal autorepeat: no new command, newer generation.
	m = update(t, m, runeKey('q'))
	if got := drain(m.Broker); len(got) != 0 {
		t.Fatalf("repeat: got %v, want nothing", got)
	}

	// The release scheduled by the first press is stale.
	m = update(t, m, releaseMsg{key: "q", gen: first})
	if got := drain(m.Broker); len(got) != 0 {
		t.Fatalf("stale release: got %v, want nothing", got)
	}

	m = update(t, m, releaseMsg{key: "q", gen: m.down["q"]})
	cmds = drain(m.Broker)
	if len(cmds) != 1 {
		t.Fatalf("release: got %v, want one NoteOff", cmds)
	}
	if _, ok := cmds[0].(synth.NoteOff); !ok {
		t.Fatalf("release: got %T, want NoteOff", cmds[0])
	}
	if _, ok := m.down["q"]; ok {
		t.Error("q still marked down")
	}
}

func TestEditingActsOnSyntheticRelease(t *testing.T) {
	m := newTestModel(control.Absolute, 16)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Controller.Mode() != control.Playing {
		t.Fatal("mode changed on press")
	}
	m = update(t, m, releaseMsg{key: "tab", gen: m.down["tab"]})
	if m.Controller.Mode() != control.Menu {
		t.Fatalf("mode = %v, want menu", m.Controller.Mode())
	}
}

func TestQueueFullQuits(t *testing.T) {
	m := newTestModel(control.Absolute, 1)
	m = update(t, m, runeKey('q'))
	next, cmd := m.Update(runeKey('w'))
	m = next.(Model)
	if !errors.Is(m.Err(), synth.ErrQueueFull) {
		t.Fatalf("Err = %v, want ErrQueueFull", m.Err())
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestEngineGoneQuits(t *testing.T) {
	m := newTestModel(control.Absolute, 4)
	m.Broker.Close()
	m = update(t, m, frameMsg(time.Now()))
	if !errors.Is(m.Err(), synth.ErrEngineGone) {
		t.Fatalf("Err = %v, want ErrEngineGone", m.Err())
	}
}

func TestFramePollsView(t *testing.T) {
	m := newTestModel(control.Absolute, 4)
	m.Broker.Publish(synth.View{Seq: 7, PatchSlot: 3})
	m = update(t, m, frameMsg(time.Now()))
	if m.view.Seq != 7 {
		t.Errorf("view.Seq = %d, want 7", m.view.Seq)
	}
	if !strings.Contains(m.View(), "patch 3") {
		t.Error("View does not show the polled patch slot")
	}
}

func TestAbsoluteMouse(t *testing.T) {
	m := newTestModel(control.Absolute, 4)
	m = update(t, m, tea.WindowSizeMsg{Width: 101, Height: 51})
	m = update(t, m, tea.MouseMsg{X: 50, Y: 25, Action: tea.MouseActionMotion})
	cmds := drain(m.Broker)
	if len(cmds) != 1 {
		t.Fatalf("got %v, want one ModulationXY", cmds)
	}
	mod, ok := cmds[0].(synth.ModulationXY)
	if !ok {
		t.Fatalf("got %T", cmds[0])
	}
	if mod.X != 0.5 || mod.Y != 0.5 {
		t.Errorf("modulation = (%v, %v), want (0.5, 0.5)", mod.X, mod.Y)
	}
}

func TestRelativeMouseNeedsTwoEvents(t *testing.T) {
	m := newTestModel(control.Relative, 4)
	m = update(t, m, tea.WindowSizeMsg{Width: 101, Height: 51})
	m = update(t, m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionMotion})
	if got := drain(m.Broker); len(got) != 0 {
		t.Fatalf("first motion: got %v, want nothing", got)
	}
	m = update(t, m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion})
	if got := drain(m.Broker); len(got) != 1 {
		t.Fatalf("second motion: got %v, want one command", got)
	}
}

func TestHelpListsContextBindings(t *testing.T) {
	m := newTestModel(control.Absolute, 4)
	m = update(t, m, runeKey('?'))
	out := m.View()
	if !strings.Contains(out, "patch 3") {
		t.Errorf("full help should describe the patch keys:\n%s", out)
	}
	if got := drain(m.Broker); len(got) != 0 {
		t.Errorf("help key reached the controller: %v", got)
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want control.Key
	}{
		{runeKey('a'), "a"},
		{tea.KeyMsg{Type: tea.KeySpace}, "space"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "esc"},
		{tea.KeyMsg{Type: tea.KeyF1}, "f1"},
		{tea.KeyMsg{Type: tea.KeyUp}, "up"},
	}
	for _, tt := range tests {
		if got := KeyName(tt.msg); got != tt.want {
			t.Errorf("KeyName(%v) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
