package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-synthctl/control"
)

// helpColumn is how many bindings go in one column of the full help.
const helpColumn = 12

// globalKeys are handled by the frontend itself and never reach the
// controller.
type globalKeys struct {
	Quit key.Binding
	Help key.Binding
}

func newGlobalKeys() globalKeys {
	return globalKeys{
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "keys")),
	}
}

// contextKeys adapts the bindings of one keymap context to help.KeyMap.
type contextKeys struct {
	global   globalKeys
	bindings []key.Binding
}

func newContextKeys(km *control.Keymap, ctx string, global globalKeys) contextKeys {
	bs := km.Bindings(ctx)
	ck := contextKeys{global: global, bindings: make([]key.Binding, 0, len(bs))}
	for _, b := range bs {
		name := string(b.Key)
		ck.bindings = append(ck.bindings, key.NewBinding(key.WithKeys(name), key.WithHelp(name, b.Describe())))
	}
	return ck
}

func (c contextKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.global.Help, c.global.Quit}
}

func (c contextKeys) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for i := 0; i < len(c.bindings); i += helpColumn {
		end := min(i+helpColumn, len(c.bindings))
		cols = append(cols, c.bindings[i:end])
	}
	return append(cols, c.ShortHelp())
}

// KeyName returns the controller's name for a terminal key.
func KeyName(msg tea.KeyMsg) control.Key {
	switch s := msg.String(); s {
	case " ":
		return "space"
	default:
		return control.Key(s)
	}
}
