// Package control turns keyboard and pointer events into engine commands.
//
// A Controller owns the interaction Mode, the instrument patch and the
// arpeggiator. Each event is handled to completion by Dispatch, which routes
// it on the current mode to the playing or editing transitions. Transitions
// are pure: they take a State and a resolved Binding (or pointer motion) and
// return the next State with the commands to send.
package control

import (
	"maps"
	"slices"

	"go-synthctl/debug"
	"go-synthctl/synth"
)

// Carry holds the fractional steps of discrete parameters under relative
// pointer motion.
type Carry struct {
	Voices       float64
	OctaveBottom float64
	OctaveWidth  float64
}

// State is everything a transition reads and writes. Transitions never
// mutate the LFO or arpeggiator a State points to; they work on a Clone.
type State struct {
	Mode        Mode
	Instrument  synth.InstrumentSpec
	Arpeggiator *synth.ArpeggiatorSpec // nil when the arpeggiator is off

	// Mod is the modulation position accumulated from relative pointer
	// motion while playing.
	Mod   [2]float64
	Carry Carry
}

func NewState() State {
	return State{
		Mode:       Playing,
		Instrument: synth.DefaultInstrument(),
		Mod:        [2]float64{0.5, 0.5},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Instrument = s.Instrument.Clone()
	if s.Arpeggiator != nil {
		a := *s.Arpeggiator
		s.Arpeggiator = &a
	}
	return s
}

// Controller is the input state machine. It is not safe for concurrent use;
// one goroutine, the frontend's event loop, owns it.
type Controller struct {
	state   State
	keymap  *Keymap
	pointer Pointer
	held    map[Key]synth.NoteID
}

// New returns a controller in Playing mode with the default instrument and
// no arpeggiator. A nil keymap means DefaultKeymap.
func New(km *Keymap, pointer Pointer) *Controller {
	if km == nil {
		km = DefaultKeymap()
	}
	return &Controller{
		state:   NewState(),
		keymap:  km,
		pointer: pointer,
		held:    make(map[Key]synth.NoteID),
	}
}

// Dispatch handles one event and returns the commands for the engine, in
// order. Unmapped input returns no commands and leaves the state unchanged.
func (c *Controller) Dispatch(e Event) []synth.Command {
	if !c.state.Mode.Valid() {
		debug.Violation("dispatch %T in invalid mode %+v", e, c.state.Mode)
		return nil
	}
	switch e := e.(type) {
	case KeyPress:
		return c.press(e.Key)
	case KeyRelease:
		return c.release(e.Key)
	case PointerMoveAbsolute:
		if c.pointer != Absolute {
			debug.LogEvery(100, "control", "ignoring absolute pointer motion")
			return nil
		}
		if !e.Viewport.Valid() {
			return nil
		}
		return c.move(motion{X: e.X / e.Viewport.Width, Y: e.Y / e.Viewport.Height})
	case PointerMoveRelative:
		if c.pointer != Relative {
			debug.LogEvery(100, "control", "ignoring relative pointer motion")
			return nil
		}
		if !e.Viewport.Valid() {
			return nil
		}
		return c.move(motion{X: e.DX / e.Viewport.Width, Y: e.DY / e.Viewport.Height, Relative: true})
	}
	return nil
}

func (c *Controller) press(k Key) []synth.Command {
	if c.state.Mode.Editing {
		return nil
	}
	b, ok := c.keymap.Lookup(ContextPlaying, k)
	if !ok {
		return nil
	}
	if b.Action == ActionNote {
		if _, held := c.held[k]; held {
			return nil
		}
		c.held[k] = b.Note
	}
	var cmds []synth.Command
	c.state, cmds = playingPress(c.state, b)
	return cmds
}

func (c *Controller) release(k Key) []synth.Command {
	// a held note is released whatever the mode is now
	if id, ok := c.held[k]; ok {
		delete(c.held, k)
		return []synth.Command{synth.NoteOff{ID: id}}
	}
	b, ok := c.keymap.Lookup(c.state.Mode.Context(), k)
	if !ok {
		return nil
	}
	var cmds []synth.Command
	if c.state.Mode.Editing {
		c.state, cmds = editingRelease(c.state, b)
	} else {
		c.state, cmds = playingRelease(c.state, b)
	}
	return cmds
}

func (c *Controller) move(m motion) []synth.Command {
	var cmds []synth.Command
	if c.state.Mode.Editing {
		c.state, cmds = editingMove(c.state, m)
	} else {
		c.state, cmds = playingMove(c.state, m)
	}
	debug.LogEvery(50, "control", "pointer %s -> %d command(s)", c.state.Mode, len(cmds))
	return cmds
}

// ReleaseAll returns a NoteOff for every held note, ordered by note, and
// forgets them. Frontends call it before shutting down.
func (c *Controller) ReleaseAll() []synth.Command {
	ids := slices.SortedFunc(maps.Values(c.held), func(a, b synth.NoteID) int {
		return a.Int() - b.Int()
	})
	clear(c.held)
	cmds := make([]synth.Command, len(ids))
	for i, id := range ids {
		cmds[i] = synth.NoteOff{ID: id}
	}
	return cmds
}

func (c *Controller) Mode() Mode { return c.state.Mode }

// State returns a copy of the controller state.
func (c *Controller) State() State { return c.state.Clone() }

func (c *Controller) Instrument() synth.InstrumentSpec { return c.state.Instrument.Clone() }

// Arpeggiator returns a copy of the arpeggiator, nil when it is off.
func (c *Controller) Arpeggiator() *synth.ArpeggiatorSpec { return c.state.Clone().Arpeggiator }

func (c *Controller) Keymap() *Keymap { return c.keymap }

func (c *Controller) Pointer() Pointer { return c.pointer }

// Held returns the notes currently held, by key.
func (c *Controller) Held() map[Key]synth.NoteID { return maps.Clone(c.held) }

// PatchCommands returns the commands that bring an engine in line with the
// current patch, used when the engine (re)starts.
func (c *Controller) PatchCommands() []synth.Command {
	return patch(c.state)
}

func patch(s State) []synth.Command {
	return synth.PatchCommands(s.Instrument, s.Arpeggiator)
}
