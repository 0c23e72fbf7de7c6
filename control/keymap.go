package control

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"

	"go-synthctl/music"
	"go-synthctl/synth"
)

// Action is what a key does in a context.
type Action string

const (
	ActionNote          Action = "note"
	ActionPatch         Action = "patch"
	ActionLoopPlayback  Action = "loop-playback"
	ActionLoopRecording Action = "loop-recording"
	ActionTapTempo      Action = "tap-tempo"
	ActionShiftPitch    Action = "shift-pitch"
	ActionShiftOctave   Action = "shift-octave"
	ActionTransposeKey  Action = "transpose-key"
	ActionEdit          Action = "edit"

	ActionSelect Action = "select"
	ActionPlay   Action = "play"
	ActionMenu   Action = "menu"

	ActionWaveform    Action = "waveform"
	ActionFilterType  Action = "filter-type"
	ActionVolume      Action = "volume"
	ActionLFOWaveform Action = "lfo-waveform"
	ActionLFOTarget   Action = "lfo-target"
	ActionClear       Action = "clear"
	ActionChord       Action = "chord"
	ActionDirection   Action = "direction"
	ActionHalve       Action = "halve"
	ActionDouble      Action = "double"
	ActionArpKey      Action = "arp-key"
)

// Keymap contexts, one per Mode.Context value.
const (
	ContextPlaying     = "playing"
	ContextMenu        = "menu"
	ContextOscillator  = "oscillator"
	ContextFilter      = "filter"
	ContextEnvelope    = "envelope"
	ContextLFO         = "lfo"
	ContextArpeggiator = "arpeggiator"
)

var contextActions = map[string][]Action{
	ContextPlaying: {ActionNote, ActionPatch, ActionLoopPlayback, ActionLoopRecording,
		ActionTapTempo, ActionShiftPitch, ActionShiftOctave, ActionTransposeKey, ActionEdit},
	ContextMenu:        {ActionSelect, ActionPlay},
	ContextOscillator:  {ActionWaveform, ActionMenu, ActionPlay},
	ContextFilter:      {ActionFilterType, ActionMenu, ActionPlay},
	ContextEnvelope:    {ActionVolume, ActionMenu, ActionPlay},
	ContextLFO:         {ActionLFOWaveform, ActionLFOTarget, ActionClear, ActionMenu, ActionPlay},
	ContextArpeggiator: {ActionChord, ActionDirection, ActionHalve, ActionDouble, ActionArpKey, ActionClear, ActionMenu, ActionPlay},
}

// Contexts returns the keymap contexts in display order.
func Contexts() []string {
	return []string{ContextPlaying, ContextMenu, ContextOscillator, ContextFilter,
		ContextEnvelope, ContextLFO, ContextArpeggiator}
}

type (
	// KeyBinding is one entry of a keybindings.yml file.
	KeyBinding struct {
		Key    Key    `yaml:"key"`
		Action Action `yaml:"action"`
		Value  int    `yaml:"value,omitempty"`
		Name   string `yaml:"name,omitempty"`
		Pitch  string `yaml:"pitch,omitempty"`
		Row    int    `yaml:"row,omitempty"`
	}

	// KeyBindings maps a context name to its bindings, in file order.
	KeyBindings map[string][]KeyBinding

	// Binding is a validated KeyBinding with its arguments resolved. Only
	// the fields its Action uses are set.
	Binding struct {
		Key    Key
		Action Action
		Value  int
		Note   synth.NoteID
		Target EditTarget

		Waveform  synth.Waveform
		Filter    synth.FilterType
		LFOTarget synth.LFOTarget
		Chord     synth.Chord
		Direction synth.Direction
	}

	// Keymap resolves keys to bindings per context.
	Keymap struct {
		bindings map[string]map[Key]Binding
		order    map[string][]Key
	}
)

//go:embed keybindings.yml
var defaultKeyBindings []byte

// ErrInvalidBinding tags keybinding validation failures.
var ErrInvalidBinding = errors.New("invalid key binding")

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	kb, err := ParseKeyBindings(bytes.NewReader(defaultKeyBindings))
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	km, err := NewKeymap(kb)
	if err != nil {
		panic(fmt.Errorf("invalid default keybindings: %w", err))
	}
	return km
}

// LoadKeymap returns the built-in bindings with the bindings from the file
// at userPath applied on top. A missing user file is not an error.
func LoadKeymap(userPath string) (*Keymap, error) {
	kb, err := ParseKeyBindings(bytes.NewReader(defaultKeyBindings))
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("default keybindings"))
	}
	if userPath != "" {
		f, err := os.Open(userPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fault.Wrap(err, fmsg.With("open keybindings"), ftag.With(ftag.Internal))
		default:
			defer f.Close()
			user, err := ParseKeyBindings(f)
			if err != nil {
				return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("keybindings %s", userPath)))
			}
			kb = kb.Merge(user)
		}
	}
	return NewKeymap(kb)
}

// ParseKeyBindings decodes a keybindings.yml document. Unknown fields are
// rejected.
func ParseKeyBindings(r io.Reader) (KeyBindings, error) {
	var kb KeyBindings
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&kb); err != nil {
		if errors.Is(err, io.EOF) {
			return KeyBindings{}, nil
		}
		return nil, fault.Wrap(err, fmsg.With("decode keybindings"), ftag.With(ftag.InvalidArgument))
	}
	return kb, nil
}

// Merge appends the bindings of other after those of kb, per context.
func (kb KeyBindings) Merge(other KeyBindings) KeyBindings {
	out := make(KeyBindings, len(kb))
	for ctx, list := range kb {
		out[ctx] = slices.Clone(list)
	}
	for ctx, list := range other {
		out[ctx] = append(out[ctx], list...)
	}
	return out
}

// NewKeymap validates kb and builds a keymap from it. The last binding of a
// key in a context wins; an empty action unbinds the key.
func NewKeymap(kb KeyBindings) (*Keymap, error) {
	km := &Keymap{
		bindings: make(map[string]map[Key]Binding),
		order:    make(map[string][]Key),
	}
	for ctx, list := range kb {
		allowed, ok := contextActions[ctx]
		if !ok {
			return nil, invalid("unknown context %q", ctx)
		}
		table := make(map[Key]Binding)
		var order []Key
		for i, raw := range list {
			if raw.Key == "" {
				return nil, invalid("%s[%d]: missing key", ctx, i)
			}
			if raw.Action == "" {
				delete(table, raw.Key)
				order = slices.DeleteFunc(order, func(k Key) bool { return k == raw.Key })
				continue
			}
			if !slices.Contains(allowed, raw.Action) {
				return nil, invalid("%s[%d]: action %q is not available in %s", ctx, i, raw.Action, ctx)
			}
			b, err := resolve(raw)
			if err != nil {
				return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("%s[%d] key %q", ctx, i, raw.Key)))
			}
			if _, seen := table[raw.Key]; !seen {
				order = append(order, raw.Key)
			}
			table[raw.Key] = b
		}
		km.bindings[ctx] = table
		km.order[ctx] = order
	}
	return km, nil
}

func invalid(format string, args ...any) error {
	return fault.Wrap(fmt.Errorf("%w: "+format, append([]any{ErrInvalidBinding}, args...)...),
		ftag.With(ftag.InvalidArgument))
}

func resolve(raw KeyBinding) (Binding, error) {
	b := Binding{Key: raw.Key, Action: raw.Action, Value: raw.Value}
	var ok bool
	switch raw.Action {
	case ActionNote:
		p, err := music.ParsePitch(raw.Pitch)
		if err != nil {
			return b, invalid("note pitch: %v", err)
		}
		if raw.Row < 1 || raw.Row > 15 {
			return b, invalid("note row %d outside 1..15", raw.Row)
		}
		b.Note = synth.NewNoteID(p, uint8(raw.Row))
		return b, nil
	case ActionPatch:
		ok = raw.Value >= 0 && raw.Value <= 9
	case ActionLoopPlayback, ActionLoopRecording:
		ok = raw.Value >= 0 && raw.Value < synth.NumLoops
	case ActionShiftPitch, ActionShiftOctave, ActionTransposeKey, ActionVolume, ActionArpKey:
		ok = raw.Value != 0
	case ActionSelect:
		for t := TargetOscillator; t <= TargetArpeggiator; t++ {
			if t.String() == raw.Name {
				b.Target, ok = t, true
			}
		}
	case ActionWaveform:
		b.Waveform, ok = synth.ParseWaveform(raw.Name)
	case ActionLFOWaveform:
		b.Waveform, ok = synth.ParseWaveform(raw.Name)
		ok = ok && b.Waveform.Basic()
	case ActionFilterType:
		b.Filter, ok = synth.ParseFilterType(raw.Name)
	case ActionLFOTarget:
		b.LFOTarget, ok = synth.ParseLFOTarget(raw.Name)
	case ActionChord:
		b.Chord, ok = synth.ParseChord(raw.Name)
	case ActionDirection:
		b.Direction, ok = synth.ParseDirection(raw.Name)
	case ActionTapTempo, ActionEdit, ActionPlay, ActionMenu, ActionClear, ActionHalve, ActionDouble:
		ok = true
	default:
		return b, invalid("unknown action %q", raw.Action)
	}
	if !ok {
		return b, invalid("bad argument for %s (value %d, name %q)", raw.Action, raw.Value, raw.Name)
	}
	return b, nil
}

// Lookup returns the binding of k in context ctx.
func (km *Keymap) Lookup(ctx string, k Key) (Binding, bool) {
	b, ok := km.bindings[ctx][k]
	return b, ok
}

// Bindings returns the bindings of ctx in the order they were first bound.
func (km *Keymap) Bindings(ctx string) []Binding {
	out := make([]Binding, 0, len(km.order[ctx]))
	for _, k := range km.order[ctx] {
		out = append(out, km.bindings[ctx][k])
	}
	return out
}

// Describe returns a short help text for the binding.
func (b Binding) Describe() string {
	switch b.Action {
	case ActionNote:
		return b.Note.Pitch.String()
	case ActionPatch:
		return fmt.Sprintf("patch %d", b.Value+1)
	case ActionLoopPlayback:
		return fmt.Sprintf("play loop %d", b.Value+1)
	case ActionLoopRecording:
		return fmt.Sprintf("rec loop %d", b.Value+1)
	case ActionShiftPitch:
		return fmt.Sprintf("pitch %+d", b.Value)
	case ActionShiftOctave:
		return fmt.Sprintf("octave %+d", b.Value)
	case ActionTransposeKey:
		return fmt.Sprintf("key %+d", b.Value)
	case ActionSelect:
		return b.Target.String()
	case ActionWaveform, ActionLFOWaveform:
		return b.Waveform.String()
	case ActionFilterType:
		return b.Filter.String()
	case ActionLFOTarget:
		return "-> " + b.LFOTarget.String()
	case ActionChord:
		return b.Chord.String()
	case ActionDirection:
		return b.Direction.String()
	case ActionVolume:
		return fmt.Sprintf("volume %+.1f", float64(b.Value)*volumeStep)
	case ActionArpKey:
		return fmt.Sprintf("root %+d", b.Value)
	default:
		return string(b.Action)
	}
}
