package control

import "fmt"

// EditTarget is the patch subsystem being edited. TargetNone is the top
// level edit menu.
type EditTarget int

const (
	TargetNone EditTarget = iota
	TargetOscillator
	TargetFilter
	TargetEnvelope
	TargetLFO
	TargetArpeggiator
)

var targetNames = []string{"menu", "oscillator", "filter", "envelope", "lfo", "arpeggiator"}

func (t EditTarget) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return fmt.Sprintf("target(%d)", int(t))
	}
	return targetNames[t]
}

// OscillatorTarget selects the pointer mapping while the oscillator editor
// is active.
type OscillatorTarget int

const (
	OscillatorNone OscillatorTarget = iota
	OscillatorPulse
	OscillatorMix
)

func (o OscillatorTarget) String() string {
	switch o {
	case OscillatorNone:
		return ""
	case OscillatorPulse:
		return "pulse"
	case OscillatorMix:
		return "mix"
	default:
		return fmt.Sprintf("oscillator(%d)", int(o))
	}
}

// Mode is the interaction state as a three level identifier: playing or
// editing, the edit target, and the oscillator sub-target. The zero value
// is Playing.
type Mode struct {
	Editing    bool
	Target     EditTarget
	Oscillator OscillatorTarget
}

var (
	Playing = Mode{}
	Menu    = Mode{Editing: true}
)

// Editing returns the mode editing target t with no oscillator sub-target.
func Editing(t EditTarget) Mode {
	return Mode{Editing: true, Target: t}
}

// Valid reports whether the mode is one the state machine can be in.
func (m Mode) Valid() bool {
	if !m.Editing {
		return m.Target == TargetNone && m.Oscillator == OscillatorNone
	}
	if m.Target < TargetNone || m.Target > TargetArpeggiator {
		return false
	}
	if m.Oscillator != OscillatorNone && m.Target != TargetOscillator {
		return false
	}
	return m.Oscillator >= OscillatorNone && m.Oscillator <= OscillatorMix
}

// Context names the keymap table used in this mode.
func (m Mode) Context() string {
	if !m.Editing {
		return ContextPlaying
	}
	return m.Target.String()
}

// String returns HUD breadcrumbs, e.g. "edit > oscillator > mix".
func (m Mode) String() string {
	if !m.Editing {
		return "playing"
	}
	s := "edit"
	if m.Target != TargetNone {
		s += " > " + m.Target.String()
	}
	if m.Oscillator != OscillatorNone {
		s += " > " + m.Oscillator.String()
	}
	return s
}
