package control

import (
	"go-synthctl/debug"
	"go-synthctl/synth"
)

var unitRange = synth.Range{Min: 0, Max: 1}

// motion is pointer input normalized against the viewport: a position in
// [0,1]² for absolute pointers, a displacement for relative ones.
type motion struct {
	X, Y     float64
	Relative bool
}

func playingPress(s State, b Binding) (State, []synth.Command) {
	var cmd synth.Command
	switch b.Action {
	case ActionNote:
		cmd = synth.NoteOn{Pitch: b.Note.Pitch, Velocity: 1, ID: b.Note}
	case ActionPatch:
		cmd = synth.SelectPatchSlot{Index: b.Value}
	case ActionLoopPlayback:
		cmd = synth.ToggleLoopPlayback{Slot: b.Value}
	case ActionLoopRecording:
		cmd = synth.ToggleLoopRecording{Slot: b.Value}
	case ActionTapTempo:
		cmd = synth.TapTempo{}
	case ActionShiftPitch:
		cmd = synth.ShiftPitch{Semitones: b.Value}
	case ActionShiftOctave:
		cmd = synth.ShiftKeyboardOctave{Count: b.Value}
	case ActionTransposeKey:
		cmd = synth.TransposeKey{Steps: b.Value}
	case ActionEdit:
		// mode switches happen on release
		return s, nil
	default:
		debug.Violation("playing: no press transition for %q", b.Action)
		return s, nil
	}
	return s, []synth.Command{cmd}
}

// playingRelease only switches modes; note-offs for held keys are paired by
// the Controller before a binding is looked up.
func playingRelease(s State, b Binding) (State, []synth.Command) {
	if b.Action == ActionEdit {
		s.Mode = Menu
		debug.Log("control", "mode -> %s", s.Mode)
	}
	return s, nil
}

// playingMove emits the cursor as modulation. Absolute positions are passed
// through as normalized; relative motion moves a position clamped to [0,1]².
func playingMove(s State, m motion) (State, []synth.Command) {
	if m.Relative {
		s.Mod[0] = AccumulateContinuous(s.Mod[0], m.X, unitRange)
		s.Mod[1] = AccumulateContinuous(s.Mod[1], m.Y, unitRange)
		return s, []synth.Command{synth.ModulationXY{X: s.Mod[0], Y: s.Mod[1]}}
	}
	return s, []synth.Command{synth.ModulationXY{X: m.X, Y: m.Y}}
}
