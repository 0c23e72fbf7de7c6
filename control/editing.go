package control

import (
	"math"

	"go-synthctl/debug"
	"go-synthctl/synth"
)

// volumeStep is the volume change of one envelope volume key press.
const volumeStep = 0.1

// Defaults applied when the oscillator editor switches variants.
const (
	defaultDuty   = 0.5
	defaultVoices = 8
	defaultDetune = 3
)

// editingRelease handles a key release in the edit menu or a target editor.
// Navigation actions only change the mode. Every other action edits a copy
// of the patch; when it changes something the copy becomes the next state
// and both patches are sent in full.
func editingRelease(s State, b Binding) (State, []synth.Command) {
	switch b.Action {
	case ActionPlay:
		s.Mode = Playing
		debug.Log("control", "mode -> %s", s.Mode)
		return s, nil
	case ActionMenu:
		s.Mode = Menu
		debug.Log("control", "mode -> %s", s.Mode)
		return s, nil
	case ActionSelect:
		if s.Mode.Target != TargetNone {
			debug.Violation("select %s from %s", b.Target, s.Mode)
			return s, nil
		}
		s.Mode = enter(s, b.Target)
		debug.Log("control", "mode -> %s", s.Mode)
		return s, nil
	}

	var edit func(*State, Binding) bool
	switch s.Mode.Target {
	case TargetOscillator:
		edit = oscillatorKey
	case TargetFilter:
		edit = filterKey
	case TargetEnvelope:
		edit = envelopeKey
	case TargetLFO:
		edit = lfoKey
	case TargetArpeggiator:
		edit = arpeggiatorKey
	default:
		debug.Violation("%s: no key transition for %q", s.Mode, b.Action)
		return s, nil
	}
	next := s.Clone()
	if !edit(&next, b) {
		return s, nil
	}
	return next, patch(next)
}

// enter returns the mode for editing t. The oscillator editor starts in the
// sub-target matching the current oscillator variant.
func enter(s State, t EditTarget) Mode {
	m := Editing(t)
	if t == TargetOscillator {
		switch s.Instrument.Oscillator.Kind {
		case synth.Pulse:
			m.Oscillator = OscillatorPulse
		case synth.Mix:
			m.Oscillator = OscillatorMix
		}
	}
	return m
}

func oscillatorKey(s *State, b Binding) bool {
	if b.Action != ActionWaveform {
		debug.Violation("oscillator: no key transition for %q", b.Action)
		return false
	}
	osc := &s.Instrument.Oscillator
	switch b.Waveform {
	case synth.Pulse:
		if osc.Kind != synth.Pulse {
			*osc = synth.PulseOscillator(defaultDuty)
		}
		s.Mode.Oscillator = OscillatorPulse
	case synth.Mix:
		if osc.Kind == synth.Mix {
			// re-roll the voice spread, keep what was dialled in
			osc.Seed++
		} else {
			*osc = synth.MixOscillator(defaultVoices, defaultDetune, synth.Saw, 0)
		}
		s.Mode.Oscillator = OscillatorMix
	default:
		*osc = synth.BasicOscillator(b.Waveform)
		s.Mode.Oscillator = OscillatorNone
	}
	return true
}

func filterKey(s *State, b Binding) bool {
	if b.Action != ActionFilterType {
		debug.Violation("filter: no key transition for %q", b.Action)
		return false
	}
	s.Instrument.Filter.Type = b.Filter
	return true
}

func envelopeKey(s *State, b Binding) bool {
	if b.Action != ActionVolume {
		debug.Violation("envelope: no key transition for %q", b.Action)
		return false
	}
	old := s.Instrument.Volume
	v := math.Round((old+float64(b.Value)*volumeStep)*100) / 100
	s.Instrument.Volume = synth.VolumeRange.Clamp(v)
	return s.Instrument.Volume != old
}

func lfoKey(s *State, b Binding) bool {
	switch b.Action {
	case ActionClear:
		if s.Instrument.LFO == nil {
			return false
		}
		s.Instrument.LFO = nil
		return true
	case ActionLFOWaveform, ActionLFOTarget:
	default:
		debug.Violation("lfo: no key transition for %q", b.Action)
		return false
	}
	if s.Instrument.LFO == nil {
		lfo := synth.DefaultLFO()
		s.Instrument.LFO = &lfo
	}
	if b.Action == ActionLFOWaveform {
		s.Instrument.LFO.Waveform = b.Waveform
	} else {
		s.Instrument.LFO.Target = b.LFOTarget
	}
	return true
}

func arpeggiatorKey(s *State, b Binding) bool {
	if b.Action == ActionClear {
		if s.Arpeggiator == nil {
			return false
		}
		s.Arpeggiator = nil
		return true
	}
	if s.Arpeggiator == nil {
		a := synth.DefaultArpeggiator()
		s.Arpeggiator = &a
	}
	a := s.Arpeggiator
	switch b.Action {
	case ActionChord:
		a.Chord = b.Chord
	case ActionDirection:
		a.Direction = b.Direction
	case ActionHalve:
		d, ok := a.Duration.Halve()
		if !ok {
			return false
		}
		a.Duration = d
	case ActionDouble:
		d, ok := a.Duration.Double()
		if !ok {
			return false
		}
		a.Duration = d
	case ActionArpKey:
		a.Key = a.Key.Transpose(b.Value)
	default:
		debug.Violation("arpeggiator: no key transition for %q", b.Action)
		return false
	}
	return true
}

// editingMove maps pointer motion onto the parameters of the active target.
// The menu and targets with nothing to edit ignore motion.
func editingMove(s State, m motion) (State, []synth.Command) {
	var edit func(*State, motion) bool
	switch s.Mode.Target {
	case TargetNone:
		return s, nil
	case TargetOscillator:
		edit = oscillatorMove
	case TargetFilter:
		edit = filterMove
	case TargetEnvelope:
		edit = envelopeMove
	case TargetLFO:
		edit = lfoMove
	case TargetArpeggiator:
		edit = arpeggiatorMove
	default:
		debug.Violation("%s: no pointer transition", s.Mode)
		return s, nil
	}
	next := s.Clone()
	if !edit(&next, m) {
		return s, nil
	}
	return next, patch(next)
}

// continuous maps one axis onto r, either directly or by accumulating onto
// old.
func (m motion) continuous(axis, old float64, r synth.Range) float64 {
	if m.Relative {
		return AccumulateContinuous(old, axis, r)
	}
	return ScaleContinuous(axis, r)
}

func (m motion) discrete(axis float64, old int, carry *float64, r synth.IntRange) int {
	if m.Relative {
		v, c := AccumulateDiscrete(old, axis, *carry, r)
		*carry = c
		return v
	}
	return ScaleDiscrete(axis, r)
}

func oscillatorMove(s *State, m motion) bool {
	osc := &s.Instrument.Oscillator
	switch s.Mode.Oscillator {
	case OscillatorPulse:
		if osc.Kind != synth.Pulse {
			debug.Violation("pulse editor on %s oscillator", osc.Kind)
			return false
		}
		osc.Duty = m.continuous(m.X, osc.Duty, synth.DutyRange)
	case OscillatorMix:
		if osc.Kind != synth.Mix {
			debug.Violation("mix editor on %s oscillator", osc.Kind)
			return false
		}
		osc.Voices = m.discrete(m.Y, osc.Voices, &s.Carry.Voices, synth.VoicesRange)
		osc.Detune = m.continuous(m.X, osc.Detune, synth.DetuneRange)
	default:
		return false
	}
	return true
}

func filterMove(s *State, m motion) bool {
	f := &s.Instrument.Filter
	f.Cutoff = m.continuous(m.Y, f.Cutoff, synth.CutoffRange)
	f.Resonance = m.continuous(m.X, f.Resonance, synth.ResonanceRange)
	return true
}

func envelopeMove(s *State, m motion) bool {
	e := &s.Instrument.Envelope
	e.Attack = m.continuous(m.X, e.Attack, synth.AttackRange)
	e.Release = m.continuous(m.Y, e.Release, synth.ReleaseRange)
	return true
}

func lfoMove(s *State, m motion) bool {
	lfo := s.Instrument.LFO
	if lfo == nil {
		return false
	}
	lfo.Amount = m.continuous(m.Y, lfo.Amount, synth.AmountRange)
	lfo.Freq = m.continuous(m.X, lfo.Freq, synth.FreqRange)
	return true
}

// arpeggiatorMove decodes both axes into an octave range: vertical picks the
// bottom shift, horizontal the width, and the top is bottom plus width
// capped at the highest shift. Values are clamped before they are resolved
// to shifts.
func arpeggiatorMove(s *State, m motion) bool {
	a := s.Arpeggiator
	if a == nil {
		return false
	}
	shifts := synth.OctaveShiftRange
	widths := synth.IntRange{Min: 0, Max: shifts.Span()}
	bottom := m.discrete(m.Y, int(a.OctaveMin), &s.Carry.OctaveBottom, shifts)
	width := m.discrete(m.X, int(a.OctaveMax-a.OctaveMin), &s.Carry.OctaveWidth, widths)
	top := min(bottom+width, shifts.Max)

	lo, okLo := synth.OctaveShiftFrom(bottom)
	hi, okHi := synth.OctaveShiftFrom(top)
	if !okLo || !okHi {
		debug.Violation("octave range %d..%d outside %d..%d", bottom, top, shifts.Min, shifts.Max)
		return false
	}
	a.OctaveMin, a.OctaveMax = lo, hi
	return true
}
