package synth

import (
	"fmt"
	"time"

	"go-synthctl/music"
)

// NumLoops is the number of loop slots the engine keeps.
const NumLoops = 5

type (
	// View is a read-only snapshot of engine state for display. Views are
	// values; the engine never mutates a View after publishing it.
	View struct {
		Seq         uint64
		Instrument  InstrumentView
		HeldNotes   []HeldNote
		Arpeggiator *ArpeggiatorView
		Loops       [NumLoops]LoopView
		Transposer  TransposerView
		TempoPeriod time.Duration // zero until two taps have been seen
		PatchSlot   int
		Output      string // port the engine plays to, empty when headless
	}

	// InstrumentView is an instrument patch flattened for rendering.
	InstrumentView struct {
		Oscillator string
		Filter     string
		LFO        string // empty when no LFO is active
		Params     []ParamView
	}

	// ParamView is one displayed parameter. Norm is the value mapped to
	// [0,1] within its range, for gauges.
	ParamView struct {
		Name  string
		Value float64
		Norm  float64
		Text  string
	}

	HeldNote struct {
		ID    NoteID
		Pitch music.Pitch // the pitch actually sounding, after transposition
	}

	ArpeggiatorView struct {
		Summary  string
		Phrase   []music.Pitch
		Playhead int // index into Phrase, -1 when not playing
	}

	LoopView struct {
		Playing   bool
		Recording bool
	}

	TransposerView struct {
		PitchShift     int
		KeyboardOctave int
		Key            music.PitchClass
	}
)

// Tempo returns the tempo in beats per minute, 0 if unknown.
func (v View) Tempo() float64 {
	if v.TempoPeriod <= 0 {
		return 0
	}
	return float64(time.Minute) / float64(v.TempoPeriod)
}

func NewInstrumentView(s InstrumentSpec) InstrumentView {
	v := InstrumentView{
		Oscillator: s.Oscillator.String(),
		Filter:     s.Filter.Type.String(),
	}
	switch s.Oscillator.Kind {
	case Pulse:
		v.Params = append(v.Params, param("duty", s.Oscillator.Duty, DutyRange))
	case Mix:
		v.Params = append(v.Params,
			paramInt("voices", s.Oscillator.Voices, VoicesRange),
			param("detune", s.Oscillator.Detune, DetuneRange))
	}
	v.Params = append(v.Params,
		param("cutoff", s.Filter.Cutoff, CutoffRange),
		param("resonance", s.Filter.Resonance, ResonanceRange),
		param("attack", s.Envelope.Attack, AttackRange),
		param("release", s.Envelope.Release, ReleaseRange),
		param("volume", s.Volume, VolumeRange))
	if s.LFO != nil {
		v.LFO = fmt.Sprintf("%s -> %s", s.LFO.Waveform, s.LFO.Target)
		v.Params = append(v.Params,
			param("lfo amount", s.LFO.Amount, AmountRange),
			param("lfo freq", s.LFO.Freq, FreqRange))
	}
	return v
}

func NewArpeggiatorView(a ArpeggiatorSpec, playhead int) *ArpeggiatorView {
	phrase := a.Phrase()
	if playhead >= len(phrase) {
		playhead = -1
	}
	return &ArpeggiatorView{
		Summary: fmt.Sprintf("%s %s %s [%s..%s] %s",
			a.Key, a.Chord, a.Direction, a.OctaveMin, a.OctaveMax, a.Duration),
		Phrase:   phrase,
		Playhead: playhead,
	}
}

func param(name string, value float64, r Range) ParamView {
	norm := 0.0
	if r.Span() > 0 {
		norm = (r.Clamp(value) - r.Min) / r.Span()
	}
	return ParamView{Name: name, Value: value, Norm: norm, Text: fmt.Sprintf("%.3f", value)}
}

func paramInt(name string, value int, r IntRange) ParamView {
	norm := 0.0
	if r.Span() > 0 {
		norm = float64(r.Clamp(value)-r.Min) / float64(r.Span())
	}
	return ParamView{Name: name, Value: float64(value), Norm: norm, Text: fmt.Sprintf("%d", value)}
}
