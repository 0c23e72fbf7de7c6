// Package synth describes the contract between the controller and the audio
// engine: sound patches, the commands the engine accepts and the read-only
// views it publishes back for display.
package synth

import "fmt"

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Square
	Pulse
	Mix
)

var waveformNames = []string{"sine", "saw", "square", "pulse", "mix"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("waveform(%d)", int(w))
	}
	return waveformNames[w]
}

// Basic reports whether the waveform has no parameters of its own.
func (w Waveform) Basic() bool {
	return w == Sine || w == Saw || w == Square
}

func ParseWaveform(name string) (Waveform, bool) {
	return parseName(waveformNames, name, Sine)
}

// Parameter bounds. All are inclusive.
var (
	DutyRange      = Range{0, 1}
	DetuneRange    = Range{0.001, 32}
	CutoffRange    = Range{0, 1}
	ResonanceRange = Range{0, 1}
	AmountRange    = Range{0, 1}
	FreqRange      = Range{0, 55}
	VolumeRange    = Range{0, 1}
	AttackRange    = Range{0.001, 2}
	ReleaseRange   = Range{0.001, 4}
	VoicesRange    = IntRange{1, 40}
)

// OscillatorSpec is a tagged variant: Kind decides which of the remaining
// fields are meaningful. Duty belongs to Pulse; Voices, Detune, Base and
// Seed belong to Mix.
type OscillatorSpec struct {
	Kind   Waveform
	Duty   float64
	Voices int
	Detune float64
	Base   Waveform
	Seed   int
}

func BasicOscillator(w Waveform) OscillatorSpec {
	if !w.Basic() {
		w = Sine
	}
	return OscillatorSpec{Kind: w}
}

func PulseOscillator(duty float64) OscillatorSpec {
	return OscillatorSpec{Kind: Pulse, Duty: DutyRange.Clamp(duty)}
}

func MixOscillator(voices int, detune float64, base Waveform, seed int) OscillatorSpec {
	if !base.Basic() {
		base = Saw
	}
	return OscillatorSpec{
		Kind:   Mix,
		Voices: VoicesRange.Clamp(voices),
		Detune: DetuneRange.Clamp(detune),
		Base:   base,
		Seed:   seed,
	}
}

func (o OscillatorSpec) String() string {
	switch o.Kind {
	case Pulse:
		return fmt.Sprintf("pulse(duty=%.2f)", o.Duty)
	case Mix:
		return fmt.Sprintf("mix(%s x%d, detune=%.3f, seed=%d)", o.Base, o.Voices, o.Detune, o.Seed)
	default:
		return o.Kind.String()
	}
}

// FilterType selects the filter response.
type FilterType int

const (
	LPF FilterType = iota
	HPF
	BPF
	Notch
)

var filterNames = []string{"lpf", "hpf", "bpf", "notch"}

func (f FilterType) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("filter(%d)", int(f))
	}
	return filterNames[f]
}

func ParseFilterType(name string) (FilterType, bool) {
	return parseName(filterNames, name, LPF)
}

type FilterSpec struct {
	Type      FilterType
	Cutoff    float64
	Resonance float64
}

// LFOTarget is the parameter an LFO modulates.
type LFOTarget int

const (
	TargetVolume LFOTarget = iota
	TargetCutoff
	TargetResonance
	TargetOscillator
)

var lfoTargetNames = []string{"volume", "cutoff", "resonance", "oscillator"}

func (t LFOTarget) String() string {
	if t < 0 || int(t) >= len(lfoTargetNames) {
		return fmt.Sprintf("target(%d)", int(t))
	}
	return lfoTargetNames[t]
}

func ParseLFOTarget(name string) (LFOTarget, bool) {
	return parseName(lfoTargetNames, name, TargetVolume)
}

// LFOSpec describes a low frequency oscillator. Waveform is always a basic
// waveform.
type LFOSpec struct {
	Target   LFOTarget
	Waveform Waveform
	Amount   float64
	Freq     float64
}

func DefaultLFO() LFOSpec {
	return LFOSpec{Target: TargetVolume, Waveform: Sine, Amount: 0.5, Freq: 5}
}

// EnvelopeSpec is an attack/release amplitude envelope, times in seconds.
type EnvelopeSpec struct {
	Attack  float64
	Release float64
}

// InstrumentSpec is the full sound patch. LFO is nil when no LFO is active.
type InstrumentSpec struct {
	Oscillator OscillatorSpec
	Filter     FilterSpec
	Envelope   EnvelopeSpec
	LFO        *LFOSpec
	Volume     float64
}

func DefaultInstrument() InstrumentSpec {
	return InstrumentSpec{
		Oscillator: BasicOscillator(Saw),
		Filter:     FilterSpec{Type: LPF, Cutoff: 0.8, Resonance: 0.2},
		Envelope:   EnvelopeSpec{Attack: 0.01, Release: 0.3},
		Volume:     0.8,
	}
}

// Clone returns a deep copy; the LFO is not shared with the original.
func (s InstrumentSpec) Clone() InstrumentSpec {
	if s.LFO != nil {
		lfo := *s.LFO
		s.LFO = &lfo
	}
	return s
}

func parseName[T ~int](names []string, name string, zero T) (T, bool) {
	for i, n := range names {
		if n == name {
			return T(i), true
		}
	}
	return zero, false
}
