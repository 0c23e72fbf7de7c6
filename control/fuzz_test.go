package control_test

import (
	"testing"

	"go-synthctl/control"
	"go-synthctl/debug"
	"go-synthctl/synth"
)

var fuzzKeys = []control.Key{
	"tab", "esc", "backspace", "space", "up", "down", "left", "right",
	"1", "2", "3", "4", "5", "0", "-", "=", "[", "]", ",", ".", "/", ";",
	"a", "b", "c", "d", "e", "f", "l", "o", "q", "r", "u", "v", "z",
	"f1", "f6", "f12", "enter",
}

// FuzzDispatch drives random event sequences through a controller and checks
// that every parameter stays within its bounds and no invariant breaks.
func FuzzDispatch(f *testing.F) {
	f.Add([]byte{0, 0, 0, 1, 0, 4, 1, 4, 17, 2, 100, 200})
	f.Add([]byte{1, 0, 0, 1, 0, 4, 1, 4, 32, 3, 255, 0, 3, 0, 255})
	f.Add([]byte{0, 1, 8, 1, 0, 1, 0, 1, 12, 2, 128, 128, 2, 255, 255})
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 {
			return
		}
		debug.ResetViolations()
		pointer := control.Absolute
		if data[0]%2 == 1 {
			pointer = control.Relative
		}
		c := control.New(nil, pointer)
		vp := control.Viewport{Width: 640, Height: 480}
		for i := 1; i+2 < len(data); i += 3 {
			op, a, b := data[i], data[i+1], data[i+2]
			var e control.Event
			switch op % 4 {
			case 0:
				e = control.KeyPress{Key: fuzzKeys[int(a)%len(fuzzKeys)]}
			case 1:
				e = control.KeyRelease{Key: fuzzKeys[int(a)%len(fuzzKeys)]}
			case 2:
				e = control.PointerMoveAbsolute{X: float64(a) * 3, Y: float64(b) * 2, Viewport: vp}
			case 3:
				e = control.PointerMoveRelative{DX: float64(int8(a)) * 4, DY: float64(int8(b)) * 4, Viewport: vp}
			}
			c.Dispatch(e)
			checkState(t, c.State())
		}
		if n := debug.Violations(); n != 0 {
			t.Errorf("%d invariant violations", n)
		}
	})
}

func checkState(t *testing.T, s control.State) {
	t.Helper()
	if !s.Mode.Valid() {
		t.Fatalf("invalid mode %+v", s.Mode)
	}
	in := func(name string, v float64, r synth.Range) {
		if !r.Contains(v) {
			t.Fatalf("%s = %v outside %v", name, v, r)
		}
	}
	inst := s.Instrument
	switch inst.Oscillator.Kind {
	case synth.Pulse:
		in("duty", inst.Oscillator.Duty, synth.DutyRange)
	case synth.Mix:
		if !synth.VoicesRange.Contains(inst.Oscillator.Voices) {
			t.Fatalf("voices = %d", inst.Oscillator.Voices)
		}
		in("detune", inst.Oscillator.Detune, synth.DetuneRange)
	}
	in("cutoff", inst.Filter.Cutoff, synth.CutoffRange)
	in("resonance", inst.Filter.Resonance, synth.ResonanceRange)
	in("attack", inst.Envelope.Attack, synth.AttackRange)
	in("release", inst.Envelope.Release, synth.ReleaseRange)
	in("volume", inst.Volume, synth.VolumeRange)
	if inst.LFO != nil {
		in("lfo amount", inst.LFO.Amount, synth.AmountRange)
		in("lfo freq", inst.LFO.Freq, synth.FreqRange)
		if !inst.LFO.Waveform.Basic() {
			t.Fatalf("lfo waveform %s", inst.LFO.Waveform)
		}
	}
	if a := s.Arpeggiator; a != nil {
		if _, ok := synth.OctaveShiftFrom(int(a.OctaveMin)); !ok {
			t.Fatalf("octave min %d", a.OctaveMin)
		}
		if _, ok := synth.OctaveShiftFrom(int(a.OctaveMax)); !ok {
			t.Fatalf("octave max %d", a.OctaveMax)
		}
		if a.OctaveMin > a.OctaveMax {
			t.Fatalf("octave range %s..%s", a.OctaveMin, a.OctaveMax)
		}
	}
	in("mod x", s.Mod[0], synth.Range{Min: 0, Max: 1})
	in("mod y", s.Mod[1], synth.Range{Min: 0, Max: 1})
}
