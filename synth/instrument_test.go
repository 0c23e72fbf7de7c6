package synth_test

import (
	"math"
	"testing"

	"go-synthctl/music"
	"go-synthctl/synth"
)

func TestOscillatorConstructorsClamp(t *testing.T) {
	if o := synth.PulseOscillator(1.5); o.Duty != 1 {
		t.Errorf("PulseOscillator(1.5).Duty = %v, want 1", o.Duty)
	}
	o := synth.MixOscillator(99, 0, synth.Pulse, 3)
	if o.Voices != 40 || o.Detune != 0.001 || o.Base != synth.Saw || o.Seed != 3 {
		t.Errorf("MixOscillator clamping = %+v", o)
	}
	if o := synth.BasicOscillator(synth.Mix); o.Kind != synth.Sine {
		t.Errorf("BasicOscillator(Mix).Kind = %v, want sine", o.Kind)
	}
}

func TestRangeClamp(t *testing.T) {
	r := synth.Range{Min: 0, Max: 55}
	tests := []struct {
		in, want float64
	}{
		{-1, 0}, {0, 0}, {20, 20}, {55, 55}, {60, 55}, {math.NaN(), 0}, {math.Inf(1), 55},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := synth.VoicesRange.Clamp(0); got != 1 {
		t.Errorf("VoicesRange.Clamp(0) = %d, want 1", got)
	}
}

func TestCloneDoesNotShareLFO(t *testing.T) {
	s := synth.DefaultInstrument()
	lfo := synth.DefaultLFO()
	s.LFO = &lfo
	c := s.Clone()
	c.LFO.Amount = 0.9
	if s.LFO.Amount != 0.5 {
		t.Errorf("Clone shares the LFO with the original")
	}
}

func TestPatchCommandsCopy(t *testing.T) {
	s := synth.DefaultInstrument()
	lfo := synth.DefaultLFO()
	s.LFO = &lfo
	arp := synth.DefaultArpeggiator()
	cmds := synth.PatchCommands(s, &arp)
	if len(cmds) != 2 {
		t.Fatalf("PatchCommands returned %d commands, want 2", len(cmds))
	}
	inst, ok := cmds[0].(synth.ReplaceInstrumentPatch)
	if !ok {
		t.Fatalf("first command = %T, want ReplaceInstrumentPatch", cmds[0])
	}
	rep, ok := cmds[1].(synth.ReplaceArpeggiatorPatch)
	if !ok || rep.Spec == nil {
		t.Fatalf("second command = %#v, want ReplaceArpeggiatorPatch with a spec", cmds[1])
	}
	lfo.Amount = 0.1
	arp.Key = music.G
	if inst.Spec.LFO.Amount != 0.5 || rep.Spec.Key != music.C {
		t.Errorf("PatchCommands shares state with its arguments")
	}
	cmds = synth.PatchCommands(s, nil)
	if rep := cmds[1].(synth.ReplaceArpeggiatorPatch); rep.Spec != nil {
		t.Errorf("absent arpeggiator should be replaced by nil")
	}
}

func TestNoteIDDistinctRows(t *testing.T) {
	p := music.NewPitch(music.A, 3)
	a, b := synth.NewNoteID(p, 1), synth.NewNoteID(p, 2)
	if a == b || a.Int() == b.Int() {
		t.Errorf("ids from different rows collide: %v %v", a, b)
	}
	if a != synth.NewNoteID(p, 1) {
		t.Errorf("NoteID is not deterministic")
	}
}

func TestInstrumentViewParams(t *testing.T) {
	s := synth.DefaultInstrument()
	s.Oscillator = synth.MixOscillator(8, 3, synth.Saw, 0)
	v := synth.NewInstrumentView(s)
	if v.LFO != "" {
		t.Errorf("LFO text = %q, want empty", v.LFO)
	}
	names := map[string]synth.ParamView{}
	for _, p := range v.Params {
		names[p.Name] = p
		if p.Norm < 0 || p.Norm > 1 {
			t.Errorf("%s norm %v outside [0,1]", p.Name, p.Norm)
		}
	}
	if _, ok := names["voices"]; !ok {
		t.Errorf("mix oscillator view lacks voices")
	}
	if _, ok := names["duty"]; ok {
		t.Errorf("mix oscillator view has duty")
	}
}
