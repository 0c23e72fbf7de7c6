package midi

import (
	"context"
	"slices"
	"time"

	"go-synthctl/debug"
	"go-synthctl/music"
	"go-synthctl/synth"
)

const (
	// frameRate is how often the arpeggiator playhead is advanced for display.
	frameRate = 30

	tapWindow   = 4 // intervals averaged for tap tempo
	tapReset    = 2 * time.Second
	defaultBeat = 500 * time.Millisecond
	maxShift    = 48
	maxOctave   = 4
)

var (
	pitchShiftRange     = synth.IntRange{Min: -maxShift, Max: maxShift}
	keyboardOctaveRange = synth.IntRange{Min: -maxOctave, Max: maxOctave}
)

type sounding struct {
	pitch music.Pitch // after transposition
	note  uint8       // MIDI note number sent
}

// Bridge is the engine end of a synth.Broker. It plays commands on an
// external synthesizer over MIDI and keeps what the display needs: sounding
// notes, loop flags, transposition, tap tempo and the current patches. It
// works without an output port, then it only keeps state.
//
// All state is owned by the goroutine running Run.
type Bridge struct {
	broker  *synth.Broker
	devices <-chan DeviceEvent
	send    Sender
	port    string
	channel uint8

	instrument synth.InstrumentSpec
	arp        *synth.ArpeggiatorSpec
	sounding   map[synth.NoteID]sounding
	loops      [synth.NumLoops]synth.LoopView
	transposer synth.TransposerView
	taps       []time.Time
	tempo      time.Duration
	patchSlot  int
	lastCC     map[uint8]uint8

	playhead int
	stepAt   time.Time
	seq      uint64
	now      func() time.Time
}

// NewBridge returns a headless bridge playing on MIDI channel ch (0-15).
func NewBridge(b *synth.Broker, ch uint8) *Bridge {
	return &Bridge{
		broker:     b,
		channel:    ch & 0x0F,
		instrument: synth.DefaultInstrument(),
		sounding:   make(map[synth.NoteID]sounding),
		lastCC:     make(map[uint8]uint8),
		playhead:   -1,
		now:        time.Now,
	}
}

// Watch makes Run follow the output port reported by dm.
func (br *Bridge) Watch(dm *DeviceManager) {
	br.devices = dm.Events()
}

// Attach starts playing on send. The current patch is sent right away so
// the synthesizer matches the display.
func (br *Bridge) Attach(port string, send Sender) {
	br.port = port
	br.send = send
	clear(br.lastCC)
	br.sendPatch()
	debug.Log("midi", "bridge playing on %q ch=%d", port, br.channel+1)
}

// Detach stops sending. Notes that were sounding are forgotten; they died
// with the port.
func (br *Bridge) Detach() {
	br.port = ""
	br.send = nil
	clear(br.sounding)
}

// Run consumes commands until ctx is done, publishing a view after each one.
// It closes the broker when it returns so senders learn the engine is gone.
func (br *Bridge) Run(ctx context.Context) {
	defer br.broker.Close()

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	br.publish()
	for {
		select {
		case <-ctx.Done():
			br.allNotesOff()
			return
		case cmd := <-br.broker.ToEngine:
			br.Apply(cmd)
			br.publish()
		case ev, ok := <-br.devices:
			if !ok {
				br.devices = nil
				continue
			}
			switch ev.Type {
			case DeviceConnected:
				br.Attach(ev.Port, ev.Send)
			case DeviceDisconnected:
				br.Detach()
			}
			br.publish()
		case <-ticker.C:
			if br.advance() {
				br.publish()
			}
		}
	}
}

// Apply executes one command.
func (br *Bridge) Apply(cmd synth.Command) {
	switch c := cmd.(type) {
	case synth.NoteOn:
		br.noteOn(c)
	case synth.NoteOff:
		br.noteOff(c.ID)
	case synth.SelectPatchSlot:
		if c.Index < 0 || c.Index > 127 {
			debug.Log("midi", "patch slot %d out of range", c.Index)
			return
		}
		br.patchSlot = c.Index
		br.emit(Event{Type: ProgramChange, Channel: br.channel, Data1: uint8(c.Index)})
	case synth.ToggleLoopPlayback:
		if l := br.loop(c.Slot); l != nil {
			l.Playing = !l.Playing
		}
	case synth.ToggleLoopRecording:
		if l := br.loop(c.Slot); l != nil {
			l.Recording = !l.Recording
		}
	case synth.TapTempo:
		br.tap(br.now())
	case synth.ShiftPitch:
		br.transposer.PitchShift = pitchShiftRange.Clamp(br.transposer.PitchShift + c.Semitones)
	case synth.ShiftKeyboardOctave:
		br.transposer.KeyboardOctave = keyboardOctaveRange.Clamp(br.transposer.KeyboardOctave + c.Count)
	case synth.TransposeKey:
		br.transposer.Key = br.transposer.Key.Transpose(c.Steps)
	case synth.ReplaceInstrumentPatch:
		br.instrument = c.Spec.Clone()
		br.sendPatch()
	case synth.ReplaceArpeggiatorPatch:
		br.arp = nil
		if c.Spec != nil {
			a := *c.Spec
			br.arp = &a
		}
		br.playhead = -1
	case synth.ModulationXY:
		br.controlChange(CCModX, toValue(c.X, 0, 1))
		br.controlChange(CCModY, toValue(c.Y, 0, 1))
	default:
		debug.Violation("bridge: unhandled command %T", cmd)
	}
}

// offset is the transposition applied to every note when it starts.
func (br *Bridge) offset() int {
	t := br.transposer
	return t.PitchShift + 12*t.KeyboardOctave + int(t.Key)
}

func (br *Bridge) noteOn(c synth.NoteOn) {
	if _, ok := br.sounding[c.ID]; ok {
		br.noteOff(c.ID)
	}
	p := c.Pitch.Transpose(br.offset())
	n := p.MIDI()
	if n < 0 || n > 127 {
		debug.Log("midi", "note %s (%s) outside MIDI range", p, c.ID)
		return
	}
	vel := max(toValue(c.Velocity, 0, 1), 1)
	br.sounding[c.ID] = sounding{pitch: p, note: uint8(n)}
	br.emit(Event{Type: NoteOn, Channel: br.channel, Data1: uint8(n), Data2: vel})
}

// noteOff releases the note that was sent for id, whatever the
// transposition is now.
func (br *Bridge) noteOff(id synth.NoteID) {
	s, ok := br.sounding[id]
	if !ok {
		return
	}
	delete(br.sounding, id)
	br.emit(Event{Type: NoteOff, Channel: br.channel, Data1: s.note})
}

func (br *Bridge) allNotesOff() {
	for id := range br.sounding {
		br.noteOff(id)
	}
}

func (br *Bridge) loop(slot int) *synth.LoopView {
	if slot < 0 || slot >= len(br.loops) {
		debug.Log("midi", "loop slot %d out of range", slot)
		return nil
	}
	return &br.loops[slot]
}

// tap records a tempo tap. The period is the mean interval of the last
// taps; a pause longer than tapReset starts over.
func (br *Bridge) tap(now time.Time) {
	if n := len(br.taps); n > 0 && now.Sub(br.taps[n-1]) > tapReset {
		br.taps = br.taps[:0]
	}
	br.taps = append(br.taps, now)
	if len(br.taps) > tapWindow+1 {
		br.taps = slices.Delete(br.taps, 0, len(br.taps)-tapWindow-1)
	}
	if n := len(br.taps); n >= 2 {
		br.tempo = br.taps[n-1].Sub(br.taps[0]) / time.Duration(n-1)
	}
}

// sendPatch sends the sound controllers of the current instrument. Only
// values that changed since the last send go out.
func (br *Bridge) sendPatch() {
	in := br.instrument
	br.controlChange(CCVolume, toValue(in.Volume, synth.VolumeRange.Min, synth.VolumeRange.Max))
	br.controlChange(CCCutoff, toValue(in.Filter.Cutoff, synth.CutoffRange.Min, synth.CutoffRange.Max))
	br.controlChange(CCResonance, toValue(in.Filter.Resonance, synth.ResonanceRange.Min, synth.ResonanceRange.Max))
	br.controlChange(CCAttack, toValue(in.Envelope.Attack, synth.AttackRange.Min, synth.AttackRange.Max))
	br.controlChange(CCRelease, toValue(in.Envelope.Release, synth.ReleaseRange.Min, synth.ReleaseRange.Max))
	var rate, depth uint8
	if in.LFO != nil {
		rate = toValue(in.LFO.Freq, synth.FreqRange.Min, synth.FreqRange.Max)
		depth = toValue(in.LFO.Amount, synth.AmountRange.Min, synth.AmountRange.Max)
	}
	br.controlChange(CCLFORate, rate)
	br.controlChange(CCLFODepth, depth)
}

func (br *Bridge) controlChange(cc, value uint8) {
	if last, ok := br.lastCC[cc]; ok && last == value {
		return
	}
	br.lastCC[cc] = value
	br.emit(Event{Type: CC, Channel: br.channel, Data1: cc, Data2: value})
}

func (br *Bridge) emit(e Event) {
	if br.send == nil {
		return
	}
	if err := br.send(e.Message()); err != nil {
		debug.Log("midi", "send %s to %q: %v", e, br.port, err)
		return
	}
	if debug.Enabled() {
		debug.LogEvery(20, "midi", "sent %s", e)
	}
}

// advance moves the arpeggiator playhead for display. It runs while the
// arpeggiator is on and a note is held, one step per note duration at the
// tapped tempo. It reports whether the playhead moved.
func (br *Bridge) advance() bool {
	if br.arp == nil || len(br.sounding) == 0 {
		if br.playhead == -1 {
			return false
		}
		br.playhead = -1
		return true
	}
	now := br.now()
	if br.playhead == -1 {
		br.playhead, br.stepAt = 0, now
		return true
	}
	beat := br.tempo
	if beat <= 0 {
		beat = defaultBeat
	}
	step := time.Duration(float64(beat) * br.arp.Duration.Beats())
	if now.Sub(br.stepAt) < step {
		return false
	}
	br.playhead = (br.playhead + 1) % len(br.arp.Phrase())
	br.stepAt = now
	return true
}

// View returns a snapshot of the bridge state.
func (br *Bridge) View() synth.View {
	v := synth.View{
		Seq:         br.seq,
		Instrument:  synth.NewInstrumentView(br.instrument),
		Loops:       br.loops,
		Transposer:  br.transposer,
		TempoPeriod: br.tempo,
		PatchSlot:   br.patchSlot,
		Output:      br.port,
	}
	for id, s := range br.sounding {
		v.HeldNotes = append(v.HeldNotes, synth.HeldNote{ID: id, Pitch: s.pitch})
	}
	slices.SortFunc(v.HeldNotes, func(a, b synth.HeldNote) int {
		return a.ID.Int() - b.ID.Int()
	})
	if br.arp != nil {
		v.Arpeggiator = synth.NewArpeggiatorView(*br.arp, br.playhead)
	}
	return v
}

func (br *Bridge) publish() {
	br.seq++
	br.broker.Publish(br.View())
}
