package synth

import (
	"fmt"

	"go-synthctl/music"
)

// NoteID identifies a sounding note. The discriminator tells apart equal
// pitches triggered from different keyboard rows, so both can sound at once
// and be released separately.
type NoteID struct {
	Pitch         music.Pitch
	Discriminator uint8
}

func NewNoteID(p music.Pitch, discriminator uint8) NoteID {
	return NoteID{Pitch: p, Discriminator: discriminator}
}

// Int packs the identity into a single integer, unique for MIDI range
// pitches and discriminators below 16.
func (id NoteID) Int() int {
	return id.Pitch.MIDI()<<4 | int(id.Discriminator&0xF)
}

func (id NoteID) String() string {
	return fmt.Sprintf("%s/%d", id.Pitch, id.Discriminator)
}

// Command is a message to the engine. It is a closed union: only the types
// in this file implement it.
type Command interface {
	command()
}

type (
	NoteOn struct {
		Pitch    music.Pitch
		Velocity float64
		ID       NoteID
	}

	NoteOff struct {
		ID NoteID
	}

	// SelectPatchSlot picks one of the stored patches, Index 0..9.
	SelectPatchSlot struct {
		Index int
	}

	ToggleLoopPlayback struct {
		Slot int
	}

	ToggleLoopRecording struct {
		Slot int
	}

	TapTempo struct{}

	ShiftPitch struct {
		Semitones int
	}

	ShiftKeyboardOctave struct {
		Count int
	}

	TransposeKey struct {
		Steps int
	}

	// ReplaceInstrumentPatch carries a complete patch, never a delta.
	ReplaceInstrumentPatch struct {
		Spec InstrumentSpec
	}

	// ReplaceArpeggiatorPatch carries a complete arpeggiator; nil turns the
	// arpeggiator off.
	ReplaceArpeggiatorPatch struct {
		Spec *ArpeggiatorSpec
	}

	// ModulationXY is a continuous two axis modulation, nominally in [0,1].
	ModulationXY struct {
		X, Y float64
	}
)

func (NoteOn) command()                  {}
func (NoteOff) command()                 {}
func (SelectPatchSlot) command()         {}
func (ToggleLoopPlayback) command()      {}
func (ToggleLoopRecording) command()     {}
func (TapTempo) command()                {}
func (ShiftPitch) command()              {}
func (ShiftKeyboardOctave) command()     {}
func (TransposeKey) command()            {}
func (ReplaceInstrumentPatch) command()  {}
func (ReplaceArpeggiatorPatch) command() {}
func (ModulationXY) command()            {}

// PatchCommands returns the pair of full replacements the engine receives
// after any patch edit. Both specs are copied.
func PatchCommands(instrument InstrumentSpec, arp *ArpeggiatorSpec) []Command {
	var arpCopy *ArpeggiatorSpec
	if arp != nil {
		a := *arp
		arpCopy = &a
	}
	return []Command{
		ReplaceInstrumentPatch{Spec: instrument.Clone()},
		ReplaceArpeggiatorPatch{Spec: arpCopy},
	}
}
