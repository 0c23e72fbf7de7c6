package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn        uint8 = 0x90
	NoteOff       uint8 = 0x80
	CC            uint8 = 0xB0
	ProgramChange uint8 = 0xC0
)

// Controller numbers the bridge drives. They follow the General MIDI sound
// controller assignments where one exists.
const (
	CCModX      uint8 = 1
	CCModY      uint8 = 2
	CCVolume    uint8 = 7
	CCResonance uint8 = 71
	CCRelease   uint8 = 72
	CCAttack    uint8 = 73
	CCCutoff    uint8 = 74
	CCLFORate   uint8 = 76
	CCLFODepth  uint8 = 77
)

// Event is one outgoing MIDI channel message. Data1 is the note, controller
// or program number; Data2 the velocity or controller value.
type Event struct {
	Type    uint8
	Channel uint8 // 0-15
	Data1   uint8
	Data2   uint8
}

// Message encodes the event for sending.
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Data1, e.Data2)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Data1)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Data1, e.Data2)
	case ProgramChange:
		return gomidi.ProgramChange(e.Channel, e.Data1)
	}
	return nil
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("ch=%d note-on %d vel=%d", e.Channel+1, e.Data1, e.Data2)
	case NoteOff:
		return fmt.Sprintf("ch=%d note-off %d", e.Channel+1, e.Data1)
	case CC:
		return fmt.Sprintf("ch=%d cc%d=%d", e.Channel+1, e.Data1, e.Data2)
	case ProgramChange:
		return fmt.Sprintf("ch=%d program %d", e.Channel+1, e.Data1)
	}
	return fmt.Sprintf("type=%#x", e.Type)
}

// toValue maps v within [lo,hi] onto 0-127, clamping.
func toValue(v, lo, hi float64) uint8 {
	if hi <= lo || v != v {
		return 0
	}
	n := (v - lo) / (hi - lo)
	n = max(min(n, 1), 0)
	return uint8(n*127 + 0.5)
}
