// Package music holds the little bit of music theory the controller needs:
// pitch classes, pitches with MIDI numbering and their textual names.
package music

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PitchClass is a pitch without octave, C = 0 ... B = 11.
type PitchClass int

const (
	C PitchClass = iota
	Db
	D
	Eb
	E
	F
	Gb
	G
	Ab
	A
	Bb
	B
)

var classNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterClasses = map[byte]PitchClass{
	'C': C, 'D': D, 'E': E, 'F': F, 'G': G, 'A': A, 'B': B,
}

func (p PitchClass) String() string {
	return classNames[mod(int(p), 12)]
}

// Transpose moves the pitch class by steps semitones, wrapping around the
// octave.
func (p PitchClass) Transpose(steps int) PitchClass {
	return PitchClass(mod(int(p)+steps, 12))
}

// ParsePitchClass parses names like "C", "F#" or "Bb".
func ParsePitchClass(s string) (PitchClass, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	c, ok := letterClasses[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, false
	}
	if len(s) == 2 {
		switch s[1] {
		case '#':
			c = c.Transpose(1)
		case 'b':
			c = c.Transpose(-1)
		default:
			return 0, false
		}
	}
	return c, true
}

// Pitch is a pitch class in a given octave. Octave 4 holds middle C, so
// Pitch{C, 4} is MIDI note 60.
type Pitch struct {
	Class  PitchClass
	Octave int
}

func NewPitch(class PitchClass, octave int) Pitch {
	return Pitch{Class: PitchClass(mod(int(class), 12)), Octave: octave}
}

// FromMIDI returns the pitch of a MIDI note number.
func FromMIDI(n int) Pitch {
	return Pitch{Class: PitchClass(mod(n, 12)), Octave: floorDiv(n, 12) - 1}
}

// MIDI returns the MIDI note number. It is not clamped to 0..127.
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + int(p.Class)
}

func (p Pitch) Transpose(semitones int) Pitch {
	return FromMIDI(p.MIDI() + semitones)
}

// Frequency in Hz, equal temperament with A4 = 440 Hz.
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(p.MIDI()-69)/12)
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Class, p.Octave)
}

// ParsePitch parses names like "C4", "F#3", "Bb2" or "C-1".
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	split := 1
	if len(s) > 2 && (s[1] == '#' || s[1] == 'b') {
		split = 2
	}
	if len(s) <= split {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	class, ok := ParsePitchClass(s[:split])
	if !ok {
		return Pitch{}, fmt.Errorf("invalid pitch class in %q", s)
	}
	octave, err := strconv.Atoi(s[split:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in %q: %w", s, err)
	}
	return NewPitch(class, octave), nil
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int) int {
	return (a - mod(a, b)) / b
}
