package synth

import (
	"fmt"
	"slices"

	"go-synthctl/music"
)

// Chord is the interval shape the arpeggiator walks through.
type Chord int

const (
	Octaves Chord = iota
	Triad
	Fantasy
	Tetra
	Penta
)

var chordNames = []string{"octaves", "triad", "fantasy", "tetra", "penta"}

var chordIntervals = [][]int{
	Octaves: {0},
	Triad:   {0, 4, 7},
	Fantasy: {0, 4, 7, 11, 14},
	Tetra:   {0, 4, 7, 10},
	Penta:   {0, 2, 4, 7, 9},
}

func (c Chord) String() string {
	if c < 0 || int(c) >= len(chordNames) {
		return fmt.Sprintf("chord(%d)", int(c))
	}
	return chordNames[c]
}

// Intervals returns the semitone offsets of the chord from its root.
func (c Chord) Intervals() []int {
	if c < 0 || int(c) >= len(chordIntervals) {
		return []int{0}
	}
	return chordIntervals[c]
}

func ParseChord(name string) (Chord, bool) {
	return parseName(chordNames, name, Octaves)
}

type Direction int

const (
	Up Direction = iota
	Down
	UpDown
)

var directionNames = []string{"up", "down", "updown"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

func ParseDirection(name string) (Direction, bool) {
	return parseName(directionNames, name, Up)
}

// OctaveShift is an ordered enumeration of octave offsets, Down3 (-3) to
// Up3 (+3).
type OctaveShift int

const (
	Down3 OctaveShift = iota - 3
	Down2
	Down1
	Zero
	Up1
	Up2
	Up3
)

// OctaveShiftRange holds the numeric value of every OctaveShift.
var OctaveShiftRange = IntRange{int(Down3), int(Up3)}

// OctaveShiftFrom resolves a numeric shift. ok is false outside Down3..Up3.
func OctaveShiftFrom(value int) (shift OctaveShift, ok bool) {
	if !OctaveShiftRange.Contains(value) {
		return Zero, false
	}
	return OctaveShift(value), true
}

func (o OctaveShift) String() string {
	switch {
	case o > 0:
		return fmt.Sprintf("+%d", int(o))
	default:
		return fmt.Sprintf("%d", int(o))
	}
}

// Duration is the length of each arpeggiated note.
type Duration int

const (
	Whole Duration = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecond
)

var durationNames = []string{"1/1", "1/2", "1/4", "1/8", "1/16", "1/32"}

func (d Duration) String() string {
	if d < 0 || int(d) >= len(durationNames) {
		return fmt.Sprintf("duration(%d)", int(d))
	}
	return durationNames[d]
}

// Halve returns the next shorter duration. ok is false at ThirtySecond.
func (d Duration) Halve() (Duration, bool) {
	if d >= ThirtySecond {
		return d, false
	}
	return d + 1, true
}

// Double returns the next longer duration. ok is false at Whole.
func (d Duration) Double() (Duration, bool) {
	if d <= Whole {
		return d, false
	}
	return d - 1, true
}

// Beats returns the length in quarter notes.
func (d Duration) Beats() float64 {
	return 4 / float64(int(1)<<d)
}

// ArpeggiatorSpec configures the arpeggiator. OctaveMin <= OctaveMax always
// holds for specs built by the controller.
type ArpeggiatorSpec struct {
	Key       music.PitchClass
	Chord     Chord
	Direction Direction
	OctaveMin OctaveShift
	OctaveMax OctaveShift
	Duration  Duration
}

func DefaultArpeggiator() ArpeggiatorSpec {
	return ArpeggiatorSpec{
		Key:       music.C,
		Chord:     Triad,
		Direction: Up,
		OctaveMin: Zero,
		OctaveMax: Up1,
		Duration:  Eighth,
	}
}

// Phrase returns the notes the arpeggiator cycles through: the chord stacked
// on the key at octave 4 for every octave shift in range, ordered by
// direction. UpDown does not repeat the turning notes.
func (a ArpeggiatorSpec) Phrase() []music.Pitch {
	root := music.NewPitch(a.Key, 4)
	lo, hi := a.OctaveMin, a.OctaveMax
	if lo > hi {
		lo, hi = hi, lo
	}
	var up []music.Pitch
	for o := lo; o <= hi; o++ {
		for _, iv := range a.Chord.Intervals() {
			up = append(up, root.Transpose(int(o)*12+iv))
		}
	}
	switch a.Direction {
	case Down:
		slices.Reverse(up)
		return up
	case UpDown:
		if len(up) <= 2 {
			return up
		}
		down := slices.Clone(up[1 : len(up)-1])
		slices.Reverse(down)
		return append(up, down...)
	default:
		return up
	}
}
