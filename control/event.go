package control

// Key names a physical key the way bubbletea spells it: "a", "1", ";",
// "tab", "esc", "up", "f1", "space", "backspace". Frontends translate their
// native key codes into these names.
type Key string

// Event is an input event. Only the types in this file implement it.
type Event interface {
	event()
}

// Viewport is the size of the drawing surface pointer coordinates refer to.
type Viewport struct {
	Width, Height float64
}

// Valid reports whether coordinates can be normalized against v.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

type (
	KeyPress struct {
		Key Key
	}

	KeyRelease struct {
		Key Key
	}

	// PointerMoveAbsolute is a cursor position in viewport coordinates.
	PointerMoveAbsolute struct {
		X, Y     float64
		Viewport Viewport
	}

	// PointerMoveRelative is a cursor displacement since the previous event.
	PointerMoveRelative struct {
		DX, DY   float64
		Viewport Viewport
	}
)

func (KeyPress) event()            {}
func (KeyRelease) event()          {}
func (PointerMoveAbsolute) event() {}
func (PointerMoveRelative) event() {}

// Pointer is the pointer convention a deployment uses for continuous
// parameters.
type Pointer int

const (
	// Absolute maps the cursor position directly to parameter values.
	Absolute Pointer = iota
	// Relative accumulates cursor motion into the current values.
	Relative
)

func (p Pointer) String() string {
	if p == Relative {
		return "relative"
	}
	return "absolute"
}

func ParsePointer(s string) (Pointer, bool) {
	switch s {
	case "absolute", "":
		return Absolute, true
	case "relative":
		return Relative, true
	}
	return Absolute, false
}
