package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Gauges
	GaugeFull  rune // █ filled cell
	GaugeEmpty rune // ░ unfilled cell

	// Patch slots
	Solid rune // ■ selected slot
	Empty rune // □ other slots

	// Arpeggiator phrase
	StepIdle     rune // · step not playing
	StepPlayhead rune // ▶ current step

	// Loops
	LoopIdle      rune // ○
	LoopPlaying   rune // ▶
	LoopRecording rune // ●
	LoopBoth      rune // ◉ playing while recording
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			GaugeFull:  '█',
			GaugeEmpty: '░',

			Solid: '■',
			Empty: '□',

			StepIdle:     '·',
			StepPlayhead: '▶',

			LoopIdle:      '○',
			LoopPlaying:   '▶',
			LoopRecording: '●',
			LoopBoth:      '◉',
		},
	}
}

// Default returns a theme over the built-in palette.
func Default() *Theme {
	return New(DefaultPalette())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}
