package widgets

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"go-synthctl/synth"
	"go-synthctl/theme"
)

// PatchSlotCount is how many patch slots the number keys reach.
const PatchSlotCount = 10

// HUD renders engine views as text. With a nil Theme the output carries
// no escape sequences, for frontends that draw plain text.
type HUD struct {
	Theme      *theme.Theme
	GaugeWidth int
}

func NewHUD(th *theme.Theme) *HUD {
	return &HUD{Theme: th, GaugeWidth: 16}
}

func (h *HUD) paint(norm float64, s string) string {
	if h.Theme == nil {
		return s
	}
	return lipgloss.NewStyle().Foreground(h.Theme.Color(norm)).Render(s)
}

func (h *HUD) dim(s string) string {
	if h.Theme == nil {
		return s
	}
	return lipgloss.NewStyle().Foreground(h.Theme.Muted()).Render(s)
}

func (h *HUD) symbols() theme.Symbols {
	if h.Theme == nil {
		return theme.New(nil).Symbols
	}
	return h.Theme.Symbols
}

// Gauge renders one parameter: name, a bar filled to Norm, and the value.
func (h *HUD) Gauge(p synth.ParamView) string {
	width := h.GaugeWidth
	if width < 1 {
		width = 1
	}
	filled := int(p.Norm*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	sym := h.symbols()
	bar := strings.Repeat(string(sym.GaugeFull), filled)
	rest := strings.Repeat(string(sym.GaugeEmpty), width-filled)
	return fmt.Sprintf("%-11s %s%s %s", p.Name, h.paint(p.Norm, bar), h.dim(rest), p.Text)
}

func (h *HUD) Instrument(v synth.InstrumentView) string {
	var lines []string
	head := fmt.Sprintf("osc %s  filter %s", v.Oscillator, v.Filter)
	if v.LFO != "" {
		head += "  lfo " + v.LFO
	}
	lines = append(lines, head)
	for _, p := range v.Params {
		lines = append(lines, h.Gauge(p))
	}
	return strings.Join(lines, "\n")
}

func (h *HUD) HeldNotes(notes []synth.HeldNote) string {
	if len(notes) == 0 {
		return h.dim("notes -")
	}
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.Pitch.String()
	}
	return "notes " + h.paint(theme.RoleActive, strings.Join(names, " "))
}

// PatchSlots renders one cell per slot the number keys select, the
// selected one filled.
func (h *HUD) PatchSlots(slot int) string {
	sym := h.symbols()
	var out strings.Builder
	for i := 0; i < PatchSlotCount; i++ {
		if i == slot {
			out.WriteString(h.paint(theme.RoleAccent, string(sym.Solid)))
		} else {
			out.WriteString(h.dim(string(sym.Empty)))
		}
	}
	return out.String()
}

func (h *HUD) Loops(loops [synth.NumLoops]synth.LoopView) string {
	sym := h.symbols()
	var out strings.Builder
	out.WriteString("loops")
	for i, l := range loops {
		r := sym.LoopIdle
		norm := theme.RoleMuted
		switch {
		case l.Playing && l.Recording:
			r, norm = sym.LoopBoth, theme.RoleWarning
		case l.Recording:
			r, norm = sym.LoopRecording, theme.RoleActive
		case l.Playing:
			r, norm = sym.LoopPlaying, theme.RoleSuccess
		}
		fmt.Fprintf(&out, " %d%s", i+1, h.paint(norm, string(r)))
	}
	return out.String()
}

func (h *HUD) Transposer(t synth.TransposerView) string {
	return fmt.Sprintf("pitch %+d  octave %+d  key %s", t.PitchShift, t.KeyboardOctave, t.Key)
}

func (h *HUD) Tempo(period time.Duration) string {
	if period <= 0 {
		return h.dim("tempo -")
	}
	return fmt.Sprintf("tempo %.1f bpm", float64(time.Minute)/float64(period))
}

// Phrase renders the arpeggiator summary and its phrase with the playhead.
func (h *HUD) Phrase(a *synth.ArpeggiatorView) string {
	if a == nil {
		return h.dim("arp off")
	}
	sym := h.symbols()
	var steps strings.Builder
	for i, p := range a.Phrase {
		if i > 0 {
			steps.WriteString(" ")
		}
		if i == a.Playhead {
			steps.WriteString(h.paint(theme.RoleCursor, string(sym.StepPlayhead)+p.String()))
		} else {
			steps.WriteString(string(sym.StepIdle) + p.String())
		}
	}
	return "arp " + a.Summary + "\n" + steps.String()
}

// Waiting is shown until the engine publishes its first view.
func (h *HUD) Waiting() string {
	return h.dim("waiting for engine...")
}

// Render lays out the whole view under a header line.
func (h *HUD) Render(header string, v synth.View) string {
	output := v.Output
	if output == "" {
		output = "no output"
	}
	status := h.dim(fmt.Sprintf("patch %d", v.PatchSlot)) + " " + h.PatchSlots(v.PatchSlot) + "  " + h.dim(output)
	parts := []string{
		header,
		status,
		"",
		h.Instrument(v.Instrument),
		"",
		h.HeldNotes(v.HeldNotes),
		h.Loops(v.Loops),
		h.Transposer(v.Transposer),
		h.Tempo(v.TempoPeriod),
		h.Phrase(v.Arpeggiator),
	}
	return strings.Join(parts, "\n")
}
