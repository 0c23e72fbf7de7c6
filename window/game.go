// Package window is the desktop frontend. Unlike a terminal it sees real
// key releases, so held notes last exactly as long as the key is down.
package window

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"go-synthctl/control"
	"go-synthctl/debug"
	"go-synthctl/synth"
	"go-synthctl/theme"
	"go-synthctl/widgets"
)

// listedKeys is the most bindings listed one per line; larger contexts are
// laid out in columns.
const listedKeys = 12

type Game struct {
	Controller *control.Controller
	Broker     *synth.Broker
	Title      string
	Quit       <-chan struct{} // closing it ends the game loop

	hud *widgets.HUD
	bg  color.RGBA

	keys     []ebiten.Key
	view     synth.View
	haveView bool
	viewport control.Viewport
	lastX    int
	lastY    int
	tracking bool
}

func NewGame(ctrl *control.Controller, broker *synth.Broker, th *theme.Theme, title string) *Game {
	bg := th.RGB(theme.RoleBG)
	return &Game{
		Controller: ctrl,
		Broker:     broker,
		Title:      title,
		hud:        widgets.NewHUD(nil), // DebugPrint draws plain text
		bg:         color.RGBA{bg[0], bg[1], bg[2], 0xff},
	}
}

// Update returns an error when commands can no longer reach the engine,
// which ends ebiten.RunGame with it.
func (g *Game) Update() error {
	select {
	case <-g.Quit:
		return ebiten.Termination
	case <-g.Broker.Done():
		return synth.ErrEngineGone
	default:
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	pressed := names(g.keys)
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	released := names(g.keys)
	x, y := ebiten.CursorPosition()

	return g.step(pressed, released, x, y)
}

func names(keys []ebiten.Key) []control.Key {
	var out []control.Key
	for _, k := range keys {
		if name, ok := KeyName(k); ok {
			out = append(out, name)
		}
	}
	return out
}

// step handles one frame of input.
func (g *Game) step(pressed, released []control.Key, x, y int) error {
	for _, k := range pressed {
		if err := g.send(g.Controller.Dispatch(control.KeyPress{Key: k})); err != nil {
			return err
		}
	}
	for _, k := range released {
		if err := g.send(g.Controller.Dispatch(control.KeyRelease{Key: k})); err != nil {
			return err
		}
	}
	if err := g.send(g.pointer(x, y)); err != nil {
		return err
	}
	if v, ok := g.Broker.Poll(); ok {
		g.view, g.haveView = v, true
	}
	return nil
}

func (g *Game) pointer(x, y int) []synth.Command {
	if g.tracking && x == g.lastX && y == g.lastY {
		return nil
	}
	dx, dy := x-g.lastX, y-g.lastY
	first := !g.tracking
	g.lastX, g.lastY, g.tracking = x, y, true

	if g.Controller.Pointer() == control.Absolute {
		return g.Controller.Dispatch(control.PointerMoveAbsolute{X: float64(x), Y: float64(y), Viewport: g.viewport})
	}
	if first {
		return nil
	}
	return g.Controller.Dispatch(control.PointerMoveRelative{DX: float64(dx), DY: float64(dy), Viewport: g.viewport})
}

func (g *Game) send(cmds []synth.Command) error {
	if len(cmds) == 0 {
		return nil
	}
	if err := g.Broker.Send(cmds...); err != nil {
		debug.Log("window", "send failed: %v", err)
		return err
	}
	return nil
}

// Close releases held notes.
func (g *Game) Close() {
	_ = g.Broker.Send(g.Controller.ReleaseAll()...)
}

// Text returns what Draw prints.
func (g *Game) Text() string {
	mode := g.Controller.Mode()
	var keys []widgets.KeyBinding
	for _, b := range g.Controller.Keymap().Bindings(mode.Context()) {
		keys = append(keys, widgets.KeyBinding{Key: string(b.Key), Desc: b.Describe()})
	}
	header := g.Title + "  " + mode.String()
	var out strings.Builder
	if g.haveView {
		out.WriteString(g.hud.Render(header, g.view))
	} else {
		out.WriteString(header + "\n" + g.hud.Waiting())
	}
	out.WriteString("\n\n")
	sec := widgets.KeySection{Title: mode.Context(), Keys: keys}
	if len(keys) > listedKeys {
		out.WriteString(widgets.RenderKeyColumns(sec, 4))
	} else {
		out.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{sec}))
	}
	return out.String()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	ebitenutil.DebugPrint(screen, g.Text())
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.viewport = control.Viewport{Width: float64(outsideW), Height: float64(outsideH)}
	return outsideW, outsideH
}
