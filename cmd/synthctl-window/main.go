package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"go-synthctl/cli"
	"go-synthctl/control"
	"go-synthctl/window"
)

func main() {
	cmd := cli.NewCommand("synthctl-window", "Play a MIDI synth from a desktop window", runWindow)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWindow(ctx context.Context, s *cli.Session) error {
	g := window.NewGame(s.Controller, s.Broker, s.Theme, s.Config.Window.Title)
	defer g.Close()
	g.Quit = ctx.Done()

	ebiten.SetWindowSize(s.Config.Window.Width, s.Config.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(s.Config.Window.Title)
	if s.Controller.Pointer() == control.Relative {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	return ebiten.RunGame(g)
}
