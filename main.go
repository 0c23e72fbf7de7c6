package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-synthctl/cli"
	"go-synthctl/tui"
)

func main() {
	cmd := cli.NewCommand("go-synthctl", "Play a MIDI synth from the computer keyboard", runTUI)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, s *cli.Session) error {
	m := tui.NewModel(s.Controller, s.Broker, s.Theme, s.Config.HoldTimeout())
	m.Title = s.Config.Window.Title
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// Interrupted; the session stops the engine on the way out.
		return nil
	}
	if err != nil {
		return err
	}
	return final.(tui.Model).Err()
}
