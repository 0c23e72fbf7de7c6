// Package cli holds the command line shared by the terminal and window
// frontends: flags, config loading and the engine session.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-synthctl/config"
	"go-synthctl/midi"
)

// Frontend runs the user interface until it quits.
type Frontend func(ctx context.Context, s *Session) error

type flags struct {
	config  string
	pointer string
	midiOut string
	midiIn  string
	channel int
	palette string
	debug   bool
	list    bool
	save    bool
}

// NewCommand returns the root command for a frontend.
func NewCommand(use, short string, run Frontend) *cobra.Command {
	cmd, _ := newCommand(use, short, run)
	return cmd
}

func newCommand(use, short string, run Frontend) (*cobra.Command, *flags) {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.list {
				listPorts(cmd)
				return nil
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if f.save {
				return saveConfig(cmd, f, cfg)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := Start(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Stop()
			return run(ctx, s)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (default ~/.config/go-synthctl/config.json)")
	fl.StringVarP(&f.pointer, "pointer", "p", "", "pointer convention: absolute or relative")
	fl.StringVarP(&f.midiOut, "midi-out", "o", "", "MIDI output port name or substring")
	fl.StringVarP(&f.midiIn, "midi-in", "i", "", "MIDI keyboard input port")
	fl.IntVar(&f.channel, "channel", 0, "MIDI channel 1-16")
	fl.StringVar(&f.palette, "palette", "", "GIMP .gpl palette for the display")
	fl.BoolVarP(&f.debug, "debug", "d", false, "write a debug log to ~/.config/go-synthctl/debug.log")
	fl.BoolVarP(&f.list, "list", "l", false, "list MIDI ports and exit")
	fl.BoolVar(&f.save, "save-config", false, "write the config with the given flags applied and exit")
	return cmd, f
}

// loadConfig reads the config file and applies the flags that were given.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("pointer") {
		cfg.Pointer = f.pointer
	}
	if fl.Changed("midi-out") {
		cfg.MIDI.OutputPort = f.midiOut
	}
	if fl.Changed("midi-in") {
		cfg.MIDI.InputPort = f.midiIn
	}
	if fl.Changed("channel") {
		cfg.MIDI.Channel = f.channel
	}
	if fl.Changed("palette") {
		cfg.Palette = f.palette
	}
	if fl.Changed("debug") {
		cfg.DebugLog = f.debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// saveConfig writes cfg to the --config file, or the default path.
func saveConfig(cmd *cobra.Command, f *flags, cfg *config.Config) error {
	path := f.config
	if path == "" {
		if err := cfg.Save(); err != nil {
			return err
		}
		path, _ = config.ConfigPath()
	} else if err := cfg.SaveFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
	return nil
}

func listPorts(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Outputs:")
	for i, name := range midi.OutPorts() {
		fmt.Fprintf(out, "  %d: %s\n", i, name)
	}
	fmt.Fprintln(out, "Inputs:")
	for i, name := range midi.InPorts() {
		fmt.Fprintf(out, "  %d: %s\n", i, name)
	}
	midi.CloseDriver()
}
