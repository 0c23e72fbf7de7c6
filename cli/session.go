package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	"go-synthctl/config"
	"go-synthctl/control"
	"go-synthctl/debug"
	"go-synthctl/midi"
	"go-synthctl/synth"
	"go-synthctl/theme"
)

// Session is a running engine with a controller feeding it. Frontends read
// input into Controller and send the result through Broker.
type Session struct {
	Config     *config.Config
	Theme      *theme.Theme
	Controller *control.Controller
	Broker     *synth.Broker
	Devices    *midi.DeviceManager

	input   *midi.Input
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Start wires the controller to the MIDI bridge and starts the engine
// goroutines. The initial patch is queued before Start returns.
func Start(ctx context.Context, cfg *config.Config) (*Session, error) {
	if cfg.DebugLog {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: debug log: %v\n", err)
		}
	}

	km, err := control.LoadKeymap(config.KeybindingsPath())
	if err != nil {
		return nil, err
	}
	pointer, _ := control.ParsePointer(cfg.Pointer)

	palette, err := theme.LoadOrDefault(cfg.Palette)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		Config:     cfg,
		Theme:      theme.New(palette),
		Controller: control.New(km, pointer),
		Broker:     synth.NewBroker(cfg.QueueSize),
		Devices:    midi.NewDeviceManager(cfg.MIDI.OutputPort, cfg.MIDI.AutoConnect),
		cancel:     cancel,
		stopped:    make(chan struct{}),
	}

	bridge := midi.NewBridge(s.Broker, cfg.MIDIChannel())
	bridge.Watch(s.Devices)
	go s.Devices.Run(ctx)
	go func() {
		defer close(s.stopped)
		bridge.Run(ctx)
	}()

	if name := cfg.MIDI.InputPort; name != "" {
		in, err := midi.ListenInput(name, s.Broker, func(err error) {
			debug.Log("midi", "input %q: %v", name, err)
		})
		if err != nil {
			// The keyboard is optional; the synth still plays without it.
			fmt.Fprintf(os.Stderr, "warning: midi input: %v\n", err)
		} else {
			s.input = in
		}
	}

	if err := s.Broker.Send(s.Controller.PatchCommands()...); err != nil {
		s.Stop()
		return nil, fault.Wrap(err, fmsg.With("send initial patch"))
	}
	debug.Log("cli", "session started: pointer=%s channel=%d", pointer, cfg.MIDI.Channel)
	return s, nil
}

// Stop silences the engine and waits for it to finish.
func (s *Session) Stop() {
	if s.input != nil {
		s.input.Close()
	}
	s.cancel()
	<-s.stopped
	midi.CloseDriver()
	debug.Disable()
}
