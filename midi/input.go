package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-synthctl/debug"
	"go-synthctl/music"
	"go-synthctl/synth"
)

// InputDiscriminator tells notes from an external keyboard apart from the
// computer keyboard rows, which use 1 to 3.
const InputDiscriminator uint8 = 0

// Input forwards notes played on an external MIDI keyboard to the engine.
type Input struct {
	id       string
	stopFunc func()
	once     sync.Once
}

// ListenInput opens the input port named name and sends its notes through
// b. onError is called once, from the MIDI driver's goroutine, if a command
// cannot be delivered.
func ListenInput(name string, b *synth.Broker, onError func(error)) (*Input, error) {
	in := &Input{id: name}
	for _, port := range gomidi.GetInPorts() {
		if port.String() != name {
			continue
		}
		stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
			cmd, ok := Translate(msg)
			if !ok {
				return
			}
			if err := b.Send(cmd); err != nil {
				in.once.Do(func() { onError(err) })
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		in.stopFunc = stop
		debug.Log("midi", "listening on %q", name)
		return in, nil
	}
	return nil, fmt.Errorf("no input port %q", name)
}

func (in *Input) ID() string {
	return in.id
}

// Close stops listening. Later calls do nothing.
func (in *Input) Close() error {
	if in.stopFunc != nil {
		in.stopFunc()
		in.stopFunc = nil
		debug.Log("midi", "stopped listening on %q", in.ID())
	}
	return nil
}

// Translate maps an incoming channel message to an engine command. Only
// note messages are translated.
func Translate(msg gomidi.Message) (synth.Command, bool) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		id := synth.NewNoteID(music.FromMIDI(int(key)), InputDiscriminator)
		return synth.NoteOn{Pitch: id.Pitch, Velocity: float64(velocity) / 127, ID: id}, true
	case msg.GetNoteEnd(&channel, &key):
		id := synth.NewNoteID(music.FromMIDI(int(key)), InputDiscriminator)
		return synth.NoteOff{ID: id}, true
	}
	return nil, false
}
