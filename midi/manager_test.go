package midi

import (
	"context"
	"errors"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func fakeManager(want string, auto bool, ports *[]string) *DeviceManager {
	dm, _ := countingManager(want, auto, ports)
	return dm
}

// countingManager is fakeManager plus a map of how often each port was
// closed.
func countingManager(want string, auto bool, ports *[]string) (*DeviceManager, map[string]int) {
	closed := make(map[string]int)
	dm := NewDeviceManager(want, auto)
	dm.listPorts = func() []string { return *ports }
	dm.openPort = func(name string) (Sender, func() error, error) {
		if name == "broken" {
			return nil, nil, errors.New("busy")
		}
		send := func(gomidi.Message) error { return nil }
		return send, func() error { closed[name]++; return nil }, nil
	}
	return dm, closed
}

func drain(dm *DeviceManager) []DeviceEvent {
	var evs []DeviceEvent
	for {
		select {
		case ev := <-dm.events:
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

func TestDeviceManagerHotPlug(t *testing.T) {
	ports := []string{"Midi Through:0"}
	dm := fakeManager("FluidSynth", false, &ports)

	dm.scan()
	if evs := drain(dm); len(evs) != 0 {
		t.Fatalf("connected to %v without the wanted port", evs)
	}

	ports = append(ports, "FLUID Synth (FluidSynth) 128:0")
	dm.scan()
	evs := drain(dm)
	if len(evs) != 1 || evs[0].Type != DeviceConnected || evs[0].Send == nil {
		t.Fatalf("events = %+v, want one connect", evs)
	}
	if dm.Current() != ports[1] {
		t.Errorf("current = %q", dm.Current())
	}

	dm.scan()
	if evs := drain(dm); len(evs) != 0 {
		t.Errorf("rescan emitted %+v", evs)
	}

	ports = ports[:1]
	dm.scan()
	evs = drain(dm)
	if len(evs) != 1 || evs[0].Type != DeviceDisconnected {
		t.Fatalf("events = %+v, want one disconnect", evs)
	}
	if dm.Current() != "" {
		t.Errorf("current = %q after disconnect", dm.Current())
	}
}

func TestDeviceManagerAutoConnect(t *testing.T) {
	ports := []string{"broken"}
	dm := fakeManager("", true, &ports)
	dm.scan()
	if evs := drain(dm); len(evs) != 0 {
		t.Errorf("events for a port that failed to open: %+v", evs)
	}
	ports = []string{"synth a", "synth b"}
	dm.scan()
	if evs := drain(dm); len(evs) != 1 || evs[0].Port != "synth a" {
		t.Errorf("events = %+v, want connect to first port", evs)
	}

	none := fakeManager("", false, &ports)
	none.scan()
	if evs := drain(none); len(evs) != 0 {
		t.Errorf("connected without a name or autoConnect: %+v", evs)
	}
}

func TestDeviceManagerClosesPorts(t *testing.T) {
	ports := []string{"synth"}
	dm, closed := countingManager("synth", false, &ports)

	dm.scan()
	drain(dm)
	if closed["synth"] != 0 {
		t.Fatalf("port closed while connected")
	}

	ports = nil
	dm.scan()
	drain(dm)
	if closed["synth"] != 1 {
		t.Fatalf("closed %d times after unplug, want 1", closed["synth"])
	}

	ports = []string{"synth"}
	dm.scan()
	drain(dm)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dm.pollRate = time.Hour
	dm.Run(ctx)
	if closed["synth"] != 2 {
		t.Errorf("closed %d times after Run stopped, want 2", closed["synth"])
	}
	if dm.Current() != "" {
		t.Errorf("current = %q after Run stopped", dm.Current())
	}
}

func TestEventMessage(t *testing.T) {
	e := Event{Type: CC, Channel: 1, Data1: CCCutoff, Data2: 100}
	var ch, cc, v uint8
	if !e.Message().GetControlChange(&ch, &cc, &v) || ch != 1 || cc != CCCutoff || v != 100 {
		t.Errorf("Message() = %v", e.Message())
	}
	if s := e.String(); s != "ch=2 cc74=100" {
		t.Errorf("String() = %q", s)
	}
	if toValue(2, 0, 4) != 64 || toValue(-1, 0, 1) != 0 || toValue(9, 0, 1) != 127 {
		t.Errorf("toValue scaling")
	}
}
