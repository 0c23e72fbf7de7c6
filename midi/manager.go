package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-synthctl/debug"
)

// Sender writes one MIDI message to an open output port.
type Sender func(gomidi.Message) error

// DeviceEvent is emitted when the output port connects/disconnects
type DeviceEvent struct {
	Type DeviceEventType
	Port string
	Send Sender // nil on disconnect
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of the synth output port. It
// watches for the configured port name (or, with autoConnect and no name,
// the first port it sees) and reports it connecting and going away.
type DeviceManager struct {
	want        string
	autoConnect bool

	mu       sync.RWMutex
	current  string
	events   chan DeviceEvent
	pollRate time.Duration

	listPorts func() []string
	openPort  func(name string) (Sender, func() error, error)
	closePort func() error // closes the current port, nil if none
}

// NewDeviceManager creates a device manager for the output port named
// want.
func NewDeviceManager(want string, autoConnect bool) *DeviceManager {
	return &DeviceManager{
		want:        want,
		autoConnect: autoConnect,
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
		listPorts:   OutPorts,
		openPort:    OpenOut,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Current returns the name of the connected port, "" if none.
func (dm *DeviceManager) Current() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.current
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.release()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []string, 1)
	go func() {
		ch <- dm.listPorts()
	}()

	var ports []string
	select {
	case ports = <-ch:
	case <-time.After(3 * time.Second):
		// CoreMIDI is hung - skip this scan
		// User needs to run: sudo killall coreaudiod midiserver
		debug.Log("midi", "port scan timed out")
		return
	}

	current := dm.Current()
	if current != "" {
		for _, p := range ports {
			if p == current {
				return
			}
		}
		dm.release()
		debug.Log("midi", "output %q disconnected", current)
		dm.events <- DeviceEvent{Type: DeviceDisconnected, Port: current}
	}

	name := dm.pick(ports)
	if name == "" {
		return
	}
	send, closePort, err := dm.openPort(name)
	if err != nil {
		debug.Log("midi", "open output %q: %v", name, err)
		return
	}
	dm.mu.Lock()
	dm.current = name
	dm.closePort = closePort
	dm.mu.Unlock()
	debug.Log("midi", "output %q connected", name)
	dm.events <- DeviceEvent{Type: DeviceConnected, Port: name, Send: send}
}

// release forgets the current port and closes it.
func (dm *DeviceManager) release() {
	dm.mu.Lock()
	closePort := dm.closePort
	dm.current, dm.closePort = "", nil
	dm.mu.Unlock()
	if closePort == nil {
		return
	}
	if err := closePort(); err != nil {
		debug.Log("midi", "close output: %v", err)
	}
}

// pick chooses the port to connect to: an exact name match first, then a
// case-insensitive substring match, then with autoConnect the first port.
func (dm *DeviceManager) pick(ports []string) string {
	if dm.want != "" {
		for _, p := range ports {
			if p == dm.want {
				return p
			}
		}
		want := strings.ToLower(dm.want)
		for _, p := range ports {
			if strings.Contains(strings.ToLower(p), want) {
				return p
			}
		}
		return ""
	}
	if dm.autoConnect && len(ports) > 0 {
		return ports[0]
	}
	return ""
}

// OutPorts lists the names of the MIDI output ports.
func OutPorts() []string {
	var names []string
	for _, p := range gomidi.GetOutPorts() {
		names = append(names, p.String())
	}
	return names
}

// InPorts lists the names of the MIDI input ports.
func InPorts() []string {
	var names []string
	for _, p := range gomidi.GetInPorts() {
		names = append(names, p.String())
	}
	return names
}

// OpenOut opens the output port with the given name. The returned func
// closes the port.
func OpenOut(name string) (Sender, func() error, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == name {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, nil, fmt.Errorf("open output %q: %w", name, err)
			}
			return send, port.Close, nil
		}
	}
	return nil, nil, fmt.Errorf("no output port %q", name)
}

// CloseDriver closes the MIDI driver and every port it opened.
func CloseDriver() {
	gomidi.CloseDriver()
}
