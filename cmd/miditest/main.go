package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-synthctl/midi"
	"go-synthctl/music"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollDevices()
	case "note":
		if len(os.Args) < 3 {
			usage()
			return
		}
		pitch := "C4"
		if len(os.Args) > 3 {
			pitch = os.Args[3]
		}
		testNote(os.Args[2], pitch)
	case "monitor":
		if len(os.Args) < 3 {
			usage()
			return
		}
		monitor(os.Args[2])
	default:
		usage()
	}
	midi.CloseDriver()
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List all MIDI ports")
	fmt.Println("  poll                 - Watch the synth output port come and go")
	fmt.Println("  note <port> [pitch]  - Play one note on an output port")
	fmt.Println("  monitor <port>       - Print notes arriving on an input port")
}

func listPorts() {
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.InPorts(), outs: midi.OutPorts()}
	}()

	select {
	case r := <-ch:
		fmt.Println("=== MIDI Input Ports ===")
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p)
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

// pollDevices runs the same hot-plug detection the synth uses.
func pollDevices() {
	want := ""
	if len(os.Args) > 2 {
		want = os.Args[2]
	}
	fmt.Println("Watching for an output port. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dm := midi.NewDeviceManager(want, true)
	go dm.Run(ctx)
	for ev := range dm.Events() {
		ts := time.Now().Format("15:04:05")
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected: %s\n", ts, ev.Port)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected: %s\n", ts, ev.Port)
		}
	}
}

func testNote(port, pitchName string) {
	pitch, err := music.ParsePitch(pitchName)
	if err != nil {
		fmt.Printf("bad pitch: %v\n", err)
		return
	}

	var name string
	for _, p := range midi.OutPorts() {
		if strings.Contains(strings.ToLower(p), strings.ToLower(port)) {
			name = p
			break
		}
	}
	if name == "" {
		fmt.Printf("no output port matching %q\n", port)
		return
	}

	send, closePort, err := midi.OpenOut(name)
	if err != nil {
		fmt.Printf("open %s: %v\n", name, err)
		return
	}
	defer closePort()

	key := uint8(pitch.MIDI())
	fmt.Printf("Playing %s (note %d) on %s\n", pitch, key, name)
	if err := send(gomidi.NoteOn(0, key, 100)); err != nil {
		fmt.Printf("send: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond)
	send(gomidi.NoteOff(0, key))
}

func monitor(port string) {
	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", port)
	var found bool
	for _, p := range gomidi.GetInPorts() {
		if p.String() != port {
			continue
		}
		found = true
		stopListen, err := gomidi.ListenTo(p, func(msg gomidi.Message, timestampms int32) {
			if cmd, ok := midi.Translate(msg); ok {
				fmt.Printf("%6dms %-20s -> %+v\n", timestampms, msg, cmd)
				return
			}
			fmt.Printf("%6dms %s\n", timestampms, msg)
		})
		if err != nil {
			fmt.Printf("listen: %v\n", err)
			return
		}
		defer stopListen()
	}
	if !found {
		fmt.Printf("no input port %q\n", port)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()
}
