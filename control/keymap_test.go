package control_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"

	"go-synthctl/control"
	"go-synthctl/music"
	"go-synthctl/synth"
)

func TestDefaultKeymapRows(t *testing.T) {
	km := control.DefaultKeymap()
	tests := []struct {
		key   control.Key
		pitch music.Pitch
		row   uint8
	}{
		{"q", music.NewPitch(music.A, 4), 3},
		{"p", music.NewPitch(music.C, 6), 3},
		{"d", music.NewPitch(music.C, 4), 2},
		{";", music.NewPitch(music.C, 5), 2},
		{"z", music.NewPitch(music.A, 2), 1},
		{"/", music.NewPitch(music.C, 4), 1},
	}
	for _, tt := range tests {
		b, ok := km.Lookup(control.ContextPlaying, tt.key)
		if !ok || b.Action != control.ActionNote {
			t.Errorf("%q is not a note key", tt.key)
			continue
		}
		if want := synth.NewNoteID(tt.pitch, tt.row); b.Note != want {
			t.Errorf("%q -> %v, want %v", tt.key, b.Note, want)
		}
	}
	for _, ctx := range control.Contexts() {
		if len(km.Bindings(ctx)) == 0 {
			t.Errorf("context %s has no bindings", ctx)
		}
	}
}

func TestBindingsKeepFileOrder(t *testing.T) {
	km := control.DefaultKeymap()
	got := km.Bindings(control.ContextMenu)
	if len(got) < 2 || got[0].Key != "o" || got[1].Key != "f" {
		t.Errorf("menu bindings out of order: %v", got)
	}
}

func TestLoadKeymapUserOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.yml")
	user := `
playing:
  - {key: q, action: ""}
  - {key: "` + "`" + `", action: tap-tempo}
  - {key: "1", action: patch, value: 5}
`
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}
	km, err := control.LoadKeymap(path)
	if err != nil {
		t.Fatalf("LoadKeymap: %v", err)
	}
	if _, ok := km.Lookup(control.ContextPlaying, "q"); ok {
		t.Errorf("q should be unbound")
	}
	if b, ok := km.Lookup(control.ContextPlaying, "`"); !ok || b.Action != control.ActionTapTempo {
		t.Errorf("backtick = %+v,%v", b, ok)
	}
	if b, _ := km.Lookup(control.ContextPlaying, "1"); b.Value != 5 {
		t.Errorf("1 -> patch %d, want 5", b.Value)
	}
	for _, b := range km.Bindings(control.ContextPlaying) {
		if b.Key == "q" {
			t.Errorf("unbound key still listed")
		}
	}
}

func TestLoadKeymapMissingUserFile(t *testing.T) {
	km, err := control.LoadKeymap(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("LoadKeymap: %v", err)
	}
	if _, ok := km.Lookup(control.ContextPlaying, "q"); !ok {
		t.Errorf("defaults missing")
	}
}

func TestKeymapRejectsBadBindings(t *testing.T) {
	tests := map[string]string{
		"unknown field":      "playing:\n  - {key: q, action: note, pitch: A4, row: 3, colour: red}\n",
		"unknown context":    "mixer:\n  - {key: q, action: play}\n",
		"wrong context":      "filter:\n  - {key: q, action: note, pitch: A4, row: 3}\n",
		"bad pitch":          "playing:\n  - {key: q, action: note, pitch: H4, row: 3}\n",
		"bad row":            "playing:\n  - {key: q, action: note, pitch: A4, row: 0}\n",
		"patch out of range": "playing:\n  - {key: q, action: patch, value: 10}\n",
		"bad waveform":       "oscillator:\n  - {key: q, action: waveform, name: noise}\n",
		"mix as lfo":         "lfo:\n  - {key: q, action: lfo-waveform, name: mix}\n",
		"missing key":        "menu:\n  - {action: play}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			kb, err := control.ParseKeyBindings(strings.NewReader(doc))
			if err == nil {
				_, err = control.NewKeymap(kb)
			}
			if err == nil {
				t.Fatalf("accepted %q", doc)
			}
			if ftag.Get(err) != ftag.InvalidArgument {
				t.Errorf("error %v tagged %q, want %q", err, ftag.Get(err), ftag.InvalidArgument)
			}
		})
	}
}

func TestInvalidBindingSentinel(t *testing.T) {
	_, err := control.NewKeymap(control.KeyBindings{"menu": {{Key: "x", Action: "fly"}}})
	if !errors.Is(err, control.ErrInvalidBinding) {
		t.Errorf("err = %v, want ErrInvalidBinding", err)
	}
}

func TestDescribe(t *testing.T) {
	km := control.DefaultKeymap()
	tests := []struct {
		ctx  string
		key  control.Key
		want string
	}{
		{control.ContextPlaying, "3", "patch 3"},
		{control.ContextPlaying, "d", "C4"},
		{control.ContextPlaying, "up", "pitch +12"},
		{control.ContextMenu, "l", "lfo"},
		{control.ContextLFO, "c", "-> cutoff"},
		{control.ContextEnvelope, "-", "volume -0.1"},
	}
	for _, tt := range tests {
		b, ok := km.Lookup(tt.ctx, tt.key)
		if !ok {
			t.Errorf("%s %q unbound", tt.ctx, tt.key)
			continue
		}
		if got := b.Describe(); got != tt.want {
			t.Errorf("%s %q Describe() = %q, want %q", tt.ctx, tt.key, got, tt.want)
		}
	}
}
