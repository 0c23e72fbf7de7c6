package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go-synthctl/config"
)

func parse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cmd, f := newCommand("test", "", nil)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return loadConfig(cmd, f)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `{"pointer": "absolute", "midi": {"outputPort": "fluid", "channel": 3, "autoConnect": true}}`)

	cfg, err := parse(t, "--config", path, "--pointer", "relative", "--channel", "10")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pointer != "relative" {
		t.Errorf("Pointer = %q, want relative", cfg.Pointer)
	}
	if cfg.MIDI.Channel != 10 {
		t.Errorf("Channel = %d, want 10", cfg.MIDI.Channel)
	}
	if cfg.MIDI.OutputPort != "fluid" {
		t.Errorf("OutputPort = %q, want the file's value", cfg.MIDI.OutputPort)
	}
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	path := writeConfig(t, `{"pointer": "relative", "midi": {"channel": 5}}`)

	cfg, err := parse(t, "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pointer != "relative" || cfg.MIDI.Channel != 5 {
		t.Errorf("got pointer %q channel %d", cfg.Pointer, cfg.MIDI.Channel)
	}
}

func TestFlagValidation(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := parse(t, "--config", path, "--channel", "17")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("channel 17: err = %v, want ErrInvalid", err)
	}
	_, err = parse(t, "--config", path, "--pointer", "sideways")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("bad pointer: err = %v, want ErrInvalid", err)
	}
}

func TestMissingConfigFileUsesDefaults(t *testing.T) {
	cfg, err := parse(t, "--config", filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MIDI.Channel != 1 || cfg.Pointer != "absolute" {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestSaveConfig(t *testing.T) {
	path := writeConfig(t, `{"pointer": "absolute", "midi": {"channel": 2}}`)

	ran := false
	cmd, _ := newCommand("test", "", func(context.Context, *Session) error {
		ran = true
		return nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "--channel", "7", "--save-config"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Error("--save-config started the frontend")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MIDI.Channel != 7 || cfg.Pointer != "absolute" {
		t.Errorf("saved pointer %q channel %d", cfg.Pointer, cfg.MIDI.Channel)
	}
	if out.String() != "saved "+path+"\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestSaveConfigDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd, _ := newCommand("test", "", nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--pointer", "relative", "--save-config"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pointer != "relative" {
		t.Errorf("Pointer = %q after save", cfg.Pointer)
	}
}
