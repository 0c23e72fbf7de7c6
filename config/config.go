package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// ErrInvalid tags values rejected by Validate.
var ErrInvalid = errors.New("invalid configuration")

// WindowConfig sizes the window frontend
type WindowConfig struct {
	Title  string `json:"title,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MIDIConfig defines the synth MIDI output and optional keyboard input
type MIDIConfig struct {
	OutputPort  string `json:"outputPort,omitempty"`
	InputPort   string `json:"inputPort,omitempty"`
	Channel     int    `json:"channel,omitempty"` // 1-16
	AutoConnect bool   `json:"autoConnect"`
}

// Config is the main configuration structure
type Config struct {
	Window        WindowConfig `json:"window"`
	Pointer       string       `json:"pointer,omitempty"` // absolute | relative
	MIDI          MIDIConfig   `json:"midi"`
	QueueSize     int          `json:"queueSize,omitempty"`
	Palette       string       `json:"palette,omitempty"` // .gpl file, empty for the built-in one
	DebugLog      bool         `json:"debugLog,omitempty"`
	HoldTimeoutMs int          `json:"holdTimeoutMs,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Sintetizador Maravilhoso",
			Width:  800,
			Height: 800,
		},
		Pointer: "absolute",
		MIDI: MIDIConfig{
			Channel:     1,
			AutoConnect: true,
		},
		QueueSize:     1024,
		HoldTimeoutMs: 120,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-synthctl"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// KeybindingsPath returns the path of the user keybindings file
func KeybindingsPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keybindings.yml")
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Fields missing from the file keep
// their defaults; a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"), ftag.With(ftag.Internal))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("parse %s", path)), ftag.With(ftag.InvalidArgument))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fault.Wrap(err, fmsg.With(path))
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}

// Validate rejects out-of-range values
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Pointer != "absolute" && c.Pointer != "relative":
		return invalid("pointer %q, want absolute or relative", c.Pointer)
	case c.MIDI.Channel < 1 || c.MIDI.Channel > 16:
		return invalid("midi channel %d outside 1-16", c.MIDI.Channel)
	case c.QueueSize <= 0:
		return invalid("queue size %d", c.QueueSize)
	case c.HoldTimeoutMs < 10:
		return invalid("hold timeout %dms below 10ms", c.HoldTimeoutMs)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fault.Wrap(fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...),
		ftag.With(ftag.InvalidArgument))
}

// HoldTimeout returns HoldTimeoutMs as a duration
func (c *Config) HoldTimeout() time.Duration {
	return time.Duration(c.HoldTimeoutMs) * time.Millisecond
}

// MIDIChannel returns the zero-based MIDI channel
func (c *Config) MIDIChannel() uint8 {
	return uint8(c.MIDI.Channel - 1)
}
