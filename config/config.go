// Package config holds the bridge configuration and its JSON file format.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mrdg/synthbridge/audio"
	"github.com/mrdg/synthbridge/midi"
	"go.uber.org/zap/zapcore"
)

var ErrInvalid = errors.New("invalid configuration")

type Audio struct {
	SampleRate      float64 `json:"sample_rate"`
	FramesPerBuffer int     `json:"frames_per_buffer"`
	Channels        int     `json:"channels"`
	QueueCapacity   int     `json:"queue_capacity"`
	Interleaved     bool    `json:"interleaved,omitempty"`
}

type MIDI struct {
	Transport  string `json:"transport,omitempty"`
	Source     string `json:"source,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	PortName   string `json:"port_name,omitempty"`
}

// Controller routes one MIDI controller number to a node parameter slot.
type Controller struct {
	Number uint8   `json:"number"`
	Node   int     `json:"node"`
	Slot   int     `json:"slot"`
	Lo     float32 `json:"lo"`
	Hi     float32 `json:"hi"`
}

type Config struct {
	Audio       Audio        `json:"audio"`
	MIDI        MIDI         `json:"midi"`
	Controllers []Controller `json:"controllers"`
	NoteTargets []int        `json:"note_targets"`
	LogLevel    string       `json:"log_level,omitempty"`
}

// Default returns the configuration of the built-in patch.
func Default() *Config {
	cfg := &Config{
		Audio: Audio{
			SampleRate:      audio.DefaultSampleRate,
			FramesPerBuffer: 512,
			Channels:        2,
			QueueCapacity:   1024,
		},
		MIDI: MIDI{
			Transport:  "rtmidi",
			ClientName: "synthbridge",
			PortName:   "input",
		},
		NoteTargets: []int{5},
		LogLevel:    "info",
	}
	for number, t := range midi.DefaultMapping() {
		cfg.Controllers = append(cfg.Controllers, Controller{
			Number: number, Node: t.Node, Slot: t.Slot, Lo: t.Lo, Hi: t.Hi,
		})
	}
	sort.Slice(cfg.Controllers, func(i, j int) bool {
		return cfg.Controllers[i].Number < cfg.Controllers[j].Number
	})
	return cfg
}

// Load reads a JSON file on top of the defaults, so a file only needs the
// fields it changes. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// decode tables into fresh slices so entries in the file do not inherit
	// fields from the defaults
	controllers := cfg.Controllers
	cfg.Controllers = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Controllers == nil {
		cfg.Controllers = controllers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Audio.SampleRate <= 0 {
		problems = append(problems, fmt.Sprintf("sample rate %g", c.Audio.SampleRate))
	}
	if n := c.Audio.FramesPerBuffer; n <= 0 || n%audio.ChunkSize != 0 {
		problems = append(problems, fmt.Sprintf("frames per buffer %d is not a multiple of %d", n, audio.ChunkSize))
	}
	if c.Audio.Channels < 1 {
		problems = append(problems, fmt.Sprintf("%d channels", c.Audio.Channels))
	}
	if n := c.Audio.QueueCapacity; n <= 0 || n&(n-1) != 0 {
		problems = append(problems, fmt.Sprintf("queue capacity %d is not a power of 2", n))
	}
	seen := make(map[uint8]bool)
	for _, ctrl := range c.Controllers {
		if ctrl.Number > 127 {
			problems = append(problems, fmt.Sprintf("controller number %d", ctrl.Number))
		}
		if seen[ctrl.Number] {
			problems = append(problems, fmt.Sprintf("controller %d mapped twice", ctrl.Number))
		}
		seen[ctrl.Number] = true
		if ctrl.Node < 0 || ctrl.Node >= audio.MaxNodes {
			problems = append(problems, fmt.Sprintf("controller %d: node %d", ctrl.Number, ctrl.Node))
		}
	}
	for _, id := range c.NoteTargets {
		if id < 0 || id >= audio.MaxNodes {
			problems = append(problems, fmt.Sprintf("note target %d", id))
		}
	}
	if _, err := c.Level(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Mapping returns the controller table used by the translator.
func (c *Config) Mapping() midi.Mapping {
	m := make(midi.Mapping, len(c.Controllers))
	for _, ctrl := range c.Controllers {
		m[ctrl.Number] = midi.Target{Node: ctrl.Node, Slot: ctrl.Slot, Lo: ctrl.Lo, Hi: ctrl.Hi}
	}
	return m
}

// Level parses LogLevel. Empty means info.
func (c *Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
