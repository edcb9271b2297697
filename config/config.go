package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gopkg.in/yaml.v3"

	"go-drum/sequencer"
)

// OutputBackend selects how instruments are sounded
type OutputBackend string

const (
	OutputAudio OutputBackend = "audio" // play sample files
	OutputMIDI  OutputBackend = "midi"  // send notes to a MIDI port
)

// Steps bounds
const (
	MinSteps = 1
	MaxSteps = 64
)

// InstrumentConfig names a grid row and where its sound comes from
type InstrumentConfig struct {
	Name   string `json:"name" yaml:"name"`
	Sample string `json:"sample,omitempty" yaml:"sample,omitempty"` // wav path, relative to SampleDir
	Note   *uint8 `json:"note,omitempty" yaml:"note,omitempty"`     // MIDI note, nil = from kit
}

// TempoConfig holds tempo bounds and the starting tempo in BPM
type TempoConfig struct {
	Min     int `json:"min,omitempty" yaml:"min,omitempty"`
	Max     int `json:"max,omitempty" yaml:"max,omitempty"`
	Default int `json:"default,omitempty" yaml:"default,omitempty"`
}

// OutputConfig selects the output backend
type OutputConfig struct {
	Backend  OutputBackend `json:"backend,omitempty" yaml:"backend,omitempty"`
	PortName string        `json:"portName,omitempty" yaml:"portName,omitempty"` // MIDI out port
	Channel  uint8         `json:"channel,omitempty" yaml:"channel,omitempty"`   // MIDI channel 1-16
	Kit      string        `json:"kit,omitempty" yaml:"kit,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Instruments []InstrumentConfig `json:"instruments,omitempty" yaml:"instruments,omitempty"`
	Tempo       TempoConfig        `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	Steps       int                `json:"steps,omitempty" yaml:"steps,omitempty"`
	SampleDir   string             `json:"sampleDir,omitempty" yaml:"sampleDir,omitempty"`
	Output      OutputConfig       `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instruments: []InstrumentConfig{
			{Name: "kick", Sample: "kick.wav"},
			{Name: "snare", Sample: "snare.wav"},
			{Name: "hihat", Sample: "hihat.wav"},
			{Name: "clap", Sample: "clap.wav"},
		},
		Tempo: TempoConfig{
			Min:     sequencer.DefaultMinBPM,
			Max:     sequencer.DefaultMaxBPM,
			Default: sequencer.DefaultBPM,
		},
		Steps:     sequencer.DefaultSteps,
		SampleDir: ".",
		Output: OutputConfig{
			Backend: OutputAudio,
			Channel: 10,
			Kit:     sequencer.DefaultKit,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drum"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if err != nil && ftag.Get(err) == ftag.NotFound {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a JSON or YAML config (chosen by extension), fills unset
// fields with defaults and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(err,
				fmsg.WithDesc("config not found", fmt.Sprintf("No config file at %s", path)),
				ftag.With(ftag.NotFound))
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fault.Wrap(err,
			fmsg.WithDesc("parse config", fmt.Sprintf("%s is not a valid config file", path)),
			ftag.With(ftag.InvalidArgument))
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SampleDir != "" && !filepath.IsAbs(cfg.SampleDir) {
		cfg.SampleDir = filepath.Join(filepath.Dir(path), cfg.SampleDir)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the config to the default path as JSON
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, as YAML for .yaml/.yml and JSON otherwise
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}

// Normalize fills unset fields with defaults and clamps the default tempo
// into the configured bounds.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if len(c.Instruments) == 0 {
		c.Instruments = def.Instruments
	}
	if c.Tempo.Min == 0 && c.Tempo.Max == 0 {
		c.Tempo.Min, c.Tempo.Max = def.Tempo.Min, def.Tempo.Max
	}
	if c.Tempo.Default == 0 {
		c.Tempo.Default = def.Tempo.Default
	}
	if c.Tempo.Min > 0 && c.Tempo.Max >= c.Tempo.Min {
		if c.Tempo.Default < c.Tempo.Min {
			c.Tempo.Default = c.Tempo.Min
		}
		if c.Tempo.Default > c.Tempo.Max {
			c.Tempo.Default = c.Tempo.Max
		}
	}
	if c.Steps == 0 {
		c.Steps = def.Steps
	}
	if c.Output.Backend == "" {
		c.Output.Backend = def.Output.Backend
	}
	if c.Output.Channel == 0 {
		c.Output.Channel = def.Output.Channel
	}
	if c.Output.Kit == "" {
		c.Output.Kit = def.Output.Kit
	}
}

// Validate rejects configs the sequencer cannot run with
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return invalid("no instruments configured")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		name := strings.TrimSpace(inst.Name)
		if name == "" {
			return invalid(fmt.Sprintf("instrument %d has no name", i+1))
		}
		if seen[name] {
			return invalid(fmt.Sprintf("instrument %q is listed twice", name))
		}
		seen[name] = true
		if inst.Note != nil && *inst.Note > 127 {
			return invalid(fmt.Sprintf("instrument %q note %d is not a MIDI note", name, *inst.Note))
		}
	}
	if c.Tempo.Min <= 0 || c.Tempo.Max < c.Tempo.Min {
		return invalid(fmt.Sprintf("tempo range %d-%d is invalid", c.Tempo.Min, c.Tempo.Max))
	}
	if c.Steps < MinSteps || c.Steps > MaxSteps {
		return invalid(fmt.Sprintf("steps must be between %d and %d, got %d", MinSteps, MaxSteps, c.Steps))
	}
	switch c.Output.Backend {
	case OutputAudio, OutputMIDI:
	default:
		return invalid(fmt.Sprintf("unknown output backend %q", c.Output.Backend))
	}
	if c.Output.Channel < 1 || c.Output.Channel > 16 {
		return invalid(fmt.Sprintf("MIDI channel %d out of range 1-16", c.Output.Channel))
	}
	return nil
}

func invalid(desc string) error {
	return fault.New("invalid config",
		fmsg.WithDesc(desc, "Invalid configuration: "+desc),
		ftag.With(ftag.InvalidArgument))
}

// InstrumentNames returns the configured instruments in row order
func (c *Config) InstrumentNames() []sequencer.Instrument {
	names := make([]sequencer.Instrument, len(c.Instruments))
	for i, inst := range c.Instruments {
		names[i] = sequencer.Instrument(strings.TrimSpace(inst.Name))
	}
	return names
}

// FindInstrument finds an instrument config by name
func (c *Config) FindInstrument(name sequencer.Instrument) *InstrumentConfig {
	for i := range c.Instruments {
		if sequencer.Instrument(strings.TrimSpace(c.Instruments[i].Name)) == name {
			return &c.Instruments[i]
		}
	}
	return nil
}

// NoteFor returns the configured MIDI note for an instrument. ok is false
// when the kit's note should be used.
func (c *Config) NoteFor(name sequencer.Instrument) (note uint8, ok bool) {
	inst := c.FindInstrument(name)
	if inst == nil || inst.Note == nil {
		return 0, false
	}
	return *inst.Note, true
}

// SamplePath resolves an instrument's sample path against SampleDir.
// It returns "" when the instrument has no sample.
func (c *Config) SamplePath(name sequencer.Instrument) string {
	inst := c.FindInstrument(name)
	if inst == nil || inst.Sample == "" {
		return ""
	}
	if filepath.IsAbs(inst.Sample) || c.SampleDir == "" {
		return inst.Sample
	}
	return filepath.Join(c.SampleDir, inst.Sample)
}
