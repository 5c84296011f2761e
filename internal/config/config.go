// Package config resolves runtime settings from defaults, an optional TOML
// file, AMBIENT_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable of the ambient engine and CLI.
type Config struct {
	Backend     string  `toml:"backend"`
	SampleRate  int     `toml:"sample_rate"`
	BlockSize   int     `toml:"block_size"`
	LatencyMS   int     `toml:"latency_ms"`
	MasterLevel float64 `toml:"master_level"`
	// Smoothing is the mute time constant in seconds.
	Smoothing float64 `toml:"smoothing"`

	Log  Log  `toml:"log"`
	Idle Idle `toml:"idle"`
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Idle configures the idle heartbeat.
type Idle struct {
	// Threshold is the idle time before heartbeats start.
	Threshold float64 `toml:"threshold"`
	// Ramp is the time from threshold to full intensity.
	Ramp float64 `toml:"ramp"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Backend:     "auto",
		SampleRate:  48000,
		BlockSize:   512,
		LatencyMS:   50,
		MasterLevel: 0.2,
		Smoothing:   0.1,
		Log:         Log{Level: "info", Format: "console"},
		Idle:        Idle{Threshold: 5, Ramp: 20},
	}
}

// Latency returns LatencyMS as a duration.
func (c Config) Latency() time.Duration {
	return time.Duration(c.LatencyMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be > 0, got %d", c.SampleRate))
	}
	if c.BlockSize <= 0 {
		errs = append(errs, fmt.Errorf("block_size must be > 0, got %d", c.BlockSize))
	}
	if c.LatencyMS <= 0 {
		errs = append(errs, fmt.Errorf("latency_ms must be > 0, got %d", c.LatencyMS))
	}
	if c.MasterLevel < 0 || c.MasterLevel > 1 {
		errs = append(errs, fmt.Errorf("master_level must be in [0, 1], got %v", c.MasterLevel))
	}
	if c.Smoothing <= 0 {
		errs = append(errs, fmt.Errorf("smoothing must be > 0, got %v", c.Smoothing))
	}
	if c.Idle.Threshold < 0 || c.Idle.Ramp <= 0 {
		errs = append(errs, fmt.Errorf("idle threshold/ramp invalid: %v/%v", c.Idle.Threshold, c.Idle.Ramp))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LoadFile decodes the TOML file at path over c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AMBIENT_"

// ApplyEnv overrides fields from environment variables looked up with
// lookup, typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	flt := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}

	str("BACKEND", &c.Backend)
	num("SAMPLE_RATE", &c.SampleRate)
	num("BLOCK_SIZE", &c.BlockSize)
	num("LATENCY_MS", &c.LatencyMS)
	flt("MASTER_LEVEL", &c.MasterLevel)
	flt("SMOOTHING", &c.Smoothing)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	flt("IDLE_THRESHOLD", &c.Idle.Threshold)
	flt("IDLE_RAMP", &c.Idle.Ramp)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Flags binds the common command-line flags.
type Flags struct {
	fs   *flag.FlagSet
	path string
	vals Config
}

// RegisterFlags defines the common flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}
	fs.StringVar(&f.path, "config", "", "TOML config file")
	fs.StringVar(&f.vals.Backend, "backend", d.Backend, "audio backend: auto, oto, malgo, pulse, null")
	fs.IntVar(&f.vals.SampleRate, "sample-rate", d.SampleRate, "requested sample rate in Hz")
	fs.IntVar(&f.vals.BlockSize, "block-size", d.BlockSize, "render block size in frames")
	fs.IntVar(&f.vals.LatencyMS, "latency-ms", d.LatencyMS, "device buffer in milliseconds")
	fs.Float64Var(&f.vals.MasterLevel, "master-level", d.MasterLevel, "master gain in [0, 1]")
	fs.StringVar(&f.vals.Log.Level, "log-level", d.Log.Level, "log level")
	fs.StringVar(&f.vals.Log.Format, "log-format", d.Log.Format, "log format: console or json")
	return f
}

// Resolve layers defaults, the -config file, the environment and the flags
// that were set explicitly. The flag set must already be parsed.
func (f *Flags) Resolve(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if f.path != "" {
		if err := cfg.LoadFile(f.path); err != nil {
			return Config{}, err
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Backend = f.vals.Backend
		case "sample-rate":
			cfg.SampleRate = f.vals.SampleRate
		case "block-size":
			cfg.BlockSize = f.vals.BlockSize
		case "latency-ms":
			cfg.LatencyMS = f.vals.LatencyMS
		case "master-level":
			cfg.MasterLevel = f.vals.MasterLevel
		case "log-level":
			cfg.Log.Level = f.vals.Log.Level
		case "log-format":
			cfg.Log.Format = f.vals.Log.Format
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
