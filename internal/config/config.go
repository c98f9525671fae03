// Package config loads the marchive command line configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/marchive/filter"
	"github.com/meigma/marchive/mfile"
)

// ErrInvalid is returned when a configuration value is not recognized.
var ErrInvalid = errors.New("config: invalid value")

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Filter kinds.
const (
	FilterNone     = "none"
	FilterXORShift = "xorshift"
)

// Config is the command line configuration.
type Config struct {
	Log         Log         `yaml:"log"`
	Compression Compression `yaml:"compression"`
	Filter      Filter      `yaml:"filter"`
}

// Log configures the command line logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Compression configures the ".m" codec used by build and compress.
type Compression struct {
	// Codec is empty (no compression) or a name accepted by mfile.ParseFormat.
	Codec        string `yaml:"codec"`
	KeepOriginal bool   `yaml:"keep_original"`
}

// Filter configures the descriptor filter.
type Filter struct {
	Kind string `yaml:"kind"`
	Key  uint32 `yaml:"key"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    Log{Level: "info", Format: FormatText},
		Filter: Filter{Kind: FilterNone},
	}
}

// Load reads the YAML file at path over Default. Environment variables in
// the file are expanded before parsing.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	if _, _, err := c.Compression.Parse(); err != nil {
		return err
	}
	if _, err := c.Filter.Build(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return level, nil
}

// Handler returns an slog handler writing to w in the configured format.
func (l Log) Handler(w io.Writer) (slog.Handler, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, FormatJSON) {
		return slog.NewJSONHandler(w, opts), nil
	}
	return slog.NewTextHandler(w, opts), nil
}

// Parse returns the configured format. enabled is false when Codec is empty.
func (c Compression) Parse() (format mfile.Format, enabled bool, err error) {
	if c.Codec == "" {
		return 0, false, nil
	}
	format, err = mfile.ParseFormat(c.Codec)
	if err != nil {
		return 0, false, fmt.Errorf("%w: compression.codec: %w", ErrInvalid, err)
	}
	return format, true, nil
}

// Build returns the configured filter, or nil for FilterNone.
func (f Filter) Build() (filter.Filter, error) {
	switch strings.ToLower(f.Kind) {
	case "", FilterNone:
		return nil, nil
	case FilterXORShift:
		return filter.NewXORShift(f.Key), nil
	default:
		return nil, fmt.Errorf("%w: filter.kind %q", ErrInvalid, f.Kind)
	}
}
