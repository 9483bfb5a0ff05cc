// Package config loads siq configuration from TOML or YAML files.
//
// A file needs only the keys it changes; everything else keeps the value
// from Default:
//
//	[log]
//	level = "debug"
//
//	[output]
//	format = "text"
//	precision = 6
//	color = "auto"
//
//	[units]
//	preferred = ["km/h", "kW", "MPa"]
//
// SIQ_LOG_LEVEL overrides log.level after the file is read.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/sitypes/errors"
)

// EnvLogLevel names the environment variable that overrides log.level.
const EnvLogLevel = "SIQ_LOG_LEVEL"

// Format is a configuration file format.
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Output formats and color modes.
const (
	OutputText = "text"
	OutputCBOR = "cbor"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Log    Log    `toml:"log" yaml:"log"`
	Output Output `toml:"output" yaml:"output"`
	Units  Units  `toml:"units" yaml:"units"`
}

type Log struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

type Output struct {
	Format string `toml:"format" yaml:"format"`
	// Precision is the number of significant digits; -1 prints the shortest
	// representation that round-trips.
	Precision int    `toml:"precision" yaml:"precision"`
	Color     string `toml:"color" yaml:"color"`
}

type Units struct {
	Preferred []string `toml:"preferred" yaml:"preferred"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "warn"},
		Output: Output{Format: OutputText, Precision: -1, Color: ColorAuto},
	}
}

// Load reads the file at path, detecting its format from the extension, and
// applies environment overrides. An empty path yields Default with overrides.
func Load(path string) (*Config, error) {
	return LoadFormat(path, FormatAuto)
}

// LoadFormat is Load with an explicit format.
func LoadFormat(path string, format Format) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Op("load").
				Value(path).
				Cause(err).
				Detail("cannot read config file").
				Build()
		}
		if format == FormatAuto {
			format = DetectFormat(path)
		}
		if err := Decode(data, format, cfg); err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Op("load").
				Value(path).
				Cause(err).
				Detail("cannot parse %s config", format).
				Build()
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DetectFormat maps a file extension to a format. Unknown extensions are
// read as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode parses data into cfg. Keys absent from data keep their current values.
func Decode(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.InvalidInput(errors.PhaseConfig, "unknown key "+undecoded[0].String())
		}
		return nil
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks enumerated fields and the log level.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Op("validate").
			Value(c.Log.Level).
			Cause(err).
			Detail("log.level").
			Build()
	}
	if !slices.Contains([]string{OutputText, OutputCBOR}, c.Output.Format) {
		return invalid("output.format", c.Output.Format)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Output.Color) {
		return invalid("output.color", c.Output.Color)
	}
	if c.Output.Precision < -1 || c.Output.Precision > 17 {
		return invalid("output.precision", c.Output.Precision)
	}
	for _, u := range c.Units.Preferred {
		if strings.TrimSpace(u) == "" {
			return invalid("units.preferred", u)
		}
	}
	return nil
}

func invalid(key string, v any) *errors.Error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Op("validate").
		Value(v).
		Detail("invalid %s", key).
		Build()
}

// Logger builds a zap logger for the configured level. Development mode uses
// the console encoder with caller and stack information.
func (l Log) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log.level")
	}
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
