// Package config holds the settings of the command line disassembler.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/decoder"
)

// Config is the content of a YAML configuration file.
//
//	log:
//	  level: trace
//	  format: json
//	listing: true
//	verify:
//	  crosscheck: true
//	  assembler: nasm
type Config struct {
	Log     Log    `yaml:"log"`
	Listing bool   `yaml:"listing"`
	Debug   bool   `yaml:"debug"`
	Verify  Verify `yaml:"verify"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Verify struct {
	// CrossCheck compares every decoded instruction with a reference decoder.
	CrossCheck bool `yaml:"crosscheck"`
	// Assembler is run on the output to reassemble it; empty disables the round trip.
	Assembler string `yaml:"assembler"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

var levels = map[string]slog.Level{
	"trace": decoder.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: FormatText,
		},
	}
}

// Load reads the file at path on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse the config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Level is the slog level named by Log.Level, Info when the name is unknown.
func (c Config) Level() slog.Level {
	level, ok := levels[strings.ToLower(c.Log.Level)]
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// Logger builds the logger described by the configuration, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{
		Level: c.Level(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == decoder.LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}

	if strings.ToLower(c.Log.Format) == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
