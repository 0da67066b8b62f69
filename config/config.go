// Package config loads regularizer settings from a YAML or TOML document and
// turns them into regularizer options and a structured logger.
//
// Example document:
//
//	standard_deviations: [1.5, 1.5, 2.0]   # or: standard_deviation: 1.5
//	maximum_error: 0.1
//	maximum_kernel_width: 30
//	workers: 0                              # 0 = GOMAXPROCS
//	log_level: info                         # debug | info | warn | error
//	log_format: auto                        # text | json | auto
//
// Absent keys keep their defaults; unknown keys are rejected. Files ending
// in .toml are read as TOML with the same key names.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fieldreg/regularizer"
)

// ErrBadConfig indicates a document that parses but violates a constraint.
var ErrBadConfig = errors.New("config: invalid configuration")

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatAuto = "auto" // text on a terminal, JSON otherwise
)

// Config mirrors the configuration document.
type Config struct {
	StandardDeviation  *float64  `yaml:"standard_deviation,omitempty" toml:"standard_deviation,omitempty" validate:"omitempty,gte=0,finite"`
	StandardDeviations []float64 `yaml:"standard_deviations,omitempty,flow" toml:"standard_deviations,omitempty" validate:"omitempty,dive,gte=0,finite"`
	MaximumError       float64   `yaml:"maximum_error" toml:"maximum_error" validate:"gte=0,lte=1"`
	MaximumKernelWidth uint      `yaml:"maximum_kernel_width" toml:"maximum_kernel_width"`
	Workers            int       `yaml:"workers" toml:"workers" validate:"gte=0"`
	LogLevel           string    `yaml:"log_level" toml:"log_level" validate:"omitempty,loglevel"`
	LogFormat          string    `yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=text json auto"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()

		return f-f == 0
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		var l slog.Level

		return l.UnmarshalText([]byte(fl.Field().String())) == nil
	})

	return v
}

// Default returns the configuration matching regularizer.New defaults.
func Default() Config {
	return Config{
		MaximumError:       regularizer.DefaultMaximumError,
		MaximumKernelWidth: regularizer.DefaultMaximumKernelWidth,
		Workers:            0,
		LogLevel:           "info",
		LogFormat:          FormatAuto,
	}
}

// Parse decodes a YAML document over the defaults and validates the result.
// An empty document yields the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// ParseTOML is Parse for TOML documents.
func ParseTOML(data []byte) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads and parses the file at path, choosing the format by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}

	return Parse(data)
}

// Validate checks the constraints a regularizer cannot check up front.
// Errors: ErrBadConfig, wrapping validator.ValidationErrors where a field
// tag failed.
func (c Config) Validate() error {
	if c.StandardDeviation != nil && c.StandardDeviations != nil {
		return fmt.Errorf("%w: standard_deviation and standard_deviations are exclusive", ErrBadConfig)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	return nil
}

// Level parses LogLevel; an empty value means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrBadConfig, c.LogLevel)
	}

	return l, nil
}

// Logger builds a logger writing to w at the configured level and format.
// FormatAuto picks text when w is a terminal and JSON otherwise.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	format := c.LogFormat
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if isTerminal(w) {
			format = FormatText
		}
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Options converts the configuration into regularizer options.
func (c Config) Options() []regularizer.Option {
	opts := []regularizer.Option{
		regularizer.WithMaximumError(c.MaximumError),
		regularizer.WithMaximumKernelWidth(c.MaximumKernelWidth),
		regularizer.WithWorkers(c.Workers),
	}
	switch {
	case c.StandardDeviations != nil:
		opts = append(opts, regularizer.WithStandardDeviations(c.StandardDeviations...))
	case c.StandardDeviation != nil:
		opts = append(opts, regularizer.WithStandardDeviation(*c.StandardDeviation))
	}

	return opts
}

// Apply pushes the parameters into an existing regularizer through its
// setters, so unchanged values do not trigger a recomputation.
// Errors: regularizer.ErrDimensionMismatch for a σ list of the wrong length.
func (c Config) Apply(g *regularizer.Gaussian) error {
	switch {
	case c.StandardDeviations != nil:
		if err := g.SetStandardDeviations(c.StandardDeviations); err != nil {
			return err
		}
	case c.StandardDeviation != nil:
		g.SetStandardDeviation(*c.StandardDeviation)
	}
	g.SetMaximumError(c.MaximumError)
	g.SetMaximumKernelWidth(c.MaximumKernelWidth)

	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
