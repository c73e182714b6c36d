// Package config loads the optional listsim.yaml file.
package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/datacontroller/pkg/datacontroller"
	"github.com/go-drift/datacontroller/pkg/errors"
	"github.com/go-drift/datacontroller/pkg/layout"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "listsim.yaml"

// SchemaVersion is the newest schema this build understands. Files with the
// same major version are accepted.
const SchemaVersion = "v1.1.0"

// Config represents the optional listsim.yaml configuration.
type Config struct {
	Schema string       `yaml:"schema,omitempty"`
	Layout LayoutConfig `yaml:"layout"`
	Log    LogConfig    `yaml:"log"`
	Source SourceConfig `yaml:"source"`
}

// LayoutConfig contains layout engine settings.
type LayoutConfig struct {
	Workers int `yaml:"workers,omitempty"`
	// BatchSize is a number or "all".
	BatchSize string `yaml:"batch_size,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// SourceConfig contains settings of the simulated data source.
type SourceConfig struct {
	Width float64 `yaml:"width,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Path      string
	Workers   int
	BatchSize int
	LogLevel  slog.Level
	LogFormat string
	Width     float64
}

// LoadOptional reads listsim.yaml from dir if present.
func LoadOptional(dir string) (*Config, string, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, configError("config.Load", fmt.Errorf("failed to read %s: %w", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configError("config.Load", fmt.Errorf("failed to parse %s: %w", path, err))
	}
	return &cfg, nil
}

// Resolve validates cfg and fills in defaults.
func Resolve(cfg *Config) (*Resolved, error) {
	if err := checkSchema(cfg.Schema); err != nil {
		return nil, configError("config.Resolve", err)
	}

	workers := cfg.Layout.Workers
	if workers < 0 {
		return nil, configError("config.Resolve", fmt.Errorf("layout.workers must not be negative (got %d)", workers))
	}

	batch, err := parseBatchSize(cfg.Layout.BatchSize)
	if err != nil {
		return nil, configError("config.Resolve", err)
	}

	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, configError("config.Resolve", err)
	}

	format, err := ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, configError("config.Resolve", err)
	}

	width := cfg.Source.Width
	if width == 0 {
		width = 320
	}
	if width < 0 {
		return nil, configError("config.Resolve", fmt.Errorf("source.width must not be negative (got %g)", width))
	}

	return &Resolved{
		Workers:   workers,
		BatchSize: batch,
		LogLevel:  level,
		LogFormat: format,
		Width:     width,
	}, nil
}

// ResolveDir loads listsim.yaml from dir (if present) and resolves it.
func ResolveDir(dir string) (*Resolved, error) {
	cfg, path, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	r.Path = path
	return r, nil
}

// ControllerOptions converts the resolved values into controller options.
func (r *Resolved) ControllerOptions(logger *slog.Logger) datacontroller.Options {
	return datacontroller.Options{
		Workers:   r.Workers,
		BatchSize: r.BatchSize,
		Logger:    logger,
	}
}

// ParseLevel parses a slog level name. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// ParseFormat normalizes a log format name. Empty means text.
func ParseFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))
	switch format {
	case "":
		return "text", nil
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("log.format must be text or json (got %q)", s)
	}
}

func checkSchema(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("schema %q is not a semantic version", v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("schema %s is not supported (this build reads %s.x)", v, semver.Major(SchemaVersion))
	}
	if semver.Compare(v, SchemaVersion) > 0 {
		return fmt.Errorf("schema %s is newer than %s", v, SchemaVersion)
	}
	return nil
}

func parseBatchSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, nil
	case "all":
		return layout.BatchAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("layout.batch_size must be a positive number or \"all\" (got %q)", s)
	}
	return n, nil
}

func configError(op string, err error) *errors.ControllerError {
	return &errors.ControllerError{Op: op, Kind: errors.KindConfig, Err: err}
}
