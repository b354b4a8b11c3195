// Package config provides Viper-based configuration loading for the map generator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PathsConfig locates the inputs and outputs of a generator run.
type PathsConfig struct {
	// AreaDir is the directory holding the area files and the manifest.
	AreaDir string `mapstructure:"area_dir"`
	// Manifest is the manifest filename. A relative value is resolved
	// against AreaDir.
	Manifest string `mapstructure:"manifest"`
	// OutputDir receives areas.json, world_graph.json and conflicts.json.
	OutputDir string `mapstructure:"output_dir"`
}

// LayoutConfig bounds the layout searches.
type LayoutConfig struct {
	MaxExtension    int    `mapstructure:"max_extension"`
	MaxBlockerShift int    `mapstructure:"max_blocker_shift"`
	MaxSpineShift   int    `mapstructure:"max_spine_shift"`
	MaxSpiralRadius int    `mapstructure:"max_spiral_radius"`
	Hub             string `mapstructure:"hub"`
}

// OutputConfig controls what is written and how.
type OutputConfig struct {
	// Conflicts enables conflicts.json.
	Conflicts bool `mapstructure:"conflicts"`
	// Indent is the number of spaces per JSON nesting level.
	Indent int `mapstructure:"indent"`
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	// Enabled regenerates the outputs whenever an area file changes.
	Enabled bool `mapstructure:"enabled"`
	// Debounce is how long the watcher waits for further events before
	// regenerating.
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Output  OutputConfig  `mapstructure:"output"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
	// Area restricts areas.json to one area when non-empty.
	Area string `mapstructure:"area"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validatePaths(c.Paths); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLayout(c.Layout); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		errs = append(errs, fmt.Sprintf("output.indent must be 0-8, got %d", c.Output.Indent))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, "watch.debounce must not be negative")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	var errs []string
	if p.AreaDir == "" {
		errs = append(errs, "paths.area_dir must not be empty")
	}
	if p.Manifest == "" {
		errs = append(errs, "paths.manifest must not be empty")
	}
	if p.OutputDir == "" {
		errs = append(errs, "paths.output_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLayout(l LayoutConfig) error {
	var errs []string
	if l.MaxExtension < 1 {
		errs = append(errs, fmt.Sprintf("layout.max_extension must be >= 1, got %d", l.MaxExtension))
	}
	if l.MaxBlockerShift < 0 {
		errs = append(errs, fmt.Sprintf("layout.max_blocker_shift must be >= 0, got %d", l.MaxBlockerShift))
	}
	if l.MaxSpineShift < 0 {
		errs = append(errs, fmt.Sprintf("layout.max_spine_shift must be >= 0, got %d", l.MaxSpineShift))
	}
	if l.MaxSpiralRadius < 0 {
		errs = append(errs, fmt.Sprintf("layout.max_spiral_radius must be >= 0, got %d", l.MaxSpiralRadius))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance carrying the defaults and the MAPGEN_
// environment overrides. Callers may bind flags to it before LoadFromViper.
//
// Postcondition: Returns a non-nil Viper.
func New() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with MAPGEN_ prefix
	v.SetEnvPrefix("MAPGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Precondition: path, when set, must name a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// ReadFile merges the configuration file at path into v. An empty path is a no-op.
//
// Postcondition: Returns a wrapped error if the file cannot be read or parsed.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("paths.area_dir", "area")
	v.SetDefault("paths.manifest", "area.lst")
	v.SetDefault("paths.output_dir", "web/data")

	v.SetDefault("layout.max_extension", 20)
	v.SetDefault("layout.max_blocker_shift", 10)
	v.SetDefault("layout.max_spine_shift", 10)
	v.SetDefault("layout.max_spiral_radius", 19)
	v.SetDefault("layout.hub", "midgaard")

	v.SetDefault("output.conflicts", true)
	v.SetDefault("output.indent", 2)

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", "500ms")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("area", "")
}
