// Package config loads opsrun settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/opsrun/internal/format"
	"github.com/alexiusacademia/opsrun/internal/logging"
	"github.com/alexiusacademia/opsrun/internal/solver"
)

// FileName is the project config file searched for by Discover.
const FileName = ".opsrun.yaml"

// Environment variables overriding file values.
const (
	EnvSolver   = "OPSRUN_SOLVER"
	EnvScratch  = "OPSRUN_SCRATCH"
	EnvLogLevel = "OPSRUN_LOG_LEVEL"
)

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Config holds all opsrun settings.
type Config struct {
	// Solver binary, a path or a name looked up on PATH
	Solver string `yaml:"solver"`

	// Directory analysis workspaces are created in
	Scratch string `yaml:"scratch"`

	LogLevel  string `yaml:"log_level"`
	KeepFiles bool   `yaml:"keep_files"`

	// Process-wide format overrides, keyed by value kind (float, int...)
	Formats map[string]string `yaml:"formats"`

	// Per command type overrides, keyed by type (command.Steel02...)
	TypeFormats map[string]map[string]string `yaml:"type_formats"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Solver:   solver.DefaultBinary,
		Scratch:  filepath.Join(os.TempDir(), "opsrun"),
		LogLevel: "info",
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file, or an empty path, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Discover returns the nearest FileName in startDir or one of its parents,
// falling back to the one in the home directory. ok is false when none
// exists.
func Discover(startDir string) (path string, ok bool) {
	dir, err := filepath.Abs(startDir)
	if err == nil {
		for {
			candidate := filepath.Join(dir, FileName)
			if isFile(candidate) {
				return candidate, true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, FileName)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSolver); v != "" {
		c.Solver = v
	}
	if v := os.Getenv(EnvScratch); v != "" {
		c.Scratch = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the log level and every format override.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %q (valid: %v)", c.LogLevel, LogLevels)
	}
	if c.Scratch == "" {
		return fmt.Errorf("scratch directory not configured")
	}
	for kind := range c.Formats {
		if kind == "" {
			return fmt.Errorf("formats: empty kind")
		}
	}
	for typ, spec := range c.TypeFormats {
		if typ == "" {
			return fmt.Errorf("type_formats: empty type")
		}
		for kind := range spec {
			if kind == "" {
				return fmt.Errorf("type_formats %s: empty kind", typ)
			}
		}
	}
	return nil
}

// ApplyFormats installs the format overrides on r. The returned function
// restores the previous process-wide and per-type scopes.
func (c *Config) ApplyFormats(r *format.Resolver) (restore func()) {
	old := r.SetDefaults(toSpec(c.Formats))
	oldTypes := make(map[string]format.Spec, len(c.TypeFormats))
	for typ, spec := range c.TypeFormats {
		oldTypes[typ] = r.SetTypeSpec(typ, toSpec(spec))
	}
	return func() {
		r.ResetDefaults(old)
		for typ, spec := range oldTypes {
			r.ClearTypeSpec(typ)
			if len(spec) > 0 {
				r.SetTypeSpec(typ, spec)
			}
		}
	}
}

func toSpec(m map[string]string) format.Spec {
	spec := make(format.Spec, len(m))
	for k, v := range m {
		spec.Register(format.Kind(k), v)
	}
	return spec
}
