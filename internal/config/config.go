// Package config resolves plotnav settings from defaults, an optional TOML
// file, environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultCatalogPath  = "analysis_manager.db3"
	DefaultFormat       = "output_web_raster"
	DefaultPlotDir      = "."
	DefaultLogLevel     = "info"
	DefaultStartTimeout = 5 * time.Second

	EnvCatalog = "PLOTNAV_CATALOG"
	EnvFormat  = "PLOTNAV_FORMAT"
	EnvPlotDir = "PLOTNAV_PLOT_DIR"
	EnvConfig  = "PLOTNAV_CONFIG"
)

// Config holds every setting the binaries share
type Config struct {
	Catalog       string   `toml:"catalog"`
	Format        string   `toml:"format"`
	PlotDir       string   `toml:"plot_dir"`
	ViewerCommand string   `toml:"viewer_command"`
	StartTimeout  Duration `toml:"start_timeout"`
	LogLevel      string   `toml:"log_level"`
	Keys          Keys     `toml:"keys"`
}

// Keys holds the navigation key bindings
type Keys struct {
	Next     string `toml:"next"`
	Previous string `toml:"previous"`
}

// Duration is a time.Duration written as "5s" or "750ms" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", string(text))
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Catalog:      DefaultCatalogPath,
		Format:       DefaultFormat,
		PlotDir:      DefaultPlotDir,
		StartTimeout: Duration{DefaultStartTimeout},
		LogLevel:     DefaultLogLevel,
		Keys:         Keys{Next: "j", Previous: "k"},
	}
}

// envOr returns the value of key, or fallback when it is unset
func envOr(key, fallback string) string {
	if env := os.Getenv(key); env != "" {
		return env
	}
	return fallback
}

// FilePath returns the config file location: PLOTNAV_CONFIG if set,
// otherwise plotnav/config.toml under the user config directory.
func FilePath() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "plotnav", "config.toml")
}

// StateDir returns the directory for the TUI log file
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "plotnav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "plotnav")
	}
	return filepath.Join(home, ".local", "state", "plotnav")
}

// LoadFile reads path over the defaults. A missing file is not an error
// unless required is set.
func LoadFile(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays the PLOTNAV_* environment variables
func (c *Config) ApplyEnv() {
	c.Catalog = envOr(EnvCatalog, c.Catalog)
	c.Format = envOr(EnvFormat, c.Format)
	c.PlotDir = envOr(EnvPlotDir, c.PlotDir)
}

// Overrides are values given on the command line; empty fields are unset
type Overrides struct {
	Catalog  string
	Format   string
	PlotDir  string
	LogLevel string
}

// Apply overlays the non-empty overrides
func (o Overrides) Apply(c *Config) {
	if o.Catalog != "" {
		c.Catalog = o.Catalog
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.PlotDir != "" {
		c.PlotDir = o.PlotDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Load resolves the full configuration. An explicit configPath must exist;
// the default location may be absent.
func Load(configPath string, overrides Overrides) (*Config, error) {
	required := configPath != ""
	if !required {
		configPath = FilePath()
	}

	cfg, err := LoadFile(configPath, required)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills unset fields from the defaults and rejects conflicting keys
func (c *Config) Validate() error {
	def := Default()
	if strings.TrimSpace(c.Catalog) == "" {
		c.Catalog = def.Catalog
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = def.Format
	}
	if c.PlotDir == "" {
		c.PlotDir = def.PlotDir
	}
	if c.StartTimeout.Duration == 0 {
		c.StartTimeout = def.StartTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Keys.Next == "" {
		c.Keys.Next = def.Keys.Next
	}
	if c.Keys.Previous == "" {
		c.Keys.Previous = def.Keys.Previous
	}
	if c.Keys.Next == c.Keys.Previous {
		return fmt.Errorf("keys.next and keys.previous are both %q", c.Keys.Next)
	}
	return nil
}

// Save writes the configuration as TOML, creating the parent directory
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
