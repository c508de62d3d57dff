package config

import (
	"os"
	"path/filepath"

	"github.com/Iron-Ham/boardsync/internal/builtin"
	"github.com/Iron-Ham/boardsync/internal/syncer"
	"github.com/spf13/viper"
)

// Config represents the complete boardsync configuration
type Config struct {
	Cursor  CursorConfig   `mapstructure:"cursor"`
	Sync    syncer.Options `mapstructure:"sync"`
	Logging LoggingConfig  `mapstructure:"logging"`
	Replay  ReplayConfig   `mapstructure:"replay"`
}

// CursorConfig controls the cursor registry
type CursorConfig struct {
	// MaxLasting caps the lasting records kept per table and state (default: 16)
	MaxLasting int `mapstructure:"max_lasting"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging to file is enabled (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where boardsync.log is written. Empty means the config directory.
	Dir string `mapstructure:"dir"`
}

// ReplayConfig controls the replay command
type ReplayConfig struct {
	// Filter is the default glob applied to traced state names (default: "*")
	Filter string `mapstructure:"filter"`
	// Color is "auto", "always" or "never" (default: "auto")
	Color string `mapstructure:"color"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	sync := make(syncer.Options)
	for _, name := range builtin.Names() {
		sync[name] = syncer.Option{Enabled: true}
	}
	return &Config{
		Cursor: CursorConfig{
			MaxLasting: 16,
		},
		Sync: sync,
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
		Replay: ReplayConfig{
			Filter: "*",
			Color:  "auto",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Cursor defaults
	viper.SetDefault("cursor.max_lasting", defaults.Cursor.MaxLasting)

	// Sync defaults
	for name, opt := range defaults.Sync {
		viper.SetDefault("sync."+name+".enabled", opt.Enabled)
	}

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// Replay defaults
	viper.SetDefault("replay.filter", defaults.Replay.Filter)
	viper.SetDefault("replay.color", defaults.Replay.Color)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when
// it cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LogDir returns the directory log files are written to
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return ConfigDir()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "boardsync")
	}
	// Fall back to ~/.config/boardsync
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boardsync"
	}
	return filepath.Join(home, ".config", "boardsync")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
