package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete planpack configuration
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
	Sentinel SentinelConfig `mapstructure:"sentinel"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory the log file is written to. Empty means logs go
	// to stderr when enabled.
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls how validation results are rendered
type OutputConfig struct {
	// Color enables styled terminal output for summaries (default: true).
	// Honors NO_COLOR via the lipgloss renderer regardless of this setting.
	Color bool `mapstructure:"color"`
	// Format is the result format: "text" or "json" (default: "text")
	Format string `mapstructure:"format"`
}

// SentinelConfig controls kickoff prompt sentinel stamping
type SentinelConfig struct {
	// Text is the sentinel line inserted into kickoff prompts.
	Text string `mapstructure:"text"`
	// Heading is the markdown heading the sentinel is inserted after. When
	// the heading is missing the sentinel is appended to the file.
	Heading string `mapstructure:"heading"`
}

// Output formats accepted by output.format
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
			Dir:     "", // Empty means stderr
		},
		Output: OutputConfig{
			Color:  true,
			Format: FormatText,
		},
		Sentinel: SentinelConfig{
			// These defaults must match the sentinel package's constants
			// (defined separately to avoid a circular import).
			Text:    "Do not edit planning docs inside the worktree.",
			Heading: "## Start Checklist",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// Output defaults
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.format", defaults.Output.Format)

	// Sentinel defaults
	viper.SetDefault("sentinel.text", defaults.Sentinel.Text)
	viper.SetDefault("sentinel.heading", defaults.Sentinel.Heading)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planpack")
	}
	// Fall back to ~/.config/planpack
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planpack"
	}
	return filepath.Join(home, ".config", "planpack")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
