// Package config loads stimref settings from .stimref.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/phobologic/stimref/internal/discover"
)

// FileName is the project-level config file.
const FileName = ".stimref.yaml"

// EnvPrefix prefixes environment overrides (STIMREF_LOG_LEVEL, ...).
const EnvPrefix = "STIMREF"

// Config holds project settings.
type Config struct {
	ScriptExtensions []string `mapstructure:"scriptExtensions" yaml:"scriptExtensions"`
	MarkupExtensions []string `mapstructure:"markupExtensions" yaml:"markupExtensions"`
	// Exclude holds gitignore-style patterns applied on top of .gitignore.
	Exclude     []string `mapstructure:"exclude" yaml:"exclude"`
	MaxFileSize int      `mapstructure:"maxFileSize" yaml:"maxFileSize"`
	LogLevel    string   `mapstructure:"logLevel" yaml:"logLevel"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	opts := discover.DefaultOptions()
	return &Config{
		ScriptExtensions: opts.ScriptExtensions,
		MarkupExtensions: opts.MarkupExtensions,
		Exclude:          []string{},
		MaxFileSize:      1_000_000,
		LogLevel:         "warn",
	}
}

var envKeys = map[string]string{
	"scriptExtensions": "SCRIPT_EXTENSIONS",
	"markupExtensions": "MARKUP_EXTENSIONS",
	"exclude":          "EXCLUDE",
	"maxFileSize":      "MAX_FILE_SIZE",
	"logLevel":         "LOG_LEVEL",
}

// Load reads configuration for the project at root. When path is empty,
// root/.stimref.yaml is used if it exists; an explicit path must exist.
// Environment variables override file values.
func Load(root, path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("scriptExtensions", def.ScriptExtensions)
	v.SetDefault("markupExtensions", def.MarkupExtensions)
	v.SetDefault("exclude", def.Exclude)
	v.SetDefault("maxFileSize", def.MaxFileSize)
	v.SetDefault("logLevel", def.LogLevel)

	for key, env := range envKeys {
		if err := v.BindEnv(key, EnvPrefix+"_"+env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	for _, ext := range c.ScriptExtensions {
		if !strings.HasPrefix(ext, ".") {
			return &Error{Field: "scriptExtensions", Message: fmt.Sprintf("%q must start with a dot", ext)}
		}
	}
	for _, ext := range c.MarkupExtensions {
		if !strings.HasPrefix(ext, ".") {
			return &Error{Field: "markupExtensions", Message: fmt.Sprintf("%q must start with a dot", ext)}
		}
	}
	if c.MaxFileSize <= 0 {
		return &Error{Field: "maxFileSize", Message: "must be positive"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &Error{Field: "logLevel", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// DiscoverOptions converts the file selection settings.
func (c *Config) DiscoverOptions() discover.Options {
	return discover.Options{
		ScriptExtensions: c.ScriptExtensions,
		MarkupExtensions: c.MarkupExtensions,
		Exclude:          c.Exclude,
	}
}

// Error is a configuration validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
