// Package config loads libsyntax settings from an optional config file and
// LIBSYNTAX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "LIBSYNTAX"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Check  CheckConfig  `mapstructure:"check"`
}

type LogConfig struct {
	// Level is the commonlog verbosity: 0 logs errors only, higher values
	// log more.
	Level int    `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ServerConfig holds settings of the language server.
type ServerConfig struct {
	PublishDiagnostics bool `mapstructure:"publish_diagnostics"`
	PublishDecorations bool `mapstructure:"publish_decorations"`
	// MaxFileSize is the largest document, in bytes, the server analyzes.
	// Larger documents are stored but get no diagnostics or decorations.
	MaxFileSize int `mapstructure:"max_file_size"`
}

type CheckConfig struct {
	Workers    int      `mapstructure:"workers"`
	Extensions []string `mapstructure:"extensions"`
}

// SetDefaults registers the default value of every key on v. Keys without a
// default are invisible to environment lookup.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", 0)
	v.SetDefault("log.file", "")

	v.SetDefault("server.publish_diagnostics", true)
	v.SetDefault("server.publish_decorations", true)
	v.SetDefault("server.max_file_size", 4<<20)

	v.SetDefault("check.workers", 8)
	v.SetDefault("check.extensions", []string{".rs"})
}

// Load reads the config file at path, if path is not empty, layered over
// the environment and the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return New(v)
}

// New decodes and validates the configuration held by v.
func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Log.Level < 0 {
		return errors.New("log.level must not be negative")
	}
	if c.Server.MaxFileSize < 1 {
		return errors.New("server.max_file_size must be at least 1")
	}
	if c.Check.Workers < 1 {
		return errors.New("check.workers must be at least 1")
	}
	if len(c.Check.Extensions) == 0 {
		return errors.New("check.extensions must not be empty")
	}
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := New(v)
	if err != nil {
		panic(err)
	}
	return cfg
}
