// Package config loads the layered floyd configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adalundhe/floyd/core/dialogue"
	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

type Config struct {
	Server    ServerConfig                     `yaml:"server"`
	Providers providers.Settings               `yaml:"providers"`
	Routing   dialogue.Config                  `yaml:"routing"`
	Personas  map[string]persona.Override      `yaml:"personas"`
	Errors    coreerrors.ErrorClassifierConfig `yaml:"errors"`
	Log       LogConfig                        `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`

	// DebugErrors exposes wrapped error internals in error responses.
	DebugErrors bool `yaml:"debug_errors"`

	// Timeout bounds a whole request, including every provider call.
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			Path:    "/chat",
			Timeout: 5 * time.Minute,
		},
		Providers: providers.DefaultSettings(),
		Routing:   dialogue.DefaultConfig(),
		Personas:  map[string]persona.Override{},
		Errors:    *coreerrors.DefaultErrorClassifierConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the parts of the configuration that can be checked
// without building providers.
func (c *Config) Validate() error {
	if _, err := providers.ParseProviderType(string(c.Providers.Default)); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Server.Timeout < 0 {
		return invalid("server.timeout must not be negative")
	}
	if _, err := persona.Build(c.Personas); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a configured log level name.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, invalid("unknown log level %q", name)
	}
	return level, nil
}

func invalid(format string, args ...any) error {
	return coreerrors.NewTieredError(coreerrors.TierUserFixable, fmt.Sprintf(format, args...), nil)
}
