// Package config loads the rigor CLI configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/rigor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration.
type Config struct {
	Flavor        string      `yaml:"flavor" json:"flavor"`
	Escape        bool        `yaml:"escape" json:"escape"`
	ClearOnUpdate bool        `yaml:"clear_on_update" json:"clear_on_update"`
	LogLevel      string      `yaml:"log_level" json:"log_level"`
	Listen        string      `yaml:"listen" json:"listen"`
	SigningKey    string      `yaml:"signing_key" json:"signing_key"`
	Redis         RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig enables the cross-process pub/sub bridge when Addr is set.
type RedisConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Channel string `yaml:"channel" json:"channel"`
	Sealed  bool   `yaml:"sealed" json:"sealed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Flavor:   rigor.SafeFlavor.Name,
		Escape:   true,
		LogLevel: "info",
		Listen:   ":8080",
		Redis:    RedisConfig{Channel: "rigor:bus"},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the flavor name and log level.
func (c Config) Validate() error {
	if _, err := rigor.FlavorByName(c.Flavor); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level, info when unparsable.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zap.InfoLevel
	}
	return lvl
}

// RendererOptions translates the configuration into renderer options.
// Extra plugins are appended to the configured flavor.
func (c Config) RendererOptions(logger *zap.Logger, extra ...rigor.Plugin) ([]rigor.Option, error) {
	flavor, err := rigor.FlavorByName(c.Flavor)
	if err != nil {
		return nil, err
	}
	opts := []rigor.Option{
		rigor.WithFlavor(flavor.With(extra...)),
		rigor.WithLogger(logger),
	}
	if c.Escape {
		opts = append(opts, rigor.WithEscaping())
	}
	if c.ClearOnUpdate {
		opts = append(opts, rigor.WithClearOnUpdate())
	}
	return opts, nil
}
