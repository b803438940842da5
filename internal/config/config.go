package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI settings read from rail.yaml and RAIL_* variables.
type Config struct {
	Strict   bool    `mapstructure:"strict"`
	LogLevel string  `mapstructure:"log_level"`
	Models   Models  `mapstructure:"models"`
	Server   Server  `mapstructure:"server"`
	Metrics  Metrics `mapstructure:"metrics"`
}

// Models selects the model registry used for <model> elements.
type Models struct {
	Source string `mapstructure:"source"` // memory, file, loam or redis
	Path   string `mapstructure:"path"`
	Redis  Redis  `mapstructure:"redis"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Server struct {
	Port int `mapstructure:"port"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads the configuration. When path is empty, rail.yaml is looked up
// in the working directory and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("models.source", "memory")
	v.SetDefault("models.path", ".rail/models")
	v.SetDefault("models.redis.addr", "localhost:6379")
	v.SetDefault("models.redis.prefix", "rail:model:")
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.enabled", true)

	// Enable environment variable overrides (RAIL_MODELS_SOURCE, ...)
	v.SetEnvPrefix("RAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rail")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Models.Source {
	case "memory", "file", "loam", "redis":
	default:
		return fmt.Errorf("unknown models.source %q (want memory, file, loam or redis)", c.Models.Source)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}
