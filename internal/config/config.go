// Package config loads wrkout settings from defaults, an optional YAML file
// and WRKOUT_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config is the full application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Timer   TimerConfig   `mapstructure:"timer"`
	Rest    RestConfig    `mapstructure:"rest"`
}

type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
}

type APIConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Token      string        `mapstructure:"token"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxElapsed time.Duration `mapstructure:"max_elapsed"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type TimerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type RestConfig struct {
	Default time.Duration `mapstructure:"default"`
}

// Dir returns ~/.wrkout, falling back to the working directory
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wrkout"
	}
	return filepath.Join(home, ".wrkout")
}

// New returns a viper instance with every key defaulted and env binding
// enabled. Callers may bind flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WRKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	dir := Dir()

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", filepath.Join(dir, "wrkout.db"))
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.max_elapsed", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(dir, "wrkout.log"))

	v.SetDefault("timer.tick", time.Second)
	v.SetDefault("rest.default", 90*time.Second)
}

// Load reads the config file (explicit path, or config.yaml in ~/.wrkout or
// the working directory) and unmarshals the merged result. A missing default
// config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and the storage driver
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", DriverSQLite)
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the %s driver", DriverRedis)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q (want sqlite, redis or memory)", c.Storage.Driver)
	}

	durations := []struct {
		key string
		val time.Duration
	}{
		{"api.timeout", c.API.Timeout},
		{"api.max_elapsed", c.API.MaxElapsed},
		{"timer.tick", c.Timer.Tick},
		{"rest.default", c.Rest.Default},
	}
	for _, d := range durations {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.val)
		}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q (want text or json)", c.Log.Format)
	}
	return nil
}
