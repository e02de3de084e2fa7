package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "ODESK"

// DefaultEnvFile is loaded when present; a missing file is not an error.
const DefaultEnvFile = ".env"

// Config holds the CLI configuration loaded from the environment and an
// optional .env file.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	KeysFile  string        `mapstructure:"keys_file"`
	LogLevel  string        `mapstructure:"log_level"`
	DebugFile string        `mapstructure:"debug_file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Load reads ODESK_* variables, after loading envFile into the environment
// without overriding variables already set. Only DefaultEnvFile may be
// missing; any other file must exist and parse.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if envFile != DefaultEnvFile || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	v.SetDefault("base_url", client.DefaultBaseURL)
	v.SetDefault("keys_file", "keys.yaml")
	v.SetDefault("log_level", "warn")
	v.SetDefault("debug_file", "")
	v.SetDefault("timeout", "30s")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a client cannot be built without.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s (must be positive)", c.Timeout)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q (must be an absolute URL)", c.BaseURL)
	}
	if c.KeysFile == "" {
		return fmt.Errorf("keys_file cannot be empty")
	}
	return nil
}
