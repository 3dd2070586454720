package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the fixed local-development backend address used when
// neither the config file nor the environment names one.
const DefaultServerURL = "http://localhost:8000"

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	URL string `yaml:"url" env:"ORLA_SERVER_URL"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the zap log level (debug, info, warn, error).
	Level string `yaml:"level" env:"ORLA_LOG_LEVEL"`

	// Debug enables per-request diagnostic lines from the API client.
	Debug bool `yaml:"debug" env:"ORLA_DEBUG"`
}

// Config is the effective CLI configuration: YAML file values overridden by
// environment variables.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`

	// IsDev switches development-mode behavior (human-readable logs).
	// Not persisted; derived from ORLA_DEV or NODE_ENV.
	IsDev bool `yaml:"-" env:"ORLA_DEV"`
}

// GetConfigDir returns the directory holding the config file.
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".orla"
	}
	return filepath.Join(home, ".orla")
}

// GetConfigPath returns the path of the YAML config file.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load builds the effective configuration. A missing config file is not an
// error; missing values fall back to defaults.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", GetConfigPath(), err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment overrides the file.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	cfg.detectDevMode()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = DefaultServerURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// detectDevMode also honors NODE_ENV, which the hosted dashboard tooling
// sets in shared development environments.
func (c *Config) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server URL cannot be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.Server.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must be http or https, got %q", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL missing host: %q", c.Server.URL)
	}
	return nil
}

// IsInsecure reports whether the server URL uses plain HTTP against a
// non-local host.
func (c *Config) IsInsecure() bool {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	return host != "localhost" && host != "127.0.0.1" && host != "::1"
}

// Save writes the file-backed fields to the config path.
func (c *Config) Save() error {
	if err := os.MkdirAll(GetConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
