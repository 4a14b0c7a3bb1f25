package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/internal/logging"
)

// Config is the complete client configuration.
type Config struct {
	API       APIConfig       `json:"api" yaml:"api"`
	KeepAlive KeepAliveConfig `json:"keepalive" yaml:"keepalive"`
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Log       logging.Config  `json:"log" yaml:"log"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}

// APIConfig holds the login credentials.
type APIConfig struct {
	Environment       string `json:"environment" yaml:"environment"` // demo|live
	BaseURL           string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey            string `json:"api_key" yaml:"api_key"`
	Identifier        string `json:"identifier" yaml:"identifier"`
	Password          string `json:"password,omitempty" yaml:"password,omitempty"`
	EncryptedPassword string `json:"encrypted_password,omitempty" yaml:"encrypted_password,omitempty"`
}

// KeepAliveConfig controls the session ping loop.
type KeepAliveConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "30s", "3m"
}

// HTTPConfig tunes the transport.
type HTTPConfig struct {
	Timeout     string  `json:"timeout" yaml:"timeout"`
	SessionRate float64 `json:"session_rate" yaml:"session_rate"` // session logins per second, 0 disables
}

// StoreConfig selects where session tokens live.
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // memory|sqlite|badger
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ServerConfig is used by the serve command.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey            = "CAPITAL_API_KEY"
	EnvBaseURL           = "CAPITAL_BASE_URL"
	EnvIdentifier        = "CAPITAL_IDENTIFIER"
	EnvPassword          = "CAPITAL_PASSWORD"
	EnvEncryptedPassword = "CAPITAL_ENCRYPTED_PASSWORD"
	EnvEnvironment       = "CAPITAL_ENV"
	EnvPingInterval      = "CAPITAL_PING_INTERVAL"
)

// Load reads path when it is not empty, starting from Default otherwise,
// then applies .env and process environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = readFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads .env from the working directory into the process
// environment. A missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a file (YAML or JSON) and validates it.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.API.APIKey, EnvAPIKey)
	set(&c.API.BaseURL, EnvBaseURL)
	set(&c.API.Identifier, EnvIdentifier)
	set(&c.API.Password, EnvPassword)
	set(&c.API.EncryptedPassword, EnvEncryptedPassword)
	set(&c.API.Environment, EnvEnvironment)
	set(&c.KeepAlive.Interval, EnvPingInterval)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		if _, err := capital.BaseURL(c.API.Environment); err != nil {
			return fmt.Errorf("api.environment: %w", err)
		}
	}
	if c.API.APIKey == "" {
		return fmt.Errorf("api.api_key is required")
	}
	if c.API.Identifier == "" {
		return fmt.Errorf("api.identifier is required")
	}
	if c.API.Password == "" && c.API.EncryptedPassword == "" {
		return fmt.Errorf("api.password or api.encrypted_password is required")
	}
	if d, err := time.ParseDuration(c.KeepAlive.Interval); err != nil || d <= 0 {
		return fmt.Errorf("keepalive.interval must be a positive duration, got %q", c.KeepAlive.Interval)
	}
	if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("http.timeout must be a positive duration, got %q", c.HTTP.Timeout)
	}
	if c.HTTP.SessionRate < 0 {
		return fmt.Errorf("http.session_rate must not be negative")
	}
	switch c.Store.Type {
	case "memory":
	case "sqlite", "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for %s store", c.Store.Type)
		}
	default:
		return fmt.Errorf("store.type must be 'memory', 'sqlite' or 'badger'")
	}
	return nil
}

// Credentials resolves the base URL and returns the client credentials.
func (c *Config) Credentials() (capital.Credentials, error) {
	base := c.API.BaseURL
	if base == "" {
		var err error
		base, err = capital.BaseURL(c.API.Environment)
		if err != nil {
			return capital.Credentials{}, err
		}
	}
	return capital.Credentials{
		APIKey:            c.API.APIKey,
		BaseURL:           base,
		Identifier:        c.API.Identifier,
		Password:          c.API.Password,
		EncryptedPassword: c.API.EncryptedPassword,
	}, nil
}

// PingInterval returns the parsed keep-alive interval.
func (c *Config) PingInterval() time.Duration {
	d, err := time.ParseDuration(c.KeepAlive.Interval)
	if err != nil || d <= 0 {
		return capital.DefaultKeepAliveInterval
	}
	return d
}

// Timeout returns the parsed HTTP timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return capital.DefaultTimeout
	}
	return d
}

// Default returns a configuration with sensible defaults. Credentials are
// left empty and must come from a file or the environment.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Environment: "demo",
		},
		KeepAlive: KeepAliveConfig{
			Interval: capital.DefaultKeepAliveInterval.String(),
		},
		HTTP: HTTPConfig{
			Timeout:     capital.DefaultTimeout.String(),
			SessionRate: 1,
		},
		Store: StoreConfig{
			Type: "memory",
		},
		Log: logging.Config{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
