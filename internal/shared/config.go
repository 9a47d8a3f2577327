package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override credentials from the config file.
const (
	EnvConfigPath      = "MARQUEE_CONFIG"
	EnvTMDBAPIKey      = "MARQUEE_TMDB_API_KEY"
	EnvTMDBAccessToken = "MARQUEE_TMDB_ACCESS_TOKEN"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Carousel    CarouselConfig    `toml:"carousel"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	TMDB TMDBConfig `toml:"tmdb"`
}

// TMDBConfig contains The Movie Database API settings.
//
// Either APIKey (v3, sent as a query parameter) or AccessToken (v4 read token, sent as a bearer token) must be set.
type TMDBConfig struct {
	APIKey       string  `toml:"api_key"`
	AccessToken  string  `toml:"access_token"`
	BaseURL      string  `toml:"base_url"`
	ImageBaseURL string  `toml:"image_base_url"`
	Language     string  `toml:"language"`
	Region       string  `toml:"region"`
	RateLimit    float64 `toml:"rate_limit"` // Requests per second
}

// CarouselConfig contains slider sizing and timing.
type CarouselConfig struct {
	WindowSize      int `toml:"window_size"`
	SlideDurationMS int `toml:"slide_duration_ms"`
	HoverDelayMS    int `toml:"hover_delay_ms"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	KeepSnapshots int    `toml:"keep_snapshots"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SlideDuration returns the configured slide transition length.
func (c CarouselConfig) SlideDuration() time.Duration {
	return time.Duration(c.SlideDurationMS) * time.Millisecond
}

// HoverDelay returns the delay before a focused tile expands.
func (c CarouselConfig) HoverDelay() time.Duration {
	return time.Duration(c.HoverDelayMS) * time.Millisecond
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays credentials from the environment onto c.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvTMDBAPIKey); v != "" {
		c.Credentials.TMDB.APIKey = v
	}
	if v := getenv(EnvTMDBAccessToken); v != "" {
		c.Credentials.TMDB.AccessToken = v
	}
}

// Validate checks the values that the application cannot run without.
func (c *Config) Validate() error {
	if c.Carousel.WindowSize < 1 {
		return fmt.Errorf("%w: carousel.window_size must be at least 1, got %d", ErrInvalidConfig, c.Carousel.WindowSize)
	}
	if c.Carousel.SlideDurationMS < 0 || c.Carousel.HoverDelayMS < 0 {
		return fmt.Errorf("%w: carousel timings must not be negative", ErrInvalidConfig)
	}
	if c.Credentials.TMDB.BaseURL == "" {
		return fmt.Errorf("%w: credentials.tmdb.base_url is empty", ErrInvalidConfig)
	}
	if c.Credentials.TMDB.RateLimit < 0 {
		return fmt.Errorf("%w: credentials.tmdb.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// HasCredentials reports whether a TMDB credential is configured.
func (c *Config) HasCredentials() bool {
	return c.Credentials.TMDB.APIKey != "" || c.Credentials.TMDB.AccessToken != ""
}
