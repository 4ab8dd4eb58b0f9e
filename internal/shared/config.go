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

// Config represents the application configuration loaded from a TOML file.
//
// Immutable after startup; every component receives the values it needs at
// construction time instead of reading the file again.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Chat        ChatConfig        `toml:"chat"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	HuggingFace HuggingFaceConfig `toml:"huggingface"`
	Spotify     SpotifyConfig     `toml:"spotify"`
}

// HuggingFaceConfig contains text-generation inference endpoint credentials.
type HuggingFaceConfig struct {
	APIToken    string `toml:"api_token"`
	EndpointURL string `toml:"endpoint_url"`
}

// SpotifyConfig contains Spotify API credentials and the owning user for playlist creation.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	UserID       string `toml:"user_id"`
}

// ChatConfig contains conversation settings: memory window size and default generation parameters.
//
// Temperature, top_p and max_tokens are passed through to the generation
// service as-is; expected ranges are [0.01,5.0], [0.01,1.0] and [32,128].
type ChatConfig struct {
	MemoryWindow int     `toml:"memory_window"`
	Temperature  float64 `toml:"temperature"`
	TopP         float64 `toml:"top_p"`
	MaxTokens    int     `toml:"max_tokens"`
}

// CatalogConfig contains playlist curation settings.
type CatalogConfig struct {
	SearchLimit    int     `toml:"search_limit"`
	RateLimit      float64 `toml:"rate_limit"`
	StepTimeoutSec int     `toml:"step_timeout_seconds"`
}

// StepTimeout returns the per-step deadline as a duration.
func (c CatalogConfig) StepTimeout() time.Duration {
	return time.Duration(c.StepTimeoutSec) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the configuration to the specified path as TOML.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
