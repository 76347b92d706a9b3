package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// APIKeyEnv names the environment variable consulted when the config leaves model.api_key empty.
const APIKeyEnv = "GEMINI_API_KEY"

var validate = validator.New()

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Model    ModelConfig    `toml:"model"`
	Lookup   LookupConfig   `toml:"lookup"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port" validate:"min=1,max=65535"`
	AllowedOrigins         []string `toml:"allowed_origins"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds" validate:"min=0"`
}

// ModelConfig selects the text-completion model.
type ModelConfig struct {
	Provider string `toml:"provider" validate:"oneof=gemini"`
	Name     string `toml:"name" validate:"required"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url" validate:"omitempty,url"`
}

// LookupConfig contains the video lookup (oEmbed) settings.
type LookupConfig struct {
	OEmbedURL      string `toml:"oembed_url" validate:"required,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"min=0"`
}

// PipelineConfig tunes the recommendation pipeline.
type PipelineConfig struct {
	RecommendationCount   int `toml:"recommendation_count" validate:"min=1,max=20"`
	SuggestionCount       int `toml:"suggestion_count" validate:"min=0,max=10"`
	MaxConcurrency        int `toml:"max_concurrency" validate:"min=1"`
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" validate:"min=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ResolveAPIKey returns model.api_key, or the [APIKeyEnv] environment variable when the key is empty.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.Model.APIKey != "" {
		return c.Model.APIKey, nil
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: set model.api_key or %s", ErrMissingCredentials, APIKeyEnv)
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RequestTimeout returns the per-request deadline, zero meaning none.
func (p PipelineConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the lookup HTTP client timeout, zero meaning none.
func (l LookupConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the server waits for in-flight requests on shutdown.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}
