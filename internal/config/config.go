// Package config provides configuration loading for braindump.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then BRAINDUMP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/prompt"
)

// Config holds the complete braindump configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	AI        AIConfig        `koanf:"ai"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`
	Secrets   SecretsConfig   `koanf:"secrets"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AIConfig selects and tunes the extraction backend.
type AIConfig struct {
	Backend      extraction.Backend `koanf:"backend" json:"backend"`
	APIKey       Secret             `koanf:"api_key" json:"api_key,omitempty"`
	Model        string             `koanf:"model" json:"model,omitempty"`
	Temperature  float64            `koanf:"temperature" json:"temperature"`
	MaxTokens    int                `koanf:"max_tokens" json:"max_tokens"`
	CacheEnabled bool               `koanf:"cache_enabled" json:"cache_enabled"`
	Categories   prompt.Categories  `koanf:"categories" json:"categories"`

	// BaseURL overrides the backend's public endpoint, e.g. for a proxy.
	BaseURL string `koanf:"base_url" json:"base_url,omitempty"`
}

// CacheConfig sizes the result cache. Zero values disable it.
type CacheConfig struct {
	TTL        Duration `koanf:"ttl"`
	MaxEntries int      `koanf:"max_entries"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SecretsConfig toggles scrubbing of credentials found in input text.
type SecretsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Deep adds the gitleaks ruleset to the built-in rules.
	Deep bool `koanf:"deep"`

	// AllowListFile is a TOML file of patterns that are never redacted.
	AllowListFile string `koanf:"allow_list_file"`
}

// TelemetryConfig controls OTLP export of traces and metrics.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"` // grpc or http/protobuf
	Insecure       bool     `koanf:"insecure"`
	TLSSkipVerify  bool     `koanf:"tls_skip_verify"`
	SampleRate     float64  `koanf:"sample_rate"`
	Metrics        bool     `koanf:"metrics"`
	ExportInterval Duration `koanf:"export_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9191,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		AI: AIConfig{
			Backend:      extraction.BackendNone,
			Temperature:  0.3,
			MaxTokens:    0,
			CacheEnabled: true,
			Categories:   prompt.AllCategories(),
		},
		Cache: CacheConfig{
			TTL:        Duration(30 * time.Minute),
			MaxEntries: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Secrets: SecretsConfig{
			Enabled: true,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			SampleRate:     1.0,
			Metrics:        true,
			ExportInterval: Duration(15 * time.Second),
		},
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - The AI section fails AIConfig.Validate
//   - The cache capacity is negative
//   - Logging format is neither json nor console
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("invalid cache max_entries: %d (must be >= 0)", c.Cache.MaxEntries)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q (must be json or console)", c.Logging.Format)
	}
	return nil
}

// Validate checks the AI settings independently of the rest, so per-request
// overrides can be vetted the same way.
func (a *AIConfig) Validate() error {
	backend, ok := extraction.ParseBackend(string(a.Backend))
	if !ok {
		return fmt.Errorf("invalid ai backend: %q (must be one of none, %s)", a.Backend, joinBackends())
	}
	a.Backend = backend
	if a.Temperature < 0 || a.Temperature > 1 {
		return fmt.Errorf("invalid ai temperature: %v (must be 0-1)", a.Temperature)
	}
	if a.MaxTokens < 0 {
		return fmt.Errorf("invalid ai max_tokens: %d (must be >= 0)", a.MaxTokens)
	}
	return nil
}

func joinBackends() string {
	names := make([]string, 0, 3)
	for _, b := range extraction.Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
