package telemetry

import (
	"testing"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Protocol)
	assert.Equal(t, "braindump", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, 15*time.Second, cfg.ExportInterval)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.TelemetryConfig{
		Enabled:        true,
		Endpoint:       "collector.internal:4318",
		Protocol:       ProtocolHTTP,
		SampleRate:     0.25,
		Metrics:        true,
		ExportInterval: config.Duration(30 * time.Second),
	}, "1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "collector.internal:4318", cfg.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Protocol)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.SampleRate)
	assert.Equal(t, 30*time.Second, cfg.ExportInterval)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.Equal(t, "braindump", cfg.ServiceName)

	assert.Equal(t, "dev", ConfigFrom(config.Default().Telemetry, "").ServiceVersion)
	require.NoError(t, ConfigFrom(config.Default().Telemetry, "").Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{"enabled defaults", valid(func(*Config) {}), ""},
		{"disabled skips validation", &Config{Enabled: false}, ""},
		{"missing endpoint", valid(func(c *Config) { c.Endpoint = "" }), "endpoint is required"},
		{"missing service name", valid(func(c *Config) { c.ServiceName = "" }), "service_name is required"},
		{"unknown protocol", valid(func(c *Config) { c.Protocol = "udp" }), "protocol must be"},
		{"http protocol", valid(func(c *Config) { c.Protocol = ProtocolHTTP }), ""},
		{"insecure remote", valid(func(c *Config) { c.Endpoint = "otel.example.com:4317" }), "insecure connections to remote endpoints"},
		{"secure remote", valid(func(c *Config) { c.Endpoint = "otel.example.com:4317"; c.Insecure = false }), ""},
		{"sample rate too low", valid(func(c *Config) { c.SampleRate = -0.1 }), "sample_rate must be between 0 and 1"},
		{"sample rate too high", valid(func(c *Config) { c.SampleRate = 1.5 }), "sample_rate must be between 0 and 1"},
		{"zero export interval", valid(func(c *Config) { c.ExportInterval = 0 }), "export_interval must be positive"},
		{"zero interval without metrics", valid(func(c *Config) { c.ExportInterval = 0; c.Metrics = false }), ""},
		{"zero shutdown timeout", valid(func(c *Config) { c.ShutdownTimeout = 0 }), "shutdown timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_IsLocalEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		local    bool
	}{
		{"localhost:4317", true},
		{"localhost", true},
		{"127.0.0.1:4317", true},
		{"127.1.2.3:4317", true},
		{"[::1]:4317", true},
		{"::1", true},
		{"http://localhost:4318", true},
		{"otel.example.com:4317", false},
		{"10.0.0.5:4317", false},
		{"https://otel.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			cfg := &Config{Endpoint: tt.endpoint}
			assert.Equal(t, tt.local, cfg.isLocalEndpoint())
		})
	}
}
