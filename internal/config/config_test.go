package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.AI.Backend != extraction.BackendNone {
		t.Errorf("default backend = %q, want none", cfg.AI.Backend)
	}
	if !cfg.AI.Categories.Tasks || !cfg.AI.Categories.Habits || !cfg.AI.Categories.Events || !cfg.AI.Categories.Sleep {
		t.Errorf("default categories = %+v, want all enabled", cfg.AI.Categories)
	}
	if cfg.Server.Addr() != "127.0.0.1:9191" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "temperature zero", mutate: func(c *Config) { c.AI.Temperature = 0 }},
		{name: "temperature one", mutate: func(c *Config) { c.AI.Temperature = 1 }},
		{name: "temperature negative", mutate: func(c *Config) { c.AI.Temperature = -0.01 }, wantErr: true},
		{name: "temperature above one", mutate: func(c *Config) { c.AI.Temperature = 1.01 }, wantErr: true},
		{name: "negative max tokens", mutate: func(c *Config) { c.AI.MaxTokens = -1 }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 65536 }, wantErr: true},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.AI.Backend = "palm" }, wantErr: true},
		{name: "mixed case backend", mutate: func(c *Config) { c.AI.Backend = "OpenAI" }},
		{name: "zero cache disables", mutate: func(c *Config) { c.Cache.TTL = 0; c.Cache.MaxEntries = 0 }},
		{name: "json logs", mutate: func(c *Config) { c.Logging.Format = "json" }},
		{name: "yaml logs", mutate: func(c *Config) { c.Logging.Format = "yaml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAIConfig_ValidateNormalizesBackend(t *testing.T) {
	ai := AIConfig{Backend: " Groq ", Temperature: 0.3}
	if err := ai.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if ai.Backend != extraction.BackendGroq {
		t.Errorf("Backend = %q, want groq", ai.Backend)
	}

	empty := AIConfig{}
	if err := empty.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if empty.Backend != extraction.BackendNone {
		t.Errorf("empty Backend = %q, want none", empty.Backend)
	}
}

func TestSecret_NeverPrinted(t *testing.T) {
	s := Secret("sk-live-abc123")

	outputs := []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%+v", AIConfig{APIKey: s}),
	}
	b, err := json.Marshal(AIConfig{APIKey: s})
	if err != nil {
		t.Fatal(err)
	}
	outputs = append(outputs, string(b))

	for _, out := range outputs {
		if strings.Contains(out, "sk-live-abc123") {
			t.Errorf("secret leaked in %q", out)
		}
	}
	if s.Value() != "sk-live-abc123" {
		t.Errorf("Value() = %q", s.Value())
	}
	if !s.IsSet() || Secret("").IsSet() {
		t.Error("IsSet() wrong")
	}
	if Secret("").String() != "" {
		t.Error("empty secret should print empty")
	}
}

func TestSecret_Unmarshal(t *testing.T) {
	var ai AIConfig
	if err := json.Unmarshal([]byte(`{"api_key":"sk-real"}`), &ai); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if ai.APIKey.Value() != "sk-real" {
		t.Errorf("APIKey = %q", ai.APIKey.Value())
	}

	if err := json.Unmarshal([]byte(`{"api_key":"[REDACTED]"}`), &ai); err == nil {
		t.Error("Unmarshal() accepted the redacted placeholder")
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("45s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Duration() != 45*time.Second {
		t.Errorf("Duration() = %v", d.Duration())
	}
	if err := d.UnmarshalText([]byte("-1s")); err == nil {
		t.Error("UnmarshalText() accepted a negative duration")
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText() accepted garbage")
	}

	b, err := json.Marshal(Duration(2 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2m0s"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
}
