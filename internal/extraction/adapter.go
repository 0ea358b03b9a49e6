package extraction

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/prompt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/fyrsmithlabs/braindump/internal/extraction"

// Default generation settings shared by all backends.
const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 4096
)

// Options tunes a single extraction. Zero values select backend defaults.
type Options struct {
	// Temperature in [0, 1]; nil selects the backend default.
	Temperature *float64

	// MaxTokens caps the size of the reply; 0 selects the backend default.
	MaxTokens int

	// Categories to extract. If none is enabled, all are.
	Categories prompt.Categories

	// Now anchors relative dates and stamps created records.
	// Zero means time.Now().
	Now time.Time
}

// Temp returns a pointer to v, for Options.Temperature.
func Temp(v float64) *float64 {
	return &v
}

// Config holds per-adapter transport settings. The credential and model are
// supplied per call.
type Config struct {
	// BaseURL overrides the public API endpoint.
	BaseURL string `json:"base_url,omitempty" koanf:"base_url"`

	// Timeout in seconds for the HTTP client. 0 leaves deadlines to the
	// caller's context.
	Timeout int `json:"timeout,omitempty" koanf:"timeout"`

	// HTTPClient replaces the default client when set.
	HTTPClient *http.Client `json:"-" koanf:"-"`
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	client := &http.Client{}
	if c.Timeout > 0 {
		client.Timeout = time.Duration(c.Timeout) * time.Second
	}
	return client
}

func (c Config) baseURL(fallback string) string {
	if c.BaseURL == "" {
		return fallback
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

// call is the resolved input of one ProcessText invocation.
type call struct {
	model       ModelInfo
	temperature float64
	maxTokens   int
	now         time.Time
	prompt      prompt.Prompt
}

// prepare performs every check that must happen before network I/O.
func prepare(backend Backend, models []ModelInfo, text, credential, modelID string, opts Options) (*call, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, NewConfigurationError(backend, "API key is required")
	}

	model, ok := findModel(models, modelID)
	if !ok {
		return nil, NewConfigurationError(backend, fmt.Sprintf("unsupported model %q", modelID))
	}

	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	if temperature < 0 || temperature > 1 {
		return nil, NewConfigurationError(backend, fmt.Sprintf("temperature %.2f outside [0, 1]", temperature))
	}

	maxTokens := opts.MaxTokens
	if maxTokens < 0 {
		return nil, NewConfigurationError(backend, "max tokens cannot be negative")
	}
	if maxTokens == 0 {
		maxTokens = min(defaultMaxTokens, model.MaxOutputTokens)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	categories := opts.Categories
	if !categories.Any() {
		categories = prompt.AllCategories()
	}

	return &call{
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		now:         now,
		prompt: prompt.Build(prompt.Request{
			Text:       text,
			Categories: categories,
			Now:        now,
			Backend:    string(backend),
		}),
	}, nil
}

// findModel resolves modelID against the advertised list. An empty id
// selects the first (default) model.
func findModel(models []ModelInfo, modelID string) (ModelInfo, bool) {
	if len(models) == 0 {
		return ModelInfo{}, false
	}
	if modelID == "" {
		return models[0], true
	}
	for _, m := range models {
		if m.ID == modelID {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// finish turns a raw reply into a Result: locate, decode, validate, translate.
func finish(backend Backend, reply string, usage *Usage, now time.Time) (*Result, error) {
	payload, err := decodePayload(backend, reply)
	if err != nil {
		return nil, err
	}
	res, err := translate(backend, payload, now)
	if err != nil {
		return nil, err
	}
	res.RawResponse = reply
	res.Usage = usage
	return res, nil
}

// startSpan opens the span wrapping one backend round trip.
func startSpan(ctx context.Context, backend Backend, c *call) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "extraction.ProcessText",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.backend", string(backend)),
			attribute.String("llm.model", c.model.ID),
			attribute.Float64("llm.temperature", c.temperature),
			attribute.Int("llm.max_tokens", c.maxTokens),
		),
	)
}

// endSpan records the outcome of a round trip.
func endSpan(span trace.Span, res *Result, err error) {
	defer span.End()
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", string(KindOf(err))))
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if res.Usage != nil {
		span.SetAttributes(attribute.Int("llm.total_tokens", res.Usage.TotalTokens))
	}
}
