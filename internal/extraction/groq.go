package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

var groqModels = []ModelInfo{
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", Description: "Best quality on Groq", MaxOutputTokens: 32768},
	{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", Description: "Lowest latency", MaxOutputTokens: 8192},
	{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", Description: "Long context", MaxOutputTokens: 32768},
}

// statusCodePattern pulls the HTTP status out of langchaingo client errors,
// which are formatted as "API returned unexpected status code: 429: ...".
var statusCodePattern = regexp.MustCompile(`status code: (\d{3})`)

// GroqAdapter talks to Groq's OpenAI-compatible endpoint through the
// langchaingo OpenAI client.
type GroqAdapter struct {
	cfg     Config
	baseURL string
}

// NewGroqAdapter creates an adapter for models hosted on Groq.
func NewGroqAdapter(cfg Config) *GroqAdapter {
	return &GroqAdapter{
		cfg:     cfg,
		baseURL: cfg.baseURL(defaultGroqBaseURL),
	}
}

func (g *GroqAdapter) Backend() Backend {
	return BackendGroq
}

func (g *GroqAdapter) AvailableModels() []ModelInfo {
	return append([]ModelInfo(nil), groqModels...)
}

func (g *GroqAdapter) ProcessText(ctx context.Context, text, credential, modelID string, opts Options) (res *Result, err error) {
	c, err := prepare(BackendGroq, groqModels, text, credential, modelID, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, BackendGroq, c)
	defer func() { endSpan(span, res, err) }()

	// The credential and model vary per call, so the client is built per call.
	llm, err := openai.New(
		openai.WithToken(credential),
		openai.WithModel(c.model.ID),
		openai.WithBaseURL(g.baseURL),
		openai.WithHTTPClient(g.cfg.httpClient()),
	)
	if err != nil {
		return nil, NewConfigurationError(BackendGroq, err.Error())
	}

	messages := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: c.prompt.System}}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextContent{Text: c.prompt.User}}},
	}

	resp, err := llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return nil, g.mapError(ctx, err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, NewParseError(BackendGroq, "empty response from API", nil)
	}

	choice := resp.Choices[0]
	return finish(BackendGroq, choice.Content, usageFromGenerationInfo(choice.GenerationInfo), c.now)
}

// mapError normalizes langchaingo client failures.
func (g *GroqAdapter) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return transportError(ctx, BackendGroq, err)
	}
	if errors.Is(err, openai.ErrEmptyResponse) {
		return NewParseError(BackendGroq, "empty response from API", err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewParseError(BackendGroq, "failed to decode API response", err)
	}
	if m := statusCodePattern.FindStringSubmatch(err.Error()); m != nil {
		status, _ := strconv.Atoi(m[1])
		return errorForStatus(BackendGroq, status, err.Error())
	}
	return NewUnknownError(BackendGroq, err)
}

// usageFromGenerationInfo reads token counts reported by the langchaingo
// OpenAI client. Missing keys leave the counts at zero.
func usageFromGenerationInfo(info map[string]any) *Usage {
	if info == nil {
		return nil
	}
	u := &Usage{
		PromptTokens:     intValue(info["PromptTokens"]),
		CompletionTokens: intValue(info["CompletionTokens"]),
		TotalTokens:      intValue(info["TotalTokens"]),
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

var _ Adapter = (*GroqAdapter)(nil)
