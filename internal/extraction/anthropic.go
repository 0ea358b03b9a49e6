package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

var anthropicModels = []ModelInfo{
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "Balanced quality and speed", MaxOutputTokens: 8192},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Description: "Fastest and cheapest", MaxOutputTokens: 8192},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Description: "Highest quality, slower", MaxOutputTokens: 4096},
}

// AnthropicAdapter talks to the Anthropic Messages API.
type AnthropicAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicAdapter creates an adapter for Anthropic's Claude models.
func NewAnthropicAdapter(cfg Config) *AnthropicAdapter {
	return &AnthropicAdapter{
		baseURL:    cfg.baseURL(defaultAnthropicBaseURL),
		httpClient: cfg.httpClient(),
	}
}

// anthropicRequest represents the request format for Claude API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents the response from Claude API.
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// anthropicError represents an error response from Claude API.
type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Backend implements Adapter.
func (a *AnthropicAdapter) Backend() Backend {
	return BackendAnthropic
}

// AvailableModels implements Adapter.
func (a *AnthropicAdapter) AvailableModels() []ModelInfo {
	return append([]ModelInfo(nil), anthropicModels...)
}

// ProcessText implements Adapter.
func (a *AnthropicAdapter) ProcessText(ctx context.Context, text, credential, modelID string, opts Options) (res *Result, err error) {
	c, err := prepare(BackendAnthropic, anthropicModels, text, credential, modelID, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, BackendAnthropic, c)
	defer func() { endSpan(span, res, err) }()

	req := anthropicRequest{
		Model:       c.model.ID,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      c.prompt.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: c.prompt.User},
		},
	}

	reply, usage, err := a.doRequest(ctx, credential, req)
	if err != nil {
		return nil, err
	}
	return finish(BackendAnthropic, reply, usage, c.now)
}

// doRequest performs the HTTP request to the Claude API.
func (a *AnthropicAdapter) doRequest(ctx context.Context, apiKey string, req anthropicRequest) (string, *Usage, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", nil, NewUnknownError(BackendAnthropic, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", nil, NewUnknownError(BackendAnthropic, fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, transportError(ctx, BackendAnthropic, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, transportError(ctx, BackendAnthropic, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var errResp anthropicError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", nil, errorForStatus(BackendAnthropic, resp.StatusCode, msg)
	}

	var claudeResp anthropicResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return "", nil, NewParseError(BackendAnthropic, "failed to parse API response", err)
	}

	var text strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", nil, NewParseError(BackendAnthropic, "empty response from API", nil)
	}

	usage := &Usage{
		PromptTokens:     claudeResp.Usage.InputTokens,
		CompletionTokens: claudeResp.Usage.OutputTokens,
		TotalTokens:      claudeResp.Usage.InputTokens + claudeResp.Usage.OutputTokens,
	}
	return text.String(), usage, nil
}

var _ Adapter = (*AnthropicAdapter)(nil)
