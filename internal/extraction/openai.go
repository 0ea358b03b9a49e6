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

const defaultOpenAIBaseURL = "https://api.openai.com"

var openAIModels = []ModelInfo{
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Description: "Fast and inexpensive", MaxOutputTokens: 16384},
	{ID: "gpt-4o", Name: "GPT-4o", Description: "High quality general model", MaxOutputTokens: 16384},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Previous generation flagship", MaxOutputTokens: 4096},
}

// OpenAIAdapter talks to the OpenAI Chat Completions API.
type OpenAIAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIAdapter creates an adapter for OpenAI's GPT models.
func NewOpenAIAdapter(cfg Config) *OpenAIAdapter {
	return &OpenAIAdapter{
		baseURL:    cfg.baseURL(defaultOpenAIBaseURL),
		httpClient: cfg.httpClient(),
	}
}

// openAIRequest represents the request format for OpenAI Chat API.
type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

// openAIResponse represents the response from OpenAI Chat API.
type openAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// openAIError represents an error response from OpenAI API.
type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (o *OpenAIAdapter) Backend() Backend {
	return BackendOpenAI
}

func (o *OpenAIAdapter) AvailableModels() []ModelInfo {
	return append([]ModelInfo(nil), openAIModels...)
}

func (o *OpenAIAdapter) ProcessText(ctx context.Context, text, credential, modelID string, opts Options) (res *Result, err error) {
	c, err := prepare(BackendOpenAI, openAIModels, text, credential, modelID, opts)
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, BackendOpenAI, c)
	defer func() { endSpan(span, res, err) }()

	req := openAIRequest{
		Model:          c.model.ID,
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: c.prompt.System},
			{Role: "user", Content: c.prompt.User},
		},
	}

	reply, usage, err := o.doRequest(ctx, credential, req)
	if err != nil {
		return nil, err
	}
	return finish(BackendOpenAI, reply, usage, c.now)
}

// doRequest performs the HTTP request to the OpenAI API.
func (o *OpenAIAdapter) doRequest(ctx context.Context, apiKey string, req openAIRequest) (string, *Usage, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", nil, NewUnknownError(BackendOpenAI, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", nil, NewUnknownError(BackendOpenAI, fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, transportError(ctx, BackendOpenAI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, transportError(ctx, BackendOpenAI, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var errResp openAIError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
			// insufficient_quota shares 429 with throttling but never clears by waiting.
			if resp.StatusCode == http.StatusTooManyRequests && errResp.Error.Code == "insufficient_quota" {
				return "", nil, &Error{Kind: KindUnknown, Backend: BackendOpenAI, Status: resp.StatusCode, Message: msg}
			}
		}
		return "", nil, errorForStatus(BackendOpenAI, resp.StatusCode, msg)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", nil, NewParseError(BackendOpenAI, "failed to parse API response", err)
	}

	if len(openAIResp.Choices) == 0 || openAIResp.Choices[0].Message.Content == "" {
		return "", nil, NewParseError(BackendOpenAI, "empty response from API", nil)
	}

	usage := &Usage{
		PromptTokens:     openAIResp.Usage.PromptTokens,
		CompletionTokens: openAIResp.Usage.CompletionTokens,
		TotalTokens:      openAIResp.Usage.TotalTokens,
	}
	return openAIResp.Choices[0].Message.Content, usage, nil
}

var _ Adapter = (*OpenAIAdapter)(nil)
