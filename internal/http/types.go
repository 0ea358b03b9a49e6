package http

import (
	"encoding/json"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
)

// ProcessRequest is the request body for POST /api/v1/process.
type ProcessRequest struct {
	Text string `json:"text"`

	// AI overrides fields of the server's AI configuration for this call.
	// Absent fields keep the configured values.
	AI json.RawMessage `json:"ai,omitempty"`
}

// ScrubRequest is the request body for POST /api/v1/scrub.
type ScrubRequest struct {
	Content string `json:"content"`
}

// ScrubResponse is the response body for POST /api/v1/scrub.
type ScrubResponse struct {
	Content       string   `json:"content"`
	FindingsCount int      `json:"findings_count"`
	Rules         []string `json:"rules,omitempty"`
}

// ModelsResponse is the response body for GET /api/v1/models/:backend.
type ModelsResponse struct {
	Backend extraction.Backend     `json:"backend"`
	Models  []extraction.ModelInfo `json:"models"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string               `json:"status"`
	Backend  extraction.Backend   `json:"backend"`
	Backends []extraction.Backend `json:"backends"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
