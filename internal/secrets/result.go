package secrets

import (
	"fmt"
	"sort"
	"strings"
)

// Result contains the scrubbing result.
type Result struct {
	// Scrubbed is the content with secrets redacted.
	Scrubbed string `json:"scrubbed"`

	// Findings describe detected secrets without their values.
	Findings []Finding `json:"findings,omitempty"`

	// ByRule maps rule IDs to finding counts.
	ByRule map[string]int `json:"by_rule,omitempty"`

	// Partial is set when the deep scan could not run.
	Partial bool `json:"partial,omitempty"`
}

// Finding represents a detected secret.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	Line        int    `json:"line"` // 1-indexed
}

// HasFindings reports whether any secret was found.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// RuleIDs returns the matched rule IDs in sorted order.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summary returns a short, value-free description suitable for logs.
func (r *Result) Summary() string {
	if !r.HasFindings() {
		return "no secrets detected"
	}
	parts := make([]string, 0, len(r.ByRule))
	for _, id := range r.RuleIDs() {
		parts = append(parts, fmt.Sprintf("%s=%d", id, r.ByRule[id]))
	}
	return fmt.Sprintf("%d secret(s) redacted (%s)", len(r.Findings), strings.Join(parts, ", "))
}
