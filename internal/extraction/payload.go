package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LocatePayload finds the first balanced {...} object in a free-form reply.
// Braces inside JSON strings are ignored. Models routinely wrap the payload in
// prose or markdown fences, so the reply itself is never parsed directly.
func LocatePayload(reply string) (string, bool) {
	for start := 0; start < len(reply); start++ {
		if reply[start] != '{' {
			continue
		}
		if end, ok := matchBrace(reply, start); ok {
			return reply[start : end+1], true
		}
		// The first opening brace never closes; nothing later can be balanced
		// without being nested inside it.
		return "", false
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// decodePayload runs locate, decode and validate in that order.
func decodePayload(backend Backend, reply string) (map[string]any, error) {
	raw, ok := LocatePayload(reply)
	if !ok {
		return nil, NewParseError(backend, "no JSON object found in response", nil)
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, NewParseError(backend, "failed to decode response payload", err)
	}

	if err := Validate(payload); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Backend = backend
		}
		return nil, err
	}
	return payload, nil
}

// numberValue reads an optional JSON number field.
func numberValue(obj map[string]any, field string) (float64, bool, error) {
	raw, ok := obj[field]
	if !ok || raw == nil {
		return 0, false, nil
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, true, fmt.Errorf("%s must be a number", field)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, true, fmt.Errorf("%s must be a number: %w", field, err)
	}
	return f, true, nil
}
