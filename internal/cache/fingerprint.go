package cache

import (
	"fmt"

	"github.com/fyrsmithlabs/braindump/internal/prompt"
	"github.com/mitchellh/hashstructure/v2"
)

// Key is everything that determines an extraction result.
type Key struct {
	Text        string
	Backend     string
	Model       string
	Temperature float64
	MaxTokens   int
	Categories  prompt.Categories
}

// Fingerprint derives a stable cache key. Text is normalized first, so
// inputs differing only in whitespace or repeated punctuation share a key.
func Fingerprint(k Key) (string, error) {
	k.Text = prompt.Preprocess(k.Text)
	h, err := hashstructure.Hash(k, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("fingerprint cache key: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}
