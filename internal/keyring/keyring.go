// Package keyring stores backend API keys in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/zalando/go-keyring"
)

// Service is the keyring service name under which keys are stored.
const Service = "braindump"

var (
	// ErrNotFound is returned when no key is stored for a backend.
	ErrNotFound = errors.New("API key not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func user(backend extraction.Backend) (string, error) {
	b, ok := extraction.ParseBackend(string(backend))
	if !ok || b == extraction.BackendNone {
		return "", fmt.Errorf("invalid backend %q", backend)
	}
	return string(b) + "-api-key", nil
}

// GetAPIKey retrieves the API key for backend.
// Returns ErrNotFound if no key is stored.
func GetAPIKey(backend extraction.Backend) (string, error) {
	u, err := user(backend)
	if err != nil {
		return "", err
	}
	key, err := keyring.Get(Service, u)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return key, nil
}

// SetAPIKey stores the API key for backend.
func SetAPIKey(backend extraction.Backend, key string) error {
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	u, err := user(backend)
	if err != nil {
		return err
	}
	if err := keyring.Set(Service, u, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the API key for backend.
func DeleteAPIKey(backend extraction.Backend) error {
	u, err := user(backend)
	if err != nil {
		return err
	}
	if err := keyring.Delete(Service, u); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring answers a read.
func IsAvailable() bool {
	_, err := keyring.Get(Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
