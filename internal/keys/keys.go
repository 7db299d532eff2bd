// Package keys resolves provider API keys. Lookup order: environment
// variable, then the secret store, then a one-time interactive prompt
// whose answer is persisted back to the store. The rest of the program
// only ever sees a resolved key string.
package keys

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Account is the fixed account name keys are stored under.
const Account = "ppps"

// ErrNotFound reports that a service has no stored key.
var ErrNotFound = errors.New("key not found")

// Store is a secret store keyed by service name.
type Store interface {
	Get(service string) (string, error)
	Set(service, value string) error
}

// PromptFunc asks the operator for a key, once.
type PromptFunc func(service string) (string, error)

// Resolve returns the API key for a service. A SERVICE_API_KEY
// environment variable wins outright and is never persisted.
func Resolve(store Store, service string, prompt PromptFunc) (string, error) {
	envVar := strings.ToUpper(service) + "_API_KEY"
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}

	key, err := store.Get(service)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("read %s key: %w", service, err)
	}

	if prompt == nil {
		return "", fmt.Errorf("no %s key stored and no prompt available", service)
	}
	key, err = prompt(service)
	if err != nil {
		return "", fmt.Errorf("prompt for %s key: %w", service, err)
	}
	if key == "" {
		return "", fmt.Errorf("empty %s key entered", service)
	}

	if err := store.Set(service, key); err != nil {
		return "", fmt.Errorf("store %s key: %w", service, err)
	}
	return key, nil
}
