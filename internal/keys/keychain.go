package keys

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// Keychain stores keys in the OS credential store (macOS Keychain,
// Secret Service on Linux, Credential Manager on Windows).
type Keychain struct{}

func (Keychain) Get(service string) (string, error) {
	v, err := keyring.Get(service, Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (Keychain) Set(service, value string) error {
	return keyring.Set(service, Account, value)
}

// TerminalPrompt reads a key from the controlling terminal without
// echoing it.
func TerminalPrompt(service string) (string, error) {
	fmt.Printf("Enter %s API key: ", service)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
