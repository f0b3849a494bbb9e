package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	keychainService    = "filmdeck"
	serverTokenAccount = "server_token"
)

// Keychain abstracts the platform secret store for testing.
type Keychain interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
}

// NewKeychain returns the platform secret store: the macOS Keychain via the
// security CLI, or a secrets file under $XDG_DATA_HOME elsewhere.
func NewKeychain() Keychain {
	return platformKeychain{}
}

type platformKeychain struct{}

func (platformKeychain) Get(service, account string) (string, error) {
	out, err := keychainGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (platformKeychain) Set(service, account, value string) error {
	return keychainSet(service, account, value)
}

// ServerToken returns the bearer token guarding the HTTP API. When cfg has no
// token, one is generated and persisted in kc so later runs and clients agree.
func ServerToken(cfg Config, kc Keychain) (string, error) {
	if cfg.Server.Token != "" {
		return cfg.Server.Token, nil
	}
	if tok, err := kc.Get(keychainService, serverTokenAccount); err == nil && tok != "" {
		return tok, nil
	}
	tok := uuid.NewString()
	if err := kc.Set(keychainService, serverTokenAccount, tok); err != nil {
		return "", fmt.Errorf("storing server token: %w", err)
	}
	return tok, nil
}
