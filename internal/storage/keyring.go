package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keyring service name used when none is configured.
const DefaultKeyringService = "authkeep"

// Keyring is the subset of the OS keyring used by KeyringProvider.
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

// osKeyring delegates to zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}

func (osKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

func (osKeyring) Delete(service, user string) error {
	return keyring.Delete(service, user)
}

// KeyringProvider stores values in OS-native secure credential storage.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
// Each key becomes the keyring user under a shared service name.
type KeyringProvider struct {
	service string
	keyring Keyring
}

// Compile-time check to ensure KeyringProvider implements Provider
var _ Provider = (*KeyringProvider)(nil)

// KeyringOption configures a KeyringProvider.
type KeyringOption func(*KeyringProvider)

// WithKeyring replaces the OS keyring, typically with a fake in tests.
func WithKeyring(k Keyring) KeyringOption {
	return func(p *KeyringProvider) {
		p.keyring = k
	}
}

// NewKeyringProvider creates a KeyringProvider for the given service name.
func NewKeyringProvider(service string, opts ...KeyringOption) (*KeyringProvider, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}

	p := &KeyringProvider{
		service: service,
		keyring: osKeyring{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Get returns the value from the system keyring, or ErrNotFound.
func (k *KeyringProvider) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := k.keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s from keyring service %s: %w", key, k.service, err)
	}
	return value, nil
}

// Set persists value to the system keyring, overwriting any existing value.
func (k *KeyringProvider) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := k.keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("writing %s to keyring service %s: %w", key, k.service, err)
	}
	return nil
}

// Remove deletes key from the system keyring. Missing entries are ignored.
func (k *KeyringProvider) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := k.keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing %s from keyring service %s: %w", key, k.service, err)
	}
	return nil
}
