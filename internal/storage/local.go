package storage

import (
	"context"
	"fmt"
	"sync"
)

// WebStorage is a synchronous key/value store with the shape of the browser Storage API.
type WebStorage interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(key string) (string, bool, error)

	// SetItem stores value under key.
	SetItem(key, value string) error

	// RemoveItem deletes key. Missing keys are ignored.
	RemoveItem(key string) error
}

// LocalProvider adapts a synchronous WebStorage to the Provider interface.
type LocalProvider struct {
	storage WebStorage
}

// Compile-time check to ensure LocalProvider implements Provider
var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider wraps ws.
func NewLocalProvider(ws WebStorage) *LocalProvider {
	return &LocalProvider{storage: ws}
}

// Get returns the value for key, or ErrNotFound if the underlying storage has none.
func (l *LocalProvider) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, ok, err := l.storage.GetItem(key)
	if err != nil {
		return "", fmt.Errorf("reading %s from local storage: %w", key, err)
	}
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set writes value under key.
func (l *LocalProvider) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.storage.SetItem(key, value); err != nil {
		return fmt.Errorf("writing %s to local storage: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (l *LocalProvider) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := l.storage.RemoveItem(key); err != nil {
		return fmt.Errorf("removing %s from local storage: %w", key, err)
	}
	return nil
}

// MemoryStorage is a WebStorage that lives in process memory only.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ WebStorage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
