package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/florianilch/authkeep/internal/storage"
)

// Keys under which persisted values are stored.
const (
	AuthPluginIDKey = "_authPluginId"
	CSRFTokenKey    = "_csrfToken"
)

// Tokens is the access/CSRF pair handed out by an authentication flow.
type Tokens struct {
	AccessToken string
	CSRFToken   string
}

// Store is the session handle. Create it with Open and share the pointer.
type Store struct {
	provider  storage.Provider
	autologin bool

	mu           sync.RWMutex
	authPluginID string
	accessToken  string
	csrfToken    string
}

// Open loads persisted values from p and returns a ready Store.
// The CSRF token is only read (and later written) when autologin is enabled.
func Open(ctx context.Context, p storage.Provider, autologin bool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("missing storage provider")
	}

	s := &Store{
		provider:  p,
		autologin: autologin,
	}

	pluginID, err := load(ctx, p, AuthPluginIDKey)
	if err != nil {
		return nil, fmt.Errorf("loading auth plugin id: %w", err)
	}
	s.authPluginID = pluginID

	if autologin {
		csrf, err := load(ctx, p, CSRFTokenKey)
		if err != nil {
			return nil, fmt.Errorf("loading csrf token: %w", err)
		}
		s.csrfToken = csrf
	}

	return s, nil
}

// load returns "" for absent keys.
func load(ctx context.Context, p storage.Provider, key string) (string, error) {
	v, err := p.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// persist writes value, or removes key when value is empty.
func persist(ctx context.Context, p storage.Provider, key, value string) error {
	if value == "" {
		return p.Remove(ctx, key)
	}
	return p.Set(ctx, key, value)
}

// Autologin reports whether the CSRF token is persisted.
func (s *Store) Autologin() bool {
	return s.autologin
}

// SetAuthPluginID persists id (or removes it when empty), then updates memory.
func (s *Store) SetAuthPluginID(ctx context.Context, id string) error {
	if err := persist(ctx, s.provider, AuthPluginIDKey, id); err != nil {
		return fmt.Errorf("persisting auth plugin id: %w", err)
	}

	s.mu.Lock()
	s.authPluginID = id
	s.mu.Unlock()
	return nil
}

// AuthPluginID returns the in-memory plugin id.
func (s *Store) AuthPluginID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authPluginID
}

// SetAccessToken updates the in-memory access token. Access tokens are never persisted.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

// AccessToken returns the in-memory access token.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetCSRFToken persists token when autologin is enabled, then updates memory.
func (s *Store) SetCSRFToken(ctx context.Context, token string) error {
	if s.autologin {
		if err := persist(ctx, s.provider, CSRFTokenKey, token); err != nil {
			return fmt.Errorf("persisting csrf token: %w", err)
		}
	}

	s.mu.Lock()
	s.csrfToken = token
	s.mu.Unlock()
	return nil
}

// CSRFToken returns the in-memory CSRF token.
func (s *Store) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.csrfToken
}

// SetTokens sets the access token, then the CSRF token.
func (s *Store) SetTokens(ctx context.Context, t Tokens) error {
	s.SetAccessToken(t.AccessToken)
	return s.SetCSRFToken(ctx, t.CSRFToken)
}

// Clear resets the plugin id, access token and CSRF token, in that order.
// It returns after every persisted entry has been removed, or at the first failure.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.SetAuthPluginID(ctx, ""); err != nil {
		return err
	}
	s.SetAccessToken("")
	return s.SetCSRFToken(ctx, "")
}
