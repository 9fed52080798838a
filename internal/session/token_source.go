package session

import (
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoAccessToken is returned by the TokenSource while no access token is set.
var ErrNoAccessToken = errors.New("session: no access token")

// accessTokenSource exposes the current access token as an oauth2 bearer token.
type accessTokenSource struct {
	store *Store
}

// Compile-time check to ensure accessTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = accessTokenSource{}

// TokenSource returns an oauth2.TokenSource reading the in-memory access token on every call,
// so an oauth2.Transport always attaches the latest value.
func (s *Store) TokenSource() oauth2.TokenSource {
	return accessTokenSource{store: s}
}

func (ts accessTokenSource) Token() (*oauth2.Token, error) {
	token := ts.store.AccessToken()
	if token == "" {
		return nil, ErrNoAccessToken
	}
	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}
