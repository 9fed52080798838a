package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/florianilch/authkeep/internal/capability"
)

// ErrNotFound is returned by Provider.Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Provider reads, writes and removes string values by key.
type Provider interface {
	// Get returns the stored value. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the value stored under key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Kind names a provider variant.
type Kind string

const (
	KindLocal  Kind = "local"
	KindNative Kind = "native"
	KindNoop   Kind = "noop"
)

// Select returns exactly one provider for the given capabilities. First match wins:
// local storage, then native storage, then the noop provider.
//
// The constructors are only invoked for the variant that is selected.
func Select(caps capability.Capabilities, local func() (WebStorage, error), native func() Provider) (Provider, Kind, error) {
	switch {
	case caps.LocalStorageExists:
		ws, err := local()
		if err != nil {
			return nil, "", fmt.Errorf("creating local storage: %w", err)
		}
		return NewLocalProvider(ws), KindLocal, nil
	case caps.NativeStorageExists:
		return native(), KindNative, nil
	default:
		return NoopProvider{}, KindNoop, nil
	}
}
