package storage

import "context"

// NoopProvider accepts all operations but retains nothing.
type NoopProvider struct{}

var _ Provider = NoopProvider{}

// Get always reports the key as absent.
func (NoopProvider) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrNotFound
}

func (NoopProvider) Set(ctx context.Context, key, value string) error {
	return ctx.Err()
}

func (NoopProvider) Remove(ctx context.Context, key string) error {
	return ctx.Err()
}
