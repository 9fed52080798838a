package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/florianilch/authkeep/internal/capability"
	"github.com/florianilch/authkeep/internal/session"
	"github.com/florianilch/authkeep/internal/storage"
)

// App owns the session store and the storage resources behind it.
type App struct {
	cfg   *Config
	caps  capability.Capabilities
	kind  storage.Kind
	store *session.Store

	closers []io.Closer
}

type options struct {
	caps        *capability.Capabilities
	keyringOpts []storage.KeyringOption
}

// Option configures New.
type Option func(*options)

// WithCapabilities skips detection and uses caps instead.
func WithCapabilities(caps capability.Capabilities) Option {
	return func(o *options) {
		o.caps = &caps
	}
}

// WithKeyring replaces the OS keyring used by the native provider.
func WithKeyring(k storage.Keyring) Option {
	return func(o *options) {
		o.keyringOpts = append(o.keyringOpts, storage.WithKeyring(k))
	}
}

// New creates the storage provider described by cfg and opens the session store.
// The returned App must be closed to release storage resources.
func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{cfg: cfg}
	if o.caps != nil {
		a.caps = *o.caps
	} else {
		a.caps = capability.Detect(capability.WithNativeCheck(capability.KeyringCheck(cfg.Storage.KeyringService)))
	}

	provider, kind, err := a.newProvider(o)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create storage provider: %w", err)
	}
	a.kind = kind

	store, err := session.Open(ctx, provider, cfg.Autologin)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	a.store = store

	slog.InfoContext(ctx, "session store ready",
		"provider", kind,
		"requested", cfg.Storage.Provider,
		"autologin", cfg.Autologin,
	)

	return a, nil
}

// newProvider builds the configured provider, or lets storage.Select choose in auto mode.
func (a *App) newProvider(o *options) (storage.Provider, storage.Kind, error) {
	// No I/O until the provider is used
	native, err := storage.NewKeyringProvider(a.cfg.Storage.KeyringService, o.keyringOpts...)
	if err != nil {
		return nil, "", err
	}

	switch a.cfg.Storage.Provider {
	case ProviderTypeAuto:
		return storage.Select(a.caps, a.newLocalStorage, func() storage.Provider { return native })
	case ProviderTypeLocal:
		ws, err := a.newLocalStorage()
		if err != nil {
			return nil, "", err
		}
		return storage.NewLocalProvider(ws), storage.KindLocal, nil
	case ProviderTypeNative:
		return native, storage.KindNative, nil
	case ProviderTypeNoop:
		return storage.NoopProvider{}, storage.KindNoop, nil
	default:
		return nil, "", fmt.Errorf("unsupported storage provider: %s", a.cfg.Storage.Provider)
	}
}

// newLocalStorage creates the WebStorage for the configured local driver.
func (a *App) newLocalStorage() (storage.WebStorage, error) {
	switch a.cfg.Storage.LocalDriver {
	case LocalDriverFile:
		return storage.NewFileStorage(a.cfg.Storage.Path)
	case LocalDriverSQLite:
		db, err := storage.OpenSQLiteStorage(a.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return db, nil
	case LocalDriverBrowser:
		return storage.NewBrowserStorage()
	case LocalDriverMemory:
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported local driver: %s", a.cfg.Storage.LocalDriver)
	}
}

// Store returns the session store shared by all consumers.
func (a *App) Store() *session.Store {
	return a.store
}

// Capabilities returns the capabilities the provider was selected from.
func (a *App) Capabilities() capability.Capabilities {
	return a.caps
}

// ProviderKind returns the provider variant in use.
func (a *App) ProviderKind() storage.Kind {
	return a.kind
}

// Close releases storage resources in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
