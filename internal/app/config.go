package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/authkeep/internal/storage"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
	LogFormatOTel LogFormat = "otel"
)

// ProviderType selects the storage provider variant.
type ProviderType string

const (
	// ProviderTypeAuto picks a provider from detected capabilities.
	ProviderTypeAuto   ProviderType = "auto"
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeNative ProviderType = "native"
	ProviderTypeNoop   ProviderType = "noop"
)

// LocalDriver selects what backs the local provider.
type LocalDriver string

const (
	LocalDriverFile    LocalDriver = "file"
	LocalDriverSQLite  LocalDriver = "sqlite"
	LocalDriverBrowser LocalDriver = "browser"
	LocalDriverMemory  LocalDriver = "memory"
)

// Default configuration values
const (
	DefaultConfigLogFormat      = LogFormatText
	DefaultConfigProvider       = ProviderTypeAuto
	DefaultConfigKeyringService = storage.DefaultKeyringService
)

// DefaultLocalDriver is browser storage on js/wasm and files elsewhere.
func DefaultLocalDriver() LocalDriver {
	if runtime.GOOS == "js" {
		return LocalDriverBrowser
	}
	return LocalDriverFile
}

// StorageConfig describes how to construct the storage provider.
type StorageConfig struct {
	Provider    ProviderType `json:"provider" validate:"required,oneof=auto local native noop"`
	LocalDriver LocalDriver  `json:"local_driver" validate:"required,oneof=file sqlite browser memory"`

	// Path is the directory for the file driver or the database file for the sqlite driver.
	Path string `json:"path,omitempty"`

	KeyringService string `json:"keyring_service" validate:"required"`
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level `json:"log_level"`
	LogFormat LogFormat  `json:"log_format" validate:"oneof=text json otel"`

	// Autologin persists the CSRF token across restarts.
	Autologin bool          `json:"autologin"`
	Storage   StorageConfig `json:"storage"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.Storage.Provider == "" {
		c.Storage.Provider = DefaultConfigProvider
	}
	if c.Storage.LocalDriver == "" {
		c.Storage.LocalDriver = DefaultLocalDriver()
	}
	if c.Storage.KeyringService == "" {
		c.Storage.KeyringService = DefaultConfigKeyringService
	}

	// Dynamic defaults based on local driver
	if c.Storage.Path == "" {
		var name string
		switch c.Storage.LocalDriver {
		case LocalDriverFile:
			name = "store"
		case LocalDriverSQLite:
			name = "store.db"
		default:
			// browser and memory drivers have no path
			return nil
		}

		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("storage.path required (auto-detect failed: %w)", err)
		}
		c.Storage.Path = filepath.Join(configDir, "authkeep", name)
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Storage.Provider != ProviderTypeAuto && c.Storage.Provider != ProviderTypeLocal {
		return nil
	}

	switch c.Storage.LocalDriver {
	case LocalDriverFile, LocalDriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for %s local driver", c.Storage.LocalDriver)
		}
	case LocalDriverBrowser:
		if runtime.GOOS != "js" {
			return errors.New("browser local driver requires a js/wasm build")
		}
	}

	return nil
}
