// Package capability detects which persistence backends the running process can use.
package capability

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"
)

// ModeEnvKey holds the runtime mode of the process.
const ModeEnvKey = "APP_ENV"

// ModeDevelopment is the ModeEnvKey value that enables development mode.
const ModeDevelopment = "development"

// checkService and checkUser are looked up in the keyring to check that it answers at all.
const (
	checkService = "authkeep"
	checkUser    = "authkeep-check"
)

// Capabilities are the environment facts computed once at startup.
type Capabilities struct {
	WindowExists        bool `json:"window_exists"`
	LocalStorageExists  bool `json:"local_storage_exists"`
	NativeStorageExists bool `json:"native_storage_exists"`
	DevelopmentMode     bool `json:"development_mode"`
}

type detector struct {
	lookupEnv   func(string) (string, bool)
	window      func() (window, localStorage bool)
	nativeCheck func() bool
}

// Option configures Detect.
type Option func(*detector)

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(d *detector) {
		d.lookupEnv = fn
	}
}

// WithWindow replaces the window/localStorage check.
func WithWindow(fn func() (window, localStorage bool)) Option {
	return func(d *detector) {
		d.window = fn
	}
}

// WithNativeCheck replaces the native storage check.
func WithNativeCheck(fn func() bool) Option {
	return func(d *detector) {
		d.nativeCheck = fn
	}
}

// Detect reads the ambient environment. Absence of a capability yields false, never an error.
func Detect(opts ...Option) Capabilities {
	d := &detector{
		lookupEnv:   os.LookupEnv,
		window:      detectWindow,
		nativeCheck: KeyringCheck(checkService),
	}
	for _, opt := range opts {
		opt(d)
	}

	window, localStorage := d.window()
	mode, _ := d.lookupEnv(ModeEnvKey)

	return Capabilities{
		WindowExists:        window,
		LocalStorageExists:  window && localStorage,
		NativeStorageExists: d.nativeCheck(),
		DevelopmentMode:     mode == ModeDevelopment,
	}
}

// KeyringCheck returns a check that reports whether the OS keyring answers requests.
// A successful read or a "not found" answer both count as present.
func KeyringCheck(service string) func() bool {
	return func() bool {
		_, err := keyring.Get(service, checkUser)
		return err == nil || errors.Is(err, keyring.ErrNotFound)
	}
}
