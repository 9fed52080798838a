//go:build !(js && wasm)

package storage

import "errors"

// NewBrowserStorage always fails outside of js/wasm builds.
func NewBrowserStorage() (WebStorage, error) {
	return nil, errors.New("browser storage requires a js/wasm build")
}
