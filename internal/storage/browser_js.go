//go:build js && wasm

package storage

import (
	"errors"
	"syscall/js"
)

// browserStorage is window.localStorage.
type browserStorage struct {
	js.Value
}

var _ WebStorage = (*browserStorage)(nil)

// NewBrowserStorage returns a WebStorage backed by window.localStorage.
func NewBrowserStorage() (WebStorage, error) {
	ls := js.Global().Get("localStorage")
	if ls.IsUndefined() || ls.IsNull() {
		return nil, errors.New("window.localStorage is not available")
	}
	return &browserStorage{ls}, nil
}

// GetItem calls localStorage.getItem(). A null result means the key is absent.
func (b *browserStorage) GetItem(key string) (value string, ok bool, err error) {
	defer recoverJSError(&err)

	v := b.Call("getItem", key)
	if v.IsNull() {
		return "", false, nil
	}
	return v.String(), true, nil
}

// SetItem calls localStorage.setItem(), which throws QuotaExceededError when full.
func (b *browserStorage) SetItem(key, value string) (err error) {
	defer recoverJSError(&err)

	b.Call("setItem", key, value)
	return nil
}

// RemoveItem calls localStorage.removeItem().
func (b *browserStorage) RemoveItem(key string) (err error) {
	defer recoverJSError(&err)

	b.Call("removeItem", key)
	return nil
}

// recoverJSError turns an exception thrown by a Storage method into an error.
func recoverJSError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = jsErr
		return
	}
	panic(r)
}
