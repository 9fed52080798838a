package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStorage keeps one file per key inside a directory with secure permissions.
// Writes use temp file + rename for crash safety.
type FileStorage struct {
	dir string
}

// Compile-time check to ensure FileStorage implements WebStorage
var _ WebStorage = (*FileStorage)(nil)

// NewFileStorage creates a FileStorage rooted at dir, creating it with 0700
// permissions if it doesn't exist.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &FileStorage{dir: dir}, nil
}

// path maps a key to a file name inside the storage directory.
func (f *FileStorage) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, url.PathEscape(key)), nil
}

// GetItem returns the stored value. Returns an error if the file has insecure permissions.
func (f *FileStorage) GetItem(key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}

	// Check file permissions before reading
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if info.Mode().Perm() != 0600 {
		return "", false, fmt.Errorf("insecure permissions on %s: %04o (expected 0600)", path, info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// SetItem atomically saves value with 0600 permissions (owner read/write only).
func (f *FileStorage) SetItem(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	// Temp file in same directory for atomic rename
	tempFile, err := os.CreateTemp(f.dir, "*.tmp")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()
	// Cleanup deferred for all exit paths
	defer func() { _ = os.Remove(tempName) }()
	defer func() { _ = tempFile.Close() }()

	if _, err := tempFile.WriteString(value); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	if err := os.Rename(tempName, path); err != nil {
		return err
	}

	return os.Chmod(path, 0600)
}

// RemoveItem deletes the file for key. Missing files are ignored.
func (f *FileStorage) RemoveItem(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
