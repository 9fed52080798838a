package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func openTestSQLite(t *testing.T, path string) *SQLiteStorage {
	t.Helper()
	s, err := OpenSQLiteStorage(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenSQLiteStorageRequiresPath(t *testing.T) {
	if _, err := OpenSQLiteStorage("  "); err == nil {
		t.Error("OpenSQLiteStorage() with blank path expected error")
	}
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "store.db"))

	if _, ok, err := s.GetItem("_authPluginId"); err != nil || ok {
		t.Fatalf("GetItem() on empty db = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := s.SetItem("_authPluginId", "oidc"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if err := s.SetItem("_authPluginId", "saml"); err != nil {
		t.Fatalf("SetItem() overwrite error = %v", err)
	}
	got, ok, err := s.GetItem("_authPluginId")
	if err != nil || !ok {
		t.Fatalf("GetItem() = (ok=%v, err=%v)", ok, err)
	}
	if got != "saml" {
		t.Errorf("GetItem() = %q, want %q", got, "saml")
	}

	if err := s.RemoveItem("_authPluginId"); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if _, ok, _ := s.GetItem("_authPluginId"); ok {
		t.Error("GetItem() after RemoveItem still found the key")
	}
}

func TestSQLiteStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	first, err := OpenSQLiteStorage(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStorage() error = %v", err)
	}
	if err := first.SetItem("_csrfToken", "abc123"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second := openTestSQLite(t, path)
	got, ok, err := second.GetItem("_csrfToken")
	if err != nil || !ok {
		t.Fatalf("GetItem() after reopen = (ok=%v, err=%v)", ok, err)
	}
	if got != "abc123" {
		t.Errorf("GetItem() = %q, want %q", got, "abc123")
	}
}

func TestOpenSQLiteStorageCreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config", "authkeep")
	s := openTestSQLite(t, filepath.Join(dir, "store.db"))

	if err := s.SetItem("_authPluginId", "oidc"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("parent directory not created: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0700 {
		t.Errorf("directory permissions = %04o, want 0700", info.Mode().Perm())
	}
}
