// Package storage provides the key/value backends that persist session values.
//
// Every backend satisfies Provider, a three-method capability set (Get, Set, Remove).
// Three variants exist, with different availability and durability tradeoffs:
//   - Local: wraps a synchronous WebStorage (browser localStorage, a directory of files,
//     a SQLite database, or process memory)
//   - Native: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - Noop: accepts every operation and retains nothing
//
// Select picks one of them from detected capabilities. Absence of a backend is never an
// error: the noop provider keeps callers working with in-memory semantics only.
package storage
