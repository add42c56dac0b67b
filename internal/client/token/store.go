// Package token owns durable persistence of the bearer token. It is the only
// place in the client that touches the token file.
//
// The store is synchronous and non-throwing: persistence failures (read-only
// filesystem, missing directories) are swallowed so a broken token file never
// blocks the session; the app still works in-memory for that run.
package token

import (
	"os"
	"path/filepath"
	"strings"
)

const fileName = "geoauth_token"

// Store persists a single opaque bearer token in a file. Absence is a valid
// state (anonymous). The zero value is not usable; construct with NewStore
// or DefaultStore.
type Store struct {
	path string
}

// NewStore returns a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore places the token under the user config dir
// (e.g. ~/.config/geoauth/geoauth_token), falling back to the working
// directory when the config dir cannot be determined.
func DefaultStore() *Store {
	dir, err := os.UserConfigDir()
	if err != nil {
		return NewStore(fileName)
	}
	return NewStore(filepath.Join(dir, "geoauth", fileName))
}

// Get reads the persisted token. Returns "" if the token is absent or the
// storage medium is unavailable. Never fails.
func (s *Store) Get() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Set persists the token best-effort. Write failures are intentionally
// silent (see package doc).
func (s *Store) Set(token string) {
	_ = os.MkdirAll(filepath.Dir(s.path), 0o700)
	_ = os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the persisted token best-effort.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// Has reports whether a token is currently persisted.
func (s *Store) Has() bool {
	return s.Get() != ""
}
