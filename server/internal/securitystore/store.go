// Package securitystore resolves credential store handles to the files that
// back them.
package securitystore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type identifies which credential store a client is asking for.
type Type string

const (
	Keystore   Type = "keystore"
	Truststore Type = "truststore"
)

// ParseType accepts keystore or truststore, case-insensitively.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Keystore, Truststore:
		return t, nil
	}
	return "", fmt.Errorf("securitystore: unknown store type %q: want keystore|truststore", s)
}

// Store is a handle to one PKCS#12 credential store under a directory.
type Store struct {
	dir string
	typ Type
}

// New returns the handle for the store of the given type in dir.
func New(dir string, typ Type) *Store {
	return &Store{dir: dir, typ: typ}
}

// Type returns the store type.
func (s *Store) Type() Type { return s.typ }

// File returns the path of the file backing the store.
func (s *Store) File() string {
	return filepath.Join(s.dir, string(s.typ)+".p12")
}
