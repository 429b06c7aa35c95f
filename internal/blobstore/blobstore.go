// Package blobstore provides the string-keyed storage boundary that the
// persistence engine writes database images into.
//
// The engine treats this as a generic durable key-value medium: one key,
// one opaque byte payload, replaced wholesale on every write. Callers must
// tolerate Put failures (quota, disk full); the contract is that a failed
// Put leaves the previous payload intact.
package blobstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a durable string-keyed blob store.
type Store interface {
	// Get returns the payload for key. The second return value is false
	// when the key has never been written.
	Get(key string) ([]byte, bool, error)

	// Put replaces the payload for key atomically. On error the previous
	// payload, if any, remains readable.
	Put(key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FS stores each key as a file under a base directory.
// Put writes to a temp file and renames, so a crash mid-write never
// corrupts the previous payload.
type FS struct {
	dir string
}

// NewFS creates the base directory if needed and returns a filesystem store.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create dir: %w", err)
	}
	return &FS{dir: dir}, nil
}

func (s *FS) path(key string) string {
	// Keys are dotted constants like "pourhouse.image.v2"; keep them
	// filesystem-safe without decoding on the way back out.
	return filepath.Join(s.dir, strings.ReplaceAll(key, string(filepath.Separator), "_")+".blob")
}

// Get implements Store.
func (s *FS) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("blobstore: read %s: %w", key, err)
	}
	return data, true, nil
}

// Put implements Store.
func (s *FS) Put(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return fmt.Errorf("blobstore: write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("blobstore: write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("blobstore: sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blobstore: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("blobstore: commit %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *FS) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blobstore: delete %s: %w", key, err)
	}
	return nil
}
