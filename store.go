package finance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store is a durable key-value store of snapshots.
//
// Write replaces the whole value; implementations make it as atomic as their
// medium allows. Errors wrap ErrStorageUnavailable.
type Store interface {
	// Read returns the value of key. ok is false when the key does not exist.
	Read(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Write replaces the value of key.
	Write(ctx context.Context, key string, data []byte) error
}

// MemoryStore is a Store kept in memory, intended for tests and examples.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStore) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

// FileStore stores each key as a "<key>.json" file in a folder.
//
// Writes go to a temporary file renamed over the previous one, so a reader
// sees either the previous or the new snapshot, never a partial one.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore in dir. The folder is created on first write.
func NewFileStore(dir string) *FileStore { return &FileStore{Dir: dir} }

// Path returns the file holding key.
func (f *FileStore) Path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.Dir, key+".json"), nil
}

func (f *FileStore) Read(_ context.Context, key string) ([]byte, bool, error) {
	path, err := f.Path(key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: cannot read %q: %w", ErrStorageUnavailable, path, err)
	}
	return data, true, nil
}

func (f *FileStore) Write(_ context.Context, key string, data []byte) error {
	path, err := f.Path(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: cannot create %q: %w", ErrStorageUnavailable, f.Dir, err)
	}

	tmp, err := os.CreateTemp(f.Dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: cannot create temporary file: %w", ErrStorageUnavailable, err)
	}
	// Removing fails harmlessly once the file has been renamed.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: cannot write %q: %w", ErrStorageUnavailable, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: cannot sync %q: %w", ErrStorageUnavailable, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: cannot close %q: %w", ErrStorageUnavailable, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: cannot replace %q: %w", ErrStorageUnavailable, path, err)
	}
	return nil
}
