package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the opaque key-value store backing session persistence. Callers
// treat keys and values as plain strings; layout on disk is an internal
// detail of the implementation.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// FileStore persists the key-value pairs as a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a file-backed Store at the given path. The file is
// created lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the stored value, or the empty string when the key is absent.
func (f *FileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.read()
	if err != nil {
		return "", err
	}
	return kv[key], nil
}

// Set stores a value under the key.
func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.read()
	if err != nil {
		return err
	}
	kv[key] = value
	return f.write(kv)
}

// Delete removes the given keys. Missing keys are not an error.
func (f *FileStore) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(kv, k)
	}
	return f.write(kv)
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session store: read %s: %w", f.path, err)
	}
	kv := map[string]string{}
	if len(data) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("session store: decode %s: %w", f.path, err)
	}
	return kv, nil
}

func (f *FileStore) write(kv map[string]string) error {
	data, err := json.Marshal(kv)
	if err != nil {
		return fmt.Errorf("session store: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session store: mkdir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session store: rename: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
