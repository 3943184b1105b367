package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores state as a small JSON document on disk. It is the default
// backend for interactive use; the file carries a live credential so it is
// written with owner-only permissions.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV builds a file-backed store rooted at path. The parent
// directory is created lazily on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Get returns the value for key or ErrNotFound.
func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return "", err
	}
	val, ok := state[key]
	if !ok || val == "" {
		return "", ErrNotFound
	}
	return val, nil
}

// Set writes the value for key.
func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}
	state[key] = value
	return f.write(state)
}

// Delete removes the key. Deleting an absent key is not an error.
func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	return f.write(state)
}

// Close is a no-op for the file backend.
func (f *FileKV) Close() error { return nil }

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	state := map[string]string{}
	if err := json.Unmarshal(data, &state); err != nil {
		// Corrupt state file: treat as empty rather than wedging the client.
		return map[string]string{}, nil
	}
	return state, nil
}

func (f *FileKV) write(state map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
