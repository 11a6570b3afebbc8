// ABOUTME: JSON-file key-value store kept in the XDG config directory
// ABOUTME: Values are loaded lazily and written through on every change

package kvstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the store file inside the config directory
const FileName = "store.json"

// FileStore persists values as a single JSON document
type FileStore struct {
	configDir string

	mu     sync.Mutex
	values map[string]string
}

type fileData struct {
	Values map[string]string `json:"values"`
}

// NewFileStore creates a store rooted at configDir; nothing is read until first use
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// path returns the location of the JSON document
func (fs *FileStore) path() string {
	return filepath.Join(fs.configDir, FileName)
}

// load reads the document if it has not been read yet. Caller holds fs.mu.
func (fs *FileStore) load() error {
	if fs.values != nil {
		return nil
	}

	data, err := os.ReadFile(fs.path())
	if os.IsNotExist(err) {
		fs.values = map[string]string{}
		return nil
	}
	if err != nil {
		return err
	}

	var doc fileData
	if err := json.Unmarshal(data, &doc); err != nil || doc.Values == nil {
		// Invalid JSON, start fresh
		fs.values = map[string]string{}
		return nil
	}

	fs.values = doc.Values
	return nil
}

// save writes the document atomically. Caller holds fs.mu.
func (fs *FileStore) save() error {
	if err := os.MkdirAll(fs.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileData{Values: fs.values}, "", "  ")
	if err != nil {
		return err
	}

	tmp := fs.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path())
}

func (fs *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return "", false, err
	}
	v, ok := fs.values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return err
	}
	fs.values[key] = value
	return fs.save()
}

func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return err
	}
	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.save()
}

func (fs *FileStore) Close() error { return nil }
