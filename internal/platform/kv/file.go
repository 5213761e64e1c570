// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// File keeps all values in one JSON object on disk.
//
// # Durability
//
// Every read goes to disk, so several processes sharing the file observe each
// other's writes. Writes replace the document through a temporary file and a
// rename, so a crash never leaves a truncated document behind.
type File struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFile returns a store backed by the JSON document at path.
//
// The parent directory is created when missing. The document itself is created
// on the first write.
func NewFile(path string, logger *slog.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("kv: file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("kv: create storage directory: %w", err)
	}
	return &File{path: path, logger: logger}, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		f.logger.Warn("kv file read failed", slog.String("path", f.path), slog.Any("error", err))
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

func (f *File) Set(key, value string) {
	f.update(func(values map[string]string) { values[key] = value })
}

func (f *File) Remove(key string) {
	f.update(func(values map[string]string) { delete(values, key) })
}

func (f *File) Clear() {
	f.update(func(values map[string]string) { clear(values) })
}

// update performs a locked read-modify-write of the document.
func (f *File) update(mutate func(map[string]string)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// An unreadable document is replaced rather than left blocking every write.
		f.logger.Warn("kv file unreadable, rewriting", slog.String("path", f.path), slog.Any("error", err))
		values = make(map[string]string)
	}

	mutate(values)

	if err := f.store(values); err != nil {
		f.logger.Error("kv file write failed", slog.String("path", f.path), slog.Any("error", err))
	}
}

func (f *File) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *File) store(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
