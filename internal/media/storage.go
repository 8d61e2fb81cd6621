// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists processed cover images under opaque keys and returns
// the public URL they will be served from.
type Storage interface {
	// Save writes data under key and returns its public URL.
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object stored under key. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, key string) error
}

// LocalStorage keeps covers on the local filesystem, served from a
// static route.
type LocalStorage struct {
	root      string
	publicURL string
}

// NewLocalStorage stores objects under root and builds URLs against
// publicURL (typically "/uploads").
func NewLocalStorage(root, publicURL string) *LocalStorage {
	return &LocalStorage{
		root:      root,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Save writes the object to disk, refusing keys that escape the root.
func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// Delete removes the object from disk.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// resolve validates key against path traversal and returns the absolute
// file path inside the storage root.
func (s *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	absBase, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("resolving storage root: %w", err)
	}

	target := filepath.Join(absBase, clean)
	rel, err := filepath.Rel(absBase, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return target, nil
}
