package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps outputs as plain files in one directory, the layout
// gtk-doc's later stages read. File names already carry the module, so the
// module only scopes List.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("output dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Put(_ context.Context, module, name string, content []byte) error {
	path, err := s.pathFor(module, name)
	if err != nil {
		return err
	}
	// Written beside the target, then renamed into place.
	tmp := path + ".new"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Get(_ context.Context, module, name string) ([]byte, error) {
	path, err := s.pathFor(module, name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *FileStore) Delete(_ context.Context, module, name string) error {
	path, err := s.pathFor(module, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) List(_ context.Context, module string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	module, err := normalizeModule(module)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), module) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func (s *FileStore) pathFor(module, name string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("store is nil")
	}
	_, name, err := normalizeKey(module, name)
	if err != nil {
		return "", err
	}
	if strings.Contains(name, "..") || strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid artifact name: %s", name)
	}
	return filepath.Join(s.root, name), nil
}
