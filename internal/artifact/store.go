// Package artifact persists the files a scan run produces.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store defines operations for persisting run outputs. Outputs are keyed by
// module and file name, e.g. ("gtk", "gtk-decl.txt").
type Store interface {
	Put(ctx context.Context, module, name string, content []byte) error
	Get(ctx context.Context, module, name string) ([]byte, error)
	Delete(ctx context.Context, module, name string) error
	List(ctx context.Context, module string) ([]string, error)
}

var ErrNotFound = errors.New("artifact not found")

func normalizeKey(module, name string) (string, string, error) {
	module = strings.TrimSpace(module)
	name = strings.TrimSpace(name)
	if module == "" {
		return "", "", fmt.Errorf("module is required")
	}
	if name == "" {
		return "", "", fmt.Errorf("name is required")
	}
	return module, strings.TrimLeft(name, "/"), nil
}

func normalizeModule(module string) (string, error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return "", fmt.Errorf("module is required")
	}
	return module, nil
}

// Exists reports whether the store holds name.
func Exists(ctx context.Context, store Store, module, name string) (bool, error) {
	_, err := store.Get(ctx, module, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
