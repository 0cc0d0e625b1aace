// Package scan discovers C header files below a source directory.
package scan

import (
	"path"
	"path/filepath"
	"strings"

	"declscan/internal/safeio"
)

// FileVisit carries per-header metadata to user callbacks.
type FileVisit struct {
	// Root-relative path using forward slashes (e.g., "gtk/gtkwidget.h").
	Path string
	// Basename without the ".h" extension; the section key.
	Basename string
}

// VisitFunc is invoked for every header in discovery order. Returning an
// error stops the walk.
type VisitFunc func(f FileVisit) error

// Options controls header discovery.
type Options struct {
	// IgnoreDirs lists directory names skipped at any depth.
	IgnoreDirs []string
}

func (o Options) ignored(name string) bool {
	for _, d := range o.IgnoreDirs {
		if d == name {
			return true
		}
	}
	return false
}

// Walk visits the ".h" files of each directory in name order before
// descending into its subdirectories, also in name order. Entries starting
// with "." are skipped.
func Walk(fsys *safeio.SafeFS, opts Options, cb VisitFunc) error {
	return walkDir(fsys, opts, ".", cb)
}

func walkDir(fsys *safeio.SafeFS, opts Options, rel string, cb VisitFunc) error {
	entries, err := fsys.SafeReadDir(filepath.FromSlash(rel))
	if err != nil {
		return err
	}
	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := path.Join(rel, name)
		if e.IsDir() {
			if !opts.ignored(name) {
				dirs = append(dirs, p)
			}
			continue
		}
		if !strings.HasSuffix(name, ".h") {
			continue
		}
		if err := cb(FileVisit{Path: p, Basename: strings.TrimSuffix(name, ".h")}); err != nil {
			return err
		}
	}
	for _, d := range dirs {
		if err := walkDir(fsys, opts, d, cb); err != nil {
			return err
		}
	}
	return nil
}
