package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Output file names for a module.
func DeclListName(module string) string { return module + "-decl-list.txt" }
func DeclName(module string) string { return module + "-decl.txt" }
func TypesName(module string) string { return module + ".types" }
func SectionsName(module string) string { return module + "-sections.txt" }
func OverridesName(module string) string { return module + "-overrides.txt" }

const backupSuffix = ".bak"

// Outputs is what one run hands to Publish.
type Outputs struct {
	Module   string
	DeclList string
	Decls    string
	// GetTypes is written one name per line, in the given order.
	GetTypes []string
}

type PublishOptions struct {
	// RebuildTypes writes the .types file. Callers usually OR the flag with
	// FirstRun.
	RebuildTypes bool
	// RebuildSections overwrites the sections file with the decl list.
	RebuildSections bool
}

// Report names the files Publish touched.
type Report struct {
	Changed []string
	Removed []string
}

// FirstRun reports whether the module has neither a sections file nor a
// types file yet.
func FirstRun(ctx context.Context, store Store, module string) (bool, error) {
	hasSections, err := Exists(ctx, store, module, SectionsName(module))
	if err != nil {
		return false, err
	}
	hasTypes, err := Exists(ctx, store, module, TypesName(module))
	if err != nil {
		return false, err
	}
	return !hasSections && !hasTypes, nil
}

// UpdateIfChanged stores content under name unless the stored copy is
// identical. With backup the previous content is kept as name+".bak".
func UpdateIfChanged(ctx context.Context, store Store, module, name string, content []byte, backup bool) (bool, error) {
	old, err := store.Get(ctx, module, name)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return false, fmt.Errorf("read %s: %w", name, err)
	case bytes.Equal(old, content):
		return false, nil
	case backup:
		if err := store.Put(ctx, module, name+backupSuffix, old); err != nil {
			return false, fmt.Errorf("backup %s: %w", name, err)
		}
	}
	if err := store.Put(ctx, module, name, content); err != nil {
		return false, fmt.Errorf("write %s: %w", name, err)
	}
	return true, nil
}

// Publish writes the decl list, the decl file and, when asked, the types
// file. It also seeds the sections and overrides files when they are missing.
func Publish(ctx context.Context, store Store, out Outputs, opts PublishOptions) (Report, error) {
	var rep Report
	if store == nil {
		return rep, fmt.Errorf("store is nil")
	}
	module := out.Module

	update := func(name string, content string, backup bool) error {
		changed, err := UpdateIfChanged(ctx, store, module, name, []byte(content), backup)
		if err != nil {
			return err
		}
		if changed {
			rep.Changed = append(rep.Changed, name)
		}
		return nil
	}

	if opts.RebuildTypes {
		types := TypesName(module)
		if len(out.GetTypes) == 0 {
			removed, err := retire(ctx, store, module, types)
			if err != nil {
				return rep, err
			}
			if removed {
				rep.Removed = append(rep.Removed, types)
			}
		} else if err := update(types, strings.Join(out.GetTypes, "\n")+"\n", true); err != nil {
			return rep, err
		}
	}

	if err := update(DeclListName(module), out.DeclList, true); err != nil {
		return rep, err
	}
	if err := update(DeclName(module), out.Decls, true); err != nil {
		return rep, err
	}

	sections := SectionsName(module)
	hasSections, err := Exists(ctx, store, module, sections)
	if err != nil {
		return rep, err
	}
	if opts.RebuildSections || !hasSections {
		if err := update(sections, out.DeclList, false); err != nil {
			return rep, err
		}
	}

	overrides := OverridesName(module)
	hasOverrides, err := Exists(ctx, store, module, overrides)
	if err != nil {
		return rep, err
	}
	if !hasOverrides {
		if err := store.Put(ctx, module, overrides, []byte{}); err != nil {
			return rep, fmt.Errorf("write %s: %w", overrides, err)
		}
		rep.Changed = append(rep.Changed, overrides)
	}
	return rep, nil
}

// retire moves name to name+".bak" if it exists.
func retire(ctx context.Context, store Store, module, name string) (bool, error) {
	old, err := store.Get(ctx, module, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := store.Put(ctx, module, name+backupSuffix, old); err != nil {
		return false, fmt.Errorf("backup %s: %w", name, err)
	}
	if err := store.Delete(ctx, module, name); err != nil {
		return false, fmt.Errorf("remove %s: %w", name, err)
	}
	return true, nil
}
