package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"declscan/internal/config"
)

func TestRunWritesModuleFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	header := "typedef struct _GtkFoo GtkFoo;\n\nGType gtk_foo_get_type (void);\nvoid gtk_foo_run (GtkFoo *foo);\n"
	require.NoError(t, os.WriteFile(filepath.Join(src, "gtkfoo.h"), []byte(header), 0o644))

	cfg := &config.Config{Module: "gtk", OutputDir: out, SourceDirs: []string{src}}
	logger := log.New(io.Discard, "", 0)
	require.NoError(t, run(context.Background(), cfg, logger))

	for _, name := range []string{"gtk-decl-list.txt", "gtk-decl.txt", "gtk-sections.txt", "gtk-overrides.txt", "gtk.types"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	types, err := os.ReadFile(filepath.Join(out, "gtk.types"))
	require.NoError(t, err)
	assert.Equal(t, "gtk_foo_get_type\n", string(types))

	list, err := os.ReadFile(filepath.Join(out, "gtk-decl-list.txt"))
	require.NoError(t, err)
	assert.Equal(t, "<SECTION>\n<FILE>gtkfoo</FILE>\ngtk_foo_run\n<SUBSECTION Standard>\nGtkFoo\ngtk_foo_get_type\n</SECTION>\n\n", string(list))

	require.NoError(t, run(context.Background(), cfg, logger))
	_, err = os.Stat(filepath.Join(out, "gtk-decl.txt.bak"))
	assert.True(t, os.IsNotExist(err), "unchanged outputs are not backed up")
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	_, closeStore, err := openStore(context.Background(), config.StoreConfig{Backend: "tape"}, t.TempDir())
	assert.Error(t, err)
	closeStore()

	s, closeStore, err := openStore(context.Background(), config.StoreConfig{Backend: "memory"}, "")
	require.NoError(t, err)
	assert.NotNil(t, s)
	closeStore()
}
