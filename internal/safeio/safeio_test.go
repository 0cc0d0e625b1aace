package safeio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFSAllowsAbsoluteUnderRoot(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.h")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fs.SafeReadFile(p); err != nil {
		t.Fatalf("SafeReadFile absolute: %v", err)
	}
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	require.NoError(t, err)
	_, err = fs.SafeReadFile("../etc/passwd")
	assert.Error(t, err)
}

func TestSafeReadTextNormalizesLineEndings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crlf.h"), []byte("a\r\nb\rc\n"), 0o644))
	fs, err := NewSafeFS(dir)
	require.NoError(t, err)

	text, err := fs.SafeReadText("crlf.h")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", text)
}

func TestCanonicalResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.h")
	require.NoError(t, os.WriteFile(real, []byte("x"), 0o644))
	if err := os.Symlink(real, filepath.Join(dir, "link.h")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	fs, err := NewSafeFS(dir)
	require.NoError(t, err)

	a, err := fs.Canonical("real.h")
	require.NoError(t, err)
	b, err := fs.Canonical("./link.h")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
