package scanner

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardTrackerDeprecationNesting(t *testing.T) {
	g := guardTracker{deprecatedGuards: regexp.MustCompile(`GTK_DISABLE_DEPRECATED`)}
	g.update("#ifndef GTK_DISABLE_DEPRECATED\n", false)
	assert.True(t, g.deprecated())
	g.update("#ifdef G_OS_WIN32\n", false)
	g.update("#endif\n", false)
	assert.True(t, g.deprecated(), "inner #endif must not close the deprecation guard")
	g.update("#endif\n", false)
	assert.False(t, g.deprecated())
}

func TestGuardTrackerIgnoreNesting(t *testing.T) {
	var g guardTracker
	g.update("#ifdef __GTK_DOC_IGNORE__\n", false)
	g.update("#if defined (FOO)\n", false)
	g.update("#if BAR\n", false)
	assert.Equal(t, 3, g.ignoreDepth)
	g.update("#endif\n", false)
	g.update("#endif\n", false)
	assert.True(t, g.ignoring())
	g.update("#endif\n", false)
	assert.False(t, g.ignoring())
}

func TestGuardTrackerSoftDeprecation(t *testing.T) {
	var g guardTracker
	assert.False(t, g.update("#define FOO_DEPRECATED 1\n", false), "directives never set the flag")
	assert.False(t, g.update("  FOO_DEPRECATED_VALUE,\n", true), "enum members never set the flag")
	assert.True(t, g.update("GDK_DEPRECATED_IN_3_0\n", false))
	assert.False(t, g.update("GDK_DEPRECATED_FOR(bar)\n", false), "already set")
	assert.True(t, g.deprecated())
	g.truncate()
	assert.False(t, g.deprecated())
}

func TestGuardTrackerNilPatternNeverMatches(t *testing.T) {
	var g guardTracker
	g.update("#ifndef GTK_DISABLE_DEPRECATED\n", false)
	assert.False(t, g.deprecated())
}
