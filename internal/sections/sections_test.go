package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMovesStandardSymbols(t *testing.T) {
	symbols := []string{"X_IS_FOO", "X_FOO", "X_IS_FOO_CLASS", "X_FOO_CLASS", "X_FOO_GET_CLASS", "x_foo_get_type", "x_foo_new"}
	s := Classify("xfoo", "", symbols, nil, nil)
	assert.Equal(t, []string{"x_foo_new"}, s.Symbols)
	assert.Equal(t, []string{"X_FOO", "X_FOO_CLASS", "X_FOO_GET_CLASS", "X_IS_FOO", "X_IS_FOO_CLASS", "x_foo_get_type"}, s.Standard)
}

func TestClassifyInstanceAndClassStructs(t *testing.T) {
	symbols := []string{"GTK_TYPE_FOO", "GTK_IS_FOO", "GtkFoo", "GtkFooClass", "GtkFooPrivate", "gtk_foo_get_type", "gtk_foo_new"}

	s := Classify("gtkfoo", "", symbols, nil, nil)
	assert.Equal(t, []string{"gtk_foo_new"}, s.Symbols)
	assert.Equal(t, []string{"GTK_IS_FOO", "GTK_TYPE_FOO", "GtkFoo", "GtkFooClass", "GtkFooPrivate", "gtk_foo_get_type"}, s.Standard)

	s = Classify("gtkfoo", "", symbols, map[string]bool{"gtkfoo": true}, nil)
	assert.Equal(t, []string{"GtkFoo", "gtk_foo_new"}, s.Symbols)
	assert.NotContains(t, s.Standard, "GtkFoo")
	assert.Contains(t, s.Standard, "GtkFooPrivate")
}

func TestClassifyFromGetTypeOnly(t *testing.T) {
	symbols := []string{"GtkBar", "gtk_bar_get_type", "gtk_bar_run", "GtkBarIface"}
	s := Classify("gtkbar", "", symbols, nil, nil)
	assert.Equal(t, []string{"gtk_bar_run"}, s.Symbols)
	assert.Equal(t, []string{"GtkBar", "GtkBarIface", "gtk_bar_get_type"}, s.Standard)
}

func TestClassifyMultipleTypes(t *testing.T) {
	symbols := []string{"GTK_IS_FOO", "GTK_IS_BAR", "gtk_foo_new", "gtk_bar_new", "GTK_BAR", "GTK_FOO"}
	s := Classify("gtkfoobar", "", symbols, nil, nil)
	assert.Equal(t, []string{"gtk_foo_new", "gtk_bar_new"}, s.Symbols)
	assert.Equal(t, []string{"GTK_BAR", "GTK_FOO", "GTK_IS_BAR", "GTK_IS_FOO"}, s.Standard)
}

func TestClassifyWithoutGObjectTypes(t *testing.T) {
	symbols := []string{"foo_init", "FOO_VERSION", "FooData"}
	s := Classify("foo", "", symbols, nil, nil)
	assert.Equal(t, symbols, s.Symbols)
	assert.Empty(t, s.Standard)
}

func TestSectionString(t *testing.T) {
	s := Section{
		File:     "gtkfoo",
		Title:    "<TITLE>GtkFoo</TITLE>",
		Symbols:  []string{"gtk_foo_new"},
		Standard: []string{"GTK_FOO", "gtk_foo_get_type"},
	}
	want := "<SECTION>\n<FILE>gtkfoo</FILE>\n<TITLE>GtkFoo</TITLE>\ngtk_foo_new\n" +
		"<SUBSECTION Standard>\nGTK_FOO\ngtk_foo_get_type\n</SECTION>\n\n"
	assert.Equal(t, want, s.String())

	s = Section{File: "plain", Symbols: []string{"a"}}
	assert.Equal(t, "<SECTION>\n<FILE>plain</FILE>\na\n</SECTION>\n\n", s.String())
}

func TestEmptySectionRendersNothing(t *testing.T) {
	s := Classify("empty", "", nil, nil, nil)
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.String())
}
