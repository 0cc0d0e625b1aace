package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s Store, name string) string {
	t.Helper()
	b, err := s.Get(context.Background(), "gtk", name)
	require.NoError(t, err)
	return string(b)
}

func TestPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := FirstRun(ctx, s, "gtk")
	require.NoError(t, err)
	require.True(t, first)

	out := Outputs{Module: "gtk", DeclList: "L1", Decls: "D1", GetTypes: []string{"b_get_type", "a_get_type"}}
	rep, err := Publish(ctx, s, out, PublishOptions{RebuildTypes: first})
	require.NoError(t, err)
	assert.Equal(t, []string{"gtk.types", "gtk-decl-list.txt", "gtk-decl.txt", "gtk-sections.txt", "gtk-overrides.txt"}, rep.Changed)
	assert.Equal(t, "b_get_type\na_get_type\n", get(t, s, "gtk.types"))
	assert.Equal(t, "L1", get(t, s, "gtk-sections.txt"))
	assert.Equal(t, "", get(t, s, "gtk-overrides.txt"))

	names, err := s.List(ctx, "gtk")
	require.NoError(t, err)
	assert.Equal(t, []string{"gtk-decl-list.txt", "gtk-decl.txt", "gtk-overrides.txt", "gtk-sections.txt", "gtk.types"}, names)

	first, err = FirstRun(ctx, s, "gtk")
	require.NoError(t, err)
	assert.False(t, first)

	rep, err = Publish(ctx, s, out, PublishOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Changed, "identical outputs leave files alone")

	out.DeclList = "L2"
	rep, err = Publish(ctx, s, out, PublishOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"gtk-decl-list.txt"}, rep.Changed)
	assert.Equal(t, "L1", get(t, s, "gtk-decl-list.txt.bak"))
	assert.Equal(t, "L1", get(t, s, "gtk-sections.txt"), "sections are only seeded once")

	rep, err = Publish(ctx, s, out, PublishOptions{RebuildSections: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"gtk-sections.txt"}, rep.Changed)
	assert.Equal(t, "L2", get(t, s, "gtk-sections.txt"))
	_, err = s.Get(ctx, "gtk", "gtk-sections.txt.bak")
	assert.ErrorIs(t, err, ErrNotFound)

	out.GetTypes = nil
	rep, err = Publish(ctx, s, out, PublishOptions{RebuildTypes: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"gtk.types"}, rep.Removed)
	_, err = s.Get(ctx, "gtk", "gtk.types")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "b_get_type\na_get_type\n", get(t, s, "gtk.types.bak"))
}

func TestUpdateIfChanged(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	changed, err := UpdateIfChanged(ctx, s, "gtk", "f", []byte("a"), true)
	require.NoError(t, err)
	assert.True(t, changed)
	_, err = s.Get(ctx, "gtk", "f.bak")
	assert.ErrorIs(t, err, ErrNotFound, "nothing to back up on first write")

	changed, err = UpdateIfChanged(ctx, s, "gtk", "f", []byte("a"), true)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = UpdateIfChanged(ctx, s, "gtk", "f", []byte("b"), false)
	require.NoError(t, err)
	assert.True(t, changed)
	_, err = s.Get(ctx, "gtk", "f.bak")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishNilStore(t *testing.T) {
	_, err := Publish(context.Background(), nil, Outputs{Module: "gtk"}, PublishOptions{})
	assert.Error(t, err)
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "gtk-decl-list.txt", DeclListName("gtk"))
	assert.Equal(t, "gtk-decl.txt", DeclName("gtk"))
	assert.Equal(t, "gtk.types", TypesName("gtk"))
	assert.Equal(t, "gtk-sections.txt", SectionsName("gtk"))
	assert.Equal(t, "gtk-overrides.txt", OverridesName("gtk"))
}
