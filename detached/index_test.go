package detached

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.detached")
	defer teardown()
	//
	index := NewIndex()
	id := delta.ID("r1", 0)
	root, err := index.CreateEntry(id, "r1")
	require.NoError(t, err)
	if got, ok := index.TryGetEntry(id); !ok || got != root {
		t.Errorf("expected entry %v → %d, got %d (found=%v)", id, root, got, ok)
	}
	got, err := index.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, root, got)
	back, ok := index.IDOf(root)
	assert.True(t, ok)
	assert.Equal(t, id, back)
	assert.Equal(t, 1, index.Len())
}

func TestCreateCollision(t *testing.T) {
	index := NewIndex()
	id := delta.ID("r1", 0)
	_, err := index.CreateEntry(id, "")
	require.NoError(t, err)
	_, err = index.CreateEntry(id, "")
	if !errors.Is(err, ErrEntryExists) {
		t.Errorf("expected second entry for %v to collide, got %v", id, err)
	}
}

func TestDeleteEntry(t *testing.T) {
	index := NewIndex()
	id := delta.ID("r1", 0)
	root, _ := index.CreateEntry(id, "")
	index.DeleteEntry(id)
	index.DeleteEntry(id) // no-op
	_, ok := index.TryGetEntry(id)
	assert.False(t, ok)
	_, err := index.GetEntry(id)
	assert.ErrorIs(t, err, ErrNoEntry)
	_, ok = index.IDOf(root)
	assert.False(t, ok)
	again, _ := index.CreateEntry(id, "")
	if again == root {
		t.Errorf("expected root slots not to be re-used, got %d twice", root)
	}
}

func TestFieldKeys(t *testing.T) {
	index := NewIndex(Name("repair"))
	root, _ := index.CreateEntry(delta.ID("r", 4), "")
	key := index.ToFieldKey(root)
	assert.Equal(t, tree.FieldKey("repair-0"), key)
	r, ok := index.FromFieldKey(key)
	assert.True(t, ok)
	assert.Equal(t, root, r)
	_, ok = index.FromFieldKey("content")
	assert.False(t, ok)
	_, ok = index.FromFieldKey("repair-x")
	assert.False(t, ok)
}

func TestRevisions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.detached")
	defer teardown()
	//
	index := NewIndex()
	a, b, c := delta.ID("r1", 0), delta.ID("r1", 1), delta.ID("r2", 0)
	index.CreateEntry(a, "r1")
	index.CreateEntry(b, "r1")
	index.CreateEntry(c, "r2")
	index.UpdateLatestRevision(b, "r3")
	rev, ok := index.LatestRevision(b)
	assert.True(t, ok)
	assert.Equal(t, delta.RevisionTag("r3"), rev)
	t.Logf("\n%s", index)
	keys := index.PurgeRevisions("r1", "r2")
	assert.Equal(t, []tree.FieldKey{"detached-0", "detached-2"}, keys)
	require.Equal(t, 1, index.Len())
	assert.Equal(t, b, index.Entries()[0].ID)
}

func TestEntriesCloneAndPurge(t *testing.T) {
	index := NewIndex()
	ids := []delta.DetachedNodeID{delta.ID("b", 0), delta.ID("a", 2), delta.ID("a", 1)}
	for _, id := range ids {
		index.CreateEntry(id, "")
	}
	entries := index.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, delta.ID("a", 1), entries[0].ID)
	assert.Equal(t, delta.ID("a", 2), entries[1].ID)
	assert.Equal(t, delta.ID("b", 0), entries[2].ID)

	clone := index.Clone()
	index.Purge()
	assert.Equal(t, 0, index.Len())
	assert.Equal(t, 3, clone.Len())
	r1, _ := index.CreateEntry(delta.ID("c", 0), "")
	r2, _ := clone.CreateEntry(delta.ID("c", 0), "")
	assert.Equal(t, ForestRootID(3), r1)
	assert.Equal(t, r1, r2)
}
