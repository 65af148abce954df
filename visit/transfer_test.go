package visit

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/detached"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomizeRenames(t *testing.T) {
	atoms := atomizeRenames([]delta.DetachedNodeRename{
		{Count: 2, OldID: r0, NewID: r1},
		{Count: 3, OldID: r2, NewID: r2}, // no-op
	})
	assert.Equal(t, []atomizedRename{
		{oldID: r0, newID: r1},
		{oldID: r0.Offset(1), newID: r1.Offset(1)},
	}, atoms)
}

func TestRenameChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.visit")
	defer teardown()
	//
	// r0 → r1 has to wait for r1 → r2 to vacate r1
	index := detached.NewIndex()
	index.CreateEntry(r0, "")
	index.CreateEntry(r1, "")
	d := &delta.Root{Rename: []delta.DetachedNodeRename{
		{Count: 1, OldID: r0, NewID: r1},
		{Count: 1, OldID: r1, NewID: r2},
	}}
	rec := &recorder{}
	require.NoError(t, Visit(d, rec, index, "r3"))
	assert.Equal(t, []string{
		"enterField detached-1",
		"detach [0…1) detached-2 ⟨r2:0⟩ false",
		"exitField detached-1",
		"enterField detached-0",
		"detach [0…1) detached-3 ⟨r1:0⟩ false",
		"exitField detached-0",
	}, rec.calls)
	entries := index.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, r1, entries[0].ID)
	assert.Equal(t, detached.ForestRootID(3), entries[0].Root)
	assert.Equal(t, r2, entries[1].ID)
	assert.Equal(t, detached.ForestRootID(2), entries[1].Root)
}

func TestRenameCycleMakesNoProgress(t *testing.T) {
	index := detached.NewIndex()
	index.CreateEntry(r0, "")
	index.CreateEntry(r1, "")
	d := &delta.Root{Rename: []delta.DetachedNodeRename{
		{Count: 1, OldID: r0, NewID: r1},
		{Count: 1, OldID: r1, NewID: r0},
	}}
	err := Visit(d, &recorder{}, index, "r3")
	if !errors.Is(err, ErrNoProgress) {
		t.Errorf("expected cyclic renames to fail with ErrNoProgress, got %v", err)
	}
}

func TestRenameWithoutSource(t *testing.T) {
	d := &delta.Root{Rename: []delta.DetachedNodeRename{{Count: 1, OldID: r0, NewID: r1}}}
	assert.ErrorIs(t, Visit(d, &recorder{}, detached.NewIndex(), "r3"), ErrNoProgress)
}

func TestNoopRenameKeepsEntry(t *testing.T) {
	index := detached.NewIndex()
	root, _ := index.CreateEntry(r0, "")
	d := &delta.Root{Rename: []delta.DetachedNodeRename{{Count: 1, OldID: r0, NewID: r0}}}
	rec := &recorder{}
	require.NoError(t, Visit(d, rec, index, "r3"))
	assert.Empty(t, rec.calls)
	got, ok := index.TryGetEntry(r0)
	assert.True(t, ok)
	assert.Equal(t, root, got)
}

func TestRenameFromRefresher(t *testing.T) {
	d := &delta.Root{
		Rename:     []delta.DetachedNodeRename{{Count: 1, OldID: r0, NewID: r1}},
		Refreshers: []delta.DetachedNodeBuild{{ID: r0, Trees: chunk("old")}},
	}
	rec := &recorder{}
	index := detached.NewIndex()
	require.NoError(t, Visit(d, rec, index, "r3"))
	assert.Equal(t, []string{
		"create 1 detached-0",
		"detach [0…1) detached-1 ⟨r1:0⟩ false",
	}, rec.structural())
	_, ok := index.TryGetEntry(r0)
	assert.False(t, ok)
	_, ok = index.TryGetEntry(r1)
	assert.True(t, ok)
}

func TestRenameCarriesNestedChanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.visit")
	defer teardown()
	//
	// a paragraph with nested changes is removed, renamed, then re-inserted;
	// its nested changes must be visited exactly once in the attach pass
	para := withFields(delta.Remove(1, r1), delta.Field("text", delta.Remove(1, r3)))
	d := &delta.Root{
		Rename: []delta.DetachedNodeRename{{Count: 1, OldID: r1, NewID: r2}},
		Fields: delta.FieldMap{delta.Field("content", para, delta.Insert(1, r2))},
	}
	rec := &recorder{}
	index := detached.NewIndex()
	require.NoError(t, Visit(d, rec, index, "r3"))
	assert.Equal(t, []string{
		"enterField content",
		"enterNode 0",
		"enterField text",
		"detach [0…1) detached-0 ⟨r3:0⟩ false",
		"exitField text",
		"exitNode 0",
		"detach [0…1) detached-1 ⟨r1:0⟩ false",
		"exitField content",
		"enterField detached-1",
		"detach [0…1) detached-2 ⟨r2:0⟩ false",
		"exitField detached-1",
		"enterField content",
		"attach detached-2 1 0",
		"enterNode 0",
		"enterField text",
		"exitField text",
		"exitNode 0",
		"exitField content",
	}, rec.calls)
	entries := index.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, r3, entries[0].ID)
}
