package detached

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/tree"
	"github.com/xlab/treeprint"
	"golang.org/x/exp/slices"
)

// ErrEntryExists is returned when creating an entry for an id which already
// has one.
var ErrEntryExists = errors.New("detached index already has an entry for id")

// ErrNoEntry is returned when looking up an id without an entry.
var ErrNoEntry = errors.New("detached index has no entry for id")

// ForestRootID addresses a detached field. Root ids are allocated from a
// counter and are never re-used within an index.
type ForestRootID int

type entry struct {
	root           ForestRootID
	latestRevision delta.RevisionTag
}

// Index maps detached node ids to root slots.
// The zero value is not usable, create indexes with NewIndex.
type Index struct {
	name   string
	byID   map[delta.DetachedNodeID]entry
	byRoot map[ForestRootID]delta.DetachedNodeID
	next   ForestRootID
}

// Option is a type to help initializing indexes at creation time.
type Option func(*Index)

// Name is an option to set the prefix of field keys generated by an index.
// Use it like this:
//
//     index := detached.NewIndex(detached.Name("repair"))
//
// Field keys will then look like "repair-17". The default name is "detached".
func Name(name string) Option {
	return func(index *Index) {
		index.name = name
	}
}

// NewIndex creates an empty index.
func NewIndex(opts ...Option) *Index {
	index := &Index{
		name:   "detached",
		byID:   make(map[delta.DetachedNodeID]entry),
		byRoot: make(map[ForestRootID]delta.DetachedNodeID),
	}
	for _, option := range opts {
		option(index)
	}
	return index
}

// Len returns the number of entries.
func (index *Index) Len() int {
	return len(index.byID)
}

// CreateEntry allocates a new root slot for id. latest is the revision
// creating the entry and is tracked for garbage collection.
// If id already has an entry, ErrEntryExists is returned.
func (index *Index) CreateEntry(id delta.DetachedNodeID, latest delta.RevisionTag) (ForestRootID, error) {
	if e, ok := index.byID[id]; ok {
		return e.root, fmt.Errorf("%w %v (root %d)", ErrEntryExists, id, e.root)
	}
	root := index.next
	index.next++
	index.byID[id] = entry{root: root, latestRevision: latest}
	index.byRoot[root] = id
	tracer().Debugf("index %s: created entry %v → %d", index.name, id, root)
	return root, nil
}

// TryGetEntry returns the root slot for id, if present.
func (index *Index) TryGetEntry(id delta.DetachedNodeID) (ForestRootID, bool) {
	e, ok := index.byID[id]
	return e.root, ok
}

// GetEntry returns the root slot for id. Clients call it where the presence
// of an entry is guaranteed by their own logic; a missing entry is reported
// as ErrNoEntry.
func (index *Index) GetEntry(id delta.DetachedNodeID) (ForestRootID, error) {
	if e, ok := index.byID[id]; ok {
		return e.root, nil
	}
	return -1, fmt.Errorf("%w %v", ErrNoEntry, id)
}

// DeleteEntry removes the entry for id. Deleting a missing entry is a no-op.
func (index *Index) DeleteEntry(id delta.DetachedNodeID) {
	e, ok := index.byID[id]
	if !ok {
		return
	}
	delete(index.byID, id)
	delete(index.byRoot, e.root)
	tracer().Debugf("index %s: deleted entry %v → %d", index.name, id, e.root)
}

// IDOf returns the detached node id for a root slot, if the slot is live.
func (index *Index) IDOf(root ForestRootID) (delta.DetachedNodeID, bool) {
	id, ok := index.byRoot[root]
	return id, ok
}

// ToFieldKey translates a root slot to the key of its detached field.
func (index *Index) ToFieldKey(root ForestRootID) tree.FieldKey {
	return tree.FieldKey(index.name + "-" + strconv.Itoa(int(root)))
}

// FromFieldKey translates a field key back to a root slot. It returns false
// if key has not been generated by this index.
func (index *Index) FromFieldKey(key tree.FieldKey) (ForestRootID, bool) {
	s, found := strings.CutPrefix(string(key), index.name+"-")
	if !found {
		return -1, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return -1, false
	}
	return ForestRootID(n), true
}

// UpdateLatestRevision records that id has been touched by revision latest.
func (index *Index) UpdateLatestRevision(id delta.DetachedNodeID, latest delta.RevisionTag) {
	if e, ok := index.byID[id]; ok {
		e.latestRevision = latest
		index.byID[id] = e
	}
}

// LatestRevision returns the revision which touched the entry for id last.
func (index *Index) LatestRevision(id delta.DetachedNodeID) (delta.RevisionTag, bool) {
	e, ok := index.byID[id]
	return e.latestRevision, ok
}

// Entry is an externally visible entry of an index.
type Entry struct {
	ID             delta.DetachedNodeID
	Root           ForestRootID
	LatestRevision delta.RevisionTag
}

// Entries returns all entries, sorted by id.
func (index *Index) Entries() []Entry {
	entries := make([]Entry, 0, len(index.byID))
	for id, e := range index.byID {
		entries = append(entries, Entry{ID: id, Root: e.root, LatestRevision: e.latestRevision})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.ID.Less(b.ID):
			return -1
		case b.ID.Less(a.ID):
			return 1
		}
		return 0
	})
	return entries
}

// Clone creates an independent copy of an index, including its root counter.
func (index *Index) Clone() *Index {
	c := NewIndex(Name(index.name))
	c.next = index.next
	for id, e := range index.byID {
		c.byID[id] = e
		c.byRoot[e.root] = id
	}
	return c
}

// Purge removes all entries. The root counter is not reset, as stale field
// keys must never be re-used.
func (index *Index) Purge() {
	tracer().Debugf("index %s: purging %d entries", index.name, len(index.byID))
	index.byID = make(map[delta.DetachedNodeID]entry)
	index.byRoot = make(map[ForestRootID]delta.DetachedNodeID)
}

// PurgeRevisions removes all entries last touched by one of the given
// revisions and returns the field keys of the removed entries, sorted by id.
// Clients use this to garbage collect detached content which is no
// longer reachable by any revision they keep.
func (index *Index) PurgeRevisions(revisions ...delta.RevisionTag) []tree.FieldKey {
	var keys []tree.FieldKey
	for _, e := range index.Entries() {
		if slices.Contains(revisions, e.LatestRevision) {
			index.DeleteEntry(e.ID)
			keys = append(keys, index.ToFieldKey(e.Root))
		}
	}
	return keys
}

func (index *Index) String() string {
	printer := treeprint.New()
	branch := printer.AddMetaBranch(len(index.byID), index.name)
	for _, e := range index.Entries() {
		branch.AddMetaNode(e.LatestRevision, fmt.Sprintf("%v → %s", e.ID, index.ToFieldKey(e.Root)))
	}
	return printer.String()
}
