package delta

import (
	"fmt"

	"github.com/npillmayer/treedelta/tree"
)

// RevisionTag identifies a revision of a document. The empty tag stands
// for "no revision".
type RevisionTag string

// DetachedNodeID identifies a node independently of its current storage
// location. Nodes detached together share Major and get contiguous Minor
// offsets.
type DetachedNodeID struct {
	Major RevisionTag `yaml:"major,omitempty"`
	Minor int         `yaml:"minor"`
}

// ID is a shortcut for creating detached node ids.
func ID(major RevisionTag, minor int) DetachedNodeID {
	return DetachedNodeID{Major: major, Minor: minor}
}

// Offset returns the id of the node n positions after id.
func (id DetachedNodeID) Offset(n int) DetachedNodeID {
	return DetachedNodeID{Major: id.Major, Minor: id.Minor + n}
}

// Equal is true if both ids denote the same detached node.
func (id DetachedNodeID) Equal(other DetachedNodeID) bool {
	return id == other
}

// Less orders ids by major, then by minor.
func (id DetachedNodeID) Less(other DetachedNodeID) bool {
	if id.Major != other.Major {
		return id.Major < other.Major
	}
	return id.Minor < other.Minor
}

func (id DetachedNodeID) String() string {
	if id.Major == "" {
		return fmt.Sprintf("⟨%d⟩", id.Minor)
	}
	return fmt.Sprintf("⟨%s:%d⟩", id.Major, id.Minor)
}

// Mark describes changes on a run of Count sibling positions of a field.
type Mark struct {
	Count  int
	Detach *DetachedNodeID // content is detached from here, if non-nil
	Attach *DetachedNodeID // content is attached here, if non-nil
	Fields FieldMap        // nested changes for the node at this position
}

// IsAttach is true if the mark inserts content.
func (m Mark) IsAttach() bool {
	return m.Attach != nil
}

// IsDetach is true if the mark removes content.
func (m Mark) IsDetach() bool {
	return m.Detach != nil
}

// IsNoop is true if the mark neither attaches, nor detaches, nor changes
// nested content. No-op marks just skip over Count positions.
func (m Mark) IsNoop() bool {
	return m.Attach == nil && m.Detach == nil && len(m.Fields) == 0
}

// FieldChanges holds the marks for a single field.
type FieldChanges struct {
	Key   tree.FieldKey
	Marks []Mark
}

// FieldMap maps field keys to their changes. It is ordered: changes are
// replayed in the order of the slice. Keys have to be unique.
type FieldMap []FieldChanges

// Get returns the marks for a field key.
func (fm FieldMap) Get(key tree.FieldKey) ([]Mark, bool) {
	for _, fc := range fm {
		if fc.Key == key {
			return fc.Marks, true
		}
	}
	return nil, false
}

// DetachedNodeBuild describes content to be created in detached locations.
// The i-th tree gets id ID.Offset(i).
type DetachedNodeBuild struct {
	ID    DetachedNodeID
	Trees tree.Chunk
}

// DetachedNodeChanges describes nested changes on a detached node which is
// identified by its id only, not by a position in the tree.
type DetachedNodeChanges struct {
	ID     DetachedNodeID
	Fields FieldMap
}

// DetachedNodeRename moves Count detached nodes from one detached id to
// another.
type DetachedNodeRename struct {
	Count int
	OldID DetachedNodeID
	NewID DetachedNodeID
}

// DetachedNodeDestruction describes Count detached nodes to be destroyed.
type DetachedNodeDestruction struct {
	ID    DetachedNodeID
	Count int
}

// Root is the top-level description of an edit for one changeset.
type Root struct {
	Build      []DetachedNodeBuild       // new content to create in detached locations
	Global     []DetachedNodeChanges     // changes on detached nodes, by id
	Rename     []DetachedNodeRename      // moves between detached locations
	Fields     FieldMap                  // positional changes
	Destroy    []DetachedNodeDestruction // detached content to destroy
	Refreshers []DetachedNodeBuild       // previously evicted content needed by this delta
}

// IsEmpty is true if the delta does not describe any change.
func (r *Root) IsEmpty() bool {
	return r == nil || (len(r.Build) == 0 && len(r.Global) == 0 && len(r.Rename) == 0 &&
		len(r.Fields) == 0 && len(r.Destroy) == 0)
}

// --- Helpers for constructing deltas ---------------------------------------

// Skip creates a no-op mark for count positions.
func Skip(count int) Mark {
	return Mark{Count: count}
}

// Remove creates a mark detaching count nodes, filed under id and following ids.
func Remove(count int, id DetachedNodeID) Mark {
	return Mark{Count: count, Detach: &id}
}

// Insert creates a mark attaching count nodes, taken from id and following ids.
func Insert(count int, id DetachedNodeID) Mark {
	return Mark{Count: count, Attach: &id}
}

// Replace creates a mark detaching count nodes to id detach and attaching
// count nodes from id attach at the same position.
func Replace(count int, detach, attach DetachedNodeID) Mark {
	return Mark{Count: count, Detach: &detach, Attach: &attach}
}

// Modify creates a mark with nested changes for a single node.
func Modify(fields FieldMap) Mark {
	return Mark{Count: 1, Fields: fields}
}

// Field is a shortcut to create a single entry of a field map.
func Field(key tree.FieldKey, marks ...Mark) FieldChanges {
	return FieldChanges{Key: key, Marks: marks}
}
