package visit

import (
	"fmt"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/tree"
)

// Range denotes the positions Start…End-1 of a field.
type Range struct {
	Start, End int
}

func (r Range) String() string {
	return fmt.Sprintf("[%d…%d)", r.Start, r.End)
}

// Visitor is notified of the changes of a delta.
//
// A visitor tracks a "current location", which is either a field or a node.
// Initially the current location is the (virtual) node holding all the
// top-level fields of a document, detached fields included.
//
// Structural calls report contract violations as errors. Moving the current
// location in an invalid way (e.g., EnterNode while at a node) is a
// programming error and implementations are free to panic.
//
// A visitor must be freed after use (see Free).
type Visitor interface {
	// Free releases the visitor. It must be called once the visitor finished
	// traversing a delta, for a couple of reasons: some visitors are put into
	// an exclusive mode while they have an open visitor, forbidding some
	// actions (like opening more visitors); and some visitors defer events
	// until they are freed.
	Free()

	// Create creates nodes for the given content in a new detached field.
	// A field with key destination must not already exist.
	Create(content []tree.Cursor, destination tree.FieldKey) error

	// Destroy recursively destroys the given detached field and all of the
	// nodes within it. count is expected to match the number of nodes in the
	// field.
	Destroy(detachedField tree.FieldKey, count int) error

	// Attach transfers all the nodes from a detached field to the current
	// field, inserting them at position destination. count is expected to
	// match the number of nodes in the source field.
	Attach(source tree.FieldKey, count int, destination int) error

	// Detach transfers a range of nodes from the current field to a new
	// detached field. A field with key destination must not already exist.
	// id is assigned to the first detached node, subsequent nodes get
	// subsequent ids. isReplaced tells whether the content will be replaced
	// by a later attach. It is not guaranteed to be true in all cases where
	// it could be, but it is in all cases where a later attach is needed to
	// keep the document compliant with its schema.
	Detach(source Range, destination tree.FieldKey, id delta.DetachedNodeID, isReplaced bool) error

	// EnterNode makes the node at index of the current field the current
	// location. Only valid if the current location is a field.
	EnterNode(index int)

	// ExitNode makes the field containing the current node the current
	// location. index is the position of the node being exited. Only valid
	// if the current location is a node.
	ExitNode(index int)

	// EnterField makes the field with the given key of the current node the
	// current location. Only valid if the current location is a node.
	EnterField(key tree.FieldKey)

	// ExitField makes the node containing the current field the current
	// location. Only valid if the current location is a field.
	ExitField(key tree.FieldKey)
}
