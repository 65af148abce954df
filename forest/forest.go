package forest

import (
	"errors"
	"fmt"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/detached"
	"github.com/npillmayer/treedelta/tree"
	"github.com/npillmayer/treedelta/visit"
)

// Contract violations reported by forest visitors.
var (
	// ErrVisitorActive is returned if a visitor is requested, or the forest
	// is modified directly, while another visitor is open.
	ErrVisitorActive = errors.New("forest already has an open visitor")

	// ErrFieldInUse is returned for content to be moved to a non-empty field.
	ErrFieldInUse = errors.New("destination field already in use")

	// ErrCountMismatch is returned if the number of nodes to attach or to
	// destroy does not match the size of a detached field.
	ErrCountMismatch = errors.New("count does not match size of detached field")

	// ErrIndexOutOfRange is returned for positions outside of a field.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// rootType is the node type of the virtual node holding all top-level fields.
const rootType tree.NodeType = "⊤"

// Forest is an in-memory document.
type Forest struct {
	rootField tree.FieldKey
	root      *tree.Node // holds all top-level fields
	visiting  bool
	listeners map[int]func()
	nextID    int
}

// Option is a type to help initializing forests at creation time.
type Option func(*Forest)

// RootField is an option to set the key of the document's root field.
// The default is "root".
func RootField(key tree.FieldKey) Option {
	return func(f *Forest) {
		f.rootField = key
	}
}

// New creates an empty forest.
func New(opts ...Option) *Forest {
	f := &Forest{
		rootField: "root",
		root:      tree.NewNode(rootType, nil),
		listeners: make(map[int]func()),
	}
	for _, option := range opts {
		option(f)
	}
	return f
}

// RootField returns the key of the document's root field.
func (f *Forest) RootField() tree.FieldKey {
	return f.rootField
}

// Field returns the nodes of a top-level field.
// The returned slice must not be modified by clients.
func (f *Forest) Field(key tree.FieldKey) []*tree.Node {
	return f.root.Field(key)
}

// FieldKeys returns the keys of all non-empty top-level fields, sorted.
func (f *Forest) FieldKeys() []tree.FieldKey {
	return f.root.FieldKeys()
}

// Literals returns the content of a top-level field in literal form.
func (f *Forest) Literals(key tree.FieldKey) []tree.Literal {
	var ls []tree.Literal
	for _, n := range f.root.Field(key) {
		ls = append(ls, tree.LiteralOf(tree.CursorOf(n)))
	}
	return ls
}

// SetField replaces the content of a top-level field with nodes.
// Nodes must be isolated.
func (f *Forest) SetField(key tree.FieldKey, nodes ...*tree.Node) error {
	if f.visiting {
		return ErrVisitorActive
	}
	f.root.RemoveChildren(key, 0, f.root.FieldLength(key))
	f.root.InsertChildren(key, 0, nodes...)
	f.notify()
	return nil
}

// OnAfterChange registers a listener which is called after the content of
// the forest changed. For changes made by a visitor, listeners are called
// when the visitor is freed. The returned function un-registers the
// listener.
func (f *Forest) OnAfterChange(listener func()) (remove func()) {
	id := f.nextID
	f.nextID++
	f.listeners[id] = listener
	return func() {
		delete(f.listeners, id)
	}
}

func (f *Forest) notify() {
	for id := 0; id < f.nextID; id++ {
		if listener, ok := f.listeners[id]; ok {
			listener()
		}
	}
}

// AcquireVisitor opens a visitor on the forest. The forest stays in an
// exclusive mode until the visitor is freed.
func (f *Forest) AcquireVisitor() (visit.Visitor, error) {
	if f.visiting {
		return nil, ErrVisitorActive
	}
	f.visiting = true
	tracer().Debugf("forest: visitor acquired")
	return &visitor{
		forest: f,
		nodes:  []*tree.Node{f.root},
	}, nil
}

// ApplyDelta applies a delta to the forest, using index to track detached
// content.
func (f *Forest) ApplyDelta(d *delta.Root, index *detached.Index, latest delta.RevisionTag) error {
	v, err := f.AcquireVisitor()
	if err != nil {
		return err
	}
	return visit.Apply(d, v, index, latest)
}

// PurgeDetached garbage collects detached content last touched by one of
// revisions: entries are removed from index and their detached fields are
// dropped from the forest. It returns the number of nodes dropped.
func (f *Forest) PurgeDetached(index *detached.Index, revisions ...delta.RevisionTag) (int, error) {
	if f.visiting {
		return 0, ErrVisitorActive
	}
	count := 0
	for _, key := range index.PurgeRevisions(revisions...) {
		removed := f.root.RemoveChildren(key, 0, f.root.FieldLength(key))
		for _, n := range removed {
			count += tree.Size(n)
		}
	}
	tracer().Infof("forest: purged %d detached nodes", count)
	if count > 0 {
		f.notify()
	}
	return count, nil
}

func (f *Forest) String() string {
	return f.root.Print()
}

// --- Visitor ---------------------------------------------------------------

// visitor tracks its current location as a path of nodes and field keys.
// The location is a field if both have the same length, and a node
// otherwise. nodes[0] is the virtual root of the forest.
type visitor struct {
	forest  *Forest
	nodes   []*tree.Node
	keys    []tree.FieldKey
	changed bool
	freed   bool
}

var _ visit.Visitor = (*visitor)(nil)

func (v *visitor) inField() bool {
	return len(v.keys) == len(v.nodes)
}

func (v *visitor) current() (*tree.Node, tree.FieldKey) {
	assertThat(v.inField(), "current location is not a field")
	return v.nodes[len(v.nodes)-1], v.keys[len(v.keys)-1]
}

func (v *visitor) Free() {
	if v.freed {
		return
	}
	v.freed = true
	v.forest.visiting = false
	tracer().Debugf("forest: visitor freed, changed=%v", v.changed)
	if v.changed {
		v.forest.notify()
	}
}

func (v *visitor) Create(content []tree.Cursor, destination tree.FieldKey) error {
	root := v.forest.root
	if root.FieldLength(destination) > 0 {
		return fmt.Errorf("%w: create in %s", ErrFieldInUse, destination)
	}
	nodes := make([]*tree.Node, len(content))
	for i, c := range content {
		nodes[i] = tree.Materialize(c)
	}
	root.InsertChildren(destination, 0, nodes...)
	v.changed = true
	return nil
}

func (v *visitor) Destroy(detachedField tree.FieldKey, count int) error {
	root := v.forest.root
	if n := root.FieldLength(detachedField); n != count {
		return fmt.Errorf("%w: destroy %d nodes of %s, which has %d", ErrCountMismatch, count, detachedField, n)
	}
	root.RemoveChildren(detachedField, 0, count)
	v.changed = true
	return nil
}

func (v *visitor) Attach(source tree.FieldKey, count int, destination int) error {
	parent, key := v.current()
	root := v.forest.root
	if n := root.FieldLength(source); n != count {
		return fmt.Errorf("%w: attach %d nodes of %s, which has %d", ErrCountMismatch, count, source, n)
	}
	if destination < 0 || destination > parent.FieldLength(key) {
		return fmt.Errorf("%w: attach at %d of field %s with %d nodes", ErrIndexOutOfRange,
			destination, key, parent.FieldLength(key))
	}
	moved := root.RemoveChildren(source, 0, count)
	parent.InsertChildren(key, destination, moved...)
	v.changed = true
	return nil
}

func (v *visitor) Detach(source visit.Range, destination tree.FieldKey, id delta.DetachedNodeID, isReplaced bool) error {
	parent, key := v.current()
	root := v.forest.root
	if root.FieldLength(destination) > 0 {
		return fmt.Errorf("%w: detach %v to %s", ErrFieldInUse, id, destination)
	}
	if source.Start < 0 || source.Start > source.End || source.End > parent.FieldLength(key) {
		return fmt.Errorf("%w: detach %v of field %s with %d nodes", ErrIndexOutOfRange,
			source, key, parent.FieldLength(key))
	}
	moved := parent.RemoveChildren(key, source.Start, source.End)
	root.InsertChildren(destination, 0, moved...)
	v.changed = true
	return nil
}

func (v *visitor) EnterNode(index int) {
	parent, key := v.current()
	node, ok := parent.Child(key, index)
	assertThat(ok, "cannot enter node %d of field %s", index, key)
	v.nodes = append(v.nodes, node)
}

func (v *visitor) ExitNode(index int) {
	assertThat(!v.inField() && len(v.nodes) > 1, "current location is not a node")
	node := v.nodes[len(v.nodes)-1]
	assertThat(node.Parent().IndexOfChild(node) == index, "exiting node %v at %d, but it is at %d",
		node, index, node.Parent().IndexOfChild(node))
	v.nodes = v.nodes[:len(v.nodes)-1]
}

func (v *visitor) EnterField(key tree.FieldKey) {
	assertThat(!v.inField(), "cannot enter field %s from a field", key)
	v.keys = append(v.keys, key)
}

func (v *visitor) ExitField(key tree.FieldKey) {
	assertThat(v.inField(), "current location is not a field")
	assertThat(v.keys[len(v.keys)-1] == key, "exiting field %s, but current field is %s",
		key, v.keys[len(v.keys)-1])
	v.keys = v.keys[:len(v.keys)-1]
}
