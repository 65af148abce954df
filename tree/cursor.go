package tree

// Cursor is a read-only view of a tree, positioned at a node.
// Cursors are the only way the delta machinery looks at already-built
// content, so clients are free to back them by whatever storage they like.
type Cursor interface {
	Type() NodeType
	Value() any
	FieldKeys() []FieldKey            // keys of non-empty fields, sorted
	FieldLength(key FieldKey) int     // number of children in a field
	Child(key FieldKey, i int) Cursor // nil if out of range
	Fork() Cursor                     // independent cursor at the same position
}

// Chunk is a sequence of trees, each one given by a cursor at its root node.
type Chunk []Cursor

// ChunkOf creates a chunk from a list of nodes.
func ChunkOf(nodes ...*Node) Chunk {
	chunk := make(Chunk, len(nodes))
	for i, n := range nodes {
		chunk[i] = CursorOf(n)
	}
	return chunk
}

// TopLevelLength returns the number of trees in a chunk.
func (c Chunk) TopLevelLength() int {
	return len(c)
}

// Forks returns independent cursors for every tree of a chunk.
func (c Chunk) Forks() []Cursor {
	forks := make([]Cursor, len(c))
	for i, cursor := range c {
		forks[i] = cursor.Fork()
	}
	return forks
}

// --- Node cursors ----------------------------------------------------------

type nodeCursor struct {
	node *Node
}

// CursorOf returns a read-only cursor for a node.
func CursorOf(node *Node) Cursor {
	assertThat(node != nil, "cannot create cursor for nil node")
	return nodeCursor{node: node}
}

func (c nodeCursor) Type() NodeType               { return c.node.Type }
func (c nodeCursor) Value() any                   { return c.node.Value }
func (c nodeCursor) FieldKeys() []FieldKey        { return c.node.FieldKeys() }
func (c nodeCursor) FieldLength(key FieldKey) int { return c.node.FieldLength(key) }
func (c nodeCursor) Fork() Cursor                 { return nodeCursor{node: c.node} }

func (c nodeCursor) Child(key FieldKey, i int) Cursor {
	if ch, ok := c.node.Child(key, i); ok {
		return nodeCursor{node: ch}
	}
	return nil
}

// Materialize builds a new, isolated tree of nodes from the content
// visible through a cursor.
func Materialize(c Cursor) *Node {
	node := NewNode(c.Type(), c.Value())
	for _, key := range c.FieldKeys() {
		l := c.FieldLength(key)
		children := make([]*Node, 0, l)
		for i := 0; i < l; i++ {
			children = append(children, Materialize(c.Child(key, i)))
		}
		node.InsertChildren(key, 0, children...)
	}
	return node
}
