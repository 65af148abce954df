package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/xlab/treeprint"
	"golang.org/x/exp/slices"
)

// FieldKey names a field of a node. Keys are unique per node.
type FieldKey string

// NodeType is a (schema-)type name for a node. Package tree does not
// interpret types.
type NodeType string

/*
We manage a tree of mutable nodes. Each node carries a type and an optional value.
Nodes maintain a set of keyed fields, each being a slice of children.
Empty fields are not stored.
*/

// Node is the base type our documents are built of.
type Node struct {
	Type     NodeType // nodes are typed, but we do not check types
	Value    any      // optional leaf value
	parent   *Node    // parent node of this node
	inField  FieldKey // key of the field of parent holding this node
	children map[FieldKey][]*Node
}

// NewNode creates a new tree node with a given type and value.
func NewNode(typ NodeType, value any) *Node {
	return &Node{Type: typ, Value: value}
}

func (node *Node) String() string {
	if node == nil {
		return "(Node nil)"
	}
	if node.Value != nil {
		return fmt.Sprintf("(%s %v)", node.Type, node.Value)
	}
	return fmt.Sprintf("(%s #f=%d)", node.Type, len(node.children))
}

// Parent returns the parent node or nil (for roots of the forest).
func (node *Node) Parent() *Node {
	return node.parent
}

// ParentField returns the key of the parent's field holding node.
// For roots it returns the empty key.
func (node *Node) ParentField() FieldKey {
	return node.inField
}

// FieldKeys returns the keys of all non-empty fields of node, sorted.
func (node *Node) FieldKeys() []FieldKey {
	keys := make([]FieldKey, 0, len(node.children))
	for k := range node.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Field returns the children in the field with the given key.
// The returned slice must not be modified by clients.
func (node *Node) Field(key FieldKey) []*Node {
	return node.children[key]
}

// FieldLength returns the number of children in a field.
func (node *Node) FieldLength(key FieldKey) int {
	return len(node.children[key])
}

// Child returns the child at position i of a field.
func (node *Node) Child(key FieldKey, i int) (*Node, bool) {
	ch := node.children[key]
	if i < 0 || i >= len(ch) {
		return nil, false
	}
	return ch[i], true
}

// IndexOfChild returns the position of ch within its field, or -1 if ch is
// not a child of node.
func (node *Node) IndexOfChild(ch *Node) int {
	if ch == nil || ch.parent != node {
		return -1
	}
	return slices.Index(node.children[ch.inField], ch)
}

// AddChild appends a new child node to a field.
// It returns the parent node to allow for chaining.
func (node *Node) AddChild(key FieldKey, ch *Node) *Node {
	return node.InsertChildren(key, node.FieldLength(key), ch)
}

// InsertChildren inserts children into a field at position i,
// shifting children at later positions.
// Children must not be attached to another parent.
// It returns the parent node to allow for chaining.
func (node *Node) InsertChildren(key FieldKey, i int, children ...*Node) *Node {
	if len(children) == 0 {
		return node
	}
	assertThat(i >= 0 && i <= node.FieldLength(key), "insert position %d out of range for field %q", i, key)
	for _, ch := range children {
		assertThat(ch != nil && ch.parent == nil, "child to insert must be a detached node")
		ch.parent = node
		ch.inField = key
	}
	if node.children == nil {
		node.children = make(map[FieldKey][]*Node)
	}
	node.children[key] = slices.Insert(node.children[key], i, children...)
	return node
}

// RemoveChildren removes the children at positions [start…end) from a field
// and returns them. Removed children are isolated, i.e. they do not have a
// parent any more.
func (node *Node) RemoveChildren(key FieldKey, start, end int) []*Node {
	ch := node.children[key]
	assertThat(start >= 0 && start <= end && end <= len(ch), "range %d…%d out of bounds for field %q", start, end, key)
	removed := slices.Clone(ch[start:end])
	for _, r := range removed {
		r.parent = nil
		r.inField = ""
	}
	ch = slices.Delete(ch, start, end)
	if len(ch) == 0 {
		delete(node.children, key)
	} else {
		node.children[key] = ch
	}
	return removed
}

// Isolate removes a node from its parent.
// Isolate returns the isolated node.
func (node *Node) Isolate() *Node {
	if node != nil && node.parent != nil {
		i := node.parent.IndexOfChild(node)
		node.parent.RemoveChildren(node.inField, i, i+1)
	}
	return node
}

// Clone creates a deep copy of the (sub-)tree starting at node.
// The copy is isolated.
func (node *Node) Clone() *Node {
	return Materialize(CursorOf(node))
}

// Print renders the (sub-)tree starting at node in a human readable way.
func (node *Node) Print() string {
	printer := treeprint.New()
	printNode(printer.AddBranch(node.String()), node)
	return printer.String()
}

func printNode(printer treeprint.Tree, node *Node) {
	for _, key := range node.FieldKeys() {
		branch := printer.AddMetaBranch(fmt.Sprintf("#%d", node.FieldLength(key)), string(key))
		for _, ch := range node.children[key] {
			if len(ch.children) == 0 {
				branch.AddNode(ch.String())
				continue
			}
			printNode(branch.AddBranch(ch.String()), ch)
		}
	}
}
