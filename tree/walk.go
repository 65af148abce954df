package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import "errors"

// ErrSkipChildren may be returned by an Action during a top-down traversal
// to prevent descending into the children of the current node.
var ErrSkipChildren = errors.New("skip children of node")

// ErrInvalidAction is returned if a walker is called without an action.
var ErrInvalidAction = errors.New("action is invalid")

// Action is a function type to operate on tree nodes.
// parent is nil for the start node of a traversal, key and position then
// are the zero values.
type Action func(n *Node, parent *Node, key FieldKey, position int) error

// TopDown traverses a tree starting at (and including) node.
// The traversal guarantees that parents are always processed before
// their children. Fields are visited in key order, children in field order.
//
// If the action function returns ErrSkipChildren for a node, descending the
// branch below this node is skipped. Any other error aborts the traversal
// and is returned.
func TopDown(node *Node, action Action) error {
	if action == nil {
		return ErrInvalidAction
	}
	if node == nil {
		return nil
	}
	err := topDown(node, nil, "", 0, action)
	if errors.Is(err, ErrSkipChildren) {
		return nil
	}
	return err
}

func topDown(node, parent *Node, key FieldKey, position int, action Action) error {
	if err := action(node, parent, key, position); err != nil {
		return err
	}
	for _, k := range node.FieldKeys() {
		for i, ch := range node.children[k] {
			err := topDown(ch, node, k, i, action)
			if err != nil && !errors.Is(err, ErrSkipChildren) {
				return err
			}
		}
	}
	return nil
}

// BottomUp traverses a tree starting at the leafs of node, up to and including
// node itself. The traversal guarantees that parents are not processed before
// all of their children.
//
// If the action function returns an error for a node, the traversal is
// aborted and the error is returned.
func BottomUp(node *Node, action Action) error {
	if action == nil {
		return ErrInvalidAction
	}
	if node == nil {
		return nil
	}
	return bottomUp(node, nil, "", 0, action)
}

func bottomUp(node, parent *Node, key FieldKey, position int, action Action) error {
	for _, k := range node.FieldKeys() {
		for i, ch := range node.children[k] {
			if err := bottomUp(ch, node, k, i, action); err != nil {
				return err
			}
		}
	}
	return action(node, parent, key, position)
}

// Size returns the number of nodes of the (sub-)tree starting at node,
// including node.
func Size(node *Node) int {
	size := 0
	_ = TopDown(node, func(*Node, *Node, FieldKey, int) error {
		size++
		return nil
	})
	return size
}

// Height returns the height of the (sub-)tree starting at node. Leafs have
// a height of 1.
func Height(node *Node) int {
	heights := make(map[*Node]int)
	_ = BottomUp(node, func(n *Node, _ *Node, _ FieldKey, _ int) error {
		h := 0
		for _, k := range n.FieldKeys() {
			for _, ch := range n.children[k] {
				if heights[ch] > h {
					h = heights[ch]
				}
			}
		}
		heights[n] = h + 1
		return nil
	})
	tracer().Debugf("height of %v is %d", node, heights[node])
	return heights[node]
}
