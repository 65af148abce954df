package tree

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTopDown(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.tree")
	defer teardown()
	//
	root := sampleTree()
	var order []*Node
	err := TopDown(root, func(n, parent *Node, key FieldKey, pos int) error {
		if parent != nil && parent.IndexOfChild(n) != pos {
			t.Errorf("expected %v to be at position %d of %v", n, pos, parent)
		}
		order = append(order, n)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 6 || order[0] != root {
		t.Errorf("expected 6 nodes, starting with root, have %v", order)
	}
	seen := map[*Node]bool{}
	for _, n := range order {
		if n.Parent() != nil && !seen[n.Parent()] {
			t.Errorf("node %v visited before its parent", n)
		}
		seen[n] = true
	}
}

func TestTopDownSkipChildren(t *testing.T) {
	root := sampleTree()
	count := 0
	err := TopDown(root, func(n, _ *Node, _ FieldKey, _ int) error {
		count++
		if n.Type == "para" {
			return ErrSkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("expected 4 nodes to be visited, have %d", count)
	}
}

func TestBottomUp(t *testing.T) {
	root := sampleTree()
	done := map[*Node]bool{}
	err := BottomUp(root, func(n, _ *Node, _ FieldKey, _ int) error {
		for _, k := range n.FieldKeys() {
			for _, ch := range n.Field(k) {
				if !done[ch] {
					t.Errorf("parent %v processed before child %v", n, ch)
				}
			}
		}
		done[n] = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !done[root] {
		t.Errorf("expected root to be processed")
	}
}

func TestWalkerErrors(t *testing.T) {
	if err := TopDown(sampleTree(), nil); err != ErrInvalidAction {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	boom := errors.New("boom")
	err := BottomUp(sampleTree(), func(*Node, *Node, FieldKey, int) error { return boom })
	if err != boom {
		t.Errorf("expected error to be passed through, got %v", err)
	}
}

func TestSizeAndHeight(t *testing.T) {
	root := sampleTree()
	if Size(root) != 6 {
		t.Errorf("expected size 6, have %d", Size(root))
	}
	if Height(root) != 3 {
		t.Errorf("expected height 3, have %d", Height(root))
	}
}
