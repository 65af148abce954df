package visit

import (
	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/detached"
	"golang.org/x/exp/slices"
)

// rootQueue holds nested changes for detached roots, waiting to be visited.
// It remembers the order of insertion: setting an existing root keeps its
// position, a root deleted and set again goes to the end.
//
// Visits of entries may set or delete other entries, which is why the
// queue is drained by popping single entries rather than by ranging over it.
type rootQueue struct {
	order  []detached.ForestRootID
	fields map[detached.ForestRootID]delta.FieldMap
}

func newRootQueue() *rootQueue {
	return &rootQueue{fields: make(map[detached.ForestRootID]delta.FieldMap)}
}

func (q *rootQueue) Len() int {
	return len(q.fields)
}

func (q *rootQueue) Set(root detached.ForestRootID, fields delta.FieldMap) {
	if _, ok := q.fields[root]; !ok {
		q.order = append(q.order, root)
	}
	q.fields[root] = fields
}

func (q *rootQueue) Get(root detached.ForestRootID) (delta.FieldMap, bool) {
	fields, ok := q.fields[root]
	return fields, ok
}

func (q *rootQueue) Delete(root detached.ForestRootID) {
	if _, ok := q.fields[root]; !ok {
		return
	}
	delete(q.fields, root)
	if i := slices.Index(q.order, root); i >= 0 {
		q.order = slices.Delete(q.order, i, i+1)
	}
}

// Take removes the entry for root and returns its fields.
func (q *rootQueue) Take(root detached.ForestRootID) (delta.FieldMap, bool) {
	fields, ok := q.fields[root]
	if ok {
		q.Delete(root)
	}
	return fields, ok
}

// Pop removes the oldest entry and returns it.
func (q *rootQueue) Pop() (detached.ForestRootID, delta.FieldMap, bool) {
	if len(q.order) == 0 {
		return -1, nil, false
	}
	root := q.order[0]
	q.order = q.order[1:]
	fields := q.fields[root]
	delete(q.fields, root)
	return root, fields, true
}

// Rekey moves the entry of root from to root to, if present.
func (q *rootQueue) Rekey(from, to detached.ForestRootID) {
	if fields, ok := q.Take(from); ok {
		q.Set(to, fields)
	}
}
