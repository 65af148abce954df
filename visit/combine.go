package visit

import (
	"errors"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/tree"
)

// Combine creates a visitor which forwards every call to all of visitors,
// in order. This is how secondary listeners (e.g., trackers of references
// into the document) get to see the same changes as the document itself.
//
// Structural calls are forwarded to all visitors even if one of them fails;
// the errors are joined. Free frees all visitors.
func Combine(visitors ...Visitor) Visitor {
	if len(visitors) == 1 {
		return visitors[0]
	}
	return combined(visitors)
}

type combined []Visitor

func (c combined) each(f func(Visitor) error) error {
	var errs []error
	for _, v := range c {
		if err := f(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c combined) Free() {
	for _, v := range c {
		v.Free()
	}
}

func (c combined) Create(content []tree.Cursor, destination tree.FieldKey) error {
	return c.each(func(v Visitor) error {
		forks := make([]tree.Cursor, len(content))
		for i, cursor := range content {
			forks[i] = cursor.Fork()
		}
		return v.Create(forks, destination)
	})
}

func (c combined) Destroy(detachedField tree.FieldKey, count int) error {
	return c.each(func(v Visitor) error { return v.Destroy(detachedField, count) })
}

func (c combined) Attach(source tree.FieldKey, count int, destination int) error {
	return c.each(func(v Visitor) error { return v.Attach(source, count, destination) })
}

func (c combined) Detach(source Range, destination tree.FieldKey, id delta.DetachedNodeID, isReplaced bool) error {
	return c.each(func(v Visitor) error { return v.Detach(source, destination, id, isReplaced) })
}

func (c combined) EnterNode(index int) {
	for _, v := range c {
		v.EnterNode(index)
	}
}

func (c combined) ExitNode(index int) {
	for _, v := range c {
		v.ExitNode(index)
	}
}

func (c combined) EnterField(key tree.FieldKey) {
	for _, v := range c {
		v.EnterField(key)
	}
}

func (c combined) ExitField(key tree.FieldKey) {
	for _, v := range c {
		v.ExitField(key)
	}
}

// --- Tracing ---------------------------------------------------------------

// Traced wraps a visitor, tracing every call at debug level with key
// 'treedelta.visit'.
func Traced(v Visitor) Visitor {
	return traced{v: v}
}

type traced struct {
	v Visitor
}

func (t traced) Free() {
	tracer().Debugf("free")
	t.v.Free()
}

func (t traced) Create(content []tree.Cursor, destination tree.FieldKey) error {
	tracer().Debugf("create %d trees in %s", len(content), destination)
	return t.v.Create(content, destination)
}

func (t traced) Destroy(detachedField tree.FieldKey, count int) error {
	tracer().Debugf("destroy %s (%d)", detachedField, count)
	return t.v.Destroy(detachedField, count)
}

func (t traced) Attach(source tree.FieldKey, count int, destination int) error {
	tracer().Debugf("attach %s (%d) at %d", source, count, destination)
	return t.v.Attach(source, count, destination)
}

func (t traced) Detach(source Range, destination tree.FieldKey, id delta.DetachedNodeID, isReplaced bool) error {
	tracer().Debugf("detach %v to %s as %v, replaced=%v", source, destination, id, isReplaced)
	return t.v.Detach(source, destination, id, isReplaced)
}

func (t traced) EnterNode(index int) {
	tracer().Debugf("enter node %d", index)
	t.v.EnterNode(index)
}

func (t traced) ExitNode(index int) {
	tracer().Debugf("exit node %d", index)
	t.v.ExitNode(index)
}

func (t traced) EnterField(key tree.FieldKey) {
	tracer().Debugf("enter field %s", key)
	t.v.EnterField(key)
}

func (t traced) ExitField(key tree.FieldKey) {
	tracer().Debugf("exit field %s", key)
	t.v.ExitField(key)
}
