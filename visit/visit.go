package visit

import (
	"fmt"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/detached"
	"github.com/npillmayer/treedelta/tree"
)

// pass is a function to apply the marks of a field during one of the
// passes over a delta.
type pass func(marks []delta.Mark, v Visitor, config *passConfig) error

// passConfig is the state of a single visit. It is owned by one call of
// Visit and handed down the passes.
type passConfig struct {
	pass           pass
	latestRevision delta.RevisionTag // used to track when detached content may be collected
	index          *detached.Index
	refreshers     map[delta.DetachedNodeID]tree.Cursor // created in the forest only when needed
	// Nested changes on roots to be visited during the detach pass.
	// Each entry is removed when its changes are visited.
	detachPassRoots *rootQueue
	// Nested changes on roots to be visited during the attach pass.
	// Roots attached during the attach pass get their changes visited
	// right after the attach. Roots never attached are visited in their
	// detached fields at the end of the attach pass; such a visit may lead
	// to more nodes being attached, including nodes which were queued here.
	attachPassRoots  *rootQueue
	rootTransfers    []delta.DetachedNodeRename
	rootDestructions []delta.DetachedNodeDestruction
}

// Visit crawls a delta, calling v's methods for each change encountered.
// index keeps track of existing detached fields and is updated during the
// visit. latest is the latest revision associated with d.
//
// Visit does not free v. Clients will usually call Apply instead, which
// guarantees v to be freed.
func Visit(d *delta.Root, v Visitor, index *detached.Index, latest delta.RevisionTag) error {
	if d == nil {
		return nil
	}
	config := &passConfig{
		pass:            detachPass,
		latestRevision:  latest,
		index:           index,
		refreshers:      make(map[delta.DetachedNodeID]tree.Cursor),
		detachPassRoots: newRootQueue(),
		attachPassRoots: newRootQueue(),
	}
	for _, r := range d.Refreshers {
		for i, c := range r.Trees.Forks() {
			config.refreshers[r.ID.Offset(i)] = c
		}
	}
	tracer().Debugf("visit delta, latest revision = %q", latest)
	if err := processBuilds(d.Build, config, v); err != nil {
		return err
	}
	if err := processGlobal(d.Global, config, v); err != nil {
		return err
	}
	config.rootTransfers = append(config.rootTransfers, d.Rename...)
	tracer().Debugf("detach pass")
	if err := visitFields(d.Fields, v, config); err != nil {
		return err
	}
	if err := fixedPointVisitOfRoots(v, config.detachPassRoots, config); err != nil {
		return err
	}
	tracer().Debugf("transferring %d roots", len(config.rootTransfers))
	if err := transferRoots(config.rootTransfers, config.attachPassRoots, config, v); err != nil {
		return err
	}
	tracer().Debugf("attach pass")
	config.pass = attachPass
	if err := visitFields(d.Fields, v, config); err != nil {
		return err
	}
	if err := fixedPointVisitOfRoots(v, config.attachPassRoots, config); err != nil {
		return err
	}
	config.rootDestructions = append(config.rootDestructions, d.Destroy...)
	return destroyRoots(config, v)
}

// Apply visits a delta (see Visit) and frees the visitor afterwards, on
// every exit path.
func Apply(d *delta.Root, v Visitor, index *detached.Index, latest delta.RevisionTag) error {
	defer v.Free()
	return Visit(d, v, index, latest)
}

// fixedPointVisitOfRoots visits all roots in queue until none are left.
// Entries are removed before being visited, and visits may add entries to
// queue or remove entries from it.
func fixedPointVisitOfRoots(v Visitor, queue *rootQueue, config *passConfig) error {
	for queue.Len() > 0 {
		root, fields, _ := queue.Pop()
		field := config.index.ToFieldKey(root)
		tracer().Debugf("fixed-point visit of root %s", field)
		v.EnterField(field)
		if err := visitNode(0, fields, v, config); err != nil {
			return err
		}
		v.ExitField(field)
	}
	return nil
}

func destroyRoots(config *passConfig, v Visitor) error {
	for _, d := range config.rootDestructions {
		for i := 0; i < d.Count; i++ {
			id := d.ID.Offset(i)
			root, err := config.index.GetEntry(id)
			if err != nil {
				return fmt.Errorf("%w: destroy %v: %w", ErrMissingEntry, id, err)
			}
			field := config.index.ToFieldKey(root)
			if err := v.Destroy(field, 1); err != nil {
				return fmt.Errorf("%w: destroy %s: %w", ErrVisitor, field, err)
			}
			config.index.DeleteEntry(id)
		}
	}
	return nil
}

func visitFields(fields delta.FieldMap, v Visitor, config *passConfig) error {
	for _, fc := range fields {
		v.EnterField(fc.Key)
		if err := config.pass(fc.Marks, v, config); err != nil {
			return err
		}
		v.ExitField(fc.Key)
	}
	return nil
}

func visitNode(index int, fields delta.FieldMap, v Visitor, config *passConfig) error {
	if fields == nil {
		return nil
	}
	v.EnterNode(index)
	if err := visitFields(fields, v, config); err != nil {
		return err
	}
	v.ExitNode(index)
	return nil
}

// detachPass executes detaches, bottom-up, and collects the roots which
// need a visit during the attach pass.
//
// The running index refers to positions in the field as it looks after the
// detaches seen so far. Hence it does not advance over detached content,
// nor over content which will be attached later.
func detachPass(marks []delta.Mark, v Visitor, config *passConfig) error {
	index := 0
	for _, mark := range marks {
		if mark.Fields != nil {
			if mark.Attach != nil && mark.Detach == nil {
				return fmt.Errorf("%w: attach %v at %d", ErrMalformedMark, *mark.Attach, index)
			}
			if err := visitNode(index, mark.Fields, v, config); err != nil {
				return err
			}
		}
		if mark.Detach != nil {
			for i := 0; i < mark.Count; i++ {
				id := mark.Detach.Offset(i)
				root, err := config.index.CreateEntry(id, config.latestRevision)
				if err != nil {
					return fmt.Errorf("%w: detach %v: %w", ErrEntryCollision, id, err)
				}
				if mark.Fields != nil {
					config.attachPassRoots.Set(root, mark.Fields)
				}
				field := config.index.ToFieldKey(root)
				r := Range{Start: index, End: index + 1}
				if err := v.Detach(r, field, id, mark.Attach != nil); err != nil {
					return fmt.Errorf("%w: detach %v to %s: %w", ErrVisitor, r, field, err)
				}
			}
		}
		if mark.Detach == nil && mark.Attach == nil {
			index += mark.Count
		}
	}
	return nil
}

// attachPass executes attaches, top-down, applying nested changes on the
// attached nodes right after attaching them.
//
// The running index refers to positions in the field as it looks after the
// attaches seen so far. It does not advance over content which has been
// detached and is not replaced.
func attachPass(marks []delta.Mark, v Visitor, config *passConfig) error {
	index := 0
	for _, mark := range marks {
		if mark.Attach != nil {
			for i := 0; i < mark.Count; i++ {
				id := mark.Attach.Offset(i)
				source, err := resolveRoot(id, config, v)
				if err != nil {
					return fmt.Errorf("attach %v: %w", id, err)
				}
				field := config.index.ToFieldKey(source)
				at := index + i
				if err := v.Attach(field, 1, at); err != nil {
					return fmt.Errorf("%w: attach %s at %d: %w", ErrVisitor, field, at, err)
				}
				config.index.DeleteEntry(id)
				if fields, ok := config.attachPassRoots.Take(source); ok {
					if err := visitNode(at, fields, v, config); err != nil {
						return err
					}
				}
			}
		}
		if mark.Detach == nil && mark.Fields != nil {
			if err := visitNode(index, mark.Fields, v, config); err != nil {
				return err
			}
		}
		if mark.Detach == nil || mark.Attach != nil {
			index += mark.Count
		}
	}
	return nil
}
