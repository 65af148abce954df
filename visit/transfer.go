package visit

import (
	"fmt"

	"github.com/npillmayer/treedelta/delta"
)

// atomizedRename is a rename of a single detached node.
type atomizedRename struct {
	oldID, newID delta.DetachedNodeID
}

// atomizeRenames splits renames into renames of single nodes.
//
// A detached node may be revived transiently such that it ends up in the
// same detached field. Transferring it would make us think we moved all
// content out of the source field and delete the index entry of a field
// which still holds content, so such renames are skipped.
func atomizeRenames(renames []delta.DetachedNodeRename) []atomizedRename {
	var atomized []atomizedRename
	for _, r := range renames {
		if r.OldID.Equal(r.NewID) {
			continue
		}
		for i := 0; i < r.Count; i++ {
			atomized = append(atomized, atomizedRename{
				oldID: r.OldID.Offset(i),
				newID: r.NewID.Offset(i),
			})
		}
	}
	return atomized
}

// transferRoots moves roots from one detached field to another.
// This happens if a changeset
//
//     - moves, then removes a node
//     - restores, then moves a node
//     - restores, then removes a node
//
// Renames may depend on each other: a rename may need its source to be
// filled, or its destination to be vacated, by another rename. Renames are
// therefore processed in batches; renames which cannot be carried out are
// delayed to the next batch. Every batch has to make progress, otherwise
// the renames are unsatisfiable and ErrNoProgress is returned.
//
// Nested changes queued for an old root are moved to the new root in queue.
func transferRoots(renames []delta.DetachedNodeRename, queue *rootQueue, config *passConfig, v Visitor) error {
	batch := atomizeRenames(renames)
	for len(batch) > 0 {
		var delayed []atomizedRename
		for _, r := range batch {
			oldRoot, found, err := tryResolveRoot(r.oldID, config, v)
			if err != nil {
				return fmt.Errorf("rename %v→%v: %w", r.oldID, r.newID, err)
			}
			if !found {
				// The source field is not populated. This can happen when
				// another rename needs to be performed first.
				delayed = append(delayed, r)
				continue
			}
			if _, occupied := config.index.TryGetEntry(r.newID); occupied {
				// The destination field is occupied. This can happen when
				// another rename needs to be performed first.
				delayed = append(delayed, r)
				continue
			}
			newRoot, err := config.index.CreateEntry(r.newID, config.latestRevision)
			if err != nil {
				return fmt.Errorf("%w: rename %v→%v: %w", ErrEntryCollision, r.oldID, r.newID, err)
			}
			queue.Rekey(oldRoot, newRoot)
			oldField := config.index.ToFieldKey(oldRoot)
			newField := config.index.ToFieldKey(newRoot)
			tracer().Debugf("transfer root %v→%v (%s→%s)", r.oldID, r.newID, oldField, newField)
			v.EnterField(oldField)
			if err := v.Detach(Range{Start: 0, End: 1}, newField, r.newID, false); err != nil {
				return fmt.Errorf("%w: transfer %s to %s: %w", ErrVisitor, oldField, newField, err)
			}
			v.ExitField(oldField)
			config.index.DeleteEntry(r.oldID)
		}
		if len(delayed) >= len(batch) {
			return fmt.Errorf("%w: %d renames left, starting with %v→%v",
				ErrNoProgress, len(delayed), delayed[0].oldID, delayed[0].newID)
		}
		batch = delayed
	}
	return nil
}
