package visit

import (
	"fmt"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/detached"
	"github.com/npillmayer/treedelta/tree"
)

// buildTrees creates content in fresh detached fields, one per tree. The
// i-th tree is filed under id.Offset(i).
func buildTrees(id delta.DetachedNodeID, trees []tree.Cursor, config *passConfig, v Visitor) error {
	for i, t := range trees {
		offsetID := id.Offset(i)
		if root, ok := config.index.TryGetEntry(offsetID); ok {
			return fmt.Errorf("%w: unable to build %v, which exists at root %d",
				ErrEntryCollision, offsetID, root)
		}
		root, err := config.index.CreateEntry(offsetID, config.latestRevision)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEntryCollision, err)
		}
		field := config.index.ToFieldKey(root)
		tracer().Debugf("build %v in %s", offsetID, field)
		if err := v.Create([]tree.Cursor{t}, field); err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrVisitor, field, err)
		}
	}
	return nil
}

// resolveRoot finds the root slot for a detached id. If the index does not
// have an entry for id, the content is built from refresher data.
func resolveRoot(id delta.DetachedNodeID, config *passConfig, v Visitor) (detached.ForestRootID, error) {
	root, found, err := tryResolveRoot(id, config, v)
	if err != nil {
		return root, err
	}
	if !found {
		return root, fmt.Errorf("%w for %v", ErrMissingRefresher, id)
	}
	return root, nil
}

// tryResolveRoot is like resolveRoot, but does not treat the absence of
// refresher data as an error.
func tryResolveRoot(id delta.DetachedNodeID, config *passConfig, v Visitor) (detached.ForestRootID, bool, error) {
	if root, ok := config.index.TryGetEntry(id); ok {
		return root, true, nil
	}
	t, ok := config.refreshers[id]
	if !ok {
		return -1, false, nil
	}
	if err := buildTrees(id, []tree.Cursor{t}, config, v); err != nil {
		return -1, false, err
	}
	root, err := config.index.GetEntry(id)
	return root, err == nil, err
}

func processBuilds(builds []delta.DetachedNodeBuild, config *passConfig, v Visitor) error {
	for _, b := range builds {
		if err := buildTrees(b.ID, b.Trees.Forks(), config, v); err != nil {
			return err
		}
	}
	return nil
}

// processGlobal registers nested changes on detached nodes for both passes.
// Detached nodes without an index entry are built from refresher data.
func processGlobal(global []delta.DetachedNodeChanges, config *passConfig, v Visitor) error {
	for _, g := range global {
		root, err := resolveRoot(g.ID, config, v)
		if err != nil {
			return fmt.Errorf("global changes on %v: %w", g.ID, err)
		}
		// the revision is updated for any refresher data used by the delta
		config.index.UpdateLatestRevision(g.ID, config.latestRevision)
		config.detachPassRoots.Set(root, g.Fields)
		config.attachPassRoots.Set(root, g.Fields)
	}
	return nil
}
