package delta

import (
	"errors"
	"fmt"

	"github.com/npillmayer/treedelta/tree"
)

// ErrMalformedMark is returned for marks which cannot be applied: marks
// covering no positions, and marks with nested changes on freshly attached
// content (attach without detach).
var ErrMalformedMark = errors.New("malformed mark")

// ErrDuplicateField is returned if a field map contains a key twice.
var ErrDuplicateField = errors.New("duplicate field key in field map")

// ErrMalformedDelta is returned for inconsistencies of a delta outside of marks,
// e.g. builds without trees or renames of zero nodes.
var ErrMalformedDelta = errors.New("malformed delta")

// CheckMark checks the structural integrity of a single mark, not
// descending into nested changes.
func CheckMark(m Mark) error {
	if m.Count < 1 {
		return fmt.Errorf("%w: count is %d", ErrMalformedMark, m.Count)
	}
	if len(m.Fields) > 0 && m.Attach != nil && m.Detach == nil {
		return fmt.Errorf("%w: nested changes on attach %v", ErrMalformedMark, *m.Attach)
	}
	return nil
}

// Validate checks a delta for structural integrity without applying it.
// Validation is not required before applying a delta; package visit reports
// the same errors when it encounters them. Validate, however, reports them
// before any change has been made to a document.
func (r *Root) Validate() error {
	if r == nil {
		return nil
	}
	builds := make([]DetachedNodeBuild, 0, len(r.Build)+len(r.Refreshers))
	builds = append(append(builds, r.Build...), r.Refreshers...)
	for _, b := range builds {
		if b.Trees.TopLevelLength() == 0 {
			return fmt.Errorf("%w: build for %v has no trees", ErrMalformedDelta, b.ID)
		}
	}
	for _, g := range r.Global {
		if err := validateFields(g.Fields, "global "+g.ID.String()); err != nil {
			return err
		}
	}
	for _, rn := range r.Rename {
		if rn.Count < 1 {
			return fmt.Errorf("%w: rename %v→%v of %d nodes", ErrMalformedDelta, rn.OldID, rn.NewID, rn.Count)
		}
	}
	for _, d := range r.Destroy {
		if d.Count < 1 {
			return fmt.Errorf("%w: destruction of %d nodes at %v", ErrMalformedDelta, d.Count, d.ID)
		}
	}
	if err := validateFields(r.Fields, ""); err != nil {
		return err
	}
	tracer().Debugf("delta is valid")
	return nil
}

func validateFields(fm FieldMap, path string) error {
	seen := make(map[tree.FieldKey]bool, len(fm))
	for _, fc := range fm {
		p := path + "/" + string(fc.Key)
		if seen[fc.Key] {
			return fmt.Errorf("%w: %s", ErrDuplicateField, p)
		}
		seen[fc.Key] = true
		for i, m := range fc.Marks {
			if err := CheckMark(m); err != nil {
				return fmt.Errorf("mark %d of %s: %w", i, p, err)
			}
			if err := validateFields(m.Fields, fmt.Sprintf("%s[%d]", p, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
