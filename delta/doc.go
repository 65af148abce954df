/*
Package delta defines the data model for edits of a hierarchical document.

A delta is a passive description of an edit: content to build in detached
locations, nested changes on detached content, renames between detached
locations, positional changes per field (marks), and destructions of
detached content. Deltas are produced elsewhere (by merging and rebasing
changesets) and consumed by package visit, which replays them against a
document.

Marks

A field's changes are an ordered sequence of marks. Every mark covers a
contiguous run of Count sibling positions and may carry

    Detach   content is removed from here and filed under a detached id
    Attach   content is inserted here, taken from a detached id
    Fields   nested changes inside the node at this position

A mark carrying both Attach and nested Fields must also carry Detach.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package delta

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treedelta.delta'.
func tracer() tracing.Trace {
	return tracing.Select("treedelta.delta")
}
