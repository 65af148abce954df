/*
Package detached implements an index of detached roots.

Content which is not part of the document tree (removed content which
may be restored later, content built but not yet inserted, and so on) is
kept in detached fields. Each detached field holds a single root node and
is addressed by a root slot (type ForestRootID). The index maps stable
detached node ids to root slots and back, and translates root slots to
field keys understood by the document storage.

An index is owned by a single document and must not be used concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package detached

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treedelta.detached'.
func tracer() tracing.Trace {
	return tracing.Select("treedelta.detached")
}
