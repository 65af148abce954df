/*
Package tree implements the content of a hierarchical document.

A document is a forest of nodes. Every node carries a type, an optional
value and any number of keyed fields. A field is an ordered sequence of
child nodes; field keys are unique per node. Content is read through
cursors (interface Cursor), which is all the delta machinery needs to know
about already-built trees. Package tree also offers a plain literal form of
trees (type Literal), suitable for YAML fixtures, and synchronous walkers
to traverse a tree top-down or bottom-up.

Nodes are not safe for concurrent modification. Clients owning a document
are expected to serialize edits.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treedelta.tree'.
func tracer() tracing.Trace {
	return tracing.Select("treedelta.tree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treedelta.tree: "+msg, msgargs...)
		panic(msg)
	}
}
