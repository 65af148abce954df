/*
Package visit replays deltas against a document.

Given a delta (package delta), the engine drives a Visitor through the
changes the delta describes. Each call to a visitor assumes that the
changes described by earlier calls have been applied to the document. For
example, for a change that removes the first and third node of a field, the
visitor will first be asked to detach the range 0…1 and then the range 1…2.

Passes

The visit is organized into four phases:

    1. a detach pass
    2. root transfers
    3. an attach pass
    4. root destructions

Before content can be attached, it must first exist in a detached field.
The detach pass makes sure that all content to be attached is in a
detached state, bottom-up, so children are detached before their
ancestors. It does not guarantee that the content resides in the detached
field the attach expects; moving content between detached fields is the
task of the root transfers. The attach pass then carries out attaches,
top-down. Destructions happen last, so that changes to detached roots are
applied before the roots are destroyed.

Before the detach pass, builds and global changes are processed: new
content is created in fresh detached fields, and nested changes on
detached content are registered for both the detach and the attach pass.

Nested changes on detached roots are kept in two work lists, one per pass.
Visiting an entry may add entries to a list or remove them, so the lists
are drained by a fixed-point loop which pops one entry at a time.

Errors

All errors reported by this package are integrity violations: the delta is
malformed, or the detached index does not match the document. They abort
the visit, leaving the document in an intermediate state. There is no way
to recover from these errors other than discarding the document.

The two-pass nature of the algorithm means that a node may be entered
twice during one visit (once per pass). Visitors firing events on
exiting nodes should be aware of this.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package visit

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treedelta.visit'.
func tracer() tracing.Trace {
	return tracing.Select("treedelta.visit")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treedelta.visit: "+msg, msgargs...)
		panic(msg)
	}
}
