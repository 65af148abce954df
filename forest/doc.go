/*
Package forest implements an in-memory document which can be edited by
replaying deltas.

A forest is a set of top-level fields holding trees of nodes (package
tree). One of the fields is the document's root field, the others are
detached fields holding content which is currently not part of the
document. Forests implement the visitor contract of package visit and check
it thoroughly: they refuse to create content in fields already in use and
to attach or destroy detached fields with a count not matching the field's
size.

While a visitor is open, the forest is in an exclusive mode: opening
another visitor or replacing fields fails. Change notifications are
deferred until the visitor is freed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package forest

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'treedelta.forest'.
func tracer() tracing.Trace {
	return tracing.Select("treedelta.forest")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("treedelta.forest: "+msg, msgargs...)
		panic(msg)
	}
}
