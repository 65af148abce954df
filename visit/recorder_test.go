package visit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/treedelta/delta"
	"github.com/npillmayer/treedelta/tree"
)

// recorder is a visitor which records calls as strings.
type recorder struct {
	calls  []string
	failOn string // structural call to fail, e.g. "destroy"
	freed  int
}

var errInjected = errors.New("injected failure")

func (r *recorder) record(call string, format string, args ...interface{}) error {
	r.calls = append(r.calls, call+" "+fmt.Sprintf(format, args...))
	if call == r.failOn {
		return errInjected
	}
	return nil
}

func (r *recorder) Free() {
	r.freed++
}

func (r *recorder) Create(content []tree.Cursor, destination tree.FieldKey) error {
	return r.record("create", "%d %s", len(content), destination)
}

func (r *recorder) Destroy(detachedField tree.FieldKey, count int) error {
	return r.record("destroy", "%s %d", detachedField, count)
}

func (r *recorder) Attach(source tree.FieldKey, count int, destination int) error {
	return r.record("attach", "%s %d %d", source, count, destination)
}

func (r *recorder) Detach(source Range, destination tree.FieldKey, id delta.DetachedNodeID, isReplaced bool) error {
	return r.record("detach", "%v %s %v %v", source, destination, id, isReplaced)
}

func (r *recorder) EnterNode(index int) {
	r.record("enterNode", "%d", index)
}

func (r *recorder) ExitNode(index int) {
	r.record("exitNode", "%d", index)
}

func (r *recorder) EnterField(key tree.FieldKey) {
	r.record("enterField", "%s", key)
}

func (r *recorder) ExitField(key tree.FieldKey) {
	r.record("exitField", "%s", key)
}

// structural returns the structural calls only, skipping cursor movements.
func (r *recorder) structural() []string {
	var calls []string
	for _, c := range r.calls {
		if strings.HasPrefix(c, "enter") || strings.HasPrefix(c, "exit") {
			continue
		}
		calls = append(calls, c)
	}
	return calls
}
