package delta

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/treedelta/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetAndEqual(t *testing.T) {
	id := ID("r1", 3)
	if id.Offset(2) != ID("r1", 5) {
		t.Errorf("expected offset 2 of %v to be ⟨r1:5⟩, is %v", id, id.Offset(2))
	}
	if !id.Equal(ID("r1", 3)) || id.Equal(ID("r2", 3)) {
		t.Errorf("equality of detached ids broken for %v", id)
	}
	assert.True(t, ID("a", 9).Less(ID("b", 0)))
	assert.True(t, ID("a", 1).Less(ID("a", 2)))
	assert.Equal(t, "⟨r1:3⟩", id.String())
	assert.Equal(t, "⟨7⟩", ID("", 7).String())
}

func TestMarkPredicates(t *testing.T) {
	assert.True(t, Skip(3).IsNoop())
	assert.True(t, Remove(1, ID("r", 0)).IsDetach())
	assert.False(t, Remove(1, ID("r", 0)).IsAttach())
	rp := Replace(1, ID("r", 0), ID("r", 1))
	assert.True(t, rp.IsAttach() && rp.IsDetach())
	assert.False(t, Modify(FieldMap{Field("f", Skip(1))}).IsNoop())
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.delta")
	defer teardown()
	//
	good := &Root{
		Build:  []DetachedNodeBuild{{ID: ID("r", 0), Trees: tree.ChunkOf(tree.NewNode("n", 1))}},
		Fields: FieldMap{Field("content", Skip(1), Insert(1, ID("r", 0)))},
	}
	require.NoError(t, good.Validate())

	attachWithFields := Insert(1, ID("r", 0))
	attachWithFields.Fields = FieldMap{Field("x", Skip(1))}
	bad := &Root{Fields: FieldMap{Field("content", Modify(FieldMap{Field("inner", attachWithFields)}))}}
	err := bad.Validate()
	if !errors.Is(err, ErrMalformedMark) {
		t.Errorf("expected nested changes on attach to be malformed, got %v", err)
	}
	t.Logf("error = %v", err)

	dup := &Root{Fields: FieldMap{Field("a", Skip(1)), Field("a", Skip(2))}}
	assert.ErrorIs(t, dup.Validate(), ErrDuplicateField)

	zero := &Root{Fields: FieldMap{Field("a", Skip(0))}}
	assert.ErrorIs(t, zero.Validate(), ErrMalformedMark)

	emptyBuild := &Root{Build: []DetachedNodeBuild{{ID: ID("r", 0)}}}
	assert.ErrorIs(t, emptyBuild.Validate(), ErrMalformedDelta)

	badRename := &Root{Rename: []DetachedNodeRename{{Count: 0, OldID: ID("a", 0), NewID: ID("b", 0)}}}
	assert.ErrorIs(t, badRename.Validate(), ErrMalformedDelta)
}

const sampleDelta = `
build:
  - id: { major: r1, minor: 0 }
    trees:
      - { type: string, value: a }
      - type: para
        fields:
          text:
            - { type: string, value: b }
rename:
  - { count: 1, old: { major: r0, minor: 0 }, new: { major: r1, minor: 7 } }
fields:
  - key: content
    marks:
      - { count: 2 }
      - { count: 1, detach: { major: r1, minor: 5 } }
      - count: 1
        fields:
          - key: text
            marks:
              - { count: 1, attach: { major: r1, minor: 0 } }
destroy:
  - { id: { major: r1, minor: 5 }, count: 1 }
`

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "treedelta.delta")
	defer teardown()
	//
	d, err := Decode(strings.NewReader(sampleDelta))
	require.NoError(t, err)
	require.Len(t, d.Build, 1)
	assert.Equal(t, 2, d.Build[0].Trees.TopLevelLength())
	assert.Equal(t, 1, d.Build[0].Trees[1].FieldLength("text"))
	require.Len(t, d.Rename, 1)
	assert.Equal(t, ID("r1", 7), d.Rename[0].NewID)
	marks, ok := d.Fields.Get("content")
	require.True(t, ok)
	require.Len(t, marks, 3)
	assert.True(t, marks[0].IsNoop())
	assert.Equal(t, ID("r1", 5), *marks[1].Detach)
	inner, ok := marks[2].Fields.Get("text")
	require.True(t, ok)
	assert.Equal(t, ID("r1", 0), *inner[0].Attach)
	assert.Equal(t, []DetachedNodeDestruction{{ID: ID("r1", 5), Count: 1}}, d.Destroy)
	assert.NoError(t, d.Validate())
}

func TestEncodeDecode(t *testing.T) {
	d, err := Parse(sampleDelta)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))
	t.Logf("\n%s", buf.String())
	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, docOf(d), docOf(again))
}

func TestDecodeEmpty(t *testing.T) {
	d, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
	_, err = Parse("fields: [ { key: 1, marks: nope } ]")
	assert.Error(t, err)
}
