package delta

import (
	"fmt"
	"io"

	"github.com/npillmayer/treedelta/tree"
	"gopkg.in/yaml.v3"
)

// Deltas have a YAML form, used for fixtures and for dumping deltas while
// debugging. Field maps are written as lists to preserve their order:
//
//     build:
//       - id: { major: r1, minor: 0 }
//         trees:
//           - { type: string, value: a }
//     fields:
//       - key: content
//         marks:
//           - { count: 1, attach: { major: r1, minor: 0 } }
//     destroy:
//       - { id: { major: r0, minor: 3 }, count: 1 }
//
// Trees are read into plain nodes (see tree.Literal).

type markDoc struct {
	Count  int             `yaml:"count"`
	Detach *DetachedNodeID `yaml:"detach,omitempty"`
	Attach *DetachedNodeID `yaml:"attach,omitempty"`
	Fields []fieldDoc      `yaml:"fields,omitempty"`
}

type fieldDoc struct {
	Key   tree.FieldKey `yaml:"key"`
	Marks []markDoc     `yaml:"marks"`
}

type buildDoc struct {
	ID    DetachedNodeID `yaml:"id"`
	Trees []tree.Literal `yaml:"trees"`
}

type globalDoc struct {
	ID     DetachedNodeID `yaml:"id"`
	Fields []fieldDoc     `yaml:"fields"`
}

type renameDoc struct {
	Count int            `yaml:"count"`
	OldID DetachedNodeID `yaml:"old"`
	NewID DetachedNodeID `yaml:"new"`
}

type destroyDoc struct {
	ID    DetachedNodeID `yaml:"id"`
	Count int            `yaml:"count"`
}

type rootDoc struct {
	Build      []buildDoc   `yaml:"build,omitempty"`
	Global     []globalDoc  `yaml:"global,omitempty"`
	Rename     []renameDoc  `yaml:"rename,omitempty"`
	Fields     []fieldDoc   `yaml:"fields,omitempty"`
	Destroy    []destroyDoc `yaml:"destroy,omitempty"`
	Refreshers []buildDoc   `yaml:"refreshers,omitempty"`
}

// Decode reads a delta in YAML form.
func Decode(r io.Reader) (*Root, error) {
	var doc rootDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Root{}, nil
		}
		return nil, fmt.Errorf("decoding delta: %w", err)
	}
	return doc.root(), nil
}

// Parse reads a delta from a YAML string.
func Parse(s string) (*Root, error) {
	var doc rootDoc
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("parsing delta: %w", err)
	}
	return doc.root(), nil
}

// Encode writes a delta in YAML form.
func Encode(w io.Writer, r *Root) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docOf(r)); err != nil {
		return fmt.Errorf("encoding delta: %w", err)
	}
	return enc.Close()
}

// --- Conversion ------------------------------------------------------------

func (doc rootDoc) root() *Root {
	r := &Root{Fields: fieldMapOf(doc.Fields)}
	r.Build = buildsOf(doc.Build)
	r.Refreshers = buildsOf(doc.Refreshers)
	for _, g := range doc.Global {
		r.Global = append(r.Global, DetachedNodeChanges{ID: g.ID, Fields: fieldMapOf(g.Fields)})
	}
	for _, rn := range doc.Rename {
		r.Rename = append(r.Rename, DetachedNodeRename(rn))
	}
	for _, d := range doc.Destroy {
		r.Destroy = append(r.Destroy, DetachedNodeDestruction(d))
	}
	return r
}

func buildsOf(docs []buildDoc) []DetachedNodeBuild {
	var builds []DetachedNodeBuild
	for _, b := range docs {
		nodes := make([]*tree.Node, len(b.Trees))
		for i, l := range b.Trees {
			nodes[i] = l.Node()
		}
		builds = append(builds, DetachedNodeBuild{ID: b.ID, Trees: tree.ChunkOf(nodes...)})
	}
	return builds
}

func fieldMapOf(docs []fieldDoc) FieldMap {
	if len(docs) == 0 {
		return nil
	}
	fm := make(FieldMap, len(docs))
	for i, f := range docs {
		fm[i] = FieldChanges{Key: f.Key, Marks: make([]Mark, len(f.Marks))}
		for j, m := range f.Marks {
			fm[i].Marks[j] = Mark{
				Count:  m.Count,
				Detach: m.Detach,
				Attach: m.Attach,
				Fields: fieldMapOf(m.Fields),
			}
		}
	}
	return fm
}

func docOf(r *Root) rootDoc {
	if r == nil {
		return rootDoc{}
	}
	doc := rootDoc{Fields: fieldDocsOf(r.Fields)}
	doc.Build = buildDocsOf(r.Build)
	doc.Refreshers = buildDocsOf(r.Refreshers)
	for _, g := range r.Global {
		doc.Global = append(doc.Global, globalDoc{ID: g.ID, Fields: fieldDocsOf(g.Fields)})
	}
	for _, rn := range r.Rename {
		doc.Rename = append(doc.Rename, renameDoc(rn))
	}
	for _, d := range r.Destroy {
		doc.Destroy = append(doc.Destroy, destroyDoc(d))
	}
	return doc
}

func buildDocsOf(builds []DetachedNodeBuild) []buildDoc {
	var docs []buildDoc
	for _, b := range builds {
		bd := buildDoc{ID: b.ID}
		for _, c := range b.Trees {
			bd.Trees = append(bd.Trees, tree.LiteralOf(c))
		}
		docs = append(docs, bd)
	}
	return docs
}

func fieldDocsOf(fm FieldMap) []fieldDoc {
	var docs []fieldDoc
	for _, fc := range fm {
		fd := fieldDoc{Key: fc.Key, Marks: make([]markDoc, len(fc.Marks))}
		for i, m := range fc.Marks {
			fd.Marks[i] = markDoc{
				Count:  m.Count,
				Detach: m.Detach,
				Attach: m.Attach,
				Fields: fieldDocsOf(m.Fields),
			}
		}
		docs = append(docs, fd)
	}
	return docs
}
