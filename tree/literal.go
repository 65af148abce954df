package tree

// Literal is a plain, serializable form of a tree. It is used for YAML
// fixtures and dumps of deltas:
//
//     type: paragraph
//     fields:
//       text:
//         - type: string
//           value: hello
//
type Literal struct {
	Type   NodeType               `yaml:"type"`
	Value  any                    `yaml:"value,omitempty"`
	Fields map[FieldKey][]Literal `yaml:"fields,omitempty"`
}

// Node builds a new, isolated tree of nodes from a literal.
func (l Literal) Node() *Node {
	node := NewNode(l.Type, l.Value)
	for key, children := range l.Fields {
		for _, ch := range children {
			node.AddChild(key, ch.Node())
		}
	}
	return node
}

// LiteralOf reads the content visible through a cursor into a literal.
func LiteralOf(c Cursor) Literal {
	l := Literal{Type: c.Type(), Value: c.Value()}
	for _, key := range c.FieldKeys() {
		n := c.FieldLength(key)
		if l.Fields == nil {
			l.Fields = make(map[FieldKey][]Literal)
		}
		for i := 0; i < n; i++ {
			l.Fields[key] = append(l.Fields[key], LiteralOf(c.Child(key, i)))
		}
	}
	return l
}

// Leaf is a shortcut to create a literal without fields.
func Leaf(typ NodeType, value any) Literal {
	return Literal{Type: typ, Value: value}
}
