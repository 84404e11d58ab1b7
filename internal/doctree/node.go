package doctree

// Attrs maps attribute names to scalar values.
type Attrs map[string]any

// clone returns a shallow copy of the attribute map.
func (a Attrs) clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Mark is a formatting annotation on inline text, such as bold or a link.
type Mark struct {
	Type  string
	Attrs Attrs
}

// Equal reports whether two marks have the same type and attributes.
func (m Mark) Equal(o Mark) bool {
	if m.Type != o.Type || len(m.Attrs) != len(o.Attrs) {
		return false
	}
	for k, v := range m.Attrs {
		if o.Attrs[k] != v {
			return false
		}
	}
	return true
}

// Span is a run of inline text with a uniform mark set.
type Span struct {
	Text  string
	Marks []Mark
}

// hasMark reports whether the span carries a mark of the given type.
func (s Span) hasMark(markType string) (Mark, bool) {
	for _, m := range s.Marks {
		if m.Type == markType {
			return m, true
		}
	}
	return Mark{}, false
}

// sameMarks reports whether two spans carry identical mark sets.
func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Node is one block of the document: a textblock holding inline spans, or an
// atomic block (horizontal rule, image, table) holding no inline text.
type Node struct {
	// Type is the registered node type name, e.g. "paragraph", "hr".
	Type string

	// Attrs holds node attributes such as an image src or heading level.
	Attrs Attrs

	// Spans is the inline content of a textblock. Nil for atomic blocks.
	Spans []Span

	// Atomic marks blocks with no inline text; they occupy a single
	// position in the document.
	Atomic bool

	// Children holds structural children, e.g. table rows and cells. They
	// describe the block's internal shape but do not take part in the
	// linear position space.
	Children []*Node
}

// Text returns the concatenated inline text of the node.
func (n *Node) Text() string {
	var out string
	for _, s := range n.Spans {
		out += s.Text
	}
	return out
}

// runeLen returns the node's length in the linear position space.
func (n *Node) runeLen() int {
	if n.Atomic {
		return 1
	}
	total := 0
	for _, s := range n.Spans {
		total += len([]rune(s.Text))
	}
	return total
}

// clone deep-copies the node.
func (n *Node) clone() *Node {
	out := &Node{
		Type:   n.Type,
		Attrs:  n.Attrs.clone(),
		Atomic: n.Atomic,
	}
	if n.Spans != nil {
		out.Spans = make([]Span, len(n.Spans))
		for i, s := range n.Spans {
			marks := make([]Mark, len(s.Marks))
			for j, m := range s.Marks {
				marks[j] = Mark{Type: m.Type, Attrs: m.Attrs.clone()}
			}
			out.Spans[i] = Span{Text: s.Text, Marks: marks}
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.clone()
		}
	}
	return out
}

// TextBlock creates a textblock node with plain text content.
func TextBlock(nodeType, text string, attrs Attrs) *Node {
	return &Node{
		Type:  nodeType,
		Attrs: attrs,
		Spans: []Span{{Text: text}},
	}
}

// AtomicBlock creates an atomic node such as an image or horizontal rule.
func AtomicBlock(nodeType string, attrs Attrs) *Node {
	return &Node{Type: nodeType, Attrs: attrs, Atomic: true}
}
