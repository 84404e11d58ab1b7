package doctree

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeJSON serializes a document to JSON.
func EncodeJSON(d *Document) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	out, err = sjson.SetBytes(out, "version", d.version)
	if err != nil {
		return nil, fmt.Errorf("doctree: encode version: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "blocks", []byte(`[]`))
	if err != nil {
		return nil, fmt.Errorf("doctree: encode blocks: %w", err)
	}
	for i, b := range d.blocks {
		out, err = setNode(out, fmt.Sprintf("blocks.%d", i), b)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setNode(out []byte, path string, n *Node) ([]byte, error) {
	var err error
	if out, err = sjson.SetBytes(out, path+".type", n.Type); err != nil {
		return nil, fmt.Errorf("doctree: encode node: %w", err)
	}
	if len(n.Attrs) > 0 {
		if out, err = sjson.SetBytes(out, path+".attrs", map[string]any(n.Attrs)); err != nil {
			return nil, fmt.Errorf("doctree: encode attrs: %w", err)
		}
	}
	if n.Atomic {
		if out, err = sjson.SetBytes(out, path+".atomic", true); err != nil {
			return nil, fmt.Errorf("doctree: encode atomic: %w", err)
		}
	}
	for i, s := range n.Spans {
		sp := fmt.Sprintf("%s.spans.%d", path, i)
		if out, err = sjson.SetBytes(out, sp+".text", s.Text); err != nil {
			return nil, fmt.Errorf("doctree: encode span: %w", err)
		}
		for j, m := range s.Marks {
			mp := fmt.Sprintf("%s.marks.%d", sp, j)
			if out, err = sjson.SetBytes(out, mp+".type", m.Type); err != nil {
				return nil, fmt.Errorf("doctree: encode mark: %w", err)
			}
			if len(m.Attrs) > 0 {
				if out, err = sjson.SetBytes(out, mp+".attrs", map[string]any(m.Attrs)); err != nil {
					return nil, fmt.Errorf("doctree: encode mark attrs: %w", err)
				}
			}
		}
	}
	for i, c := range n.Children {
		var cerr error
		if out, cerr = setNode(out, fmt.Sprintf("%s.children.%d", path, i), c); cerr != nil {
			return nil, cerr
		}
	}
	return out, nil
}

// DecodeJSON parses a document from JSON, validating node and mark types
// against the given schema types.
func DecodeJSON(data []byte, types TypeSet) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("doctree: decode: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	var blocks []*Node
	for _, b := range root.Get("blocks").Array() {
		blocks = append(blocks, parseNode(b))
	}
	doc, err := New(blocks, types)
	if err != nil {
		return nil, err
	}
	if v := root.Get("version"); v.Exists() {
		doc.version = v.Uint()
	}
	return doc, nil
}

func parseNode(r gjson.Result) *Node {
	n := &Node{
		Type:   r.Get("type").String(),
		Atomic: r.Get("atomic").Bool(),
		Attrs:  parseAttrs(r.Get("attrs")),
	}
	for _, s := range r.Get("spans").Array() {
		span := Span{Text: s.Get("text").String()}
		for _, m := range s.Get("marks").Array() {
			span.Marks = append(span.Marks, Mark{
				Type:  m.Get("type").String(),
				Attrs: parseAttrs(m.Get("attrs")),
			})
		}
		n.Spans = append(n.Spans, span)
	}
	for _, c := range r.Get("children").Array() {
		n.Children = append(n.Children, parseNode(c))
	}
	return n
}

func parseAttrs(r gjson.Result) Attrs {
	if !r.Exists() {
		return nil
	}
	attrs := make(Attrs)
	r.ForEach(func(key, value gjson.Result) bool {
		attrs[key.String()] = value.Value()
		return true
	})
	return attrs
}
