package doctree

import "strings"

// insertText splices text into the textblock containing pos. The inserted
// text inherits the marks of the span it lands in (the span to the left at a
// span boundary).
func (d *Document) insertText(pos int, text string) error {
	if strings.ContainsRune(text, '\n') {
		return ErrInvalidStep
	}
	idx, offset, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	b := d.blocks[idx]
	if b.Atomic {
		return ErrInvalidStep
	}
	if len(b.Spans) == 0 {
		b.Spans = []Span{{Text: text}}
		return nil
	}

	runeStart := 0
	for i := range b.Spans {
		s := &b.Spans[i]
		n := len([]rune(s.Text))
		// A span-boundary offset inserts at the end of the left span.
		if offset <= runeStart+n {
			local := offset - runeStart
			runes := []rune(s.Text)
			s.Text = string(runes[:local]) + text + string(runes[local:])
			return nil
		}
		runeStart += n
	}
	return ErrPositionInvalid
}

// deleteRange removes the runes in [from, to). Textblocks whose separating
// boundary falls inside the range are merged; atomic blocks whose position is
// covered are removed.
func (d *Document) deleteRange(from, to int) error {
	if from > to {
		from, to = to, from
	}
	if from < 0 || to > d.Len() {
		return ErrPositionInvalid
	}

	n := len(d.blocks)
	removed := make([]bool, n)
	merge := make([]bool, n) // merge[i]: boundary after block i deleted

	start := 0
	for i, b := range d.blocks {
		size := b.runeLen()
		ovFrom, ovTo := max(from, start), min(to, start+size)
		if ovFrom < ovTo {
			if b.Atomic {
				removed[i] = true
			} else {
				b.Spans = deleteSpanRange(b.Spans, ovFrom-start, ovTo-start)
			}
		}
		if i < n-1 {
			boundary := start + size
			if from <= boundary && boundary < to {
				merge[i] = true
			}
		}
		start += size + 1
	}

	var out []*Node
	for i, b := range d.blocks {
		if removed[i] {
			continue
		}
		// Merge into the previous surviving block when the boundary between
		// them was deleted and both are textblocks.
		if len(out) > 0 && !b.Atomic {
			prev := out[len(out)-1]
			if !prev.Atomic && mergedBoundary(merge, removed, i) {
				prev.Spans = normalizeSpans(append(prev.Spans, b.Spans...))
				continue
			}
		}
		b.Spans = normalizeSpans(b.Spans)
		out = append(out, b)
	}
	if len(out) == 0 {
		out = []*Node{TextBlock("paragraph", "", nil)}
	}
	d.blocks = out
	return nil
}

// mergedBoundary reports whether block i should merge into the previous
// surviving block: every boundary between them must have been deleted and
// every block in between removed.
func mergedBoundary(merge, removed []bool, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if !merge[j] {
			return false
		}
		if !removed[j] {
			return true
		}
	}
	return false
}

// mark adds or removes a mark over [from, to) in every overlapped textblock.
func (d *Document) mark(from, to int, m Mark, add bool) error {
	if from > to {
		from, to = to, from
	}
	if from < 0 || to > d.Len() {
		return ErrPositionInvalid
	}

	start := 0
	for _, b := range d.blocks {
		size := b.runeLen()
		ovFrom, ovTo := max(from, start), min(to, start+size)
		if ovFrom < ovTo && !b.Atomic {
			b.Spans = markSpanRange(b.Spans, ovFrom-start, ovTo-start, m, add)
		}
		start += size + 1
	}
	return nil
}

// setAttrs merges attrs into the block containing pos.
func (d *Document) setAttrs(pos int, attrs Attrs) error {
	idx, _, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	b := d.blocks[idx]
	if b.Attrs == nil {
		b.Attrs = make(Attrs, len(attrs))
	}
	for k, v := range attrs {
		b.Attrs[k] = v
	}
	return nil
}

// setBlockType changes the type of the block containing pos.
func (d *Document) setBlockType(pos int, nodeType string) error {
	if nodeType == "" {
		return ErrInvalidStep
	}
	idx, _, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	d.blocks[idx].Type = nodeType
	return nil
}

// replaceBlock swaps the block containing pos for another block.
func (d *Document) replaceBlock(pos int, block *Node) error {
	if block == nil {
		return ErrInvalidStep
	}
	idx, _, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	d.blocks[idx] = block.clone()
	return nil
}

// insertBlock places a block after the block containing pos.
func (d *Document) insertBlock(pos int, block *Node) error {
	if block == nil {
		return ErrInvalidStep
	}
	idx, _, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	blocks := make([]*Node, 0, len(d.blocks)+1)
	blocks = append(blocks, d.blocks[:idx+1]...)
	blocks = append(blocks, block.clone())
	blocks = append(blocks, d.blocks[idx+1:]...)
	d.blocks = blocks
	return nil
}

// splitBlock splits the textblock containing pos into two blocks of the same
// type and attributes.
func (d *Document) splitBlock(pos int) error {
	idx, offset, _, err := d.locate(pos)
	if err != nil {
		return err
	}
	b := d.blocks[idx]
	if b.Atomic {
		return ErrInvalidStep
	}

	head, tail := splitSpans(b.Spans, offset)
	second := &Node{Type: b.Type, Attrs: b.Attrs.clone(), Spans: normalizeSpans(tail)}
	b.Spans = normalizeSpans(head)

	blocks := make([]*Node, 0, len(d.blocks)+1)
	blocks = append(blocks, d.blocks[:idx+1]...)
	blocks = append(blocks, second)
	blocks = append(blocks, d.blocks[idx+1:]...)
	d.blocks = blocks
	return nil
}

// spanRuneLen returns the rune length of a span.
func spanRuneLen(s Span) int {
	return len([]rune(s.Text))
}

// splitSpans splits a span list at a rune offset.
func splitSpans(spans []Span, at int) (head, tail []Span) {
	runeStart := 0
	for _, s := range spans {
		n := spanRuneLen(s)
		switch {
		case runeStart+n <= at:
			head = append(head, s)
		case runeStart >= at:
			tail = append(tail, s)
		default:
			runes := []rune(s.Text)
			local := at - runeStart
			head = append(head, Span{Text: string(runes[:local]), Marks: s.Marks})
			tail = append(tail, Span{Text: string(runes[local:]), Marks: s.Marks})
		}
		runeStart += n
	}
	return head, tail
}

// deleteSpanRange removes the runes in [lo, hi) from a span list.
func deleteSpanRange(spans []Span, lo, hi int) []Span {
	head, rest := splitSpans(spans, lo)
	_, tail := splitSpans(rest, hi-lo)
	return normalizeSpans(append(head, tail...))
}

// markSpanRange adds or removes a mark over [lo, hi) in a span list.
func markSpanRange(spans []Span, lo, hi int, m Mark, add bool) []Span {
	head, rest := splitSpans(spans, lo)
	mid, tail := splitSpans(rest, hi-lo)

	for i := range mid {
		if add {
			if _, ok := mid[i].hasMark(m.Type); !ok {
				marks := make([]Mark, len(mid[i].Marks), len(mid[i].Marks)+1)
				copy(marks, mid[i].Marks)
				mid[i].Marks = append(marks, Mark{Type: m.Type, Attrs: m.Attrs.clone()})
			} else {
				// Same type: replace so new attributes win.
				for j := range mid[i].Marks {
					if mid[i].Marks[j].Type == m.Type {
						mid[i].Marks[j] = Mark{Type: m.Type, Attrs: m.Attrs.clone()}
					}
				}
			}
		} else {
			kept := mid[i].Marks[:0:0]
			for _, existing := range mid[i].Marks {
				if existing.Type != m.Type {
					kept = append(kept, existing)
				}
			}
			mid[i].Marks = kept
		}
	}

	out := append(head, mid...)
	out = append(out, tail...)
	return normalizeSpans(out)
}

// normalizeSpans drops empty spans and merges neighbors with identical marks.
func normalizeSpans(spans []Span) []Span {
	out := spans[:0:0]
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if len(out) > 0 && sameMarks(out[len(out)-1].Marks, s.Marks) {
			out[len(out)-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
