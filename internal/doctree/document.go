package doctree

import "strings"

// TypeSet answers whether a node or mark type is part of the active schema.
// It is implemented by schema.Schema.
type TypeSet interface {
	HasNode(name string) bool
	HasMark(name string) bool
}

// Range is a half-open rune range [From, To) in the document.
type Range struct {
	From int
	To   int
}

// Document is an immutable snapshot of the document tree. Mutation goes
// through Transaction.Apply, which produces the next version.
type Document struct {
	blocks  []*Node
	version uint64
}

// New constructs a document from blocks, validating every node and mark type
// against the given schema types. A nil TypeSet skips validation.
func New(blocks []*Node, types TypeSet) (*Document, error) {
	if types != nil {
		for _, b := range blocks {
			if err := validateNode(b, types); err != nil {
				return nil, err
			}
		}
	}
	return &Document{blocks: blocks, version: 1}, nil
}

func validateNode(n *Node, types TypeSet) error {
	if !types.HasNode(n.Type) {
		return ErrUnknownType
	}
	for _, s := range n.Spans {
		for _, m := range s.Marks {
			if !types.HasMark(m.Type) {
				return ErrUnknownType
			}
		}
	}
	for _, c := range n.Children {
		if err := validateNode(c, types); err != nil {
			return err
		}
	}
	return nil
}

// Version returns the document version, starting at 1 and incremented by
// every applied transaction.
func (d *Document) Version() uint64 {
	return d.version
}

// Blocks returns the top-level blocks. Callers must not modify them.
func (d *Document) Blocks() []*Node {
	return d.blocks
}

// Len returns the document length in the linear position space.
func (d *Document) Len() int {
	total := 0
	for i, b := range d.blocks {
		if i > 0 {
			total++ // block boundary
		}
		total += b.runeLen()
	}
	return total
}

// Text returns the full document text with blocks joined by newlines and
// atomic blocks rendered as the object-replacement rune.
func (d *Document) Text() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		if b.Atomic {
			parts[i] = "￼"
		} else {
			parts[i] = b.Text()
		}
	}
	return strings.Join(parts, "\n")
}

// locate maps a position to (block index, local rune offset). Positions on a
// block boundary resolve to the end of the preceding block with onBoundary
// set. Position Len() is valid and resolves to the end of the last block.
func (d *Document) locate(pos int) (blockIdx, offset int, onBoundary bool, err error) {
	if pos < 0 || len(d.blocks) == 0 {
		return 0, 0, false, ErrPositionInvalid
	}
	start := 0
	for i, b := range d.blocks {
		size := b.runeLen()
		if pos <= start+size {
			return i, pos - start, pos == start+size && i < len(d.blocks)-1, nil
		}
		start += size + 1 // skip the boundary rune
	}
	return 0, 0, false, ErrPositionInvalid
}

// BlockAt returns the block containing pos.
func (d *Document) BlockAt(pos int) (*Node, error) {
	idx, _, _, err := d.locate(pos)
	if err != nil {
		return nil, err
	}
	return d.blocks[idx], nil
}

// TextBetween returns the text in [from, to).
func (d *Document) TextBetween(from, to int) (string, error) {
	if from > to {
		from, to = to, from
	}
	full := []rune(d.Text())
	if from < 0 || to > len(full) {
		return "", ErrPositionInvalid
	}
	return string(full[from:to]), nil
}

// markAtRune returns the mark of the given type on the rune at pos, if any.
func (d *Document) markAtRune(pos int, markType string) (Mark, bool) {
	idx, offset, _, err := d.locate(pos)
	if err != nil {
		return Mark{}, false
	}
	b := d.blocks[idx]
	if b.Atomic {
		return Mark{}, false
	}
	runeStart := 0
	for _, s := range b.Spans {
		n := len([]rune(s.Text))
		if offset >= runeStart && offset < runeStart+n {
			return s.hasMark(markType)
		}
		runeStart += n
	}
	return Mark{}, false
}

// MarkAt returns the mark of the given type covering pos. A position at the
// very end of a marked run still counts as covered, matching caret behavior.
func (d *Document) MarkAt(pos int, markType string) (Mark, bool) {
	if m, ok := d.markAtRune(pos, markType); ok {
		return m, true
	}
	if pos > 0 {
		return d.markAtRune(pos-1, markType)
	}
	return Mark{}, false
}

// MarkExtent expands outward from pos while a mark of the given type remains
// applied, returning the full extent of the marked run.
func (d *Document) MarkExtent(pos int, markType string) (Range, bool) {
	if _, ok := d.MarkAt(pos, markType); !ok {
		return Range{}, false
	}
	from := pos
	for from > 0 {
		if _, ok := d.markAtRune(from-1, markType); !ok {
			break
		}
		from--
	}
	to := pos
	for to < d.Len() {
		if _, ok := d.markAtRune(to, markType); !ok {
			break
		}
		to++
	}
	return Range{From: from, To: to}, true
}

// HasNonEmptyContent reports whether [from, to) touches at least one
// non-empty node: an atomic block, or a textblock contributing at least one
// non-whitespace rune to the range.
func (d *Document) HasNonEmptyContent(from, to int) bool {
	if from > to {
		from, to = to, from
	}
	text, err := d.TextBetween(from, to)
	if err != nil {
		return false
	}
	for _, r := range text {
		if r == '￼' {
			return true
		}
		if !strings.ContainsRune(" \t\n", r) {
			return true
		}
	}
	return false
}
