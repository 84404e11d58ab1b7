package doctree

// StepKind discriminates transaction steps.
type StepKind uint8

const (
	// StepInsertText inserts text at a position.
	StepInsertText StepKind = iota

	// StepDelete removes the range [From, To).
	StepDelete

	// StepAddMark applies a mark over [From, To).
	StepAddMark

	// StepRemoveMark removes marks of a type over [From, To).
	StepRemoveMark

	// StepSetAttrs merges attributes into the block at From.
	StepSetAttrs

	// StepInsertBlock inserts a block after the block containing From.
	StepInsertBlock

	// StepSplitBlock splits the textblock containing From.
	StepSplitBlock

	// StepSetBlockType changes the type of the block at From.
	StepSetBlockType

	// StepReplaceBlock swaps the block at From for another block.
	StepReplaceBlock
)

// Step is a single document edit.
type Step struct {
	Kind  StepKind
	From  int
	To    int
	Text  string
	Mark  Mark
	Attrs Attrs
	Block *Node
}

// Transaction is an ordered list of edits plus an optional resulting
// selection. Applying it yields the next document version.
type Transaction struct {
	Steps []Step

	// Sel, when non-nil, becomes the selection after the transaction.
	Sel *Selection
}

// InsertText appends an insert-text step.
func (t *Transaction) InsertText(at int, text string) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepInsertText, From: at, Text: text})
	return t
}

// Delete appends a delete step for [from, to).
func (t *Transaction) Delete(from, to int) *Transaction {
	if from > to {
		from, to = to, from
	}
	t.Steps = append(t.Steps, Step{Kind: StepDelete, From: from, To: to})
	return t
}

// AddMark appends an add-mark step over [from, to).
func (t *Transaction) AddMark(from, to int, m Mark) *Transaction {
	if from > to {
		from, to = to, from
	}
	t.Steps = append(t.Steps, Step{Kind: StepAddMark, From: from, To: to, Mark: m})
	return t
}

// RemoveMark appends a remove-mark step for markType over [from, to).
func (t *Transaction) RemoveMark(from, to int, markType string) *Transaction {
	if from > to {
		from, to = to, from
	}
	t.Steps = append(t.Steps, Step{Kind: StepRemoveMark, From: from, To: to, Mark: Mark{Type: markType}})
	return t
}

// SetAttrs appends a set-attributes step for the block at pos.
func (t *Transaction) SetAttrs(pos int, attrs Attrs) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepSetAttrs, From: pos, Attrs: attrs})
	return t
}

// InsertBlock appends an insert-block step after the block containing pos.
func (t *Transaction) InsertBlock(pos int, block *Node) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepInsertBlock, From: pos, Block: block})
	return t
}

// SplitBlock appends a split step for the textblock containing pos.
func (t *Transaction) SplitBlock(pos int) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepSplitBlock, From: pos})
	return t
}

// SetBlockType appends a step changing the type of the block at pos.
func (t *Transaction) SetBlockType(pos int, nodeType string) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepSetBlockType, From: pos, Text: nodeType})
	return t
}

// ReplaceBlock appends a step swapping the block at pos for block.
func (t *Transaction) ReplaceBlock(pos int, block *Node) *Transaction {
	t.Steps = append(t.Steps, Step{Kind: StepReplaceBlock, From: pos, Block: block})
	return t
}

// SetSelection sets the selection that results from the transaction.
func (t *Transaction) SetSelection(sel Selection) *Transaction {
	t.Sel = &sel
	return t
}

// Apply runs the transaction against doc and returns the next version.
// The input document is never modified.
func (t *Transaction) Apply(doc *Document) (*Document, error) {
	blocks := make([]*Node, len(doc.blocks))
	for i, b := range doc.blocks {
		blocks[i] = b.clone()
	}
	next := &Document{blocks: blocks, version: doc.version + 1}

	for _, step := range t.Steps {
		var err error
		switch step.Kind {
		case StepInsertText:
			err = next.insertText(step.From, step.Text)
		case StepDelete:
			err = next.deleteRange(step.From, step.To)
		case StepAddMark:
			err = next.mark(step.From, step.To, step.Mark, true)
		case StepRemoveMark:
			err = next.mark(step.From, step.To, step.Mark, false)
		case StepSetAttrs:
			err = next.setAttrs(step.From, step.Attrs)
		case StepInsertBlock:
			err = next.insertBlock(step.From, step.Block)
		case StepSplitBlock:
			err = next.splitBlock(step.From)
		case StepSetBlockType:
			err = next.setBlockType(step.From, step.Text)
		case StepReplaceBlock:
			err = next.replaceBlock(step.From, step.Block)
		default:
			err = ErrInvalidStep
		}
		if err != nil {
			return nil, err
		}
	}
	return next, nil
}
