package doctree

// SelectionKind discriminates the selection variants.
type SelectionKind uint8

const (
	// SelectionCaret is a collapsed cursor.
	SelectionCaret SelectionKind = iota

	// SelectionText is a text range.
	SelectionText

	// SelectionNode selects exactly one block node.
	SelectionNode

	// SelectionCells selects a rectangle of table cells.
	SelectionCells
)

// String returns the selection kind name.
func (k SelectionKind) String() string {
	switch k {
	case SelectionCaret:
		return "caret"
	case SelectionText:
		return "text"
	case SelectionNode:
		return "node"
	case SelectionCells:
		return "cells"
	default:
		return "unknown"
	}
}

// CellRange describes a rectangular cell selection inside a table.
type CellRange struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int

	// TableRows and TableCols are the dimensions of the containing table.
	TableRows int
	TableCols int
}

// Selection is a range or node reference into one document version.
// Invariant: From <= To; a node selection denotes exactly one node.
type Selection struct {
	Kind SelectionKind
	From int
	To   int

	// NodeType is the selected node's type for node selections.
	NodeType string

	// Cells is the cell geometry for cell-range selections.
	Cells CellRange
}

// Caret returns a collapsed selection at pos.
func Caret(pos int) Selection {
	return Selection{Kind: SelectionCaret, From: pos, To: pos}
}

// TextRange returns a text selection, normalizing an inverted range.
func TextRange(from, to int) Selection {
	if from > to {
		from, to = to, from
	}
	return Selection{Kind: SelectionText, From: from, To: to}
}

// NodeSelection returns a whole-node selection of the block at pos.
func NodeSelection(pos int, nodeType string) Selection {
	return Selection{Kind: SelectionNode, From: pos, To: pos + 1, NodeType: nodeType}
}

// CellSelection returns a cell-range selection covering [from, to).
func CellSelection(from, to int, cells CellRange) Selection {
	if from > to {
		from, to = to, from
	}
	return Selection{Kind: SelectionCells, From: from, To: to, Cells: cells}
}

// IsEmpty reports whether the selection covers no content.
func (s Selection) IsEmpty() bool {
	return s.From == s.To
}

// WholeTable reports whether a cell selection covers every cell.
func (s Selection) WholeTable() bool {
	if s.Kind != SelectionCells {
		return false
	}
	c := s.Cells
	return c.StartRow == 0 && c.EndRow == c.TableRows-1 &&
		c.StartCol == 0 && c.EndCol == c.TableCols-1
}

// SingleColumn reports whether a cell selection covers exactly one full
// column. A whole-table selection is not a column selection.
func (s Selection) SingleColumn() bool {
	if s.Kind != SelectionCells || s.WholeTable() {
		return false
	}
	c := s.Cells
	return c.StartCol == c.EndCol && c.StartRow == 0 && c.EndRow == c.TableRows-1
}

// SingleRow reports whether a cell selection covers exactly one full row.
// A whole-table selection is not a row selection.
func (s Selection) SingleRow() bool {
	if s.Kind != SelectionCells || s.WholeTable() {
		return false
	}
	c := s.Cells
	return c.StartRow == c.EndRow && c.StartCol == 0 && c.EndCol == c.TableCols-1
}
