package schema

import (
	"errors"

	"github.com/google/uuid"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/doctree"
)

var errNotInTable = errors.New("schema: selection is not inside a table")

// argString reads a string argument with a default.
func argString(args map[string]any, name, def string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return def
}

// argInt reads an int argument with a default.
func argInt(args map[string]any, name string, def int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// rangeFromArgs returns the range a command should act on: explicit from/to
// arguments when supplied (the link editor rewrites exact stored ranges), the
// selection otherwise.
func rangeFromArgs(args map[string]any, sel doctree.Selection) (int, int) {
	from := argInt(args, "from", sel.From)
	to := argInt(args, "to", sel.To)
	if from > to {
		from, to = to, from
	}
	return from, to
}

// toggleMark builds a command toggling a mark over the selection.
func toggleMark(markType string) command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		from, to := rangeFromArgs(args, sel)
		if from == to {
			return tx, nil
		}
		if _, ok := doc.MarkAt(from, markType); ok {
			tx.RemoveMark(from, to, markType)
		} else {
			tx.AddMark(from, to, doctree.Mark{Type: markType})
		}
		return tx, nil
	}
}

// linkCommand applies a link mark with the given href over the target range.
// An empty href removes the mark instead.
func linkCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		from, to := rangeFromArgs(args, sel)
		if from == to {
			return tx, nil
		}
		href := argString(args, "href", "")
		if href == "" {
			tx.RemoveMark(from, to, "link")
			return tx, nil
		}
		tx.AddMark(from, to, doctree.Mark{Type: "link", Attrs: doctree.Attrs{"href": href}})
		return tx, nil
	}
}

// setBlockType builds a command retyping the selected block.
func setBlockType(nodeType string, attrs doctree.Attrs) command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		tx.SetBlockType(sel.From, nodeType)
		if len(attrs) > 0 {
			tx.SetAttrs(sel.From, attrs)
		}
		return tx, nil
	}
}

// insertAtomic builds a command inserting an atomic block after the current
// one, copying the named arguments into the block attributes.
func insertAtomic(nodeType string, attrNames ...string) command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		var attrs doctree.Attrs
		for _, name := range attrNames {
			if v, ok := args[name]; ok {
				if attrs == nil {
					attrs = make(doctree.Attrs)
				}
				attrs[name] = v
			}
		}
		tx.InsertBlock(sel.From, doctree.AtomicBlock(nodeType, attrs))
		return tx, nil
	}
}

// deleteNode builds a command removing the selected block node.
func deleteNode() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		if sel.Kind != doctree.SelectionNode {
			return tx, nil
		}
		tx.Delete(sel.From, sel.To)
		tx.SetSelection(doctree.Caret(sel.From))
		return tx, nil
	}
}

// mentionCommand inserts the mentioned name as marked text carrying a fresh
// mention identifier.
func mentionCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		label := argString(args, "label", "@unknown")
		tx.Delete(sel.From, sel.To)
		tx.InsertText(sel.From, label)
		tx.AddMark(sel.From, sel.From+len([]rune(label)), doctree.Mark{
			Type: "mention",
			Attrs: doctree.Attrs{
				"id":      uuid.NewString(),
				"modelId": argString(args, "modelId", ""),
			},
		})
		return tx, nil
	}
}

// commentCommand marks the selection with a fresh comment identifier.
func commentCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		if sel.IsEmpty() {
			return tx, nil
		}
		tx.AddMark(sel.From, sel.To, doctree.Mark{
			Type:  "comment",
			Attrs: doctree.Attrs{"id": uuid.NewString()},
		})
		return tx, nil
	}
}

// newTable builds a rows x cols table node.
func newTable(rows, cols int) *doctree.Node {
	table := &doctree.Node{Type: "table", Atomic: true}
	for r := 0; r < rows; r++ {
		row := &doctree.Node{Type: "tr"}
		for c := 0; c < cols; c++ {
			row.Children = append(row.Children, &doctree.Node{Type: "td", Spans: []doctree.Span{}})
		}
		table.Children = append(table.Children, row)
	}
	return table
}

// tableAt returns the table block at the selection.
func tableAt(doc *doctree.Document, sel doctree.Selection) (*doctree.Node, error) {
	b, err := doc.BlockAt(sel.From)
	if err != nil {
		return nil, err
	}
	if b.Type != "table" {
		return nil, errNotInTable
	}
	return b, nil
}

// cloneTable deep-copies a table through the codec-independent node API.
func cloneTable(table *doctree.Node) *doctree.Node {
	out := &doctree.Node{Type: table.Type, Atomic: true}
	for _, row := range table.Children {
		newRow := &doctree.Node{Type: row.Type}
		for _, cell := range row.Children {
			newCell := &doctree.Node{Type: cell.Type}
			newCell.Spans = append(newCell.Spans, cell.Spans...)
			newRow.Children = append(newRow.Children, newCell)
		}
		out.Children = append(out.Children, newRow)
	}
	return out
}

// createTableCommand inserts a fresh table after the current block.
func createTableCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		rows := argInt(args, "rowsCount", 3)
		cols := argInt(args, "columnsCount", 3)
		tx.InsertBlock(sel.From, newTable(rows, cols))
		return tx, nil
	}
}

// addRowCommand inserts a row after the given index.
func addRowCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		table, err := tableAt(doc, sel)
		if err != nil {
			return tx, err
		}
		idx := argInt(args, "index", len(table.Children)-1)
		next := cloneTable(table)

		cols := 0
		if len(next.Children) > 0 {
			cols = len(next.Children[0].Children)
		}
		row := &doctree.Node{Type: "tr"}
		for c := 0; c < cols; c++ {
			row.Children = append(row.Children, &doctree.Node{Type: "td"})
		}
		if idx < 0 || idx >= len(next.Children) {
			idx = len(next.Children) - 1
		}
		rows := make([]*doctree.Node, 0, len(next.Children)+1)
		rows = append(rows, next.Children[:idx+1]...)
		rows = append(rows, row)
		rows = append(rows, next.Children[idx+1:]...)
		next.Children = rows

		tx.ReplaceBlock(sel.From, next)
		return tx, nil
	}
}

// addColumnCommand inserts a column after the given index.
func addColumnCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		table, err := tableAt(doc, sel)
		if err != nil {
			return tx, err
		}
		idx := argInt(args, "index", 0)
		next := cloneTable(table)
		for _, row := range next.Children {
			at := idx
			if at < 0 || at >= len(row.Children) {
				at = len(row.Children) - 1
			}
			cells := make([]*doctree.Node, 0, len(row.Children)+1)
			cells = append(cells, row.Children[:at+1]...)
			cells = append(cells, &doctree.Node{Type: "td"})
			cells = append(cells, row.Children[at+1:]...)
			row.Children = cells
		}
		tx.ReplaceBlock(sel.From, next)
		return tx, nil
	}
}

// deleteRowCommand removes the row at the given index.
func deleteRowCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		table, err := tableAt(doc, sel)
		if err != nil {
			return tx, err
		}
		idx := argInt(args, "index", 0)
		next := cloneTable(table)
		if idx >= 0 && idx < len(next.Children) {
			next.Children = append(next.Children[:idx], next.Children[idx+1:]...)
		}
		tx.ReplaceBlock(sel.From, next)
		return tx, nil
	}
}

// deleteColumnCommand removes the column at the given index.
func deleteColumnCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		table, err := tableAt(doc, sel)
		if err != nil {
			return tx, err
		}
		idx := argInt(args, "index", 0)
		next := cloneTable(table)
		for _, row := range next.Children {
			if idx >= 0 && idx < len(row.Children) {
				row.Children = append(row.Children[:idx], row.Children[idx+1:]...)
			}
		}
		tx.ReplaceBlock(sel.From, next)
		return tx, nil
	}
}

// deleteTableCommand removes the whole table block.
func deleteTableCommand() command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		if _, err := tableAt(doc, sel); err != nil {
			return tx, err
		}
		tx.Delete(sel.From, sel.From+1)
		return tx, nil
	}
}
