package doctree

import "testing"

type allTypes struct{}

func (allTypes) HasNode(string) bool { return true }
func (allTypes) HasMark(string) bool { return true }

type noTypes struct{}

func (noTypes) HasNode(string) bool { return false }
func (noTypes) HasMark(string) bool { return false }

func mustDoc(t *testing.T, blocks ...*Node) *Document {
	t.Helper()
	d, err := New(blocks, allTypes{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewValidatesTypes(t *testing.T) {
	if _, err := New([]*Node{TextBlock("paragraph", "hi", nil)}, noTypes{}); err != ErrUnknownType {
		t.Errorf("New with unregistered type: err = %v, want ErrUnknownType", err)
	}
}

func TestTextAndLen(t *testing.T) {
	d := mustDoc(t,
		TextBlock("paragraph", "hello", nil),
		AtomicBlock("hr", nil),
		TextBlock("paragraph", "world", nil),
	)
	if got := d.Text(); got != "hello\n￼\nworld" {
		t.Errorf("Text() = %q", got)
	}
	if got, want := d.Len(), 13; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestInsertText(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "heo", nil))
	tx := new(Transaction).InsertText(2, "ll")
	next, err := tx.Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}
	if d.Text() != "heo" {
		t.Error("original document was mutated")
	}
	if next.Version() != d.Version()+1 {
		t.Errorf("Version() = %d, want %d", next.Version(), d.Version()+1)
	}
}

func TestInsertTextInheritsMarks(t *testing.T) {
	bold := Mark{Type: "strong"}
	block := &Node{Type: "paragraph", Spans: []Span{
		{Text: "ab", Marks: []Mark{bold}},
		{Text: "cd"},
	}}
	d := mustDoc(t, block)

	next, err := new(Transaction).InsertText(1, "X").Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok := next.MarkAt(1, "strong"); !ok {
		t.Error("inserted text should carry the surrounding strong mark")
	}
}

func TestDeleteWithinBlock(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "hello world", nil))
	next, err := new(Transaction).Delete(5, 11).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}
}

func TestDeleteAcrossBlocksMerges(t *testing.T) {
	d := mustDoc(t,
		TextBlock("paragraph", "abc", nil),
		TextBlock("paragraph", "def", nil),
	)
	// Delete "c", the boundary, and "d": blocks merge.
	next, err := new(Transaction).Delete(2, 5).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "abef" {
		t.Errorf("Text() = %q, want %q", got, "abef")
	}
	if got := len(next.Blocks()); got != 1 {
		t.Errorf("blocks = %d, want 1", got)
	}
}

func TestDeleteAtomicBlock(t *testing.T) {
	d := mustDoc(t,
		TextBlock("paragraph", "abc", nil),
		AtomicBlock("hr", nil),
		TextBlock("paragraph", "def", nil),
	)
	// Covers only the hr position.
	next, err := new(Transaction).Delete(4, 5).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "abc\ndef" {
		t.Errorf("Text() = %q, want %q", got, "abc\ndef")
	}
}

func TestDeleteEverythingLeavesEmptyParagraph(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "abc", nil))
	next, err := new(Transaction).Delete(0, 3).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := len(next.Blocks()); got != 1 {
		t.Fatalf("blocks = %d, want 1", got)
	}
	if next.Len() != 0 {
		t.Errorf("Len() = %d, want 0", next.Len())
	}
}

func TestMarksAndExtent(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "click here please", nil))
	link := Mark{Type: "link", Attrs: Attrs{"href": "https://example.com"}}

	next, err := new(Transaction).AddMark(6, 10, link).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if _, ok := next.MarkAt(7, "link"); !ok {
		t.Fatal("MarkAt(7) should find the link")
	}
	if _, ok := next.MarkAt(3, "link"); ok {
		t.Fatal("MarkAt(3) should not find the link")
	}

	extent, ok := next.MarkExtent(8, "link")
	if !ok {
		t.Fatal("MarkExtent should find the link run")
	}
	if extent != (Range{From: 6, To: 10}) {
		t.Errorf("MarkExtent = %+v, want {6 10}", extent)
	}

	// Removing the mark restores plain text.
	plain, err := new(Transaction).RemoveMark(6, 10, "link").Apply(next)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok := plain.MarkAt(7, "link"); ok {
		t.Error("link should be removed")
	}
	if got := len(plain.Blocks()[0].Spans); got != 1 {
		t.Errorf("spans after remove = %d, want 1 (normalized)", got)
	}
}

func TestSplitBlock(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "hello world", nil))
	next, err := new(Transaction).SplitBlock(5).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "hello\n world" {
		t.Errorf("Text() = %q", got)
	}
}

func TestInsertBlock(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "abc", nil))
	next, err := new(Transaction).InsertBlock(1, AtomicBlock("hr", nil)).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := next.Text(); got != "abc\n￼" {
		t.Errorf("Text() = %q", got)
	}
}

func TestSetAttrs(t *testing.T) {
	d := mustDoc(t, TextBlock("heading", "title", Attrs{"level": 1}))
	next, err := new(Transaction).SetAttrs(0, Attrs{"level": 2}).Apply(d)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := next.BlockAt(0)
	if err != nil {
		t.Fatalf("BlockAt: %v", err)
	}
	if b.Attrs["level"] != 2 {
		t.Errorf("level = %v, want 2", b.Attrs["level"])
	}
}

func TestTransactionSelection(t *testing.T) {
	tx := new(Transaction).InsertText(0, "x").SetSelection(Caret(1))
	if tx.Sel == nil || tx.Sel.From != 1 {
		t.Error("SetSelection should record the resulting selection")
	}
}

func TestSelectionShapes(t *testing.T) {
	if s := TextRange(9, 4); s.From != 4 || s.To != 9 {
		t.Errorf("TextRange should normalize, got %+v", s)
	}

	table := CellRange{TableRows: 3, TableCols: 4}

	whole := table
	whole.EndRow, whole.EndCol = 2, 3
	if sel := CellSelection(0, 10, whole); !sel.WholeTable() || sel.SingleRow() || sel.SingleColumn() {
		t.Error("full-rectangle selection should be whole-table only")
	}

	row := table
	row.StartRow, row.EndRow, row.EndCol = 1, 1, 3
	if sel := CellSelection(0, 10, row); !sel.SingleRow() || sel.WholeTable() || sel.SingleColumn() {
		t.Error("one full row should be a row selection only")
	}

	col := table
	col.StartCol, col.EndCol, col.EndRow = 2, 2, 2
	if sel := CellSelection(0, 10, col); !sel.SingleColumn() || sel.WholeTable() || sel.SingleRow() {
		t.Error("one full column should be a column selection only")
	}
}

func TestHasNonEmptyContent(t *testing.T) {
	d := mustDoc(t,
		TextBlock("paragraph", "   ", nil),
		TextBlock("paragraph", "text", nil),
	)
	if d.HasNonEmptyContent(0, 3) {
		t.Error("whitespace-only range should be empty")
	}
	if !d.HasNonEmptyContent(0, 6) {
		t.Error("range touching text should be non-empty")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	link := Mark{Type: "link", Attrs: Attrs{"href": "https://example.com"}}
	d := mustDoc(t,
		&Node{Type: "paragraph", Spans: []Span{
			{Text: "see "},
			{Text: "docs", Marks: []Mark{link}},
		}},
		AtomicBlock("image", Attrs{"src": "a.png"}),
	)

	data, err := EncodeJSON(d)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	back, err := DecodeJSON(data, allTypes{})
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if back.Text() != d.Text() {
		t.Errorf("round-trip text = %q, want %q", back.Text(), d.Text())
	}
	if _, ok := back.MarkAt(5, "link"); !ok {
		t.Error("round-trip should preserve the link mark")
	}
}

func TestPositionInvalid(t *testing.T) {
	d := mustDoc(t, TextBlock("paragraph", "abc", nil))
	if _, err := d.BlockAt(99); err != ErrPositionInvalid {
		t.Errorf("BlockAt(99): err = %v, want ErrPositionInvalid", err)
	}
	if _, err := new(Transaction).Delete(0, 99).Apply(d); err != ErrPositionInvalid {
		t.Errorf("Delete(0,99): err = %v, want ErrPositionInvalid", err)
	}
}
