package command

import (
	"errors"
	"testing"

	"github.com/inkstone/inkstone/internal/doctree"
)

func insertCommand(text string) Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		tx.InsertText(sel.From, text)
		return tx, nil
	}
}

func TestCreateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"heading1", "createHeading1"},
		{"image", "createImage"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CreateName(tt.in); got != tt.want {
			t.Errorf("CreateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveTwoStep(t *testing.T) {
	r := NewResolver(map[string]Command{
		"strong":         insertCommand("*"),
		"createHeading1": insertCommand("#"),
	})

	if _, err := r.Resolve("strong"); err != nil {
		t.Errorf("literal name should resolve: %v", err)
	}
	if _, err := r.Resolve("heading1"); err != nil {
		t.Errorf("create-fallback should resolve: %v", err)
	}
	if _, err := r.Resolve("table"); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("missing command: err = %v, want ErrNotAvailable", err)
	}
}

// Anything listed as available must resolve; the resolver can never answer
// ErrNotAvailable for a listed name.
func TestAvailableRoundTrip(t *testing.T) {
	r := NewResolver(map[string]Command{
		"strong":      insertCommand("*"),
		"em":          insertCommand("_"),
		"createEmbed": insertCommand("@"),
	})

	for _, name := range r.Available() {
		if _, err := r.Resolve(name); err != nil {
			t.Errorf("Resolve(%q) = %v for a listed command", name, err)
		}
		if !r.Has(name) {
			t.Errorf("Has(%q) = false for a listed command", name)
		}
	}
}

func TestExecute(t *testing.T) {
	r := NewResolver(map[string]Command{"strong": insertCommand("*")})

	doc, err := doctree.New([]*doctree.Node{doctree.TextBlock("paragraph", "hi", nil)}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tx, err := r.Execute("strong", nil, doc, doctree.Caret(0))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(tx.Steps) != 1 {
		t.Errorf("steps = %d, want 1", len(tx.Steps))
	}

	if _, err := r.Execute("missing", nil, doc, doctree.Caret(0)); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Execute(missing): err = %v, want ErrNotAvailable", err)
	}
}

func TestReplaceSwapsTable(t *testing.T) {
	r := NewResolver(map[string]Command{"strong": insertCommand("*")})
	r.Replace(map[string]Command{"em": insertCommand("_")})

	if r.Has("strong") {
		t.Error("old table entry should be gone after Replace")
	}
	if !r.Has("em") {
		t.Error("new table entry should resolve after Replace")
	}
}
