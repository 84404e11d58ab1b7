// Package command resolves command names against the active extension set and
// executes them transactionally. Resolution is a declared two-step policy:
// the literal name first, then the capitalized create-fallback, so both names
// are first-class lookup keys.
package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"unicode"

	"github.com/inkstone/inkstone/internal/doctree"
)

// ErrNotAvailable indicates the requested command is absent from the active
// extension set. Callers omit the corresponding UI affordance; this is never
// surfaced to the user.
var ErrNotAvailable = errors.New("command: not available")

// Command is a pure function of the current document, selection, and
// arguments. Any I/O (uploads, link creation) happens in the caller before or
// after invoking the command, never inside it.
type Command func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error)

// CreateName returns the create-fallback lookup key for an item name,
// e.g. "heading1" -> "createHeading1".
func CreateName(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return "create" + string(runes)
}

// Resolver maps command names to commands. The table is rebuilt wholesale
// whenever the active extension set changes.
type Resolver struct {
	mu    sync.RWMutex
	table map[string]Command
}

// NewResolver creates a resolver over a command table, typically the table
// produced by schema.Register.
func NewResolver(table map[string]Command) *Resolver {
	copied := make(map[string]Command, len(table))
	for name, cmd := range table {
		copied[name] = cmd
	}
	return &Resolver{table: copied}
}

// Replace swaps the entire command table, used when extensions are toggled.
func (r *Resolver) Replace(table map[string]Command) {
	copied := make(map[string]Command, len(table))
	for name, cmd := range table {
		copied[name] = cmd
	}
	r.mu.Lock()
	r.table = copied
	r.mu.Unlock()
}

// Resolve finds the command for name: the literal name first, then the
// create-fallback. Returns ErrNotAvailable when neither key exists.
func (r *Resolver) Resolve(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.table[name]; ok {
		return cmd, nil
	}
	if cmd, ok := r.table[CreateName(name)]; ok {
		return cmd, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotAvailable, name)
}

// Has reports whether name resolves under the two-step policy.
func (r *Resolver) Has(name string) bool {
	_, err := r.Resolve(name)
	return err == nil
}

// Available returns the sorted literal names of the command table.
func (r *Resolver) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute resolves name and runs it against the document and selection,
// returning the transaction to dispatch.
func (r *Resolver) Execute(name string, args map[string]any, doc *doctree.Document, sel doctree.Selection) (doctree.Transaction, error) {
	cmd, err := r.Resolve(name)
	if err != nil {
		return doctree.Transaction{}, err
	}
	tx, err := cmd(doc, sel, args)
	if err != nil {
		return doctree.Transaction{}, fmt.Errorf("command: %s: %w", name, err)
	}
	return tx, nil
}
