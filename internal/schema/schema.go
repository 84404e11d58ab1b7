// Package schema declares the extension descriptors that compose into a
// document schema and a name-keyed command table. Registration is pure and
// idempotent: the registry is rebuilt from scratch whenever the active
// extension set changes.
package schema

import (
	"fmt"

	"github.com/inkstone/inkstone/internal/command"
)

// Kind classifies an extension descriptor.
type Kind uint8

const (
	// KindNode declares a document node type.
	KindNode Kind = iota

	// KindMark declares an inline mark type.
	KindMark

	// KindEmbed declares an embed: a node created from a pasted or typed
	// URL matched by the descriptor's Matcher.
	KindEmbed

	// KindPlugin declares behavior only, no node or mark type.
	KindPlugin
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindMark:
		return "mark"
	case KindEmbed:
		return "embed"
	case KindPlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// Descriptor identifies one extension: a node, mark, embed, or plugin, plus
// the commands it contributes to the command table.
type Descriptor struct {
	// Name is the unique extension name, also the node/mark type name.
	Name string

	// Kind classifies the descriptor.
	Kind Kind

	// Title is the display title used by suggestion candidates. Embeds
	// without a title are not offered as candidates.
	Title string

	// Keywords are additional search terms for candidate filtering.
	Keywords string

	// DefaultHidden keeps the extension's candidate out of the suggestion
	// list until the user types a matching search.
	DefaultHidden bool

	// Matcher validates a URL for embed descriptors.
	Matcher func(url string) bool

	// Commands maps command names to implementations.
	Commands map[string]command.Command
}

// DuplicateCommandError reports two active descriptors declaring the same
// command name. This is a registry misconfiguration, fatal at build time.
type DuplicateCommandError struct {
	Command string
	First   string
	Second  string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("schema: duplicate command %q declared by %q and %q",
		e.Command, e.First, e.Second)
}

// Schema is the read-only union of the registered node and mark types.
type Schema struct {
	nodes   map[string]*Descriptor
	marks   map[string]*Descriptor
	ordered []*Descriptor
}

// HasNode reports whether a node type is registered.
func (s *Schema) HasNode(name string) bool {
	_, ok := s.nodes[name]
	return ok
}

// HasMark reports whether a mark type is registered.
func (s *Schema) HasMark(name string) bool {
	_, ok := s.marks[name]
	return ok
}

// Embeds returns the embed descriptors in registration order.
func (s *Schema) Embeds() []*Descriptor {
	var out []*Descriptor
	for _, d := range s.ordered {
		if d.Kind == KindEmbed {
			out = append(out, d)
		}
	}
	return out
}

// Descriptors returns all registered descriptors in registration order.
func (s *Schema) Descriptors() []*Descriptor {
	return s.ordered
}

// Register builds the schema and command table from the active descriptor
// set. A disabled extension is simply absent from the input: its commands do
// not appear in the table at all. Descriptors declaring a command name that
// is already taken fail with DuplicateCommandError.
func Register(descriptors []*Descriptor) (*Schema, map[string]command.Command, error) {
	s := &Schema{
		nodes: make(map[string]*Descriptor),
		marks: make(map[string]*Descriptor),
	}
	commands := make(map[string]command.Command)
	owner := make(map[string]string)

	for _, d := range descriptors {
		switch d.Kind {
		case KindNode, KindEmbed:
			s.nodes[d.Name] = d
		case KindMark:
			s.marks[d.Name] = d
		}
		s.ordered = append(s.ordered, d)

		for name, cmd := range d.Commands {
			if prev, ok := owner[name]; ok {
				return nil, nil, &DuplicateCommandError{
					Command: name,
					First:   prev,
					Second:  d.Name,
				}
			}
			owner[name] = d.Name
			commands[name] = cmd
		}
	}
	return s, commands, nil
}
