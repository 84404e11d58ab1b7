// Package luaext loads extension descriptors from Lua scripts. A script runs
// in a sandboxed interpreter and returns a descriptor table; its commands are
// declared as data (mark toggles, block retypes, atomic inserts) rather than
// Lua functions, so the command table stays pure Go.
//
// A minimal node script:
//
//	return {
//	    name = "callout",
//	    kind = "node",
//	    title = "Callout",
//	    commands = {
//	        createCallout = { action = "setBlockType", type = "callout" },
//	    },
//	}
//
// Embed scripts declare hosts instead of commands and get a create command
// generated for them.
package luaext

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/schema"
)

// Load runs one extension script and returns its descriptor.
func Load(path string) (*schema.Descriptor, error) {
	L := newSandboxedState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("luaext: %s: %w", filepath.Base(path), err)
	}
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("luaext: %s: %w", filepath.Base(path), ErrNoDescriptor)
	}
	d, err := descriptorFromTable(tbl)
	if err != nil {
		return nil, fmt.Errorf("luaext: %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// LoadDir loads every .lua script in dir, in filename order.
func LoadDir(dir string) ([]*schema.Descriptor, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var out []*schema.Descriptor
	for _, path := range paths {
		d, err := Load(path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// newSandboxedState opens only the safe libraries and strips the loading
// primitives, so scripts cannot reach the filesystem or other modules.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// The Open* calls leave their library tables on the stack; clear it so
	// the script's return value is the only thing Get(-1) can see.
	L.SetTop(0)
	return L
}

func descriptorFromTable(tbl *lua.LTable) (*schema.Descriptor, error) {
	name := stringField(tbl, "name")
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrBadDescriptor)
	}
	kind, err := parseKind(stringField(tbl, "kind"))
	if err != nil {
		return nil, err
	}

	d := &schema.Descriptor{
		Name:          name,
		Kind:          kind,
		Title:         stringField(tbl, "title"),
		Keywords:      stringField(tbl, "keywords"),
		DefaultHidden: boolField(tbl, "hidden"),
	}

	if kind == schema.KindEmbed {
		hosts := stringList(tbl, "hosts")
		if len(hosts) == 0 {
			return nil, fmt.Errorf("%w: embed %q declares no hosts", ErrBadDescriptor, name)
		}
		d.Matcher = hostMatcher(hosts)
		d.Commands = map[string]command.Command{
			command.CreateName(name): insertAtomic(name, "href"),
		}
		return d, nil
	}

	if commands, ok := tbl.RawGetString("commands").(*lua.LTable); ok {
		d.Commands = make(map[string]command.Command)
		var cmdErr error
		commands.ForEach(func(k, v lua.LValue) {
			if cmdErr != nil {
				return
			}
			spec, ok := v.(*lua.LTable)
			if !ok {
				cmdErr = fmt.Errorf("%w: command %q is not a table", ErrBadDescriptor, k.String())
				return
			}
			cmd, err := buildCommand(spec)
			if err != nil {
				cmdErr = fmt.Errorf("command %q: %w", k.String(), err)
				return
			}
			d.Commands[k.String()] = cmd
		})
		if cmdErr != nil {
			return nil, cmdErr
		}
	}
	return d, nil
}

func parseKind(s string) (schema.Kind, error) {
	switch s {
	case "node":
		return schema.KindNode, nil
	case "mark":
		return schema.KindMark, nil
	case "embed":
		return schema.KindEmbed, nil
	case "plugin":
		return schema.KindPlugin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadKind, s)
	}
}

// buildCommand maps a declared action to a command implementation.
func buildCommand(spec *lua.LTable) (command.Command, error) {
	action := stringField(spec, "action")
	switch action {
	case "toggleMark":
		markType := stringField(spec, "type")
		if markType == "" {
			return nil, fmt.Errorf("%w: toggleMark needs a type", ErrBadAction)
		}
		return toggleMark(markType), nil

	case "setBlockType":
		nodeType := stringField(spec, "type")
		if nodeType == "" {
			return nil, fmt.Errorf("%w: setBlockType needs a type", ErrBadAction)
		}
		return setBlockType(nodeType, attrsField(spec, "attrs")), nil

	case "insertAtomic":
		nodeType := stringField(spec, "type")
		if nodeType == "" {
			return nil, fmt.Errorf("%w: insertAtomic needs a type", ErrBadAction)
		}
		return insertAtomic(nodeType, stringList(spec, "attrs")...), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrBadAction, action)
	}
}

func toggleMark(markType string) command.Command {
	return func(doc *doctree.Document, sel doctree.Selection, args map[string]any) (doctree.Transaction, error) {
		var tx doctree.Transaction
		if sel.IsEmpty() {
			return tx, nil
		}
		if _, ok := doc.MarkAt(sel.From, markType); ok {
			tx.RemoveMark(sel.From, sel.To, markType)
		} else {
			tx.AddMark(sel.From, sel.To, doctree.Mark{Type: markType})
		}
		return tx, nil
	}
}

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

func hostMatcher(hosts []string) func(url string) bool {
	return func(url string) bool {
		for _, host := range hosts {
			if strings.Contains(url, host) {
				return true
			}
		}
		return false
	}
}

func stringField(tbl *lua.LTable, name string) string {
	if v, ok := tbl.RawGetString(name).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func boolField(tbl *lua.LTable, name string) bool {
	return tbl.RawGetString(name) == lua.LTrue
}

func stringList(tbl *lua.LTable, name string) []string {
	list, ok := tbl.RawGetString(name).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	list.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

func attrsField(tbl *lua.LTable, name string) doctree.Attrs {
	spec, ok := tbl.RawGetString(name).(*lua.LTable)
	if !ok {
		return nil
	}
	attrs := make(doctree.Attrs)
	spec.ForEach(func(k, v lua.LValue) {
		key := k.String()
		switch val := v.(type) {
		case lua.LString:
			attrs[key] = string(val)
		case lua.LNumber:
			attrs[key] = float64(val)
		case lua.LBool:
			attrs[key] = bool(val)
		}
	})
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
