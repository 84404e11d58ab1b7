package luaext

import "errors"

// ErrNoDescriptor indicates the script did not return a descriptor table.
var ErrNoDescriptor = errors.New("luaext: script returned no descriptor")

// ErrBadDescriptor indicates the returned table is missing required fields.
var ErrBadDescriptor = errors.New("luaext: bad descriptor")

// ErrBadKind indicates an unknown descriptor kind.
var ErrBadKind = errors.New("luaext: bad kind")

// ErrBadAction indicates an unknown or incomplete command action.
var ErrBadAction = errors.New("luaext: bad action")
