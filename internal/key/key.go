// Package key models the keyboard surface the editing overlays listen to:
// Enter, Escape, arrows, Tab/Shift+Tab and the Ctrl+P/Ctrl+N aliases, plus
// plain character input.
package key

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// KeyRune is a character key; the character is in Event.Rune.
	KeyRune
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyRune:
		return "Rune"
	default:
		return "Unknown"
	}
}

// Modifier is a bitmask of modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key.
	ModAlt
)

// Has returns true if m contains the given modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}
