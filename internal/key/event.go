package key

import "unicode"

// Event is a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates an event for a character key.
func NewRuneEvent(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// NewEvent creates an event for a special key.
func NewEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsChar returns true for a printable, unmodified character key.
func (e Event) IsChar() bool {
	if e.Key != KeyRune || !unicode.IsPrint(e.Rune) {
		return false
	}
	return !e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModAlt)
}

// IsNext reports whether the event is one of the "move to next candidate"
// chords: Down, Tab, or Ctrl+N.
func (e Event) IsNext() bool {
	switch {
	case e.Key == KeyDown:
		return true
	case e.Key == KeyTab && !e.Modifiers.Has(ModShift):
		return true
	case e.Key == KeyRune && e.Rune == 'n' && e.Modifiers.Has(ModCtrl):
		return true
	}
	return false
}

// IsPrev reports whether the event is one of the "move to previous candidate"
// chords: Up, Shift+Tab, or Ctrl+P.
func (e Event) IsPrev() bool {
	switch {
	case e.Key == KeyUp:
		return true
	case e.Key == KeyTab && e.Modifiers.Has(ModShift):
		return true
	case e.Key == KeyRune && e.Rune == 'p' && e.Modifiers.Has(ModCtrl):
		return true
	}
	return false
}
