package key

import "testing"

func TestChordAliases(t *testing.T) {
	tests := []struct {
		name     string
		ev       Event
		wantNext bool
		wantPrev bool
	}{
		{"down", NewEvent(KeyDown, ModNone), true, false},
		{"tab", NewEvent(KeyTab, ModNone), true, false},
		{"ctrl-n", Event{Key: KeyRune, Rune: 'n', Modifiers: ModCtrl}, true, false},
		{"up", NewEvent(KeyUp, ModNone), false, true},
		{"shift-tab", NewEvent(KeyTab, ModShift), false, true},
		{"ctrl-p", Event{Key: KeyRune, Rune: 'p', Modifiers: ModCtrl}, false, true},
		{"plain n", NewRuneEvent('n'), false, false},
		{"enter", NewEvent(KeyEnter, ModNone), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsNext(); got != tt.wantNext {
				t.Errorf("IsNext() = %v, want %v", got, tt.wantNext)
			}
			if got := tt.ev.IsPrev(); got != tt.wantPrev {
				t.Errorf("IsPrev() = %v, want %v", got, tt.wantPrev)
			}
		})
	}
}

func TestIsChar(t *testing.T) {
	if !NewRuneEvent('a').IsChar() {
		t.Error("plain rune should be a character")
	}
	if (Event{Key: KeyRune, Rune: 'n', Modifiers: ModCtrl}).IsChar() {
		t.Error("Ctrl-modified rune should not be a character")
	}
	if NewEvent(KeyEnter, ModNone).IsChar() {
		t.Error("special key should not be a character")
	}
}
