// Package term hosts the editor in a terminal: a tcell screen that feeds the
// keyboard and pointer streams the overlay controllers subscribe to, and a
// grapheme-aware measurer that maps document positions to screen cells.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/inkstone/inkstone/internal/event"
	"github.com/inkstone/inkstone/internal/key"
	"github.com/inkstone/inkstone/internal/overlay"
)

// Screen wraps a tcell screen and converts its events onto the shared key and
// pointer streams.
type Screen struct {
	screen tcell.Screen
	keys   *event.Stream[key.Event]
	ptr    *event.Stream[event.Pointer]

	mu       sync.Mutex
	onResize func(overlay.Size)

	buttonDown bool
	closeOnce  sync.Once
}

// NewScreen creates a screen host over a fresh tcell screen.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newScreen(screen), nil
}

func newScreen(screen tcell.Screen) *Screen {
	return &Screen{
		screen: screen,
		keys:   event.NewStream[key.Event](),
		ptr:    event.NewStream[event.Pointer](),
	}
}

// Init initializes the terminal and enables mouse and bracketed paste.
func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	s.screen.EnablePaste()
	return nil
}

// Keys returns the keyboard stream.
func (s *Screen) Keys() *event.Stream[key.Event] { return s.keys }

// Pointer returns the pointer stream.
func (s *Screen) Pointer() *event.Stream[event.Pointer] { return s.ptr }

// Viewport returns the current terminal size.
func (s *Screen) Viewport() overlay.Size {
	w, h := s.screen.Size()
	return overlay.Size{Width: w, Height: h}
}

// OnResize registers a callback invoked from the event loop on resize.
func (s *Screen) OnResize(fn func(overlay.Size)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onResize = fn
}

// Run pumps terminal events onto the streams until the screen is closed.
func (s *Screen) Run() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		s.dispatch(ev)
	}
}

func (s *Screen) dispatch(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if kev, ok := convertKey(e); ok {
			s.keys.Emit(kev)
		}

	case *tcell.EventMouse:
		if pev, ok := s.convertPointer(e); ok {
			s.ptr.Emit(pev)
		}

	case *tcell.EventResize:
		w, h := e.Size()
		s.mu.Lock()
		fn := s.onResize
		s.mu.Unlock()
		if fn != nil {
			fn(overlay.Size{Width: w, Height: h})
		}
	}
}

// Clear erases the screen buffer.
func (s *Screen) Clear() {
	s.screen.Clear()
}

// Show flushes the screen buffer to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// SetText writes a string starting at the given cell. Highlighted text is
// drawn reversed.
func (s *Screen) SetText(x, y int, text string, highlight bool) {
	style := tcell.StyleDefault
	if highlight {
		style = style.Reverse(true)
	}
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		s.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
}

// ShowCursor moves the terminal cursor.
func (s *Screen) ShowCursor(x, y int) {
	s.screen.ShowCursor(x, y)
}

// Close shuts the terminal down. Run returns once the screen is finalized.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		s.screen.Fini()
	})
}

// convertKey maps a tcell key event onto the editing key surface. Keys the
// overlays do not handle are dropped.
func convertKey(e *tcell.EventKey) (key.Event, bool) {
	mods := convertModifiers(e.Modifiers())

	switch e.Key() {
	case tcell.KeyEscape:
		return key.Event{Key: key.KeyEscape, Modifiers: mods}, true
	case tcell.KeyEnter:
		return key.Event{Key: key.KeyEnter, Modifiers: mods}, true
	case tcell.KeyTab:
		return key.Event{Key: key.KeyTab, Modifiers: mods}, true
	case tcell.KeyBacktab:
		return key.Event{Key: key.KeyTab, Modifiers: mods | key.ModShift}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Event{Key: key.KeyBackspace, Modifiers: mods}, true
	case tcell.KeyUp:
		return key.Event{Key: key.KeyUp, Modifiers: mods}, true
	case tcell.KeyDown:
		return key.Event{Key: key.KeyDown, Modifiers: mods}, true
	case tcell.KeyLeft:
		return key.Event{Key: key.KeyLeft, Modifiers: mods}, true
	case tcell.KeyRight:
		return key.Event{Key: key.KeyRight, Modifiers: mods}, true
	case tcell.KeyCtrlP:
		return key.Event{Key: key.KeyRune, Rune: 'p', Modifiers: mods | key.ModCtrl}, true
	case tcell.KeyCtrlN:
		return key.Event{Key: key.KeyRune, Rune: 'n', Modifiers: mods | key.ModCtrl}, true
	case tcell.KeyRune:
		return key.Event{Key: key.KeyRune, Rune: e.Rune(), Modifiers: mods}, true
	default:
		return key.Event{}, false
	}
}

// convertPointer maps a tcell mouse event to a pointer event. Down and up are
// reported on primary-button transitions; everything else is motion.
func (s *Screen) convertPointer(e *tcell.EventMouse) (event.Pointer, bool) {
	x, y := e.Position()
	pressed := e.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !s.buttonDown:
		s.buttonDown = true
		return event.Pointer{X: x, Y: y, Kind: event.PointerDown}, true
	case !pressed && s.buttonDown:
		s.buttonDown = false
		return event.Pointer{X: x, Y: y, Kind: event.PointerUp}, true
	case e.Buttons() != tcell.ButtonNone && !pressed:
		return event.Pointer{}, false
	default:
		return event.Pointer{X: x, Y: y, Kind: event.PointerMove}, true
	}
}

func convertModifiers(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= key.ModAlt
	}
	return out
}
