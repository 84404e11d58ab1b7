// Package app wires the editing core together: the document and selection
// state, the command resolver built from the active extension set, and the
// suggestion and toolbar controllers, hosted on a terminal screen.
package app

import (
	"sync"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/config"
	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/event"
	"github.com/inkstone/inkstone/internal/fuzzy"
	"github.com/inkstone/inkstone/internal/key"
	"github.com/inkstone/inkstone/internal/overlay"
	"github.com/inkstone/inkstone/internal/schema"
	"github.com/inkstone/inkstone/internal/suggest"
	"github.com/inkstone/inkstone/internal/term"
	"github.com/inkstone/inkstone/internal/toolbar"
)

// matcherCacheSize bounds the fuzzy score cache shared by the overlays.
const matcherCacheSize = 512

// Options configures a new editor.
type Options struct {
	// Config is the editor configuration.
	Config config.Config

	// Screen hosts the editor in a terminal. Nil runs headless, which the
	// tests use.
	Screen *term.Screen

	// Descriptors overrides the extension set derived from Config.
	Descriptors []*schema.Descriptor
}

// Editor owns the document state and routes input between plain editing and
// the overlay controllers.
type Editor struct {
	mu  sync.Mutex
	cfg config.Config

	doc    *doctree.Document
	sel    doctree.Selection
	anchor int
	toast  string

	schema   *schema.Schema
	resolver *command.Resolver

	suggest *suggest.Controller
	toolbar *toolbar.Controller

	screen  *term.Screen
	measure *term.Measurer

	quit     chan struct{}
	quitOnce sync.Once
	keySub   *event.Subscription
}

// New builds an editor over an empty single-paragraph document.
func New(opts Options) (*Editor, error) {
	descriptors := opts.Descriptors
	if descriptors == nil {
		descriptors = opts.Config.Descriptors()
	}
	s, table, err := schema.Register(descriptors)
	if err != nil {
		return nil, err
	}
	doc, err := doctree.New([]*doctree.Node{
		doctree.TextBlock("paragraph", "", nil),
	}, s)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		cfg:      opts.Config,
		doc:      doc,
		sel:      doctree.Caret(0),
		anchor:   -1,
		schema:   s,
		resolver: command.NewResolver(table),
		screen:   opts.Screen,
		measure:  &term.Measurer{Width: 72},
		quit:     make(chan struct{}),
	}

	e.buildControllers(s)
	return e, nil
}

// buildControllers constructs fresh controllers over the given schema. Called
// at startup and again when the extension set is reloaded.
func (e *Editor) buildControllers(s *schema.Schema) {
	matcher := fuzzy.NewMatcher(matcherCacheSize)
	placement := e.cfg.Overlay()

	var pointer *event.Stream[event.Pointer]
	if e.screen != nil {
		pointer = e.screen.Pointer()
	}

	sg := suggest.NewController(suggest.Host{
		Resolver:  e.resolver,
		Schema:    s,
		Items:     blockItems(),
		Matcher:   matcher,
		HasUpload: e.cfg.Upload,
		Current:   e.Current,
		Dispatch:  e.Dispatch,
		Coords:    e.coords,
		Viewport:  e.viewport,
		Placement: placement,
		Toast:     e.setToast,
		Pointer:   pointer,
	})
	tb := toolbar.NewController(toolbar.Host{
		Resolver:    e.resolver,
		Current:     e.Current,
		Dispatch:    e.Dispatch,
		Coords:      e.coords,
		Viewport:    e.viewport,
		Placement:   placement,
		Toast:       e.setToast,
		IsTemplate:  e.cfg.Template,
		RTL:         e.cfg.RTL,
		DocFocused:  func() bool { return true },
		InTextInput: func() bool { return false },
		Pointer:     pointer,
	})

	e.mu.Lock()
	e.suggest = sg
	e.toolbar = tb
	e.mu.Unlock()
}

// ReloadExtensions swaps in a new extension set: the command table is
// replaced wholesale and the controllers are rebuilt over the new schema.
// Both controllers are driven to inactive first so their window listeners are
// released before the swap orphans them. Runs on the watcher goroutine, so
// the swap itself happens under the editor lock.
func (e *Editor) ReloadExtensions(descriptors []*schema.Descriptor) error {
	s, table, err := schema.Register(descriptors)
	if err != nil {
		return err
	}
	sg, tb := e.controllers()
	sg.Cancel()
	tb.Cancel()
	e.resolver.Replace(table)

	e.mu.Lock()
	e.schema = s
	e.mu.Unlock()

	e.buildControllers(s)
	e.setToast("Extensions reloaded")
	return nil
}

func (e *Editor) controllers() (*suggest.Controller, *toolbar.Controller) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suggest, e.toolbar
}

// Notify surfaces a message on the toast line.
func (e *Editor) Notify(message string) {
	e.setToast(message)
	e.render()
}

// Current returns the current document and selection.
func (e *Editor) Current() (*doctree.Document, doctree.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc, e.sel
}

// Dispatch applies a transaction and adopts its resulting selection. A failed
// transaction leaves the document untouched and surfaces a toast.
func (e *Editor) Dispatch(tx doctree.Transaction) {
	e.mu.Lock()
	next, err := tx.Apply(e.doc)
	if err != nil {
		e.mu.Unlock()
		e.setToast("Edit failed")
		return
	}
	e.doc = next
	if tx.Sel != nil {
		e.sel = *tx.Sel
	} else if e.sel.To > next.Len() {
		e.sel = doctree.Caret(next.Len())
	}
	e.mu.Unlock()
}

// Schema returns the active schema.
func (e *Editor) Schema() *schema.Schema {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.schema
}

// Suggest returns the suggestion controller.
func (e *Editor) Suggest() *suggest.Controller {
	sg, _ := e.controllers()
	return sg
}

// Toolbar returns the toolbar controller.
func (e *Editor) Toolbar() *toolbar.Controller {
	_, tb := e.controllers()
	return tb
}

// Done is closed when the editor quits.
func (e *Editor) Done() <-chan struct{} { return e.quit }

// Quit stops the editor.
func (e *Editor) Quit() {
	e.quitOnce.Do(func() { close(e.quit) })
}

// Toast returns the most recent toast message.
func (e *Editor) Toast() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.toast
}

func (e *Editor) setToast(message string) {
	e.mu.Lock()
	e.toast = message
	e.mu.Unlock()
}

// Run hosts the editor on its screen until quit.
func (e *Editor) Run() error {
	if err := e.screen.Init(); err != nil {
		return err
	}
	defer e.screen.Close()

	e.keySub = e.screen.Keys().Subscribe(e.HandleKey)
	defer e.keySub.Close()
	e.screen.OnResize(func(sz overlay.Size) {
		e.resize(sz)
		e.render()
	})
	e.resize(e.screen.Viewport())

	done := make(chan struct{})
	go func() {
		e.screen.Run()
		close(done)
	}()

	e.render()
	<-e.quit
	e.screen.Close()
	<-done
	return nil
}

func (e *Editor) resize(sz overlay.Size) {
	margin := e.cfg.Margin
	width := sz.Width - 2*margin
	if width < 20 {
		width = sz.Width
		margin = 0
	}
	e.measure = &term.Measurer{Width: width, Left: margin, Top: 1}
}

// HandleKey routes one key event: the suggestion overlay gets first refusal,
// text edits it consumed are mirrored into the document, and everything else
// is plain editing.
func (e *Editor) HandleKey(ev key.Event) {
	sg, tb := e.controllers()
	defer e.render()
	defer tb.Update()

	phase := sg.State().Phase
	switch sg.HandleKey(ev) {
	case suggest.KeyInsertNewline:
		e.insertNewline()
	case suggest.KeyHandled:
		if phase == suggest.PhaseActive {
			e.mirror(ev)
		}
	default:
		e.editKey(ev)
	}
}

// mirror keeps the document in step with search-text edits the suggestion
// overlay consumed, so the trigger and search text stay visible.
func (e *Editor) mirror(ev key.Event) {
	switch {
	case ev.IsChar():
		e.insertRune(ev.Rune)
	case ev.Key == key.KeyBackspace:
		e.backspace()
	}
}

func (e *Editor) editKey(ev key.Event) {
	switch {
	case ev.Key == key.KeyEscape:
		e.Quit()
	case ev.Key == key.KeyEnter:
		e.insertNewline()
	case ev.Key == key.KeyBackspace:
		e.backspace()
	case ev.Key == key.KeyLeft:
		e.moveCaret(-1, ev.Modifiers.Has(key.ModShift))
	case ev.Key == key.KeyRight:
		e.moveCaret(1, ev.Modifiers.Has(key.ModShift))
	case ev.IsChar():
		e.typeRune(ev.Rune)
	}
}

// typeRune inserts a character and opens the suggestion overlay when it is
// the trigger character.
func (e *Editor) typeRune(r rune) {
	at := e.insertRune(r)
	sg, _ := e.controllers()
	if r == e.cfg.Trigger && !sg.Active() {
		sg.Open(doctree.Range{From: at, To: at + 1})
	}
}

func (e *Editor) insertRune(r rune) int {
	_, sel := e.Current()
	var tx doctree.Transaction
	from := sel.From
	if !sel.IsEmpty() {
		tx.Delete(sel.From, sel.To)
	}
	tx.InsertText(from, string(r))
	tx.SetSelection(doctree.Caret(from + 1))
	e.Dispatch(tx)
	return from
}

func (e *Editor) backspace() {
	_, sel := e.Current()
	var tx doctree.Transaction
	if sel.IsEmpty() {
		if sel.From == 0 {
			return
		}
		tx.Delete(sel.From-1, sel.From)
		tx.SetSelection(doctree.Caret(sel.From - 1))
	} else {
		tx.Delete(sel.From, sel.To)
		tx.SetSelection(doctree.Caret(sel.From))
	}
	e.Dispatch(tx)
}

func (e *Editor) insertNewline() {
	_, sel := e.Current()
	var tx doctree.Transaction
	tx.SplitBlock(sel.From)
	tx.SetSelection(doctree.Caret(sel.From + 1))
	e.Dispatch(tx)
}

// moveCaret moves the caret or extends the selection by delta. Extension
// keeps its anchor fixed and moves the opposite end, so repeated extension
// grows the range and reversing direction shrinks it back toward the anchor.
func (e *Editor) moveCaret(delta int, extend bool) {
	doc, sel := e.Current()
	var tx doctree.Transaction
	if !extend {
		e.setAnchor(-1)
		tx.SetSelection(doctree.Caret(clamp(sel.From+delta, doc.Len())))
		e.Dispatch(tx)
		return
	}

	anchor := e.extendAnchor(sel)
	head := sel.From
	if head == anchor {
		head = sel.To
	}
	tx.SetSelection(doctree.TextRange(anchor, clamp(head+delta, doc.Len())))
	e.Dispatch(tx)
}

// extendAnchor returns the stored selection anchor, re-seeding it from the
// selection start when the selection is collapsed or was set by something
// other than a caret extension.
func (e *Editor) extendAnchor(sel doctree.Selection) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sel.IsEmpty() || (e.anchor != sel.From && e.anchor != sel.To) {
		e.anchor = sel.From
	}
	return e.anchor
}

func (e *Editor) setAnchor(pos int) {
	e.mu.Lock()
	e.anchor = pos
	e.mu.Unlock()
}

func clamp(pos, limit int) int {
	if pos < 0 {
		return 0
	}
	if pos > limit {
		return limit
	}
	return pos
}

func (e *Editor) coords(pos int) (overlay.Rect, error) {
	doc, _ := e.Current()
	return e.measure.Rect(doc, pos)
}

func (e *Editor) viewport() overlay.Viewport {
	if e.screen == nil {
		return overlay.Viewport{Width: 80, Height: 24}
	}
	sz := e.screen.Viewport()
	return overlay.Viewport{Width: sz.Width, Height: sz.Height}
}
