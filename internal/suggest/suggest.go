// Package suggest drives the autocomplete overlay: trigger detection,
// candidate filtering and ranking, keyboard navigation, and commit/cancel.
// The controller observes the document read-only; every mutation flows
// through resolver-produced transactions dispatched back to the host.
package suggest

import (
	"fmt"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/event"
	"github.com/inkstone/inkstone/internal/fuzzy"
	"github.com/inkstone/inkstone/internal/key"
	"github.com/inkstone/inkstone/internal/menu"
	"github.com/inkstone/inkstone/internal/overlay"
	"github.com/inkstone/inkstone/internal/schema"
)

// Phase discriminates the controller states.
type Phase uint8

const (
	// PhaseInactive means the overlay is closed.
	PhaseInactive Phase = iota

	// PhaseActive means the candidate list is showing.
	PhaseActive

	// PhaseLinkEditing means a URL input is showing for a pending embed
	// candidate instead of the candidate list.
	PhaseLinkEditing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseActive:
		return "active"
	case PhaseLinkEditing:
		return "linkEditing"
	default:
		return "unknown"
	}
}

// State is the controller's tagged-union state. The zero value is inactive.
type State struct {
	Phase Phase

	// Trigger is the range of the trigger marker in the document.
	Trigger doctree.Range

	// Search is the text typed after the trigger marker.
	Search string

	// Index is the highlighted candidate index.
	Index int

	// Pending is the embed candidate awaiting a URL in link editing.
	Pending *menu.Item

	// LinkText is the URL typed so far in link editing.
	LinkText string
}

// KeyResult tells the host what to do with a handled key event.
type KeyResult uint8

const (
	// KeyIgnored means the controller did not consume the event.
	KeyIgnored KeyResult = iota

	// KeyHandled means the controller consumed the event.
	KeyHandled

	// KeyInsertNewline means the overlay closed and the host should insert
	// a newline in its place.
	KeyInsertNewline
)

// Host supplies the collaborators the controller depends on. Current,
// Dispatch, Coords, Viewport, and Toast must be set; the rest are optional.
type Host struct {
	// Resolver resolves and executes candidate commands.
	Resolver *command.Resolver

	// Schema supplies embed descriptors appended to the candidate list.
	Schema *schema.Schema

	// Items is the statically supplied candidate list.
	Items []menu.Item

	// Matcher scores candidates against the search text.
	Matcher *fuzzy.Matcher

	// HasUpload reports whether an upload collaborator was supplied.
	// Candidates requiring upload are dropped without it.
	HasUpload bool

	// DisableFiltering keeps every candidate regardless of search text.
	DisableFiltering bool

	// Current returns the current document and selection.
	Current func() (*doctree.Document, doctree.Selection)

	// Dispatch applies a transaction to the document.
	Dispatch func(doctree.Transaction)

	// Coords returns the caret rectangle for a document position.
	Coords func(pos int) (overlay.Rect, error)

	// Viewport returns the current viewport dimensions.
	Viewport func() overlay.Viewport

	// Placement configures overlay placement.
	Placement overlay.Options

	// Toast surfaces a user-visible message.
	Toast func(message string)

	// OpenFilePicker opens the host's out-of-band file picker.
	OpenFilePicker func()

	// OpenLinkToolbar opens the link toolbar.
	OpenLinkToolbar func()

	// Keys delivers window-level key events while the overlay is open.
	Keys *event.Stream[key.Event]

	// Pointer delivers window-level pointer events while the overlay is
	// open.
	Pointer *event.Stream[event.Pointer]
}

// Controller is the suggestion overlay state machine.
type Controller struct {
	host  Host
	state State

	panel  overlay.Size
	bounds overlay.Rect

	keySub     *event.Subscription
	pointerSub *event.Subscription
}

// NewController creates an inactive controller.
func NewController(host Host) *Controller {
	return &Controller{host: host}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether the overlay is open in any phase.
func (c *Controller) Active() bool {
	return c.state.Phase != PhaseInactive
}

// SetPanelSize records the overlay panel's measured size. An unmeasured
// panel keeps the zero size, producing a provisional position.
func (c *Controller) SetPanelSize(size overlay.Size) {
	c.panel = size
}

// SetBounds records the rendered panel bounds used for outside-press
// dismissal.
func (c *Controller) SetBounds(bounds overlay.Rect) {
	c.bounds = bounds
}

// Open activates the overlay for a trigger marker covering the given range.
// The candidate index resets to 0 and window listeners are acquired.
func (c *Controller) Open(trigger doctree.Range) {
	if c.state.Phase == PhaseInactive {
		c.acquire()
	}
	c.state = State{Phase: PhaseActive, Trigger: trigger}
}

// SetSearch replaces the search text and resets the candidate index.
func (c *Controller) SetSearch(text string) {
	if c.state.Phase != PhaseActive {
		return
	}
	c.state.Search = text
	c.state.Index = 0
}

// Cancel closes the overlay, discarding any in-progress search or link text.
func (c *Controller) Cancel() {
	c.close()
}

// Candidates builds the current candidate list: the static items, then a
// separator and the titled, unhidden embed descriptors, filtered for command
// availability and upload capability, then searched and ranked.
func (c *Controller) Candidates() []menu.Item {
	items := append([]menu.Item(nil), c.host.Items...)

	if c.host.Schema != nil {
		var embeds []menu.Item
		for _, d := range c.host.Schema.Embeds() {
			if d.Title == "" {
				continue
			}
			embeds = append(embeds, menu.Item{
				Name:          d.Name,
				Title:         d.Title,
				Keywords:      d.Keywords,
				DefaultHidden: d.DefaultHidden,
				NeedsURL:      true,
				Matcher:       d.Matcher,
			})
		}
		if len(embeds) > 0 {
			items = append(items, menu.Divider())
			items = append(items, embeds...)
		}
	}

	items = menu.FilterAvailable(items, c.host.Resolver.Has)
	items = menu.FilterUploadable(items, c.host.HasUpload)
	return menu.Search(items, c.state.Search, !c.host.DisableFiltering, c.host.Matcher)
}

// Position computes the overlay placement for the trigger range. A failed
// anchor lookup degrades to the off-screen position so the host hides the
// panel instead of crashing.
func (c *Controller) Position() overlay.Position {
	if c.state.Phase == PhaseInactive {
		return overlay.Offscreen()
	}
	start, err := c.host.Coords(c.state.Trigger.From)
	if err != nil {
		return overlay.Offscreen()
	}
	end, err := c.host.Coords(c.state.Trigger.To)
	if err != nil {
		return overlay.Offscreen()
	}
	return overlay.Place(overlay.Union(start, end), c.panel, c.host.Viewport(), c.host.Placement)
}

// HandleKey feeds one key event into the state machine.
func (c *Controller) HandleKey(ev key.Event) KeyResult {
	switch c.state.Phase {
	case PhaseActive:
		return c.handleActiveKey(ev)
	case PhaseLinkEditing:
		return c.handleLinkKey(ev)
	default:
		return KeyIgnored
	}
}

func (c *Controller) handleActiveKey(ev key.Event) KeyResult {
	switch {
	case ev.Key == key.KeyEscape:
		c.close()
		return KeyHandled

	case ev.IsNext():
		items := c.Candidates()
		if !hasReal(items) {
			c.close()
			return KeyHandled
		}
		c.state.Index = nextIndex(items, c.state.Index)
		return KeyHandled

	case ev.IsPrev():
		items := c.Candidates()
		if !hasReal(items) {
			c.close()
			return KeyHandled
		}
		c.state.Index = prevIndex(items, c.state.Index)
		return KeyHandled

	case ev.Key == key.KeyEnter:
		items := c.Candidates()
		if !hasReal(items) {
			c.close()
			return KeyInsertNewline
		}
		c.pick(items, c.state.Index)
		return KeyHandled

	case ev.Key == key.KeyBackspace:
		if c.state.Search == "" {
			c.close()
			return KeyHandled
		}
		runes := []rune(c.state.Search)
		c.state.Search = string(runes[:len(runes)-1])
		c.state.Index = 0
		return KeyHandled

	case ev.IsChar():
		c.state.Search += string(ev.Rune)
		c.state.Index = 0
		return KeyHandled
	}
	return KeyIgnored
}

func (c *Controller) handleLinkKey(ev key.Event) KeyResult {
	switch {
	case ev.Key == key.KeyEscape:
		c.close()
		return KeyHandled

	case ev.Key == key.KeyEnter:
		c.submitLink(c.state.LinkText)
		return KeyHandled

	case ev.Key == key.KeyBackspace:
		if c.state.LinkText != "" {
			runes := []rune(c.state.LinkText)
			c.state.LinkText = string(runes[:len(runes)-1])
		}
		return KeyHandled

	case ev.IsChar():
		c.state.LinkText += string(ev.Rune)
		return KeyHandled
	}
	return KeyIgnored
}

// Paste feeds pasted text into the link editor. A value matching the pending
// candidate's matcher commits immediately without requiring Enter; anything
// else surfaces a toast and stays in link editing.
func (c *Controller) Paste(text string) {
	if c.state.Phase != PhaseLinkEditing {
		return
	}
	c.state.LinkText = text
	c.submitLink(text)
}

// Hover highlights the candidate at index without committing.
func (c *Controller) Hover(index int) {
	if c.state.Phase != PhaseActive {
		return
	}
	items := c.Candidates()
	if index < 0 || index >= len(items) || items[index].Separator {
		return
	}
	c.state.Index = index
}

// Pick commits the candidate at index, as from a pointer press on the item.
func (c *Controller) Pick(index int) {
	if c.state.Phase != PhaseActive {
		return
	}
	items := c.Candidates()
	if index < 0 || index >= len(items) || items[index].Separator {
		return
	}
	c.pick(items, index)
}

func (c *Controller) pick(items []menu.Item, index int) {
	if index >= len(items) {
		index = len(items) - 1
	}
	if index < 0 || items[index].Separator {
		return
	}
	it := items[index]

	switch {
	case it.Action == menu.ActionFilePicker:
		c.close()
		if c.host.OpenFilePicker == nil {
			c.toast("No file picker available")
			return
		}
		c.host.OpenFilePicker()

	case it.Action == menu.ActionLinkToolbar:
		c.close()
		if c.host.OpenLinkToolbar == nil {
			c.toast("No link editor available")
			return
		}
		c.host.OpenLinkToolbar()

	case it.NeedsURL:
		pending := it
		c.state.Phase = PhaseLinkEditing
		c.state.Pending = &pending
		c.state.LinkText = ""

	default:
		c.commit(it, nil)
	}
}

func (c *Controller) submitLink(text string) {
	it := c.state.Pending
	if it == nil {
		c.close()
		return
	}
	if it.Matcher == nil || !it.Matcher(text) {
		c.toast(fmt.Sprintf("That link isn't a valid %s link", it.Title))
		return
	}
	c.commit(*it, map[string]any{"href": text})
}

// commit clears the trigger marker and search text from the document, then
// resolves and executes the candidate's command and closes the overlay.
func (c *Controller) commit(it menu.Item, extra map[string]any) {
	trigger := c.state.Trigger
	end := trigger.To + len([]rune(c.state.Search))

	var clear doctree.Transaction
	clear.Delete(trigger.From, end)
	clear.SetSelection(doctree.Caret(trigger.From))
	c.host.Dispatch(clear)

	args := make(map[string]any, len(it.Attrs)+len(extra))
	for k, v := range it.Attrs {
		args[k] = v
	}
	for k, v := range extra {
		args[k] = v
	}

	doc, sel := c.host.Current()
	tx, err := c.host.Resolver.Execute(it.Name, args, doc, sel)
	if err != nil {
		c.close()
		return
	}
	c.host.Dispatch(tx)

	if it.TrailingSpace {
		_, after := c.host.Current()
		var space doctree.Transaction
		space.InsertText(after.From, " ")
		space.SetSelection(doctree.Caret(after.From + 1))
		c.host.Dispatch(space)
	}
	c.close()
}

func (c *Controller) handlePointer(p event.Pointer) {
	if c.state.Phase == PhaseInactive || p.Kind != event.PointerDown {
		return
	}
	if !contains(c.bounds, p.X, p.Y) {
		c.close()
	}
}

func (c *Controller) toast(message string) {
	if c.host.Toast != nil {
		c.host.Toast(message)
	}
}

// acquire registers the window-level listeners. Held only while the overlay
// is open.
func (c *Controller) acquire() {
	if c.host.Keys != nil {
		c.keySub = c.host.Keys.Subscribe(func(ev key.Event) { c.HandleKey(ev) })
	}
	if c.host.Pointer != nil {
		c.pointerSub = c.host.Pointer.Subscribe(c.handlePointer)
	}
}

// close returns to inactive and releases the window listeners. Safe on every
// exit path.
func (c *Controller) close() {
	c.state = State{}
	c.keySub.Close()
	c.pointerSub.Close()
	c.keySub = nil
	c.pointerSub = nil
}

func contains(r overlay.Rect, x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func hasReal(items []menu.Item) bool {
	for _, it := range items {
		if !it.Separator {
			return true
		}
	}
	return false
}

// nextIndex advances by one, skipping a separator landing, clamped at the
// last real entry.
func nextIndex(items []menu.Item, i int) int {
	j := i + 1
	if j < len(items) && items[j].Separator {
		j++
	}
	if j >= len(items) {
		for j = len(items) - 1; j >= 0 && items[j].Separator; j-- {
		}
		if j < i {
			return i
		}
	}
	return j
}

// prevIndex retreats by one, skipping a separator landing, clamped at 0.
func prevIndex(items []menu.Item, i int) int {
	j := i - 1
	if j >= 0 && items[j].Separator {
		j--
	}
	if j < 0 {
		return 0
	}
	return j
}
