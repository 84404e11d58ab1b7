// Package toolbar drives the selection-scoped formatting toolbar: activation
// from the selection shape, context-sensitive menu assembly, and the
// link-editing sub-mode. Like the suggestion overlay it observes the document
// read-only and mutates only through dispatched transactions.
package toolbar

import (
	"time"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/event"
	"github.com/inkstone/inkstone/internal/menu"
	"github.com/inkstone/inkstone/internal/overlay"
)

// Phase discriminates the controller states.
type Phase uint8

const (
	// PhaseInactive means the toolbar is hidden.
	PhaseInactive Phase = iota

	// PhaseActive means the formatting toolbar is showing.
	PhaseActive

	// PhaseLinkEditing means the link editor is showing for a link mark
	// under the selection.
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

// Shape classifies the selection for menu assembly. The predicates target
// disjoint selection shapes, so exactly one applies.
type Shape uint8

const (
	// ShapeNone means no menu applies.
	ShapeNone Shape = iota

	// ShapeTable is a table-wide cell selection.
	ShapeTable

	// ShapeColumn is a single full column.
	ShapeColumn

	// ShapeRow is a single full row.
	ShapeRow

	// ShapeImage is an image node selection.
	ShapeImage

	// ShapeDivider is a horizontal-rule node selection.
	ShapeDivider

	// ShapeText is any other active selection, served by the formatting
	// menu.
	ShapeText
)

// State is the controller's tagged-union state. The zero value is inactive.
type State struct {
	Phase Phase
	Shape Shape

	// LinkRange is the full extent of the link mark in link editing.
	LinkRange doctree.Range
}

// Host supplies the collaborators the controller depends on.
type Host struct {
	// Resolver filters menu items for command availability and executes
	// picked items.
	Resolver *command.Resolver

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

	// IsTemplate reports whether the document is a template; the
	// formatting menu adds the placeholder item for templates.
	IsTemplate bool

	// RTL flips the column menu's direction-dependent titles.
	RTL bool

	// DocFocused reports whether the document already has input focus.
	DocFocused func() bool

	// InTextInput reports whether the active element is a text input.
	InTextInput func() bool

	// Pointer delivers window-level pointer events while the toolbar is
	// open.
	Pointer *event.Stream[event.Pointer]

	// OnOpen fires when the toolbar transitions inactive to active.
	OnOpen func()

	// OnClose fires when the toolbar transitions active to inactive.
	OnClose func()

	// SearchDocs looks up link candidates for a query. The result callback
	// may run later; stale responses are discarded.
	SearchDocs func(query string, done func(results []LinkResult, err error))

	// CreateDoc creates a new document and resolves its URL.
	CreateDoc func(title string, done func(url string, err error))

	// SearchDelay is the debounce delay for SearchDocs. Zero uses a
	// default.
	SearchDelay time.Duration
}

// Controller is the selection toolbar state machine.
type Controller struct {
	host  Host
	state State

	panel  overlay.Size
	bounds overlay.Rect
	link   *LinkEditor

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

// Active reports whether the toolbar is showing in any phase.
func (c *Controller) Active() bool {
	return c.state.Phase != PhaseInactive
}

// Link returns the link editor while in the link-editing phase, nil
// otherwise.
func (c *Controller) Link() *LinkEditor {
	return c.link
}

// SetPanelSize records the toolbar panel's measured size.
func (c *Controller) SetPanelSize(size overlay.Size) {
	c.panel = size
}

// SetBounds records the rendered panel bounds used for outside-press
// handling.
func (c *Controller) SetBounds(bounds overlay.Rect) {
	c.bounds = bounds
}

// Update re-evaluates the activation predicate against the current document
// and selection. Open/close notifications fire only on the inactive-active
// boundary, not on every re-render while already active.
func (c *Controller) Update() {
	doc, sel := c.host.Current()
	phase, shape, linkRange := evaluate(doc, sel)

	wasActive := c.state.Phase != PhaseInactive
	nowActive := phase != PhaseInactive

	if nowActive && !wasActive {
		c.acquire()
		if c.host.OnOpen != nil {
			c.host.OnOpen()
		}
	}
	if !nowActive && wasActive {
		c.release()
		if c.host.OnClose != nil {
			c.host.OnClose()
		}
	}

	if phase == PhaseLinkEditing {
		if c.link == nil || c.link.rng != linkRange {
			c.closeLink()
			c.link = newLinkEditor(&c.host, linkRange)
		}
	} else {
		c.closeLink()
	}

	c.state = State{Phase: phase, Shape: shape, LinkRange: linkRange}
}

// evaluate computes the phase and shape for a document/selection pair.
//
// A link mark covering the position enters link editing with the mark's full
// extent. Otherwise the selection must be non-empty and either a node
// selection of a divider or image, or a selection touching non-empty content.
// Code blocks disable the toolbar entirely.
func evaluate(doc *doctree.Document, sel doctree.Selection) (Phase, Shape, doctree.Range) {
	if doc == nil {
		return PhaseInactive, ShapeNone, doctree.Range{}
	}
	if b, err := doc.BlockAt(sel.From); err == nil && b.Type == "code_block" {
		return PhaseInactive, ShapeNone, doctree.Range{}
	}
	if rng, ok := doc.MarkExtent(sel.From, "link"); ok {
		return PhaseLinkEditing, ShapeText, rng
	}
	if sel.IsEmpty() {
		return PhaseInactive, ShapeNone, doctree.Range{}
	}

	switch sel.Kind {
	case doctree.SelectionNode:
		switch sel.NodeType {
		case "hr":
			return PhaseActive, ShapeDivider, doctree.Range{}
		case "image":
			return PhaseActive, ShapeImage, doctree.Range{}
		default:
			return PhaseInactive, ShapeNone, doctree.Range{}
		}
	case doctree.SelectionCells:
		switch {
		case sel.WholeTable():
			return PhaseActive, ShapeTable, doctree.Range{}
		case sel.SingleColumn():
			return PhaseActive, ShapeColumn, doctree.Range{}
		case sel.SingleRow():
			return PhaseActive, ShapeRow, doctree.Range{}
		}
		return PhaseActive, ShapeText, doctree.Range{}
	default:
		if doc.HasNonEmptyContent(sel.From, sel.To) {
			return PhaseActive, ShapeText, doctree.Range{}
		}
		return PhaseInactive, ShapeNone, doctree.Range{}
	}
}

// Menu assembles the items for the current selection shape, drops items whose
// backing command is unavailable, and collapses separators.
func (c *Controller) Menu() []menu.Item {
	if c.state.Phase == PhaseInactive {
		return nil
	}
	_, sel := c.host.Current()

	var items []menu.Item
	switch c.state.Shape {
	case ShapeTable:
		items = tableMenu()
	case ShapeColumn:
		items = columnMenu(sel.Cells.StartCol, c.host.RTL)
	case ShapeRow:
		items = rowMenu(sel.Cells.StartRow)
	case ShapeImage:
		items = imageMenu()
	case ShapeDivider:
		items = dividerMenu()
	default:
		items = formattingMenu(c.host.IsTemplate)
	}

	items = menu.FilterAvailable(items, c.host.Resolver.Has)
	return menu.Collapse(items)
}

// Cancel forces the toolbar back to inactive, releasing its window listeners
// and firing the close notification. Used when the controller is torn down
// while still open, such as on an extension reload.
func (c *Controller) Cancel() {
	if c.state.Phase == PhaseInactive {
		return
	}
	c.closeLink()
	c.release()
	if c.host.OnClose != nil {
		c.host.OnClose()
	}
	c.state = State{}
}

// Pick executes the menu item at index against the current document and
// selection. A link-toolbar item enters the link-editing phase instead.
func (c *Controller) Pick(index int) {
	items := c.Menu()
	if index < 0 || index >= len(items) || items[index].Separator {
		return
	}
	it := items[index]

	if it.Action == menu.ActionLinkToolbar {
		_, sel := c.host.Current()
		rng := doctree.Range{From: sel.From, To: sel.To}
		c.closeLink()
		c.link = newLinkEditor(&c.host, rng)
		c.state.Phase = PhaseLinkEditing
		c.state.LinkRange = rng
		return
	}

	doc, sel := c.host.Current()
	tx, err := c.host.Resolver.Execute(it.Name, it.Attrs, doc, sel)
	if err != nil {
		return
	}
	c.host.Dispatch(tx)
	c.Update()
}

// Position computes the toolbar placement over the selection, or over the
// link mark's extent in link editing. A failed anchor lookup degrades to the
// off-screen position.
func (c *Controller) Position() overlay.Position {
	if c.state.Phase == PhaseInactive {
		return overlay.Offscreen()
	}

	from, to := c.anchorRange()
	start, err := c.host.Coords(from)
	if err != nil {
		return overlay.Offscreen()
	}
	end, err := c.host.Coords(to)
	if err != nil {
		return overlay.Offscreen()
	}
	return overlay.Place(overlay.Union(start, end), c.panel, c.host.Viewport(), c.host.Placement)
}

func (c *Controller) anchorRange() (int, int) {
	if c.state.Phase == PhaseLinkEditing {
		return c.state.LinkRange.From, c.state.LinkRange.To
	}
	_, sel := c.host.Current()
	return sel.From, sel.To
}

// handlePointer collapses the selection to the document start on a pointer-up
// outside the toolbar, unless the document already has focus or the active
// element is a text input. Collapsing deactivates the toolbar through the
// normal predicate on the next Update.
func (c *Controller) handlePointer(p event.Pointer) {
	if c.state.Phase == PhaseInactive || p.Kind != event.PointerUp {
		return
	}
	if contains(c.bounds, p.X, p.Y) {
		return
	}
	if c.host.DocFocused != nil && c.host.DocFocused() {
		return
	}
	if c.host.InTextInput != nil && c.host.InTextInput() {
		return
	}

	var tx doctree.Transaction
	tx.SetSelection(doctree.Caret(0))
	c.host.Dispatch(tx)
	c.Update()
}

func (c *Controller) acquire() {
	if c.host.Pointer != nil {
		c.pointerSub = c.host.Pointer.Subscribe(c.handlePointer)
	}
}

func (c *Controller) release() {
	c.pointerSub.Close()
	c.pointerSub = nil
}

func (c *Controller) closeLink() {
	if c.link != nil {
		c.link.close()
		c.link = nil
	}
}

func contains(r overlay.Rect, x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}
