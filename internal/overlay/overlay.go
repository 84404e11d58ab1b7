// Package overlay computes anchor placement for floating panels such as the
// suggestion popup and the selection toolbar. Placement is a pure function of
// the anchor rectangle, the panel's measured size, and the viewport.
package overlay

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Union returns the bounding rectangle of a and b, taking the min/max of each
// edge independently. This protects against caret pairs where the end caret
// precedes the start caret.
func Union(a, b Rect) Rect {
	return Rect{
		Left:   min(a.Left, b.Left),
		Top:    min(a.Top, b.Top),
		Right:  max(a.Right, b.Right),
		Bottom: max(a.Bottom, b.Bottom),
	}
}

// Size is a panel's measured width and height. A zero Size means the panel has
// not been measured yet; the resulting position is provisional and expected to
// be recomputed once the panel is mounted.
type Size struct {
	Width  int
	Height int
}

// Viewport describes the visible area the panel must fit into.
type Viewport struct {
	Width  int
	Height int
}

// Options configures placement.
type Options struct {
	// RTL right-aligns the panel to the anchor's right edge instead of
	// left-aligning to its left edge.
	RTL bool

	// Margin is the minimum distance kept between the panel and the
	// viewport edges.
	Margin int

	// OffsetLeft is the left offset of the nearest positioned ancestor.
	// RTL placement is measured relative to it.
	OffsetLeft int
}

// Position is a computed panel placement. Exactly one of the vertical offsets
// is meaningful: Top when IsAbove is true (panel sits below the anchor),
// Bottom when IsAbove is false (panel sits above the anchor). Horizontal
// placement uses Left, or Right in RTL mode.
type Position struct {
	Top    int
	Left   int
	Bottom int
	Right  int

	// IsAbove reports that the anchor is above the panel, i.e. the panel is
	// rendered below the anchor using the Top offset. When false the panel
	// is rendered above the anchor using the Bottom offset.
	IsAbove bool
}

// offscreen is the coordinate used when the anchor cannot be resolved.
const offscreen = -1000

// Offscreen returns a position that keeps the panel out of view. Callers use
// it when the anchor lookup fails so the panel is hidden instead of crashing.
func Offscreen() Position {
	return Position{
		Top:    offscreen,
		Left:   offscreen,
		Bottom: offscreen,
		Right:  offscreen,
	}
}

// Place computes the panel position for the given anchor rectangle.
//
// Horizontally the panel is left-aligned to the anchor, clamped so its right
// edge stays inside the viewport margin and its left edge does not go past
// the margin. In RTL mode it is right-aligned to the anchor's right edge,
// measured relative to the nearest positioned ancestor.
//
// Vertically the decision is binary: the panel goes above the anchor when
// there is room for its height plus the margin, below otherwise. There is no
// search for a better fit; in the degenerate case the panel may overflow.
func Place(anchor Rect, panel Size, vp Viewport, opts Options) Position {
	var pos Position

	if opts.RTL {
		right := vp.Width - anchor.Right - opts.OffsetLeft
		if right < opts.Margin {
			right = opts.Margin
		}
		pos.Right = right
		pos.Left = vp.Width - right - panel.Width
	} else {
		left := anchor.Left
		if maxLeft := vp.Width - opts.OffsetLeft - panel.Width - opts.Margin; left > maxLeft {
			left = maxLeft
		}
		if left < opts.Margin {
			left = opts.Margin
		}
		pos.Left = left
		pos.Right = vp.Width - left - panel.Width
	}

	spaceAbove := anchor.Top - opts.Margin
	if spaceAbove >= panel.Height {
		// Enough room above: anchor the panel's bottom to the anchor top.
		pos.IsAbove = false
		pos.Bottom = vp.Height - anchor.Top
		pos.Top = anchor.Top - panel.Height
	} else {
		pos.IsAbove = true
		pos.Top = anchor.Bottom
		pos.Bottom = vp.Height - anchor.Bottom - panel.Height
	}

	return pos
}
