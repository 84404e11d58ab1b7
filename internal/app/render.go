package app

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/overlay"
	"github.com/inkstone/inkstone/internal/suggest"
	"github.com/inkstone/inkstone/internal/toolbar"
)

// render draws the document, the caret, and any open overlay. Headless
// editors skip rendering entirely.
func (e *Editor) render() {
	if e.screen == nil {
		return
	}
	doc, sel := e.Current()

	e.screen.Clear()
	y := e.measure.Top
	for _, block := range doc.Blocks() {
		if block.Atomic {
			e.screen.SetText(e.measure.Left, y, atomicLabel(block, e.measure.Width), false)
			y++
			continue
		}
		y = e.drawWrapped(block.Text(), y)
	}

	if rect, err := e.measure.Rect(doc, sel.From); err == nil {
		e.screen.ShowCursor(rect.Left, rect.Top)
	}

	sg, tb := e.controllers()
	e.drawSuggest(sg)
	e.drawToolbar(tb)

	if msg := e.Toast(); msg != "" {
		vp := e.viewport()
		e.screen.SetText(0, vp.Height-1, msg, true)
	}
	e.screen.Show()
}

// drawWrapped draws text with the same greedy wrap the measurer uses, so the
// caret and overlay anchors line up with what is on screen.
func (e *Editor) drawWrapped(text string, y int) int {
	var line strings.Builder
	width := 0

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if width+w > e.measure.Width && width > 0 {
			e.screen.SetText(e.measure.Left, y, line.String(), false)
			y++
			line.Reset()
			width = 0
		}
		line.WriteString(g.Str())
		width += w
	}
	e.screen.SetText(e.measure.Left, y, line.String(), false)
	return y + 1
}

func atomicLabel(block *doctree.Node, width int) string {
	if block.Type == "hr" {
		return strings.Repeat("─", min(width, 40))
	}
	return "[" + block.Type + "]"
}

func (e *Editor) drawSuggest(sg *suggest.Controller) {
	st := sg.State()
	switch st.Phase {
	case suggest.PhaseInactive:
		return

	case suggest.PhaseLinkEditing:
		pos := sg.Position()
		e.screen.SetText(pos.Left, pos.Top, "Paste or type a link: "+st.LinkText, true)
		return
	}

	items := sg.Candidates()
	w, h := 0, len(items)
	for _, it := range items {
		if tw := uniseg.StringWidth(it.Title) + 2; tw > w {
			w = tw
		}
	}
	sg.SetPanelSize(overlay.Size{Width: w, Height: h})
	pos := sg.Position()
	sg.SetBounds(overlay.Rect{
		Left: pos.Left, Top: pos.Top,
		Right: pos.Left + w, Bottom: pos.Top + h,
	})

	for i, it := range items {
		label := "  " + it.Title
		if it.Separator {
			label = strings.Repeat("─", w)
		}
		e.screen.SetText(pos.Left, pos.Top+i, pad(label, w), i == st.Index && !it.Separator)
	}
}

func (e *Editor) drawToolbar(tb *toolbar.Controller) {
	st := tb.State()
	switch st.Phase {
	case toolbar.PhaseInactive:
		return

	case toolbar.PhaseLinkEditing:
		pos := tb.Position()
		label := "Search or paste a link"
		if link := tb.Link(); link != nil {
			if results := link.Results(); len(results) > 0 {
				label = results[0].Title
			}
		}
		e.screen.SetText(pos.Left, pos.Top, label, true)
		return
	}

	items := tb.Menu()
	var titles []string
	for _, it := range items {
		if it.Separator {
			titles = append(titles, "│")
			continue
		}
		titles = append(titles, it.Title)
	}
	label := " " + strings.Join(titles, "  ") + " "
	w := uniseg.StringWidth(label)

	tb.SetPanelSize(overlay.Size{Width: w, Height: 1})
	pos := tb.Position()
	tb.SetBounds(overlay.Rect{
		Left: pos.Left, Top: pos.Top,
		Right: pos.Left + w, Bottom: pos.Top + 1,
	})
	e.screen.SetText(pos.Left, pos.Top, label, false)
}

func pad(s string, width int) string {
	if w := uniseg.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
