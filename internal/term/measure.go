package term

import (
	"github.com/rivo/uniseg"

	"github.com/inkstone/inkstone/internal/doctree"
	"github.com/inkstone/inkstone/internal/overlay"
)

// Measurer maps document positions to terminal cells. Text blocks wrap
// greedily at the measurer width; atomic blocks take a full line. Cluster
// widths come from grapheme segmentation, so wide characters and emoji land
// on the cells they actually occupy.
type Measurer struct {
	// Width is the number of columns available for text.
	Width int

	// Left and Top offset the text area inside the viewport.
	Left int
	Top  int
}

// Rect returns the screen cell of the given position. The cell of a block
// boundary is the first cell of the following block.
func (m *Measurer) Rect(doc *doctree.Document, pos int) (overlay.Rect, error) {
	if pos < 0 || pos > doc.Len() {
		return overlay.Rect{}, doctree.ErrPositionInvalid
	}

	remaining := pos
	line := 0
	for i, block := range doc.Blocks() {
		if i > 0 {
			if remaining == 0 {
				// Boundary position: start of this block.
				return m.cell(0, line, 1), nil
			}
			remaining--
		}

		if block.Atomic {
			if remaining == 0 {
				return m.cell(0, line, m.Width), nil
			}
			remaining--
			line++
			continue
		}

		rect, lines, ok := m.measureText(block.Text(), &remaining, line)
		if ok {
			return rect, nil
		}
		line += lines
	}

	// remaining hit zero past the last cluster of the last block.
	return m.cell(0, line, 1), nil
}

// measureText wraps text and either resolves the position inside it, or
// reports the number of lines the block occupies.
func (m *Measurer) measureText(text string, remaining *int, line int) (overlay.Rect, int, bool) {
	x := 0
	lines := 1

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if x+w > m.Width && x > 0 {
			line++
			lines++
			x = 0
		}
		runes := g.Runes()
		if *remaining < len(runes) {
			return m.cell(x, line, max(w, 1)), 0, true
		}
		*remaining -= len(runes)
		x += w
	}

	if *remaining == 0 {
		if x >= m.Width {
			line++
			lines++
			x = 0
		}
		return m.cell(x, line, 1), 0, true
	}
	return overlay.Rect{}, lines, false
}

func (m *Measurer) cell(x, line, width int) overlay.Rect {
	return overlay.Rect{
		Left:   m.Left + x,
		Top:    m.Top + line,
		Right:  m.Left + x + width,
		Bottom: m.Top + line + 1,
	}
}
