// Package menu models the actionable entries the suggestion overlay and the
// selection toolbar display. Items are rebuilt from current document and
// selection state on every recomputation and never persisted.
package menu

import (
	"sort"
	"strings"

	"github.com/inkstone/inkstone/internal/fuzzy"
)

// Action describes what picking an item does.
type Action uint8

const (
	// ActionCommand resolves and executes the item's backing command.
	ActionCommand Action = iota

	// ActionFilePicker opens the host's out-of-band file picker.
	ActionFilePicker

	// ActionLinkToolbar opens the link toolbar instead of inserting.
	ActionLinkToolbar
)

// Item is one actionable or decorative entry.
type Item struct {
	// Name is the command lookup key. Empty for separators.
	Name string

	// Title is the display title, also the fuzzy-scoring target.
	Title string

	// Keywords are extra search terms.
	Keywords string

	// Shortcut is the displayed key chord, informational only.
	Shortcut string

	// Separator marks a decorative divider entry.
	Separator bool

	// DefaultHidden keeps the item out of the list while the search text
	// is empty.
	DefaultHidden bool

	// Attrs are trigger attributes passed as command arguments.
	Attrs map[string]any

	// Action is what picking the item does.
	Action Action

	// NeedsURL routes the item through the link-editing sub-state; the
	// typed value is validated by Matcher.
	NeedsURL bool

	// Matcher validates a URL for NeedsURL items.
	Matcher func(url string) bool

	// TrailingSpace requests a trailing space after the commit.
	TrailingSpace bool

	// RequiresUpload drops the item when no upload capability exists.
	RequiresUpload bool
}

// Divider returns a separator item.
func Divider() Item {
	return Item{Separator: true}
}

// Collapse removes leading and trailing separators and squeezes consecutive
// separators down to one, so at most a single separator sits between runs of
// real items.
func Collapse(items []Item) []Item {
	out := items[:0:0]
	pendingSep := false
	for _, it := range items {
		if it.Separator {
			if len(out) > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			out = append(out, Divider())
			pendingSep = false
		}
		out = append(out, it)
	}
	return out
}

// FilterAvailable drops items whose backing command does not resolve.
// Separators and non-command actions pass through; a later Collapse cleans
// up any stranded separators.
func FilterAvailable(items []Item, has func(name string) bool) []Item {
	out := items[:0:0]
	for _, it := range items {
		if it.Separator || it.Action != ActionCommand || it.Name == "" || has(it.Name) {
			out = append(out, it)
		}
	}
	return out
}

// FilterUploadable drops items that need an upload capability the host did
// not supply.
func FilterUploadable(items []Item, hasUpload bool) []Item {
	if hasUpload {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if !it.RequiresUpload {
			out = append(out, it)
		}
	}
	return out
}

// Search filters and orders items for the given search text.
//
// Empty search keeps items not flagged default-hidden in their original
// order. A non-empty search keeps items whose title or keywords contain the
// text case-insensitively (all items when filterable is false), then sorts by
// fuzzy score against the title, unscored items last. Both paths collapse
// separators.
func Search(items []Item, text string, filterable bool, matcher *fuzzy.Matcher) []Item {
	text = strings.TrimSpace(text)

	if text == "" {
		out := items[:0:0]
		for _, it := range items {
			if !it.DefaultHidden {
				out = append(out, it)
			}
		}
		return Collapse(out)
	}

	lower := strings.ToLower(text)
	out := items[:0:0]
	for _, it := range items {
		if !filterable {
			out = append(out, it)
			continue
		}
		if it.Separator {
			continue
		}
		if strings.Contains(strings.ToLower(it.Title), lower) ||
			strings.Contains(strings.ToLower(it.Keywords), lower) {
			out = append(out, it)
		}
	}

	scores := make([]int, len(out))
	for i, it := range out {
		scores[i] = matcher.Score(text, it.Title)
	}
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	sorted := make([]Item, len(out))
	for i, idx := range order {
		sorted[i] = out[idx]
	}
	return Collapse(sorted)
}
