package toolbar

import (
	"errors"
	"testing"
	"time"

	"github.com/inkstone/inkstone/internal/doctree"
)

// waitSearch blocks until at least n search calls were issued and returns the
// latest one.
func (h *harness) waitSearch(t *testing.T, n int) searchCall {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		count := len(h.searchCalls)
		var call searchCall
		if count > 0 {
			call = h.searchCalls[count-1]
		}
		h.mu.Unlock()
		if count >= n {
			return call
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("search call %d was not issued", n)
	return searchCall{}
}

func TestSearchDiscardsStaleResponses(t *testing.T) {
	h := newHarness(t, doctree.TextBlock("paragraph", "hello world", nil))
	c := h.controller(t)
	le := newLinkEditor(&c.host, doctree.Range{From: 0, To: 5})
	defer le.close()

	le.SetQuery("alpha")
	first := h.waitSearch(t, 1)
	if first.query != "alpha" {
		t.Fatalf("query = %q, want alpha", first.query)
	}

	// A newer query supersedes the first before its response lands.
	le.SetQuery("beta")
	first.done([]LinkResult{{Title: "Stale", URL: "https://stale"}}, nil)
	if got := le.Results(); len(got) != 0 {
		t.Errorf("stale response was honored: %v", got)
	}

	second := h.waitSearch(t, 2)
	if second.query != "beta" {
		t.Fatalf("query = %q, want beta", second.query)
	}
	second.done([]LinkResult{{Title: "Fresh", URL: "https://fresh"}}, nil)
	got := le.Results()
	if len(got) != 1 || got[0].Title != "Fresh" {
		t.Errorf("results = %v, want the fresh response", got)
	}
}

func TestSearchFailureSurfacesToast(t *testing.T) {
	h := newHarness(t, doctree.TextBlock("paragraph", "hello world", nil))
	c := h.controller(t)
	le := newLinkEditor(&c.host, doctree.Range{From: 0, To: 5})
	defer le.close()

	le.SetQuery("alpha")
	call := h.waitSearch(t, 1)
	call.done(nil, errors.New("backend down"))

	h.mu.Lock()
	toasts := len(h.toasts)
	h.mu.Unlock()
	if toasts != 1 {
		t.Errorf("toasts = %d, want 1", toasts)
	}
	if got := le.Results(); len(got) != 0 {
		t.Errorf("results = %v, want none after failure", got)
	}
}

// Create rejects after the optimistic placeholder was applied over [4,9):
// the final document has no link mark over the range and a toast was shown.
func TestCreateLinkedDocumentRollsBack(t *testing.T) {
	h := newHarness(t, doctree.TextBlock("paragraph", "abcdefghij", nil))
	c := h.controller(t)
	le := newLinkEditor(&c.host, doctree.Range{From: 4, To: 9})
	defer le.close()

	le.CreateAndLink("New doc")

	doc, _ := h.current()
	m, ok := doc.MarkAt(5, "link")
	if !ok {
		t.Fatal("optimistic placeholder mark missing")
	}
	if m.Attrs["href"] != placeholderHref {
		t.Errorf("placeholder href = %v", m.Attrs["href"])
	}

	h.mu.Lock()
	call := h.createCalls[0]
	h.mu.Unlock()
	if call.title != "New doc" {
		t.Errorf("title = %q", call.title)
	}
	call.done("", errors.New("quota exceeded"))

	doc, _ = h.current()
	for pos := 4; pos < 9; pos++ {
		if _, ok := doc.MarkAt(pos+1, "link"); ok {
			t.Fatalf("dangling placeholder mark at %d", pos)
		}
	}
	h.mu.Lock()
	toasts := len(h.toasts)
	h.mu.Unlock()
	if toasts != 1 {
		t.Errorf("toasts = %d, want 1", toasts)
	}
}

func TestCreateLinkedDocumentResolvesURL(t *testing.T) {
	h := newHarness(t, doctree.TextBlock("paragraph", "abcdefghij", nil))
	c := h.controller(t)
	le := newLinkEditor(&c.host, doctree.Range{From: 4, To: 9})
	defer le.close()

	le.CreateAndLink("New doc")
	h.mu.Lock()
	call := h.createCalls[0]
	h.mu.Unlock()
	call.done("https://docs/new", nil)

	doc, _ := h.current()
	m, ok := doc.MarkAt(5, "link")
	if !ok {
		t.Fatal("link mark missing after creation resolved")
	}
	if m.Attrs["href"] != "https://docs/new" {
		t.Errorf("href = %v", m.Attrs["href"])
	}
	rng, _ := doc.MarkExtent(5, "link")
	if rng.From != 4 || rng.To != 9 {
		t.Errorf("mark extent = %+v, want [4,9)", rng)
	}
}

func TestSetURLRewritesStoredRange(t *testing.T) {
	h := newHarness(t, doctree.TextBlock("paragraph", "abcdefghij", nil))
	var tx doctree.Transaction
	tx.AddMark(4, 9, doctree.Mark{Type: "link", Attrs: doctree.Attrs{"href": "https://old"}})
	h.dispatch(tx)

	c := h.controller(t)
	le := newLinkEditor(&c.host, doctree.Range{From: 4, To: 9})
	defer le.close()

	le.SetURL("https://new")

	doc, _ := h.current()
	m, ok := doc.MarkAt(5, "link")
	if !ok {
		t.Fatal("link mark missing")
	}
	if m.Attrs["href"] != "https://new" {
		t.Errorf("href = %v", m.Attrs["href"])
	}
	rng, _ := doc.MarkExtent(5, "link")
	if rng.From != 4 || rng.To != 9 {
		t.Errorf("mark extent = %+v, want [4,9)", rng)
	}
}
