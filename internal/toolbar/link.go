package toolbar

import (
	"sync"
	"time"

	"github.com/inkstone/inkstone/internal/doctree"
)

// defaultSearchDelay is the debounce quiet period for title search.
const defaultSearchDelay = 250 * time.Millisecond

// placeholderHref marks a link whose target document is still being created.
const placeholderHref = "#"

// LinkResult is one candidate from a title search.
type LinkResult struct {
	Title string
	URL   string
}

// LinkEditor edits the link mark over a stored range. The range is captured
// when the sub-mode is entered; async results apply to it as-is, which can
// land on stale content if the document changed in the interim. That race is
// accepted, not reconciled.
type LinkEditor struct {
	host *Host
	rng  doctree.Range

	mu       sync.Mutex
	query    string
	results  []LinkResult
	debounce *debouncer
}

func newLinkEditor(host *Host, rng doctree.Range) *LinkEditor {
	le := &LinkEditor{host: host, rng: rng}
	delay := host.SearchDelay
	if delay <= 0 {
		delay = defaultSearchDelay
	}
	le.debounce = newDebouncer(delay, le.fire)
	return le
}

// Range returns the stored extent of the link mark.
func (le *LinkEditor) Range() doctree.Range {
	return le.rng
}

// SetQuery updates the search text. The lookup is debounced; only the most
// recent query's response is honored.
func (le *LinkEditor) SetQuery(query string) {
	le.mu.Lock()
	le.query = query
	le.mu.Unlock()
	le.debounce.Call()
}

// Results returns the candidates from the latest honored search response.
func (le *LinkEditor) Results() []LinkResult {
	le.mu.Lock()
	defer le.mu.Unlock()
	return le.results
}

func (le *LinkEditor) fire() {
	if le.host.SearchDocs == nil {
		return
	}
	le.mu.Lock()
	query := le.query
	le.mu.Unlock()

	le.host.SearchDocs(query, func(results []LinkResult, err error) {
		le.mu.Lock()
		if query != le.query {
			// Response to a superseded query.
			le.mu.Unlock()
			return
		}
		if err != nil {
			le.results = nil
			le.mu.Unlock()
			le.toast("Search failed")
			return
		}
		le.results = results
		le.mu.Unlock()
	})
}

// SetURL replaces the link mark's href on the exact stored range.
func (le *LinkEditor) SetURL(url string) {
	le.apply(url)
}

// CreateAndLink creates a new document titled after the linked text and
// points the mark at it. A placeholder href is applied immediately; the real
// URL replaces it when creation resolves. On rejection the placeholder mark
// is removed and a toast is shown, never leaving a dangling placeholder.
func (le *LinkEditor) CreateAndLink(title string) {
	if le.host.CreateDoc == nil {
		le.toast("Creating documents is not available")
		return
	}
	le.apply(placeholderHref)

	le.host.CreateDoc(title, func(url string, err error) {
		if err != nil {
			var tx doctree.Transaction
			tx.RemoveMark(le.rng.From, le.rng.To, "link")
			le.host.Dispatch(tx)
			le.toast("Couldn't create the document")
			return
		}
		le.apply(url)
	})
}

// apply rewrites the link mark over the stored range with the given href.
func (le *LinkEditor) apply(href string) {
	var tx doctree.Transaction
	tx.RemoveMark(le.rng.From, le.rng.To, "link")
	tx.AddMark(le.rng.From, le.rng.To, doctree.Mark{
		Type:  "link",
		Attrs: doctree.Attrs{"href": href},
	})
	le.host.Dispatch(tx)
}

func (le *LinkEditor) toast(message string) {
	if le.host.Toast != nil {
		le.host.Toast(message)
	}
}

func (le *LinkEditor) close() {
	le.debounce.Cancel()
}
