package app

import (
	"testing"

	"github.com/inkstone/inkstone/internal/config"
	"github.com/inkstone/inkstone/internal/key"
	"github.com/inkstone/inkstone/internal/suggest"
	"github.com/inkstone/inkstone/internal/toolbar"
)

func headless(t *testing.T) *Editor {
	t.Helper()
	e, err := New(Options{Config: config.Default()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(key.Event{Key: key.KeyRune, Rune: r})
	}
}

func TestTriggerOpensSuggestion(t *testing.T) {
	e := headless(t)

	typeString(e, "/")
	if !e.Suggest().Active() {
		t.Fatal("trigger did not open the overlay")
	}
	doc, sel := e.Current()
	if doc.Text() != "/" {
		t.Errorf("doc = %q", doc.Text())
	}
	if sel.From != 1 {
		t.Errorf("sel = %+v", sel)
	}
	st := e.Suggest().State()
	if st.Trigger.From != 0 || st.Trigger.To != 1 {
		t.Errorf("trigger range = %+v", st.Trigger)
	}
}

func TestSearchTextMirroredIntoDocument(t *testing.T) {
	e := headless(t)

	typeString(e, "/he")
	if got := e.Suggest().State().Search; got != "he" {
		t.Errorf("search = %q", got)
	}
	doc, _ := e.Current()
	if doc.Text() != "/he" {
		t.Errorf("doc = %q", doc.Text())
	}

	e.HandleKey(key.Event{Key: key.KeyBackspace})
	if got := e.Suggest().State().Search; got != "h" {
		t.Errorf("search after backspace = %q", got)
	}
	doc, _ = e.Current()
	if doc.Text() != "/h" {
		t.Errorf("doc after backspace = %q", doc.Text())
	}
}

func TestCommitReplacesTriggerWithBlock(t *testing.T) {
	e := headless(t)

	typeString(e, "/he")
	e.HandleKey(key.Event{Key: key.KeyEnter})

	if e.Suggest().Active() {
		t.Error("overlay still open after commit")
	}
	doc, _ := e.Current()
	if doc.Text() != "" {
		t.Errorf("doc = %q", doc.Text())
	}
	block, err := doc.BlockAt(0)
	if err != nil {
		t.Fatalf("BlockAt: %v", err)
	}
	if block.Type != "heading" {
		t.Errorf("block type = %q", block.Type)
	}
	if block.Attrs["level"] != 1 {
		t.Errorf("attrs = %v", block.Attrs)
	}
}

func TestBackspaceOnEmptySearchRemovesTrigger(t *testing.T) {
	e := headless(t)

	typeString(e, "/")
	e.HandleKey(key.Event{Key: key.KeyBackspace})

	if e.Suggest().Active() {
		t.Error("overlay still open")
	}
	doc, _ := e.Current()
	if doc.Text() != "" {
		t.Errorf("doc = %q", doc.Text())
	}
}

func TestEscapeClosesOverlayBeforeQuitting(t *testing.T) {
	e := headless(t)

	typeString(e, "/")
	e.HandleKey(key.Event{Key: key.KeyEscape})
	if e.Suggest().Active() {
		t.Fatal("overlay still open")
	}
	select {
	case <-e.Done():
		t.Fatal("editor quit while closing the overlay")
	default:
	}

	e.HandleKey(key.Event{Key: key.KeyEscape})
	select {
	case <-e.Done():
	default:
		t.Error("second escape did not quit")
	}
}

func TestSelectionActivatesToolbar(t *testing.T) {
	e := headless(t)

	typeString(e, "hi")
	if e.Toolbar().State().Phase != toolbar.PhaseInactive {
		t.Fatal("toolbar active without selection")
	}

	e.HandleKey(key.Event{Key: key.KeyLeft, Modifiers: key.ModShift})
	st := e.Toolbar().State()
	if st.Phase != toolbar.PhaseActive || st.Shape != toolbar.ShapeText {
		t.Errorf("toolbar state = %+v", st)
	}

	e.HandleKey(key.Event{Key: key.KeyRight})
	if e.Toolbar().State().Phase != toolbar.PhaseInactive {
		t.Error("toolbar still active after collapse")
	}
}

// Repeated shift-extension keeps its anchor: extending leftward twice grows
// the selection instead of collapsing it, and reversing direction shrinks it
// back toward the anchor.
func TestShiftExtensionKeepsAnchor(t *testing.T) {
	e := headless(t)

	typeString(e, "hi")
	e.HandleKey(key.Event{Key: key.KeyLeft, Modifiers: key.ModShift})
	e.HandleKey(key.Event{Key: key.KeyLeft, Modifiers: key.ModShift})
	_, sel := e.Current()
	if sel.From != 0 || sel.To != 2 {
		t.Errorf("selection = [%d,%d), want [0,2)", sel.From, sel.To)
	}

	e.HandleKey(key.Event{Key: key.KeyRight, Modifiers: key.ModShift})
	_, sel = e.Current()
	if sel.From != 1 || sel.To != 2 {
		t.Errorf("selection after reverse = [%d,%d), want [1,2)", sel.From, sel.To)
	}

	// A plain move collapses and drops the anchor.
	e.HandleKey(key.Event{Key: key.KeyLeft})
	if _, sel = e.Current(); !sel.IsEmpty() {
		t.Errorf("selection after plain move = %+v, want collapsed", sel)
	}
}

// Reloading the extension set while the toolbar is open must drive the old
// controller to inactive before the swap, so its listeners are released and it
// never acts on later input.
func TestReloadWhileToolbarActive(t *testing.T) {
	e := headless(t)

	typeString(e, "hi")
	e.HandleKey(key.Event{Key: key.KeyLeft, Modifiers: key.ModShift})
	old := e.Toolbar()
	if old.State().Phase != toolbar.PhaseActive {
		t.Fatal("toolbar not active before reload")
	}

	if err := e.ReloadExtensions(config.Default().Descriptors()); err != nil {
		t.Fatalf("ReloadExtensions: %v", err)
	}
	if old.Active() {
		t.Error("old toolbar still active after reload")
	}
	if e.Toolbar() == old {
		t.Error("toolbar controller not rebuilt")
	}

	// The unchanged selection re-activates the new controller on the next
	// event.
	e.HandleKey(key.Event{Key: key.KeyLeft, Modifiers: key.ModShift})
	if e.Toolbar().State().Phase != toolbar.PhaseActive {
		t.Error("new toolbar did not activate from the live selection")
	}
}

func TestEnterWithNoCandidatesInsertsNewline(t *testing.T) {
	e := headless(t)

	typeString(e, "/zzzz")
	e.HandleKey(key.Event{Key: key.KeyEnter})

	if e.Suggest().Active() {
		t.Error("overlay still open")
	}
	doc, _ := e.Current()
	if len(doc.Blocks()) != 2 {
		t.Errorf("blocks = %d", len(doc.Blocks()))
	}
}

func TestSuggestPhaseNamesStable(t *testing.T) {
	if suggest.PhaseInactive.String() != "inactive" || suggest.PhaseActive.String() != "active" {
		t.Error("phase names changed")
	}
}
