package menu

import (
	"strings"
	"testing"

	"github.com/inkstone/inkstone/internal/fuzzy"
)

func named(names ...string) []Item {
	items := make([]Item, len(names))
	for i, n := range names {
		if n == "|" {
			items[i] = Divider()
		} else {
			items[i] = Item{Name: n, Title: strings.ToUpper(n[:1]) + n[1:]}
		}
	}
	return items
}

func assertCollapsed(t *testing.T, items []Item) {
	t.Helper()
	if len(items) > 0 && (items[0].Separator || items[len(items)-1].Separator) {
		t.Errorf("leading or trailing separator in %v", names(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Separator && items[i-1].Separator {
			t.Errorf("consecutive separators at %d in %v", i, names(items))
		}
	}
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		if it.Separator {
			out[i] = "|"
		} else {
			out[i] = it.Name
		}
	}
	return out
}

func TestCollapse(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{"leading", []string{"|", "a", "b"}, []string{"a", "b"}},
		{"trailing", []string{"a", "b", "|"}, []string{"a", "b"}},
		{"consecutive", []string{"a", "|", "|", "b"}, []string{"a", "|", "b"}},
		{"all separators", []string{"|", "|"}, nil},
		{"sandwich", []string{"|", "a", "|", "|", "b", "|"}, []string{"a", "|", "b"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Collapse(named(tt.items...)))
			if len(got) != len(tt.want) {
				t.Fatalf("Collapse(%v) = %v, want %v", tt.items, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Collapse(%v) = %v, want %v", tt.items, got, tt.want)
				}
			}
			assertCollapsed(t, Collapse(named(tt.items...)))
		})
	}
}

func TestFilterAvailable(t *testing.T) {
	items := named("strong", "|", "table", "em")
	has := func(name string) bool { return name != "table" }

	got := names(Collapse(FilterAvailable(items, has)))
	want := []string{"strong", "|", "em"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFilterAvailableKeepsNonCommandActions(t *testing.T) {
	items := []Item{
		{Name: "image", Title: "Image", Action: ActionFilePicker},
		{Name: "gone", Title: "Gone"},
	}
	got := FilterAvailable(items, func(string) bool { return false })
	if len(got) != 1 || got[0].Name != "image" {
		t.Errorf("file-picker shortcuts must survive availability filtering, got %v", names(got))
	}
}

func TestFilterUploadable(t *testing.T) {
	items := []Item{
		{Name: "image", Title: "Image", RequiresUpload: true},
		{Name: "heading1", Title: "Big heading"},
	}

	if got := FilterUploadable(items, true); len(got) != 2 {
		t.Errorf("with upload capability all items stay, got %d", len(got))
	}
	got := FilterUploadable(items, false)
	if len(got) != 1 || got[0].Name != "heading1" {
		t.Errorf("without upload capability the image item is dropped, got %v", names(got))
	}
}

func TestSearchEmptyKeepsOrderAndHidesDefaultHidden(t *testing.T) {
	m := fuzzy.NewMatcher(0)
	items := []Item{
		{Name: "a", Title: "Alpha"},
		{Name: "b", Title: "Beta", DefaultHidden: true},
		{Name: "c", Title: "Gamma"},
	}

	got := Search(items, "", true, m)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("empty search = %v, want [a c]", names(got))
	}
}

// Every surviving candidate must contain the search text in title or
// keywords, after every keystroke of an incrementally typed query.
func TestSearchContainmentPerKeystroke(t *testing.T) {
	m := fuzzy.NewMatcher(16)
	items := []Item{
		{Name: "heading1", Title: "Big heading"},
		{Name: "heading2", Title: "Medium heading"},
		{Name: "image", Title: "Image"},
		{Name: "table", Title: "Table", Keywords: "grid"},
		Divider(),
	}

	query := "head"
	for i := 1; i <= len(query); i++ {
		part := query[:i]
		for _, it := range Search(items, part, true, m) {
			if it.Separator {
				continue
			}
			title := strings.ToLower(it.Title)
			keywords := strings.ToLower(it.Keywords)
			if !strings.Contains(title, part) && !strings.Contains(keywords, part) {
				t.Errorf("query %q: item %q does not contain it", part, it.Name)
			}
		}
	}
}

func TestSearchKeywords(t *testing.T) {
	m := fuzzy.NewMatcher(0)
	items := []Item{{Name: "table", Title: "Table", Keywords: "grid rows"}}
	if got := Search(items, "grid", true, m); len(got) != 1 {
		t.Errorf("keyword match should survive, got %v", names(got))
	}
}

func TestSearchDisabledFilteringKeepsAll(t *testing.T) {
	m := fuzzy.NewMatcher(0)
	items := named("heading1", "image")
	if got := Search(items, "zzz", false, m); len(got) != 2 {
		t.Errorf("unfilterable search should keep all items, got %v", names(got))
	}
}

func TestSearchRanksByFuzzyScore(t *testing.T) {
	m := fuzzy.NewMatcher(0)
	items := []Item{
		{Name: "heading2", Title: "Medium heading"},
		{Name: "heading1", Title: "Heading"},
	}

	got := Search(items, "head", true, m)
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	// "Heading" is a prefix match and must outrank "Medium heading".
	if got[0].Name != "heading1" {
		t.Errorf("order = %v, want heading1 first", names(got))
	}
}

func TestSearchAlwaysCollapsed(t *testing.T) {
	m := fuzzy.NewMatcher(0)
	items := []Item{
		Divider(),
		{Name: "heading1", Title: "Big heading"},
		Divider(),
		Divider(),
		{Name: "heading2", Title: "Medium heading"},
		Divider(),
	}

	assertCollapsed(t, Search(items, "", true, m))
	assertCollapsed(t, Search(items, "head", true, m))
	assertCollapsed(t, Search(items, "zzz", false, m))
}
