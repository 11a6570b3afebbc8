// ABOUTME: Tests for the product list screen
// ABOUTME: Verifies navigation, filtering messages and infinite scroll

package catalog

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/tui/styles"
)

func snapshot(items []client.Product, hasMore bool) state.CatalogState {
	s := state.NewCatalogState()
	s.Items = items
	s.HasMore = hasMore
	seen := map[string]bool{}
	for _, p := range items {
		if !seen[p.Category] {
			seen[p.Category] = true
			s.Categories = append(s.Categories, p.Category)
		}
	}
	return s
}

var sample = []client.Product{
	{ID: 1, Title: "Red Shoe", Category: "Shoes", Price: 50},
	{ID: 2, Title: "Blue Hat", Category: "Hats", Price: 20},
	{ID: 3, Title: "Green Shoe", Category: "Shoes", Price: 55},
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectMsgs runs cmd and flattens any batch it returns
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collectMsgs(c)...)
	}
	return out
}

func newView(items []client.Product, hasMore bool) *View {
	v := New(styles.Default())
	v.SetSize(80, 20)
	v.SetState(snapshot(items, hasMore))
	return v
}

func TestViewRendersProducts(t *testing.T) {
	v := newView(sample, false)
	out := v.View()

	for _, want := range []string{"Red Shoe", "Blue Hat", "$50.00", "end of catalog"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestViewShowsFilteredProducts(t *testing.T) {
	s := snapshot(sample, false)
	s.SelectedCategory = "Hats"

	v := New(styles.Default())
	v.SetSize(80, 20)
	v.SetState(s)

	out := v.View()
	if strings.Contains(out, "Red Shoe") {
		t.Error("expected filtered-out product to be hidden")
	}
	if !strings.Contains(out, "Blue Hat") {
		t.Error("expected matching product to be shown")
	}
}

func TestEnterSelectsProduct(t *testing.T) {
	v := newView(sample, false)
	v.Update(key("down"))

	_, cmd := v.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(ProductSelectedMsg)
	if !ok {
		t.Fatalf("expected ProductSelectedMsg, got %T", cmd())
	}
	if msg.Product.ID != 2 {
		t.Errorf("expected product 2, got %d", msg.Product.ID)
	}
}

func TestReachingEndRequestsMore(t *testing.T) {
	v := newView(sample, true)
	v.Update(key("down"))

	_, cmd := v.Update(key("down"))
	if cmd == nil {
		t.Fatal("expected LoadMoreMsg at the end of the list")
	}
	if _, ok := cmd().(LoadMoreMsg); !ok {
		t.Errorf("expected LoadMoreMsg, got %T", cmd())
	}
}

func TestReachingEndWithoutMoreDoesNothing(t *testing.T) {
	v := newView(sample, false)
	v.Update(key("down"))
	_, cmd := v.Update(key("down"))
	if cmd != nil {
		t.Error("expected no command when there are no more pages")
	}
	if v.Cursor() != 2 {
		t.Errorf("expected cursor at last row, got %d", v.Cursor())
	}
}

func TestCategoryCycle(t *testing.T) {
	categories := []string{"Shoes", "Hats"}
	tests := []struct {
		current string
		want    string
	}{
		{"", "Shoes"},
		{"Shoes", "Hats"},
		{"Hats", ""},
		{"Gone", ""},
	}
	for _, tt := range tests {
		if got := nextCategory(categories, tt.current); got != tt.want {
			t.Errorf("nextCategory(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
	if got := nextCategory(nil, ""); got != "" {
		t.Errorf("expected empty category with no categories, got %q", got)
	}
}

func TestCategoryKeySendsMsg(t *testing.T) {
	v := newView(sample, false)
	_, cmd := v.Update(key("c"))
	msg, ok := cmd().(CategoryChangedMsg)
	if !ok {
		t.Fatalf("expected CategoryChangedMsg, got %T", cmd())
	}
	if msg.Category != "Shoes" {
		t.Errorf("expected first category, got %q", msg.Category)
	}
}

func TestSearchTyping(t *testing.T) {
	v := newView(sample, false)
	v.Update(key("/"))
	if !v.Searching() {
		t.Fatal("expected search to be focused")
	}

	_, cmd := v.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected a command after typing")
	}

	var found bool
	for _, m := range collectMsgs(cmd) {
		if m, ok := m.(SearchChangedMsg); ok {
			found = true
			if m.Query != "r" {
				t.Errorf("expected query %q, got %q", "r", m.Query)
			}
		}
	}
	if !found {
		t.Error("expected SearchChangedMsg")
	}

	v.Update(key("esc"))
	if v.Searching() {
		t.Error("expected esc to leave the search box")
	}
}

func TestClearFilters(t *testing.T) {
	s := snapshot(sample, false)
	s.SelectedCategory = "Hats"
	v := New(styles.Default())
	v.SetSize(80, 20)
	v.SetState(s)

	_, cmd := v.Update(key("x"))
	var search, category bool
	for _, m := range collectMsgs(cmd) {
		switch m := m.(type) {
		case SearchChangedMsg:
			search = m.Query == ""
		case CategoryChangedMsg:
			category = m.Category == ""
		}
	}
	if !search || !category {
		t.Errorf("expected both filters cleared, search=%v category=%v", search, category)
	}
}

func TestRefreshKey(t *testing.T) {
	v := newView(sample, false)
	_, cmd := v.Update(key("r"))
	if _, ok := cmd().(RefreshMsg); !ok {
		t.Error("expected RefreshMsg")
	}
}

func TestErrorOnEmptyList(t *testing.T) {
	s := state.NewCatalogState()
	s.Error = "cannot connect to backend at http://localhost:8080"

	v := New(styles.Default())
	v.SetSize(80, 20)
	v.SetState(s)

	out := v.View()
	if !strings.Contains(out, "cannot connect") {
		t.Error("expected error in view")
	}
	if !strings.Contains(out, "retry") {
		t.Error("expected retry hint")
	}
}

func TestCursorClampedWhenListShrinks(t *testing.T) {
	v := newView(sample, false)
	v.Update(key("down"))
	v.Update(key("down"))

	s := snapshot(sample, false)
	s.SearchQuery = "hat"
	v.SetState(s)

	if v.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", v.Cursor())
	}
}
