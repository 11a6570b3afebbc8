package profile

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/theme"
	"github.com/markalston/shopfront/internal/tui/styles"
)

func TestProfileView(t *testing.T) {
	p := New(state.Session{Token: "tok", UserID: "4"}, theme.Dark, styles.Default())
	out := p.View()

	for _, want := range []string{"Signed in", "4", "Dark"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in profile view", want)
		}
	}
}

func TestProfileUnknownUser(t *testing.T) {
	p := New(state.Session{Token: "tok"}, theme.Light, styles.Default())
	if !strings.Contains(p.View(), "unknown") {
		t.Error("expected placeholder for missing user id")
	}
}

func TestProfileKeys(t *testing.T) {
	p := New(state.Session{}, theme.Light, styles.Default())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if _, ok := cmd().(ToggleThemeMsg); !ok {
		t.Error("expected ToggleThemeMsg")
	}

	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	if _, ok := cmd().(LogoutMsg); !ok {
		t.Error("expected LogoutMsg")
	}
}
