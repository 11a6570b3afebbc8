package cartview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/cart"
	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/tui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEmptyCart(t *testing.T) {
	v := New(cart.New(), styles.Default())
	if !strings.Contains(v.View(), "Your cart is empty") {
		t.Error("expected empty cart message")
	}
}

func TestCartViewTotals(t *testing.T) {
	c := cart.New()
	c.Add(client.Product{ID: 1, Title: "Headphones", Price: 100})
	c.Add(client.Product{ID: 1, Title: "Headphones", Price: 100})

	out := New(c, styles.Default()).View()
	for _, want := range []string{"Headphones", "x2", "$200.00", "(2 items)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in cart view", want)
		}
	}
}

func TestCartViewEditsQuantity(t *testing.T) {
	c := cart.New()
	c.Add(client.Product{ID: 1, Title: "Headphones", Price: 100})
	c.Add(client.Product{ID: 2, Title: "Speaker", Price: 50})
	v := New(c, styles.Default())

	v.Update(runes("+"))
	if c.Count() != 3 {
		t.Errorf("expected 3 items after +, got %d", c.Count())
	}

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(runes("-"))
	if len(c.Lines()) != 1 {
		t.Errorf("expected speaker removed at quantity 0, got %d lines", len(c.Lines()))
	}

	v.Update(runes("C"))
	if c.Count() != 0 {
		t.Error("expected cart cleared")
	}
}
