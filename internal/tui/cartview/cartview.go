// ABOUTME: Cart screen listing lines, quantities and the discounted total
// ABOUTME: Edits go straight to the shared cart

package cartview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/cart"
	"github.com/markalston/shopfront/internal/tui/icons"
	"github.com/markalston/shopfront/internal/tui/styles"
	"github.com/markalston/shopfront/internal/tui/widgets"
)

// CartView is the cart screen
type CartView struct {
	cart   *cart.Cart
	styles styles.Styles
	cursor int
}

func New(c *cart.Cart, s styles.Styles) *CartView {
	return &CartView{cart: c, styles: s}
}

// SetStyles switches palette
func (v *CartView) SetStyles(s styles.Styles) {
	v.styles = s
}

// Init implements tea.Model
func (v *CartView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *CartView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	lines := v.cart.Lines()
	if len(lines) == 0 {
		return v, nil
	}
	if v.cursor >= len(lines) {
		v.cursor = len(lines) - 1
	}
	current := lines[v.cursor]

	switch key.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(lines)-1 {
			v.cursor++
		}
	case "+", "=":
		v.cart.SetQuantity(current.Product.ID, current.Quantity+1)
	case "-":
		v.cart.SetQuantity(current.Product.ID, current.Quantity-1)
	case "d", "delete":
		v.cart.Remove(current.Product.ID)
	case "C":
		v.cart.Clear()
		v.cursor = 0
	}

	if n := len(v.cart.Lines()); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	return v, nil
}

// View implements tea.Model
func (v *CartView) View() string {
	lines := v.cart.Lines()
	if len(lines) == 0 {
		return v.styles.Title.Render(icons.Cart.String()+" Your Cart") + "\n" +
			v.styles.Muted.Render("Your cart is empty")
	}

	var sb strings.Builder
	sb.WriteString(v.styles.Title.Render(icons.Cart.String() + " Your Cart"))
	sb.WriteString("\n")

	for i, l := range lines {
		marker := "  "
		title := v.styles.Text.Render(l.Product.Title)
		if i == v.cursor {
			marker = v.styles.Selected.Render("> ")
			title = v.styles.Selected.Render(l.Product.Title)
		}
		sb.WriteString(fmt.Sprintf("%s%s  x%d  %s\n",
			marker, title, l.Quantity,
			v.styles.Price.Render(widgets.FormatPrice(l.Subtotal()))))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s  %s",
		v.styles.Muted.Render("Total:"),
		v.styles.Value.Render(widgets.FormatPrice(v.cart.Total())),
		v.styles.Muted.Render(fmt.Sprintf("(%d items)", v.cart.Count()))))
	return sb.String()
}
