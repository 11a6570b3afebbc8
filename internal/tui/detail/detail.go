// ABOUTME: Product detail screen
// ABOUTME: Shows every product field and adds the product to the cart

package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/tui/styles"
	"github.com/markalston/shopfront/internal/tui/widgets"
)

// AddToCartMsg is sent when the user adds the product
type AddToCartMsg struct {
	Product client.Product
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

// Detail renders one product
type Detail struct {
	product client.Product
	styles  styles.Styles
	width   int
	added   int
}

func New(p client.Product, s styles.Styles, width int) *Detail {
	return &Detail{product: p, styles: s, width: width}
}

// Product returns the product on screen
func (d *Detail) Product() client.Product {
	return d.product
}

// SetStyles switches palette
func (d *Detail) SetStyles(s styles.Styles) {
	d.styles = s
}

// SetWidth sets the render width
func (d *Detail) SetWidth(width int) {
	d.width = width
}

// Init implements tea.Model
func (d *Detail) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (d *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch key.String() {
	case "a", "enter":
		d.added++
		p := d.product
		return d, func() tea.Msg { return AddToCartMsg{Product: p} }
	case "esc", "b":
		return d, func() tea.Msg { return BackMsg{} }
	}
	return d, nil
}

// View implements tea.Model
func (d *Detail) View() string {
	p := d.product
	var sb strings.Builder

	sb.WriteString(d.styles.Title.Render(p.Title))
	sb.WriteString("\n")
	sb.WriteString(widgets.PriceTag(p, d.styles.Price, d.styles.Struck))
	if badges := widgets.ProductBadges(p); badges != "" {
		sb.WriteString("  " + badges)
	}
	sb.WriteString("\n\n")

	fields := [][2]string{
		{"Brand", p.Brand},
		{"Model", p.Model},
		{"Color", p.Color},
		{"Category", p.Category},
		{"Image", p.Image},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %s\n",
			d.styles.Muted.Render(fmt.Sprintf("%-9s", f[0]+":")),
			d.styles.Value.Render(f[1])))
	}

	if p.Description != "" {
		sb.WriteString("\n")
		width := d.width - 4
		if width < 20 {
			width = 20
		}
		sb.WriteString(d.styles.Text.Width(width).Render(p.Description))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		d.styles.Button.Render("Add to cart"),
		"  ",
		d.addedNote()))
	return sb.String()
}

func (d *Detail) addedNote() string {
	if d.added == 0 {
		return ""
	}
	return widgets.StatusText(fmt.Sprintf("Added (%d)", d.added), widgets.StatusOK)
}
