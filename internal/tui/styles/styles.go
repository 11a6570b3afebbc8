// ABOUTME: Shared lipgloss styles built from the active theme palette
// ABOUTME: Rebuilt whenever the theme is toggled

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/theme"
)

// Styles is the set of styles every screen renders with
type Styles struct {
	Palette theme.Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Price    lipgloss.Style
	Struck   lipgloss.Style
	Selected lipgloss.Style

	// Panels
	Panel       lipgloss.Style
	ActivePanel lipgloss.Style

	// Help text
	Help lipgloss.Style

	// Key style for keyboard shortcuts
	Key lipgloss.Style

	// Value style for emphasized data
	Value lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	Button lipgloss.Style
}

// New builds styles from p
func New(p theme.Palette) Styles {
	return Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			MarginBottom(1),

		Text:  lipgloss.NewStyle().Foreground(p.Text),
		Muted: lipgloss.NewStyle().Foreground(p.Placeholder),

		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Price: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Struck: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			Strikethrough(true),

		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),

		ActivePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),

		Help: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			MarginTop(1),

		Key: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Value: lipgloss.NewStyle().
			Foreground(p.Text).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(p.Placeholder).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(p.ButtonText).
			Background(p.Primary).
			Bold(true).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(p.ButtonText).
			Background(p.Primary).
			Padding(0, 2),
	}
}

// Default returns the light styles
func Default() Styles {
	return New(theme.LightPalette)
}

// Divider returns a horizontal rule of the given width
func (s Styles) Divider(width int) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().Foreground(s.Palette.Border).Render(strings.Repeat("─", width))
}
