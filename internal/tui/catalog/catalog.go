// ABOUTME: Product list screen with search, category filter and infinite scroll
// ABOUTME: Renders the filtered view of a catalog snapshot

package catalog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/tui/icons"
	"github.com/markalston/shopfront/internal/tui/styles"
	"github.com/markalston/shopfront/internal/tui/widgets"
)

// ProductSelectedMsg is sent when a product is opened
type ProductSelectedMsg struct {
	Product client.Product
}

// SearchChangedMsg is sent on every edit of the search box
type SearchChangedMsg struct {
	Query string
}

// CategoryChangedMsg is sent when the category filter changes; empty means all
type CategoryChangedMsg struct {
	Category string
}

// LoadMoreMsg is sent when the cursor reaches the end of the list
type LoadMoreMsg struct{}

// RefreshMsg is sent when the user asks for a reload
type RefreshMsg struct{}

// View is the product list
type View struct {
	state   state.CatalogState
	visible []client.Product
	cursor  int
	offset  int
	search  textinput.Model
	spinner spinner.Model
	styles  styles.Styles
	width   int
	height  int
}

// New creates an empty list
func New(s styles.Styles) *View {
	ti := textinput.New()
	ti.Placeholder = "Search products"
	ti.Prompt = icons.Search.String() + " "
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Selected

	return &View{
		search:  ti,
		spinner: sp,
		styles:  s,
		state:   state.NewCatalogState(),
	}
}

// SetState replaces the snapshot being rendered
func (v *View) SetState(s state.CatalogState) {
	v.state = s
	v.visible = s.EffectiveProducts()
	if v.cursor >= len(v.visible) {
		v.cursor = max(0, len(v.visible)-1)
	}
	v.clampOffset()
}

// SetStyles switches palette
func (v *View) SetStyles(s styles.Styles) {
	v.styles = s
	v.spinner.Style = s.Selected
}

// SetSize sets the area available to the list
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampOffset()
}

// Searching reports whether key presses go to the search box
func (v *View) Searching() bool {
	return v.search.Focused()
}

// Tick starts the loading spinner
func (v *View) Tick() tea.Cmd {
	return v.spinner.Tick
}

// Init implements tea.Model
func (v *View) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.state.Loading && !v.state.LoadingMore {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.search.Focused() {
			return v.updateSearch(msg)
		}
		return v.updateList(msg)
	}

	return v, nil
}

func (v *View) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		v.search.Blur()
		return v, nil
	}

	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if after := v.search.Value(); after != before {
		return v, tea.Batch(cmd, func() tea.Msg { return SearchChangedMsg{Query: after} })
	}
	return v, cmd
}

func (v *View) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.clampOffset()
		}
	case "down", "j":
		if v.cursor < len(v.visible)-1 {
			v.cursor++
			v.clampOffset()
		}
		if v.cursor >= len(v.visible)-1 && v.state.HasMore {
			return v, func() tea.Msg { return LoadMoreMsg{} }
		}
	case "enter":
		if v.cursor < len(v.visible) {
			p := v.visible[v.cursor]
			return v, func() tea.Msg { return ProductSelectedMsg{Product: p} }
		}
	case "/":
		v.search.Focus()
		return v, textinput.Blink
	case "c":
		next := nextCategory(v.state.Categories, v.state.SelectedCategory)
		v.cursor, v.offset = 0, 0
		return v, func() tea.Msg { return CategoryChangedMsg{Category: next} }
	case "x":
		if v.search.Value() == "" && v.state.SelectedCategory == "" {
			return v, nil
		}
		v.search.SetValue("")
		v.cursor, v.offset = 0, 0
		return v, tea.Batch(
			func() tea.Msg { return SearchChangedMsg{Query: ""} },
			func() tea.Msg { return CategoryChangedMsg{Category: ""} },
		)
	case "r":
		v.cursor, v.offset = 0, 0
		return v, func() tea.Msg { return RefreshMsg{} }
	}
	return v, nil
}

// nextCategory cycles all -> first -> ... -> last -> all
func nextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return ""
	}
	if current == "" {
		return categories[0]
	}
	for i, c := range categories {
		if c == current {
			if i+1 < len(categories) {
				return categories[i+1]
			}
			return ""
		}
	}
	return ""
}

// Cursor returns the highlighted row
func (v *View) Cursor() int {
	return v.cursor
}

func (v *View) rows() int {
	// search line, filter line, blank, status line
	rows := v.height - 4
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (v *View) clampOffset() {
	rows := v.rows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+rows {
		v.offset = v.cursor - rows + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// View implements tea.Model
func (v *View) View() string {
	var sb strings.Builder

	sb.WriteString(v.search.View())
	sb.WriteString("\n")
	sb.WriteString(v.renderFilter())
	sb.WriteString("\n\n")

	switch {
	case v.state.Loading && len(v.state.Items) == 0:
		sb.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Loading products..."))
	case v.state.Error != "" && len(v.state.Items) == 0:
		sb.WriteString(widgets.StatusText(v.state.Error, widgets.StatusCritical))
		sb.WriteString("\n")
		sb.WriteString(v.styles.Help.Render("press r to retry"))
	case len(v.visible) == 0:
		sb.WriteString(v.styles.Muted.Render("No products found"))
	default:
		sb.WriteString(v.renderRows())
	}

	if status := v.renderStatus(); status != "" {
		sb.WriteString("\n")
		sb.WriteString(status)
	}
	return sb.String()
}

func (v *View) renderFilter() string {
	category := "All"
	if v.state.SelectedCategory != "" {
		category = v.state.SelectedCategory
	}
	return fmt.Sprintf("%s %s  %s",
		icons.Tag.String(),
		v.styles.Value.Render(category),
		v.styles.Muted.Render(fmt.Sprintf("(%d categories)", len(v.state.Categories))))
}

func (v *View) renderRows() string {
	rows := v.rows()
	end := min(len(v.visible), v.offset+rows)

	var lines []string
	for i := v.offset; i < end; i++ {
		p := v.visible[i]
		marker := "  "
		title := v.styles.Text.Render(p.Title)
		if i == v.cursor {
			marker = v.styles.Selected.Render("> ")
			title = v.styles.Selected.Render(p.Title)
		}

		line := marker + title + "  " + widgets.PriceTag(p, v.styles.Price, v.styles.Struck)
		if badges := widgets.ProductBadges(p); badges != "" {
			line += "  " + badges
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderStatus() string {
	switch {
	case v.state.LoadingMore:
		return v.spinner.View() + " " + v.styles.Muted.Render("Loading more...")
	case v.state.Loading && len(v.state.Items) > 0:
		return v.spinner.View() + " " + v.styles.Muted.Render("Refreshing...")
	case v.state.Error != "" && len(v.state.Items) > 0:
		return widgets.StatusText(v.state.Error, widgets.StatusWarning)
	case len(v.state.Items) > 0 && !v.state.HasMore:
		return v.styles.Muted.Render(fmt.Sprintf("%d products, end of catalog", len(v.state.Items)))
	}
	return ""
}
