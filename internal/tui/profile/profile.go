// ABOUTME: Profile screen with session details, theme toggle and sign-out
// ABOUTME: Emits messages; the root model performs the actions

package profile

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/theme"
	"github.com/markalston/shopfront/internal/tui/icons"
	"github.com/markalston/shopfront/internal/tui/styles"
	"github.com/markalston/shopfront/internal/tui/widgets"
)

// ToggleThemeMsg asks for the other colour scheme
type ToggleThemeMsg struct{}

// LogoutMsg asks to end the session
type LogoutMsg struct{}

type Profile struct {
	session state.Session
	mode    theme.Mode
	styles  styles.Styles
}

func New(session state.Session, mode theme.Mode, s styles.Styles) *Profile {
	return &Profile{session: session, mode: mode, styles: s}
}

// SetSession updates the session shown
func (p *Profile) SetSession(s state.Session) {
	p.session = s
}

// SetTheme updates the mode shown and the styles used
func (p *Profile) SetTheme(mode theme.Mode, s styles.Styles) {
	p.mode = mode
	p.styles = s
}

// Init implements tea.Model
func (p *Profile) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Profile) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "t":
		return p, func() tea.Msg { return ToggleThemeMsg{} }
	case "L":
		return p, func() tea.Msg { return LogoutMsg{} }
	}
	return p, nil
}

// View implements tea.Model
func (p *Profile) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render(icons.User.String() + " Profile"))
	sb.WriteString("\n")

	if p.session.Authenticated() {
		sb.WriteString(widgets.StatusText("Signed in", widgets.StatusOK))
	} else {
		sb.WriteString(widgets.StatusText("Signed out", widgets.StatusNeutral))
	}
	sb.WriteString("\n\n")

	userID := p.session.UserID
	if userID == "" {
		userID = "unknown"
	}
	sb.WriteString(p.styles.Muted.Render("User ID: ") + p.styles.Value.Render(userID) + "\n")

	icon := icons.Light
	label := "Light"
	if p.mode == theme.Dark {
		icon = icons.Dark
		label = "Dark"
	}
	sb.WriteString(p.styles.Muted.Render("Theme:   ") + p.styles.Value.Render(icon.String()+" "+label) + "\n")

	sb.WriteString(p.styles.Help.Render("t toggle theme  L sign out"))
	return sb.String()
}
