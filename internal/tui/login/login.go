// ABOUTME: Sign-in and registration form as a bubbletea model
// ABOUTME: Uses a huh form themed from the active palette

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/theme"
	"github.com/markalston/shopfront/internal/tui/styles"
)

// SubmitMsg is sent when the form is completed
type SubmitMsg struct {
	Credentials client.Credentials
	Register    bool
}

// CancelledMsg is sent when the user leaves the form
type CancelledMsg struct{}

// Login collects credentials
type Login struct {
	form    *huh.Form
	styles  styles.Styles
	palette theme.Palette
	width   int
	err     string
	busy    bool

	// Form field values
	email    string
	password string
	register bool
}

// createTheme returns a huh theme using the palette colours
func createTheme(p theme.Palette) *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(p.Placeholder).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(p.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(p.Placeholder)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(p.Error).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(p.Error)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(p.Primary).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(p.Text)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(p.Accent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(p.Placeholder)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(p.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(p.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(p.ButtonText).
		Background(p.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(p.Placeholder).
		Background(p.Secondary).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(p.Placeholder)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(p.Placeholder).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(p.Placeholder)

	return t
}

// New creates the form, prefilling email when known
func New(p theme.Palette, email string) *Login {
	l := &Login{
		styles:  styles.New(p),
		palette: p,
		email:   email,
	}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("eve.holt@reqres.in").
				CharLimit(254).
				Value(&l.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Value(&l.password).
				Validate(validatePassword),
			huh.NewSelect[bool]().
				Title("Action").
				Options(
					huh.NewOption("Sign in", false),
					huh.NewOption("Create account", true),
				).
				Value(&l.register),
		).Title("Welcome").
			Description("Sign in to browse the catalog"),
	).WithTheme(createTheme(l.palette)).
		WithShowHelp(false)
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.busy {
		return l, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return l, func() tea.Msg { return CancelledMsg{} }
		}
		l.err = ""
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l.submit()
	}

	return l, cmd
}

func (l *Login) submit() (tea.Model, tea.Cmd) {
	l.busy = true
	msg := SubmitMsg{
		Credentials: client.Credentials{
			Email:    strings.TrimSpace(l.email),
			Password: l.password,
		},
		Register: l.register,
	}
	return l, func() tea.Msg { return msg }
}

// Fail shows reason and rebuilds the form so the user can retry.
// The email is kept; the password is cleared.
func (l *Login) Fail(reason string) tea.Cmd {
	l.err = reason
	l.busy = false
	l.password = ""
	l.form = l.createForm()
	return l.form.Init()
}

// Busy reports whether a submission is in flight
func (l *Login) Busy() bool {
	return l.busy
}

// Error returns the message shown above the form
func (l *Login) Error() string {
	return l.err
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	if l.err != "" {
		sb.WriteString(l.styles.Error.Render(l.err))
		sb.WriteString("\n\n")
	}

	if l.busy {
		action := "Signing in"
		if l.register {
			action = "Creating account"
		}
		sb.WriteString(l.styles.Muted.Render(fmt.Sprintf("%s as %s...", action, strings.TrimSpace(l.email))))
		return sb.String()
	}

	sb.WriteString(l.form.View())
	return sb.String()
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("enter a valid email")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
