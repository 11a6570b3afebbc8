// ABOUTME: Root bubbletea model for the shop TUI
// ABOUTME: Routes input to screens and turns screen intents into manager calls

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/cart"
	"github.com/markalston/shopfront/internal/state"
	"github.com/markalston/shopfront/internal/theme"
	"github.com/markalston/shopfront/internal/tui/cartview"
	"github.com/markalston/shopfront/internal/tui/catalog"
	"github.com/markalston/shopfront/internal/tui/detail"
	"github.com/markalston/shopfront/internal/tui/icons"
	"github.com/markalston/shopfront/internal/tui/login"
	"github.com/markalston/shopfront/internal/tui/profile"
	"github.com/markalston/shopfront/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenCatalog
	ScreenDetail
	ScreenCart
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80
	frameOverhead    = 4 // header, blank, blank, footer
)

// sessionRestoredMsg is sent once the stored session has been read
type sessionRestoredMsg struct {
	session state.Session
}

// authUpdatedMsg carries an auth snapshot
type authUpdatedMsg struct {
	state state.AuthState
}

// catalogUpdatedMsg signals a catalog commit; the handler reads the committed state
type catalogUpdatedMsg struct{}

// loggedOutMsg is sent once Logout has committed
type loggedOutMsg struct{}

// Deps are the managers the TUI drives
type Deps struct {
	Auth    *state.Auth
	Catalog *state.Catalog
	Theme   *theme.Manager
	Cart    *cart.Cart
}

// App is the root model for the TUI
type App struct {
	auth    *state.Auth
	catalog *state.Catalog
	theme   *theme.Manager
	cart    *cart.Cart

	screen Screen
	width  int
	height int
	styles styles.Styles

	authState    state.AuthState
	catalogState state.CatalogState
	lastUpdate   time.Time

	// Child models
	loginForm   *login.Login
	catalogView *catalog.View
	detailView  *detail.Detail
	cartView    *cartview.CartView
	profileView *profile.Profile
}

// New creates the TUI application; the stored session is restored by Init
func New(deps Deps) *App {
	s := styles.New(deps.Theme.Palette())
	return &App{
		auth:         deps.Auth,
		catalog:      deps.Catalog,
		theme:        deps.Theme,
		cart:         deps.Cart,
		screen:       ScreenLogin,
		styles:       s,
		catalogState: state.NewCatalogState(),
		catalogView:  catalog.New(s),
		cartView:     cartview.New(deps.Cart, s),
		profileView:  profile.New(state.Session{}, deps.Theme.Mode(), s),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.restoreSession()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.catalogView.SetSize(a.contentWidth(), a.contentHeight())
		if a.detailView != nil {
			a.detailView.SetWidth(a.contentWidth())
		}
		if a.loginForm != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case sessionRestoredMsg:
		a.authState.Session = msg.session
		a.profileView.SetSession(msg.session)
		if msg.session.Authenticated() {
			return a, a.enterCatalog()
		}
		return a, a.showLogin("")

	case login.SubmitMsg:
		return a, a.authenticate(msg)

	case login.CancelledMsg:
		return a, tea.Quit

	case authUpdatedMsg:
		return a.handleAuth(msg.state)

	case loggedOutMsg:
		a.cart.Clear()
		a.detailView = nil
		return a, a.showLogin("")

	case catalogUpdatedMsg:
		a.applyCatalog(a.catalog.State())
		return a, nil

	case spinner.TickMsg:
		_, cmd := a.catalogView.Update(msg)
		return a, cmd

	case catalog.ProductSelectedMsg:
		a.detailView = detail.New(msg.Product, a.styles, a.contentWidth())
		a.screen = ScreenDetail
		return a, nil

	case catalog.SearchChangedMsg:
		return a, a.setSearchQuery(msg.Query)

	case catalog.CategoryChangedMsg:
		return a, a.setCategory(msg.Category)

	case catalog.LoadMoreMsg:
		return a, a.loadMore()

	case catalog.RefreshMsg:
		return a, a.fetchFirstPage()

	case detail.AddToCartMsg:
		a.cart.Add(msg.Product)
		return a, nil

	case detail.BackMsg:
		a.screen = ScreenCatalog
		a.detailView = nil
		return a, nil

	case profile.ToggleThemeMsg:
		a.applyTheme(a.theme.Toggle(context.Background()))
		return a, nil

	case profile.LogoutMsg:
		return a, a.logout()

	default:
		// huh internals
		if a.screen == ScreenLogin && a.loginForm != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenLogin {
		return a.updateLogin(msg)
	}

	// Global navigation, unless the search box owns the keyboard
	if !(a.screen == ScreenCatalog && a.catalogView.Searching()) {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "tab":
			a.screen = nextTab(a.screen)
			return a, nil
		case "1":
			a.screen = ScreenCatalog
			return a, nil
		case "2":
			a.screen = ScreenCart
			return a, nil
		case "3":
			a.screen = ScreenProfile
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case ScreenCatalog:
		_, cmd = a.catalogView.Update(msg)
	case ScreenDetail:
		if a.detailView != nil {
			_, cmd = a.detailView.Update(msg)
		}
	case ScreenCart:
		_, cmd = a.cartView.Update(msg)
	case ScreenProfile:
		_, cmd = a.profileView.Update(msg)
	}
	return a, cmd
}

// nextTab cycles Catalog -> Cart -> Profile; the detail screen belongs to Catalog
func nextTab(s Screen) Screen {
	switch s {
	case ScreenCatalog, ScreenDetail:
		return ScreenCart
	case ScreenCart:
		return ScreenProfile
	default:
		return ScreenCatalog
	}
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*login.Login)
	return a, cmd
}

func (a *App) showLogin(reason string) tea.Cmd {
	a.screen = ScreenLogin
	a.loginForm = login.New(a.styles.Palette, "")
	if reason != "" {
		return a.loginForm.Fail(reason)
	}
	return a.loginForm.Init()
}

func (a *App) handleAuth(s state.AuthState) (tea.Model, tea.Cmd) {
	a.authState = s
	a.profileView.SetSession(s.Session)

	switch s.Phase {
	case state.Fulfilled:
		if a.screen == ScreenLogin && s.Authenticated() {
			a.loginForm = nil
			return a, a.enterCatalog()
		}
	case state.Rejected:
		if a.loginForm != nil && a.loginForm.Busy() {
			return a, a.loginForm.Fail(s.Error)
		}
	}
	return a, nil
}

func (a *App) enterCatalog() tea.Cmd {
	a.screen = ScreenCatalog
	return tea.Batch(a.fetchFirstPage(), a.catalogView.Tick())
}

func (a *App) applyCatalog(s state.CatalogState) {
	a.catalogState = s
	a.catalogView.SetState(s)
	if !s.Loading && !s.LoadingMore && s.Error == "" {
		a.lastUpdate = time.Now()
	}
}

func (a *App) applyTheme(mode theme.Mode) {
	a.styles = styles.New(mode.Palette())
	a.catalogView.SetStyles(a.styles)
	a.cartView.SetStyles(a.styles)
	a.profileView.SetTheme(mode, a.styles)
	if a.detailView != nil {
		a.detailView.SetStyles(a.styles)
	}
}

// restoreSession reads the stored session
func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		return sessionRestoredMsg{session: a.auth.InitializeSession(context.Background())}
	}
}

// authenticate signs in or registers with the submitted credentials
func (a *App) authenticate(msg login.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if msg.Register {
			return authUpdatedMsg{state: a.auth.Register(ctx, msg.Credentials)}
		}
		return authUpdatedMsg{state: a.auth.Login(ctx, msg.Credentials)}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.auth.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// fetchFirstPage reloads the catalog
func (a *App) fetchFirstPage() tea.Cmd {
	return func() tea.Msg {
		a.catalog.FetchFirstPage(context.Background())
		return catalogUpdatedMsg{}
	}
}

// setSearchQuery and setCategory run as commands so no catalog commit is
// made from the event loop
func (a *App) setSearchQuery(query string) tea.Cmd {
	return func() tea.Msg {
		a.catalog.SetSearchQuery(query)
		return catalogUpdatedMsg{}
	}
}

func (a *App) setCategory(category string) tea.Cmd {
	return func() tea.Msg {
		a.catalog.SetSelectedCategory(category)
		return catalogUpdatedMsg{}
	}
}

// loadMore fetches the next page when the catalog allows it
func (a *App) loadMore() tea.Cmd {
	return tea.Batch(a.catalogView.Tick(), func() tea.Msg {
		a.catalog.LoadMore(context.Background())
		return catalogUpdatedMsg{}
	})
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		if a.loginForm != nil {
			content = a.loginForm.View()
		} else {
			content = a.styles.Muted.Render("Restoring session...")
		}
	case ScreenCatalog:
		content = a.catalogView.View()
	case ScreenDetail:
		if a.detailView != nil {
			content = a.detailView.View()
		}
	case ScreenCart:
		content = a.cartView.View()
	case ScreenProfile:
		content = a.profileView.View()
	}

	return a.wrapWithFrame(content)
}

// frameWidth leaves one column spare so the frame never wraps
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 2
}

func (a *App) contentHeight() int {
	return a.height - frameOverhead
}

// renderHeader creates the header bar with branding and tabs
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Border)
	titleStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Primary).Bold(true)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Shopfront"))

	rightText := ""
	if a.screen != ScreenLogin {
		rightText = a.renderTabs() + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╭─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╮")
}

func (a *App) renderTabs() string {
	tabs := []struct {
		screen Screen
		label  string
	}{
		{ScreenCatalog, icons.Catalog.String() + " Products"},
		{ScreenCart, fmt.Sprintf("%s Cart (%d)", icons.Cart.String(), a.cart.Count())},
		{ScreenProfile, icons.User.String() + " Profile"},
	}

	var out []string
	for _, t := range tabs {
		active := a.screen == t.screen || (t.screen == ScreenCatalog && a.screen == ScreenDetail)
		if active {
			out = append(out, a.styles.ActiveTab.Render(t.label))
		} else {
			out = append(out, a.styles.Tab.Render(t.label))
		}
	}
	return strings.Join(out, "")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Border)
	keyStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Placeholder)
	statusStyle := lipgloss.NewStyle().Foreground(a.styles.Palette.Accent)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenCatalog:
		if a.catalogView.Searching() {
			shortcuts = []string{"Enter Done", "Esc Done"}
		} else {
			shortcuts = []string{"↑↓ Navigate", "/ Search", "c Category", "r Refresh", "Tab Next", "q Quit"}
		}
	case ScreenDetail:
		shortcuts = []string{"a Add", "b Back", "q Quit"}
	case ScreenCart:
		shortcuts = []string{"+/- Qty", "d Remove", "C Clear", "Tab Next", "q Quit"}
	case ScreenProfile:
		shortcuts = []string{"t Theme", "L Sign out", "Tab Next", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlain := ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenCatalog || a.screen == ScreenDetail) {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlain = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlain) - lipgloss.Width(rightPlain) // -4 for ╰─ and ─╯
	if fillWidth < 0 && rightPlain != "" {
		// Shortcuts win over the status on narrow terminals
		fillWidth += lipgloss.Width(rightPlain)
		rightText = ""
	}
	if fillWidth < 0 {
		fillWidth = 0
	}

	return borderStyle.Render("╰─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) +
		rightText + borderStyle.Render("─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())

	stop := forward(p, deps)
	defer stop()

	_, err := p.Run()
	return err
}

// forward sends manager commits to p so pending states render while requests
// are in flight. Catalog commits are signals sent from their own goroutine,
// so a dispatch never waits on the event loop. Auth commits keep their order
// and are only made from commands.
func forward(p *tea.Program, deps Deps) (stop func()) {
	unsubCatalog := deps.Catalog.Subscribe(func(state.CatalogState) {
		go p.Send(catalogUpdatedMsg{})
	})

	unsubAuth := deps.Auth.Subscribe(func(s state.AuthState) {
		if s.Loading {
			p.Send(authUpdatedMsg{state: s})
		}
	})

	return func() {
		unsubCatalog()
		unsubAuth()
	}
}
