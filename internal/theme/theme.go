// ABOUTME: Light/dark theme preference persisted in the key-value store
// ABOUTME: Falls back to the terminal background when nothing is stored

package theme

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/kvstore"
)

// Mode is the active colour scheme
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark" in any case
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
	}
}

// Palette is the colour set the TUI styles are built from
type Palette struct {
	Background  lipgloss.Color
	Text        lipgloss.Color
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Accent      lipgloss.Color
	Border      lipgloss.Color
	Card        lipgloss.Color
	Error       lipgloss.Color
	Placeholder lipgloss.Color
	ButtonText  lipgloss.Color
}

var (
	LightPalette = Palette{
		Background:  lipgloss.Color("#FFFFFF"),
		Text:        lipgloss.Color("#333333"),
		Primary:     lipgloss.Color("#6B46C1"),
		Secondary:   lipgloss.Color("#F5F5F5"),
		Accent:      lipgloss.Color("#007AFF"),
		Border:      lipgloss.Color("#DDDDDD"),
		Card:        lipgloss.Color("#FFFFFF"),
		Error:       lipgloss.Color("#FF3B30"),
		Placeholder: lipgloss.Color("#999999"),
		ButtonText:  lipgloss.Color("#FFFFFF"),
	}

	DarkPalette = Palette{
		Background:  lipgloss.Color("#1A1A1A"),
		Text:        lipgloss.Color("#FFFFFF"),
		Primary:     lipgloss.Color("#9F7AEA"),
		Secondary:   lipgloss.Color("#333333"),
		Accent:      lipgloss.Color("#0A84FF"),
		Border:      lipgloss.Color("#404040"),
		Card:        lipgloss.Color("#2D2D2D"),
		Error:       lipgloss.Color("#FF453A"),
		Placeholder: lipgloss.Color("#666666"),
		ButtonText:  lipgloss.Color("#FFFFFF"),
	}
)

// Palette returns the colours for m
func (m Mode) Palette() Palette {
	if m == Dark {
		return DarkPalette
	}
	return LightPalette
}

// Manager holds the current mode
type Manager struct {
	kv         kvstore.Store
	logger     *slog.Logger
	darkTermFn func() bool

	mu   sync.RWMutex
	mode Mode
}

// Option configures a Manager
type Option func(*Manager)

// WithBackgroundDetector replaces lipgloss.HasDarkBackground
func WithBackgroundDetector(fn func() bool) Option {
	return func(m *Manager) { m.darkTermFn = fn }
}

// WithLogger sets the logger; the default is slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a manager in light mode; call Load to apply the stored preference
func New(kv kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		kv:         kv,
		logger:     slog.Default(),
		darkTermFn: lipgloss.HasDarkBackground,
		mode:       Light,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load applies the stored preference. Any stored value other than "dark"
// means light; a missing or unreadable value follows the terminal background.
func (m *Manager) Load(ctx context.Context) Mode {
	saved, ok, err := m.kv.Get(ctx, kvstore.KeyTheme)
	if err != nil {
		m.logger.Warn("Error loading theme preference", "error", err)
	}

	mode := Light
	switch {
	case err == nil && ok:
		if saved == string(Dark) {
			mode = Dark
		}
	case m.darkTermFn():
		mode = Dark
	}

	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	return mode
}

// Mode returns the current mode
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Palette returns the colours of the current mode
func (m *Manager) Palette() Palette {
	return m.Mode().Palette()
}

// Toggle flips between light and dark and persists the result
func (m *Manager) Toggle(ctx context.Context) Mode {
	m.mu.Lock()
	if m.mode == Dark {
		m.mode = Light
	} else {
		m.mode = Dark
	}
	mode := m.mode
	m.mu.Unlock()

	m.persist(ctx, mode)
	return mode
}

// Set switches to mode and persists it
func (m *Manager) Set(ctx context.Context, mode Mode) Mode {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()

	m.persist(ctx, mode)
	return mode
}

func (m *Manager) persist(ctx context.Context, mode Mode) {
	if err := m.kv.Set(ctx, kvstore.KeyTheme, string(mode)); err != nil {
		m.logger.Warn("Error saving theme preference", "error", err)
	}
}
