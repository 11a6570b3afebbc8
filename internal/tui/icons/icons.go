// ABOUTME: Shop icons with a Nerd Font glyph and a plain Unicode fallback
// ABOUTME: The glyph set is picked once from the terminal environment

package icons

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// nerdFontTerminals ship with, or are commonly configured with, a patched font
var nerdFontTerminals = []string{"iterm.app", "alacritty", "wezterm", "kitty", "ghostty"}

var (
	nerdFonts     bool
	nerdFontsOnce sync.Once
)

// detectNerdFonts decides from the environment. SHOPFRONT_NERD_FONTS wins
// when it parses as a bool; otherwise the terminal name is matched.
func detectNerdFonts(getenv func(string) string) bool {
	if v, err := strconv.ParseBool(getenv("SHOPFRONT_NERD_FONTS")); err == nil {
		return v
	}

	terminal := strings.ToLower(getenv("TERM_PROGRAM") + " " + getenv("TERM"))
	for _, name := range nerdFontTerminals {
		if strings.Contains(terminal, name) {
			return true
		}
	}
	return getenv("NERD_FONTS") == "1"
}

// HasNerdFonts reports whether Nerd Font glyphs are used, detected once
func HasNerdFonts() bool {
	nerdFontsOnce.Do(func() {
		nerdFonts = detectNerdFonts(os.Getenv)
	})
	return nerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Application
	App = Icon{"󰒚", "◈"} // nf-md-shopping

	// Tabs
	Catalog = Icon{"󰓜", "▤"} // nf-md-storefront
	Cart    = Icon{"󰄐", "⊞"} // nf-md-cart
	User    = Icon{"󰀄", "☺"} // nf-md-account

	// Product markers
	Tag     = Icon{"󰓹", "#"} // nf-md-tag
	Popular = Icon{"󰓎", "★"} // nf-md-star
	Sale    = Icon{"󰜢", "%"} // nf-md-sale
	Search  = Icon{"󰍉", "⌕"} // nf-md-magnify

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Logout  = Icon{"󰍃", "⇥"} // nf-md-logout

	// Theme
	Light = Icon{"󰖙", "☀"} // nf-md-weather_sunny
	Dark  = Icon{"󰖔", "☾"} // nf-md-weather_night
)
