// ABOUTME: Badge widgets for product markers and status lines
// ABOUTME: Provides colored inline badges and price tags

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/shopfront/internal/client"
	"github.com/markalston/shopfront/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

func levelColors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return BadgeOKBg, BadgeOKFg
	case StatusWarning:
		return BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		return BadgeCritBg, BadgeCritFg
	case StatusInfo:
		return BadgeInfoBg, BadgeInfoFg
	default:
		return BadgeNeutralBg, BadgeNeutralFg
	}
}

// Badge renders a colored badge
func Badge(text string, level StatusLevel) string {
	bg, fg := levelColors(level)

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := levelColors(level)
	icon := "•"
	switch level {
	case StatusOK:
		icon = icons.CheckOK.String()
	case StatusWarning:
		icon = icons.Warning.String()
	case StatusCritical:
		icon = icons.Critical.String()
	case StatusInfo:
		icon = icons.Info.String()
	}
	return lipgloss.NewStyle().Foreground(bg).Render(icon)
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := levelColors(level)
	textStyle := lipgloss.NewStyle().Foreground(bg)
	return fmt.Sprintf("%s %s", StatusIcon(level), textStyle.Render(text))
}

// ProductBadges renders the popular / on-sale / discount markers of p,
// or "" when it has none
func ProductBadges(p client.Product) string {
	var badges []string
	if p.IsPopular() {
		badges = append(badges, Badge(icons.Popular.String()+" Popular", StatusInfo))
	}
	if p.IsOnSale() {
		badges = append(badges, Badge(icons.Sale.String()+" Sale", StatusWarning))
	}
	if d := p.DiscountPercent(); d > 0 {
		badges = append(badges, Badge(fmt.Sprintf("-%.0f%%", d), StatusOK))
	}
	return strings.Join(badges, " ")
}

// PriceTag renders the price, with the original struck through when discounted
func PriceTag(p client.Product, price, struck lipgloss.Style) string {
	if p.DiscountPercent() <= 0 {
		return price.Render(FormatPrice(p.Price))
	}
	return price.Render(FormatPrice(p.DiscountedPrice())) + " " + struck.Render(FormatPrice(p.Price))
}

// FormatPrice renders an amount in dollars
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
