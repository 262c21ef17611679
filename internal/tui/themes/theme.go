// Package themes holds colour schemes for the statement browser.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Detail   lipgloss.Style
	Border   lipgloss.Color
	Debit    lipgloss.Color
	Credit   lipgloss.Color
	Muted    lipgloss.Color
}

func newTheme(primary, debit, credit, muted, border, selectedBg lipgloss.Color) Theme {
	return Theme{
		Debit:  debit,
		Credit: credit,
		Muted:  muted,
		Border: border,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Status: lipgloss.NewStyle().
			Foreground(muted),
		Error: lipgloss.NewStyle().
			Foreground(debit).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(selectedBg).
			Bold(true),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#f7768e"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#565f89"),
	lipgloss.Color("#3b4261"),
	lipgloss.Color("#283457"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#313244"),
)

// ByName returns the named theme, or Default for unknown names.
func ByName(name string) Theme {
	if name == "catppuccin" || name == "catppuccin-mocha" {
		return CatppuccinMocha
	}
	return Default
}
