package tui

import (
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/service"
	"github.com/Veraticus/alertledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Storage   service.Storage
	Theme     themes.Theme
	AccountID string
	Filter    model.Filter
	Limit     int
	Width     int
	Height    int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		AccountID: "default",
		Limit:     10,
		Width:     100,
		Height:    24,
	}
}

// WithTheme sets the colour scheme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithAccount selects whose statements are browsed.
func WithAccount(accountID string) Option {
	return func(c *Config) { c.AccountID = accountID }
}

// WithFilter narrows the listing.
func WithFilter(filter model.Filter) Option {
	return func(c *Config) { c.Filter = filter }
}

// WithLimit sets the page size.
func WithLimit(limit int) Option {
	return func(c *Config) { c.Limit = limit }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
