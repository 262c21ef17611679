package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/alertledger/internal/service"
)

// Run starts the browser and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, store service.Storage, opts ...Option) error {
	if store == nil {
		return fmt.Errorf("statement browser requires storage")
	}

	cfg := defaultConfig()
	cfg.Storage = store
	for _, opt := range opts {
		opt(&cfg)
	}

	program := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("statement browser failed: %w", err)
	}
	return nil
}
