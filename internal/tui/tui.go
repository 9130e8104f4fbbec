package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled. attach is called with the program before it starts so the
// caller can route dashboard updates into it.
func Run(ctx context.Context, d Dashboard, title string, attach func(Sender)) error {
	p := tea.NewProgram(New(d, title),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if attach != nil {
		attach(p)
	}
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
