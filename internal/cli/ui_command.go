package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"fastodo/internal/ui"
)

// UICommand handles the ui command
type UICommand struct {
	app     *App
	options []tea.ProgramOption
}

// NewUICommand creates a new ui command handler
func NewUICommand(app *App) *UICommand {
	return &UICommand{app: app}
}

// Execute starts the interactive task list. The tasks are loaded by the UI itself.
func (c *UICommand) Execute(ctx context.Context, args []string) error {
	presenter := ui.NewPresenter(c.app.store, ui.WithPresenterLogger(c.app.logger))
	return ui.Run(ctx, presenter, c.options...)
}
