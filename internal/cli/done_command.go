package cli

import (
	"context"
	"fmt"

	"fastodo/internal/errors"
)

// DoneCommand handles the done command. A finished task is removed from the list.
type DoneCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDoneCommand creates a new done command handler
func NewDoneCommand(app *App) *DoneCommand {
	return &DoneCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the done command. Every id is resolved before anything is removed.
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "done", "usage: fastodo done <id> [id...]")
	}

	if err := c.app.loadForWrite(ctx); err != nil {
		return c.errorHandler.Handle("complete task", err)
	}

	ids := make([]string, 0, len(args))
	names := make(map[string]string, len(args))
	for _, ref := range args {
		task, err := c.app.resolveID(ref)
		if err != nil {
			return c.errorHandler.Handle("complete task", err)
		}
		if _, dup := names[task.ID]; dup {
			continue
		}
		ids = append(ids, task.ID)
		names[task.ID] = task.Name
	}

	removed := ids[:0]
	for _, id := range ids {
		if c.app.store.Remove(ctx, id) {
			removed = append(removed, id)
		}
	}
	if err := c.app.persist(ctx); err != nil {
		return c.errorHandler.Handle("complete task", err)
	}

	for _, id := range removed {
		fmt.Fprintf(c.app.out, "Done: %s\n", names[id])
	}
	return nil
}
