package cli

import (
	"context"
	"fmt"

	"fastodo/internal/errors"
	"fastodo/internal/validation"
)

// EditCommand handles the edit command. Fields whose flag was not given keep their value.
type EditCommand struct {
	app          *App
	errorHandler *ErrorHandler
	parser       *validation.TaskValidator

	name       *string
	difficulty *string
	date       *string
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
		parser:       validation.NewTaskValidatorWithConfig(app.config),
	}
}

// Execute runs the edit command
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: fastodo edit <id> [--name ...] [--difficulty ...] [--date ...]")
	}
	if c.name == nil && c.difficulty == nil && c.date == nil {
		return errors.NewInvalidInputError("command", "edit", "nothing to change: pass --name, --difficulty or --date")
	}

	if err := c.app.loadForWrite(ctx); err != nil {
		return c.errorHandler.Handle("edit task", err)
	}

	task, err := c.app.resolveID(args[0])
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}

	name, difficulty, due := task.Name, task.Difficulty, task.DueDate
	if c.name != nil {
		name = *c.name
	}
	if c.difficulty != nil {
		if difficulty, err = c.parser.ParseDifficulty(*c.difficulty); err != nil {
			return c.errorHandler.Handle("edit task", err)
		}
	}
	if c.date != nil {
		if due, err = c.parser.ParseDueDate(*c.date); err != nil {
			return c.errorHandler.Handle("edit task", err)
		}
	}

	updated, err := c.app.store.Update(ctx, task.ID, name, difficulty, due)
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}
	if err := c.app.persist(ctx); err != nil {
		return c.errorHandler.Handle("edit task", err)
	}

	fmt.Fprintf(c.app.out, "Updated task %s: %s\n", shortID(updated.ID), updated.Name)
	return nil
}
