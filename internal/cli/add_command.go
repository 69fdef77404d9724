package cli

import (
	"context"
	"fmt"
	"strings"

	"fastodo/internal/errors"
	"fastodo/internal/store"
	"fastodo/internal/validation"
)

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	errorHandler *ErrorHandler
	parser       *validation.TaskValidator

	difficulty string
	date       string
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
		parser:       validation.NewTaskValidatorWithConfig(app.config),
	}
}

// Execute runs the add command
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add", "usage: fastodo add \"task name\"")
	}

	difficulty, err := c.parser.ParseDifficulty(c.difficulty)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	due, err := c.parser.ParseDueDate(c.date)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	if err := c.app.loadForWrite(ctx); err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	task, err := c.app.store.Add(ctx, strings.Join(args, " "),
		store.WithDifficulty(difficulty),
		store.WithDueDate(due),
	)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	if err := c.app.persist(ctx); err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Added task %s: %s\n", shortID(task.ID), task.Name)
	return nil
}
