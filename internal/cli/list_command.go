package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/export"
)

// ListCommand handles the list command
type ListCommand struct {
	app    *App
	format string
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command. A medium that cannot be read lists as empty; the store has
// already logged why.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	format := c.format
	if format == "" {
		format = c.app.config.Display.ListDefaultFormat
	}
	if format != "table" && format != "json" {
		return errors.NewInvalidInputError("format", format, "list format must be table or json")
	}

	_ = c.app.load(ctx)
	tasks := c.app.store.Snapshot()

	if format == "json" {
		return export.New().Write(c.app.out, export.FormatJSON, tasks)
	}
	return c.printTable(tasks)
}

// printTable prints one row per task in display order.
func (c *ListCommand) printTable(tasks []domain.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIFFICULTY\tDUE")
	for _, task := range tasks {
		difficulty := "-"
		if task.Difficulty.IsSet() {
			difficulty = task.Difficulty.String()
		}
		due := "-"
		if task.HasDueDate() {
			due = task.DueDate.Format(c.app.config.Display.DateFormat)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(task.ID), task.Name, difficulty, due)
	}
	return w.Flush()
}
