package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/export"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app *App
	out string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	return c.exportTasks(ctx, args)
}

// exportTasks writes the task list in the format named by a format=<name> argument
func (c *ExportCommand) exportTasks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "export", "usage: fastodo export format="+formatNames())
	}

	option := args[0]
	if !strings.HasPrefix(option, "format=") {
		return errors.NewInvalidInputError("format", option, "invalid format option")
	}
	format, err := export.ParseFormat(strings.TrimPrefix(option, "format="))
	if err != nil {
		return err
	}

	_ = c.app.load(ctx)
	tasks := c.app.store.Snapshot()

	exporter := export.New(export.WithDateFormat(c.app.config.Display.DateFormat))
	if c.out == "" {
		return exporter.Write(c.app.out, format, tasks)
	}
	return c.writeFile(exporter, format, tasks)
}

func (c *ExportCommand) writeFile(exporter *export.Exporter, format export.Format, tasks []domain.Task) error {
	f, err := os.Create(c.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.out, err)
	}
	if err := exporter.Write(f, format, tasks); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.out, err)
	}
	fmt.Fprintf(c.app.out, "Exported %d task(s) to %s\n", len(tasks), c.out)
	return nil
}

// formatNames joins the supported export formats for usage text.
func formatNames() string {
	formats := export.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}

// formatArgs offers each format=<name> argument to shell completion.
func formatArgs() []string {
	var args []string
	for _, name := range strings.Split(formatNames(), "|") {
		args = append(args, "format="+name)
	}
	return args
}
