package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fastodo/internal/config"
	"fastodo/internal/errors"
	"fastodo/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	loader       *config.Loader
	factory      MediumFactory
	config       *config.Config
	app          *App
	errorHandler *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags. The medium is opened
// lazily by the first subcommand that needs the task list.
func NewRootCommand(loader *config.Loader, factory MediumFactory) *RootCommand {
	root := &RootCommand{
		loader:       loader,
		factory:      factory,
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "fastodo",
		Short: "A small, fast todo list",
		Long: `Fastodo keeps a single todo list with optional difficulty and due date per task.

EXAMPLES:
  fastodo add Buy milk --difficulty easy           # Add a task
  fastodo add "File taxes" --date 2025-04-15       # Add a task with a due date
  fastodo list                                     # Show tasks, soonest due first
  fastodo edit 3f2a --name "File taxes (joint)"    # Edit a task by id prefix
  fastodo done 3f2a                                # Finish (remove) a task
  fastodo export format=csv > tasks.csv            # Export the list
  fastodo ui                                       # Interactive list

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > config file > defaults

  The config file is fastodo.yaml, fastodo.toml or fastodo.json in
  $XDG_CONFIG_HOME/fastodo, ~/.fastodo or the current directory.

  Storage Configuration:
    FASTODO_STORAGE_BACKEND                file, sqlite, redis or static (default: file)
    FASTODO_STORAGE_DIR                    Storage directory (default: ~/.fastodo)
    FASTODO_STORAGE_FILENAME               Key-value file name (default: storage.json)
    FASTODO_STORAGE_KEY                    Key holding the task list (default: tasks)
    FASTODO_SQLITE_FILENAME                SQLite database file (default: fastodo.db)
    FASTODO_REDIS_URL                      Redis URL (default: redis://localhost:6379/0)
    FASTODO_STATIC_SOURCE                  Read-only document path or URL (default: tasks.json)

  Validation Configuration:
    FASTODO_VALIDATION_NAME_MAX            Max task name length (default: 255)
    FASTODO_VALIDATION_REQUIRE_DATE        Require a due date when editing (default: false)

  Display Configuration:
    FASTODO_DISPLAY_DATE_FORMAT            Date layout for list and export (default: 2006-01-02)
    FASTODO_LIST_DEFAULT_FORMAT            Default list format (default: table)

  Application Configuration:
    FASTODO_APP_TIMEOUT                    Per-command timeout (default: 30s)
    FASTODO_APP_VERBOSE                    Enable verbose logging (default: false)
    FASTODO_DEBUG                          Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command, closes the medium and turns the error into a user message.
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if r.app != nil {
		if closeErr := r.app.Close(); closeErr != nil {
			r.app.logger.Warn("could not close storage", "err", closeErr)
		}
	}
	if err == nil {
		return nil
	}
	if r.app != nil && r.errorHandler.ShouldLog(err) {
		r.app.logger.Error("command failed", "code", r.errorHandler.GetErrorCode(err), "err", err)
	}
	return r.errorHandler.HandleSimple(err)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file to read instead of searching the default locations")

	// Storage configuration
	flags.String("backend", "", "Storage backend: file, sqlite, redis, static (overrides FASTODO_STORAGE_BACKEND)")
	flags.String("storage-dir", "", "Storage directory (overrides FASTODO_STORAGE_DIR)")
	flags.String("storage-file", "", "Key-value file name (overrides FASTODO_STORAGE_FILENAME)")
	flags.String("storage-key", "", "Key holding the task list (overrides FASTODO_STORAGE_KEY)")
	flags.String("sqlite-file", "", "SQLite database file (overrides FASTODO_SQLITE_FILENAME)")
	flags.String("redis-url", "", "Redis URL (overrides FASTODO_REDIS_URL)")
	flags.String("source", "", "Read-only task document path or URL (overrides FASTODO_STATIC_SOURCE)")

	// Validation configuration
	flags.Int("name-max-length", 0, "Maximum task name length (overrides FASTODO_VALIDATION_NAME_MAX)")
	flags.Bool("require-date", false, "Require a due date when editing (overrides FASTODO_VALIDATION_REQUIRE_DATE)")

	// Display configuration
	flags.String("date-format", "", "Date layout for list and export (overrides FASTODO_DISPLAY_DATE_FORMAT)")
	flags.String("list-format", "", "Default list format (overrides FASTODO_LIST_DEFAULT_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides FASTODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose logging (overrides FASTODO_APP_VERBOSE)")
	flags.Bool("debug", false, "Enable debug logging (overrides FASTODO_DEBUG)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	var addDifficulty, addDate string
	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a task",
		Long:  "Add a task to the list. All arguments are joined into the task name.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				handler := NewAddCommand(app)
				handler.difficulty = addDifficulty
				handler.date = addDate
				return handler.Execute(ctx, args)
			})
		},
	}
	addCmd.Flags().StringVarP(&addDifficulty, "difficulty", "d", "", "Difficulty: easy, medium or hard")
	addCmd.Flags().StringVar(&addDate, "date", "", "Due date (YYYY-MM-DD)")

	var listFormat string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks ordered by due date. Tasks without a due date come last.

Examples:
  fastodo list                 # Table output
  fastodo list --format json   # JSON array of tasks`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				handler := NewListCommand(app)
				handler.format = listFormat
				return handler.Execute(ctx, args)
			})
		},
	}
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "", "Output format: table or json")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change the name, difficulty or due date of a task. Fields whose flag is not given keep their
current value. Pass --date "" to clear the due date. The id may be shortened to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				handler := NewEditCommand(app)
				handler.name = changedString(cmd, "name")
				handler.difficulty = changedString(cmd, "difficulty")
				handler.date = changedString(cmd, "date")
				return handler.Execute(ctx, args)
			})
		},
	}
	editCmd.Flags().String("name", "", "New task name")
	editCmd.Flags().StringP("difficulty", "d", "", "New difficulty: easy, medium, hard or unset")
	editCmd.Flags().String("date", "", "New due date (YYYY-MM-DD), empty to clear")

	doneCmd := &cobra.Command{
		Use:   "done <id> [id...]",
		Short: "Mark tasks as done",
		Long:  "Mark tasks as done. Finished tasks are removed from the list.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				return NewDoneCommand(app).Execute(ctx, args)
			})
		},
	}

	var exportOut string
	exportCmd := &cobra.Command{
		Use:   "export format=csv",
		Short: "Export tasks in the specified format",
		Long: `Export the task list in the specified format.

Supported formats:
  csv  - Comma-separated values
  json - JSON array in the stored task shape
  yaml - YAML list in the stored task shape
  pdf  - Printable PDF table

Example:
  fastodo export format=csv > tasks.csv
  fastodo export format=pdf --out tasks.pdf`,
		Aliases:   []string{"output"},
		Args:      cobra.ExactArgs(1),
		ValidArgs: formatArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, app *App) error {
				handler := NewExportCommand(app)
				handler.out = exportOut
				return handler.Execute(ctx, args)
			})
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Interactive sessions are not bounded by the command timeout.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			app, err := r.application(ctx, r.uiLogger())
			if err != nil {
				return err
			}
			return NewUICommand(app).Execute(ctx, args)
		},
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		editCmd,
		doneCmd,
		exportCmd,
		uiCmd,
	)
}

// run bounds a one-shot command by the application timeout. A command that fails after the
// deadline passed reports the timeout rather than whichever call noticed it.
func (r *RootCommand) run(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	timeout := r.getAppTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	app, err := r.application(ctx, logging.NewFromConfig(r.config))
	if err != nil {
		return err
	}
	if err := fn(ctx, app); err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.NewTimeoutError(cmd.Name(), timeout)
		}
		return err
	}
	return nil
}

// application opens the medium on first use.
func (r *RootCommand) application(ctx context.Context, logger *log.Logger) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.config == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	app, err := NewAppFromConfig(ctx, r.config, r.factory,
		WithOutput(r.cmd.OutOrStdout()),
		WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

// uiLogger keeps diagnostics off the terminal the TUI draws on unless debugging was asked for.
func (r *RootCommand) uiLogger() *log.Logger {
	if r.config.Application.Debug || logging.DebugEnabled() {
		return logging.NewFromConfig(r.config)
	}
	return logging.Discard()
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}

// loadConfig runs the configuration cascade with the command-line flags on top.
func (r *RootCommand) loadConfig() error {
	flags := r.cmd.PersistentFlags()
	if path, _ := flags.GetString("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		r.loader.WithConfigFile(path)
	}

	cfg, err := r.loader.LoadWithOverrides(r.getOverridesFromFlags())
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// getOverridesFromFlags collects the global flags the user actually set
func (r *RootCommand) getOverridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	// Storage configuration
	overrides.StorageBackend = str("backend")
	overrides.StorageDir = str("storage-dir")
	overrides.StorageFilename = str("storage-file")
	overrides.StorageKey = str("storage-key")
	overrides.SQLiteFilename = str("sqlite-file")
	overrides.RedisURL = str("redis-url")
	overrides.StaticSource = str("source")

	// Validation configuration
	if flags.Changed("name-max-length") {
		v, _ := flags.GetInt("name-max-length")
		overrides.NameMaxLength = &v
	}
	overrides.RequireDueDate = boolean("require-date")

	// Display configuration
	overrides.DateFormat = str("date-format")
	overrides.ListDefaultFormat = str("list-format")

	// Application configuration
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	overrides.Verbose = boolean("verbose")
	overrides.Debug = boolean("debug")

	return overrides
}

// changedString returns the flag's value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
