package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"fastodo/internal/config"
	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/logging"
	"fastodo/internal/repository"
	"fastodo/internal/store"
	"fastodo/internal/validation"
)

// shortIDLength is how many characters of an id the list shows.
const shortIDLength = 8

// MediumFactory opens the persistence medium selected by cfg.
type MediumFactory func(ctx context.Context, cfg *config.Config) (repository.Medium, error)

// App holds what every command needs: the store, its configuration and the output stream.
type App struct {
	store   *store.Store
	config  *config.Config
	logger  *log.Logger
	out     io.Writer
	loaded  bool
	loadErr error
}

// AppOption configures an App.
type AppOption func(*App)

// WithOutput sets where command output is written.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		a.out = w
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a CLI application over an existing store.
func NewApp(s *store.Store, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		store:  s,
		config: cfg,
		logger: logging.Discard(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// NewAppFromConfig opens the configured medium and builds a store over it. Commands save
// explicitly so a failed write is reported instead of only logged.
func NewAppFromConfig(ctx context.Context, cfg *config.Config, factory MediumFactory, opts ...AppOption) (*App, error) {
	medium, err := factory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := NewApp(nil, cfg, opts...)
	app.store = store.New(medium,
		store.WithLogger(app.logger),
		store.WithRules(validation.RulesFromConfig(cfg)),
		store.WithAutoSave(false),
	)
	return app, nil
}

// Store returns the task store.
func (a *App) Store() *store.Store {
	return a.store
}

// Close releases the medium.
func (a *App) Close() error {
	if a.store == nil || a.store.Medium() == nil {
		return nil
	}
	return a.store.Medium().Close()
}

// load reads the persisted tasks once per process. The failure is remembered so commands
// that write can refuse to overwrite data they could not read.
func (a *App) load(ctx context.Context) error {
	if !a.loaded {
		a.loadErr = a.store.Load(ctx)
		a.loaded = true
	}
	return a.loadErr
}

// loadForWrite is load for commands that persist; they must not clobber unreadable data.
func (a *App) loadForWrite(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if !a.store.Medium().Writable() {
		return errors.NewReadOnlyError(a.store.Medium().Name())
	}
	return nil
}

// persist writes the collection back after a command changed it.
func (a *App) persist(ctx context.Context) error {
	return a.store.Save(ctx)
}

// resolveID finds the task whose id equals ref or, failing that, starts with it.
func (a *App) resolveID(ref string) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, errors.NewInvalidInputError("id", ref, "task id is required")
	}
	if task, ok := a.store.Get(ref); ok {
		return task, nil
	}

	var matches []domain.Task
	for _, task := range a.store.Snapshot() {
		if strings.HasPrefix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Task{}, errors.NewNotFoundError("task", ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Task{}, errors.NewInvalidInputError("id", ref, "ambiguous id prefix")
	}
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
