// Package ui renders the task list and turns user input into store intents.
//
// Presenter holds the transient view state and knows nothing about terminals; the bubbletea
// model in tui.go drives one.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/logging"
	"fastodo/internal/store"
	"fastodo/internal/validation"
)

// DefaultDifficulty is preselected for new tasks and restored after each submission.
const DefaultDifficulty = domain.DifficultyEasy

// TaskStore is the part of *store.Store the presenter talks to.
type TaskStore interface {
	Add(ctx context.Context, name string, opts ...store.AddOption) (domain.Task, error)
	Update(ctx context.Context, id, name string, difficulty domain.Difficulty, date *time.Time) (domain.Task, error)
	Remove(ctx context.Context, id string) bool
	Get(id string) (domain.Task, bool)
	Snapshot() []domain.Task
	Subscribe(fn store.Subscriber)
	Load(ctx context.Context) error
}

// EditBuffer holds the fields of the task being edited, as typed.
type EditBuffer struct {
	Name       string
	Difficulty domain.Difficulty
	Date       string
}

// Presenter is the view model behind the task list.
type Presenter struct {
	store  TaskStore
	parser *validation.TaskValidator
	logger *log.Logger

	tasks []domain.Task

	newText       string
	newDifficulty domain.Difficulty

	editingID string
	edit      EditBuffer
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithPresenterLogger sets the logger used for failures the view does not show.
func WithPresenterLogger(logger *log.Logger) PresenterOption {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// NewPresenter subscribes to s and starts with its current snapshot.
func NewPresenter(s TaskStore, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		store:         s,
		parser:        validation.NewTaskValidator(),
		logger:        logging.Discard(),
		newDifficulty: DefaultDifficulty,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tasks = s.Snapshot()
	s.Subscribe(func(tasks []domain.Task) {
		p.tasks = tasks
	})
	return p
}

// Load asks the store to read persisted tasks. A failure leaves the list as it was.
func (p *Presenter) Load(ctx context.Context) error {
	return p.store.Load(ctx)
}

// Tasks returns the last snapshot published by the store.
func (p *Presenter) Tasks() []domain.Task {
	return p.tasks
}

// NewTaskText returns the text typed for the next task.
func (p *Presenter) NewTaskText() string {
	return p.newText
}

// SetNewTaskText replaces the text of the next task.
func (p *Presenter) SetNewTaskText(s string) {
	p.newText = s
}

// NewTaskDifficulty returns the difficulty chosen for the next task.
func (p *Presenter) NewTaskDifficulty() domain.Difficulty {
	return p.newDifficulty
}

// SetNewTaskDifficulty chooses the difficulty of the next task.
func (p *Presenter) SetNewTaskDifficulty(d domain.Difficulty) {
	p.newDifficulty = d
}

// CycleNewTaskDifficulty advances the next task's difficulty.
func (p *Presenter) CycleNewTaskDifficulty() {
	p.newDifficulty = p.newDifficulty.Next()
}

// ShowDifficultySelector reports whether the difficulty choice should be offered.
func (p *Presenter) ShowDifficultySelector() bool {
	return strings.TrimSpace(p.newText) != ""
}

// Submit adds the typed task. The input is reset only when the store accepts it.
func (p *Presenter) Submit(ctx context.Context) (domain.Task, error) {
	task, err := p.store.Add(ctx, p.newText, store.WithDifficulty(p.newDifficulty))
	if err != nil {
		p.report("add", err)
		return domain.Task{}, err
	}
	p.newText = ""
	p.newDifficulty = DefaultDifficulty
	return task, nil
}

// BeginEdit loads the task with id into the edit buffer. It reports false for an unknown id.
func (p *Presenter) BeginEdit(id string) bool {
	task, ok := p.store.Get(id)
	if !ok {
		return false
	}
	p.editingID = task.ID
	p.edit = EditBuffer{
		Name:       task.Name,
		Difficulty: task.Difficulty,
		Date:       task.DueDateString(),
	}
	return true
}

// Editing returns the id of the task being edited.
func (p *Presenter) Editing() (string, bool) {
	return p.editingID, p.editingID != ""
}

// EditBuffer returns the current edit fields.
func (p *Presenter) EditBuffer() EditBuffer {
	return p.edit
}

// SetEditName replaces the name in the edit buffer. It is checked when the edit is saved.
func (p *Presenter) SetEditName(name string) {
	p.edit.Name = name
}

// SetEditDifficulty sets the difficulty in the edit buffer.
func (p *Presenter) SetEditDifficulty(d domain.Difficulty) {
	p.edit.Difficulty = d
}

// SetEditDate replaces the typed due date. An empty string clears the date on save.
func (p *Presenter) SetEditDate(date string) {
	p.edit.Date = date
}

// SaveEdit writes the buffer back through the store and leaves edit mode. When the store
// rejects the edit the buffer stays open for correction.
func (p *Presenter) SaveEdit(ctx context.Context) (domain.Task, error) {
	if p.editingID == "" {
		return domain.Task{}, errors.NewInvalidInputError("edit", "", "no task is being edited")
	}

	date, err := p.parser.ParseDueDate(p.edit.Date)
	if err != nil {
		err = errors.NewValidationError("edit rejected", err)
		p.report("edit", err)
		return domain.Task{}, err
	}

	task, err := p.store.Update(ctx, p.editingID, p.edit.Name, p.edit.Difficulty, date)
	if err != nil {
		p.report("edit", err)
		return domain.Task{}, err
	}
	p.CancelEdit()
	return task, nil
}

// CancelEdit discards the buffer.
func (p *Presenter) CancelEdit() {
	p.editingID = ""
	p.edit = EditBuffer{}
}

// MarkDone completes the task with id, which removes it from the list.
func (p *Presenter) MarkDone(ctx context.Context, id string) bool {
	if p.editingID == id {
		p.CancelEdit()
	}
	return p.store.Remove(ctx, id)
}

// report logs failures that are not plain input rejections. Rejections are silent.
func (p *Presenter) report(action string, err error) {
	if errors.ShouldLogError(err) {
		p.logger.Error("task "+action+" failed", "err", err)
		return
	}
	p.logger.Debug("task "+action+" rejected", "err", err)
}
