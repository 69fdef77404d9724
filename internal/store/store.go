// Package store owns the task collection. It applies add, update and remove intents, publishes
// a fresh snapshot to its subscriber after every change, and writes the collection back to the
// configured medium when the medium accepts writes.
//
// A Store is used from a single goroutine and holds no locks.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/logging"
	"fastodo/internal/repository"
	"fastodo/internal/validation"
)

// Subscriber receives the ordered snapshot after each state change.
type Subscriber func([]domain.Task)

// Store is the single owner of the task collection.
type Store struct {
	medium     repository.Medium
	tasks      []domain.Task
	validator  *validation.TaskValidator
	rules      validation.Rules
	mapper     *domain.TaskMapper
	newID      func() string
	subscriber Subscriber
	logger     *log.Logger
	autoSave   bool
	// loadErr is the failure of the last Load. While it is set, changes are not written back
	// so the unreadable data stays on the medium.
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithRequireDueDate makes Update reject edits without a due date.
func WithRequireDueDate(required bool) Option {
	return func(s *Store) {
		s.rules.RequireDueDate = required
	}
}

// WithNameMaxLength caps task names, counted in characters.
func WithNameMaxLength(n int) Option {
	return func(s *Store) {
		s.rules.NameMaxLength = n
	}
}

// WithRules sets every validation rule at once.
func WithRules(rules validation.Rules) Option {
	return func(s *Store) {
		s.rules = rules
	}
}

// WithAutoSave controls whether each change is written to the medium. Callers that turn it off
// call Save themselves and see its error.
func WithAutoSave(enabled bool) Option {
	return func(s *Store) {
		s.autoSave = enabled
	}
}

// WithSubscriber registers the snapshot callback. A later Subscribe replaces it.
func WithSubscriber(fn Subscriber) Option {
	return func(s *Store) {
		s.subscriber = fn
	}
}

// New creates an empty store over medium. Call Load to read persisted tasks.
func New(medium repository.Medium, opts ...Option) *Store {
	s := &Store{
		medium: medium,
		rules:  validation.DefaultRules(),
		mapper: domain.NewTaskMapper(),
		newID:  func() string { return uuid.NewString() },
		logger:   logging.Discard(),
		autoSave: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validation.NewTaskValidatorWithRules(s.rules)
	return s
}

// Subscribe replaces the snapshot subscriber; nil removes it.
func (s *Store) Subscribe(fn Subscriber) {
	s.subscriber = fn
}

// Medium returns the medium the store persists to.
func (s *Store) Medium() repository.Medium {
	return s.medium
}

// AddOption sets optional fields on a task created by Add.
type AddOption func(*domain.Task)

// WithDifficulty sets the difficulty of the new task.
func WithDifficulty(d domain.Difficulty) AddOption {
	return func(t *domain.Task) {
		t.Difficulty = d
	}
}

// WithDueDate sets the due date of the new task; nil leaves it unset.
func WithDueDate(date *time.Time) AddOption {
	return func(t *domain.Task) {
		if date != nil {
			d := domain.NormalizeDate(*date)
			t.DueDate = &d
		}
	}
}

// Add appends a task named name. A blank or overlong name, or an unknown difficulty, is
// rejected with a validation error and nothing changes.
func (s *Store) Add(ctx context.Context, name string, opts ...AddOption) (domain.Task, error) {
	task := domain.NewTask("", strings.TrimSpace(name))
	for _, opt := range opts {
		opt(&task)
	}

	if err := s.validator.ValidateTaskForCreation(task.Name, task.Difficulty); err != nil {
		return domain.Task{}, errors.NewValidationError("task rejected", err)
	}

	task.ID = s.uniqueID()
	s.tasks = append(s.tasks, task)
	s.logger.Debug("task added", "id", task.ID, "name", task.Name)

	s.changed(ctx)
	return task.Clone(), nil
}

// Update replaces the name, difficulty and due date of the task with id. The id and the
// task's place in storage order are kept.
func (s *Store) Update(ctx context.Context, id, name string, difficulty domain.Difficulty, date *time.Time) (domain.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, errors.NewNotFoundError("task", id)
	}

	name = strings.TrimSpace(name)
	if err := s.validator.ValidateTaskForUpdate(id, name, difficulty, date); err != nil {
		return domain.Task{}, errors.NewValidationError("edit rejected", err)
	}

	task := s.tasks[i]
	task.Name = name
	task.Difficulty = difficulty
	task.DueDate = nil
	if date != nil {
		d := domain.NormalizeDate(*date)
		task.DueDate = &d
	}
	s.tasks[i] = task
	s.logger.Debug("task updated", "id", id)

	s.changed(ctx)
	return task.Clone(), nil
}

// Remove deletes the task with id. It reports false, and changes nothing, when no such task
// exists.
func (s *Store) Remove(ctx context.Context, id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.logger.Debug("task removed", "id", id)

	s.changed(ctx)
	return true
}

// Load replaces the collection with the medium's contents. On failure the collection is left
// as it was and the error is returned for the caller to report.
//
// Records without a name are dropped. Records with a missing or repeated id get a fresh one,
// and an unknown difficulty or malformed date is cleared.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.medium.Load(ctx)
	if err != nil {
		s.logger.Error("could not load tasks", "medium", s.medium.Name(), "err", err)
		s.loadErr = err
		return err
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, record := range records {
		repaired, cleared := s.mapper.Repair(record)
		if len(cleared) > 0 {
			s.logger.Warn("clearing unreadable fields", "index", i, "fields", cleared,
				"difficulty", record.Difficulty, "date", record.Date)
		}
		task, err := s.mapper.FromRecord(repaired)
		if err != nil {
			s.logger.Warn("skipping unreadable task", "index", i, "err", err)
			continue
		}
		if task.Name == "" {
			s.logger.Warn("skipping task without a name", "index", i)
			continue
		}
		if task.ID == "" || seen[task.ID] {
			fresh := s.newID()
			for fresh == "" || seen[fresh] {
				fresh = s.newID()
			}
			s.logger.Warn("assigning new id", "index", i, "old", task.ID, "new", fresh)
			task.ID = fresh
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}

	s.tasks = tasks
	s.loadErr = nil
	s.logger.Info("tasks loaded", "medium", s.medium.Name(), "count", len(tasks))
	s.publish()
	return nil
}

// Snapshot returns a copy of the collection ordered by due date. Undated tasks come last and
// ties keep storage order.
func (s *Store) Snapshot() []domain.Task {
	snapshot := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		snapshot[i] = t.Clone()
	}
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].DueBefore(snapshot[j])
	})
	return snapshot
}

// Get returns a copy of the task with id.
func (s *Store) Get(id string) (domain.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Save writes the collection to the medium. Mutations call it automatically unless auto-save
// is off. It refuses with the load error while the last Load failed.
func (s *Store) Save(ctx context.Context) error {
	if !s.medium.Writable() {
		return errors.NewReadOnlyError(s.medium.Name())
	}
	if s.loadErr != nil {
		return s.loadErr
	}
	return s.medium.Save(ctx, s.mapper.ToRecordSlice(s.tasks))
}

func (s *Store) changed(ctx context.Context) {
	switch {
	case !s.autoSave || !s.medium.Writable():
	case s.loadErr != nil:
		s.logger.Warn("not saving: stored tasks could not be read", "medium", s.medium.Name())
	default:
		if err := s.Save(ctx); err != nil {
			s.logger.Error("could not save tasks", "medium", s.medium.Name(), "err", err)
		}
	}
	s.publish()
}

func (s *Store) publish() {
	if s.subscriber != nil {
		s.subscriber(s.Snapshot())
	}
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}
