package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
	"fastodo/internal/validation"
)

// memoryMedium is a Medium kept in memory.
type memoryMedium struct {
	records  []domain.Record
	writable bool
	loadErr  error
	saveErr  error
	saves    int
}

func newMemoryMedium(records ...domain.Record) *memoryMedium {
	return &memoryMedium{records: records, writable: true}
}

func (m *memoryMedium) Name() string   { return "memory" }
func (m *memoryMedium) Writable() bool { return m.writable }
func (m *memoryMedium) Close() error   { return nil }

func (m *memoryMedium) Load(context.Context) ([]domain.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Record(nil), m.records...), nil
}

func (m *memoryMedium) Save(_ context.Context, records []domain.Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]domain.Record(nil), records...)
	return nil
}

// sequentialIDs returns ids "1", "2", ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%d", n)
	}
}

func newTestStore(t *testing.T, medium *memoryMedium, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return New(medium, opts...)
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func names(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Name
	}
	return out
}

func TestStore_AddAndSnapshot(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()

	task, err := s.Add(ctx, "  Buy milk  ")
	require.NoError(t, err)

	assert.Equal(t, "1", task.ID)
	assert.Equal(t, "Buy milk", task.Name)
	assert.Equal(t, domain.DifficultyUnset, task.Difficulty)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, 1, s.Len())

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.True(t, task.Equal(snapshot[0]))

	assert.Equal(t, 1, medium.saves)
	assert.Equal(t, []domain.Record{{ID: "1", Name: "Buy milk"}}, medium.records)
}

func TestStore_AddWithOptions(t *testing.T) {
	s := newTestStore(t, newMemoryMedium())
	due := time.Date(2024, 3, 1, 15, 30, 0, 0, time.FixedZone("X", 7200))

	task, err := s.Add(context.Background(), "Exam", WithDifficulty(domain.DifficultyHard), WithDueDate(&due))
	require.NoError(t, err)

	assert.Equal(t, domain.DifficultyHard, task.Difficulty)
	assert.Equal(t, "2024-03-01", task.DueDateString())
}

func TestStore_AddRejected(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts []AddOption
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"too long", strings.Repeat("x", 11), nil},
		{"unknown difficulty", "Task", []AddOption{WithDifficulty("epic")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medium := newMemoryMedium()
			published := 0
			s := newTestStore(t, medium, WithNameMaxLength(10), WithSubscriber(func([]domain.Task) { published++ }))

			_, err := s.Add(context.Background(), tt.in, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			assert.True(t, validation.IsValidationError(err))

			assert.Zero(t, s.Len())
			assert.Zero(t, medium.saves)
			assert.Zero(t, published)
		})
	}
}

func TestStore_AddSkipsCollidingIDs(t *testing.T) {
	ids := []string{"a", "a", "", "b"}
	next := 0
	gen := func() string {
		id := ids[next]
		next++
		return id
	}
	s := New(newMemoryMedium(), WithIDGenerator(gen))
	ctx := context.Background()

	first, err := s.Add(ctx, "one")
	require.NoError(t, err)
	second, err := s.Add(ctx, "two")
	require.NoError(t, err)

	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestStore_DefaultIDsAreUUIDs(t *testing.T) {
	s := New(newMemoryMedium())

	task, err := s.Add(context.Background(), "Task")
	require.NoError(t, err)
	assert.Len(t, task.ID, 36)
}

func TestStore_Update(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()

	first, _ := s.Add(ctx, "first")
	second, _ := s.Add(ctx, "second")

	updated, err := s.Update(ctx, first.ID, " renamed ", domain.DifficultyMedium, date(t, "2024-01-01"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, domain.DifficultyMedium, updated.Difficulty)
	assert.Equal(t, "2024-01-01", updated.DueDateString())

	untouched, ok := s.Get(second.ID)
	require.True(t, ok)
	assert.True(t, second.Equal(untouched))

	assert.Equal(t, "renamed", medium.records[0].Name, "storage order is kept")
	assert.Equal(t, 3, medium.saves)
}

func TestStore_UpdateClearsDate(t *testing.T) {
	s := newTestStore(t, newMemoryMedium())
	ctx := context.Background()
	task, _ := s.Add(ctx, "dated", WithDueDate(date(t, "2024-01-01")))

	updated, err := s.Update(ctx, task.ID, "dated", domain.DifficultyUnset, nil)
	require.NoError(t, err)
	assert.False(t, updated.HasDueDate())
}

func TestStore_UpdateRejected(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		s := newTestStore(t, newMemoryMedium())
		_, err := s.Update(ctx, "missing", "name", domain.DifficultyEasy, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	})

	t.Run("blank name", func(t *testing.T) {
		medium := newMemoryMedium()
		s := newTestStore(t, medium)
		task, _ := s.Add(ctx, "keep me")

		_, err := s.Update(ctx, task.ID, "  ", domain.DifficultyEasy, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

		current, _ := s.Get(task.ID)
		assert.Equal(t, "keep me", current.Name)
		assert.Equal(t, 1, medium.saves)
	})

	t.Run("missing required date", func(t *testing.T) {
		s := newTestStore(t, newMemoryMedium(), WithRequireDueDate(true))
		task, _ := s.Add(ctx, "no date yet")

		_, err := s.Update(ctx, task.ID, "still no date", domain.DifficultyEasy, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

		_, err = s.Update(ctx, task.ID, "dated", domain.DifficultyEasy, date(t, "2024-02-02"))
		assert.NoError(t, err)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		s := newTestStore(t, newMemoryMedium())
		task, _ := s.Add(ctx, "task")

		_, err := s.Update(ctx, task.ID, "task", domain.Difficulty("epic"), nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})
}

func TestStore_Remove(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()

	a, _ := s.Add(ctx, "a")
	b, _ := s.Add(ctx, "b")
	c, _ := s.Add(ctx, "c")

	assert.True(t, s.Remove(ctx, b.ID))
	assert.Equal(t, []string{"a", "c"}, names(s.Snapshot()))
	assert.Equal(t, 4, medium.saves)

	_, ok := s.Get(b.ID)
	assert.False(t, ok)

	assert.False(t, s.Remove(ctx, b.ID))
	assert.False(t, s.Remove(ctx, "missing"))
	assert.Equal(t, 4, medium.saves, "a no-op remove does not write")

	assert.True(t, s.Remove(ctx, a.ID))
	assert.True(t, s.Remove(ctx, c.ID))
	assert.Zero(t, s.Len())
	assert.Empty(t, medium.records)
}

func TestStore_SnapshotOrdering(t *testing.T) {
	s := newTestStore(t, newMemoryMedium())
	ctx := context.Background()

	mustAdd := func(name string, due string) {
		_, err := s.Add(ctx, name, WithDueDate(date(t, due)))
		require.NoError(t, err)
	}
	mustAdd("undated 1", "")
	mustAdd("march", "2024-03-01")
	mustAdd("jan a", "2024-01-01")
	mustAdd("undated 2", "")
	mustAdd("jan b", "2024-01-01")
	mustAdd("feb", "2024-02-01")

	assert.Equal(t, []string{"jan a", "jan b", "feb", "march", "undated 1", "undated 2"}, names(s.Snapshot()))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := newTestStore(t, newMemoryMedium())
	ctx := context.Background()
	task, _ := s.Add(ctx, "original", WithDueDate(date(t, "2024-01-01")))

	snapshot := s.Snapshot()
	snapshot[0].Name = "mutated"
	*snapshot[0].DueDate = snapshot[0].DueDate.AddDate(1, 0, 0)

	current, _ := s.Get(task.ID)
	assert.Equal(t, "original", current.Name)
	assert.Equal(t, "2024-01-01", current.DueDateString())
}

func TestStore_SubscriberReceivesEveryChange(t *testing.T) {
	var got [][]string
	s := newTestStore(t, newMemoryMedium(), WithSubscriber(func(tasks []domain.Task) {
		got = append(got, names(tasks))
	}))
	ctx := context.Background()

	task, _ := s.Add(ctx, "a")
	_, _ = s.Update(ctx, task.ID, "b", domain.DifficultyEasy, nil)
	s.Remove(ctx, task.ID)
	s.Remove(ctx, task.ID)

	assert.Equal(t, [][]string{{"a"}, {"b"}, {}}, got)

	s.Subscribe(nil)
	_, _ = s.Add(ctx, "quiet")
	assert.Len(t, got, 3)
}

func TestStore_Load(t *testing.T) {
	medium := newMemoryMedium(
		domain.Record{ID: "x", Name: "Read", Difficulty: "hard", Date: "2024-05-05"},
		domain.Record{Name: "Legacy", Difficulty: "Medium"},
		domain.Record{ID: "x", Name: "Duplicate id"},
		domain.Record{ID: "y", Name: "   "},
		domain.Record{ID: "z", Name: "Bad date", Date: "soon"},
	)
	var logs bytes.Buffer
	var published []domain.Task
	s := newTestStore(t, medium,
		WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})),
		WithSubscriber(func(tasks []domain.Task) { published = tasks }),
	)

	require.NoError(t, s.Load(context.Background()))

	require.Equal(t, 4, s.Len())
	read, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "Read", read.Name)
	assert.Equal(t, domain.DifficultyHard, read.Difficulty)

	ids := map[string]bool{}
	for _, task := range s.Snapshot() {
		assert.NotEmpty(t, task.ID)
		assert.False(t, ids[task.ID], "duplicate id %s", task.ID)
		ids[task.ID] = true
	}

	assert.Len(t, published, 4)
	assert.Zero(t, medium.saves, "loading does not write back")
	assert.Contains(t, logs.String(), "skipping task without a name")
	assert.Contains(t, logs.String(), "assigning new id")
	assert.Contains(t, logs.String(), "clearing unreadable fields")

	badDate, ok := s.Get("z")
	require.True(t, ok)
	assert.False(t, badDate.HasDueDate())
}

func TestStore_LoadKeepsRecordsWithUnreadableFields(t *testing.T) {
	medium := newMemoryMedium(
		domain.Record{ID: "a", Name: "Keep me", Difficulty: "extreme"},
		domain.Record{ID: "b", Name: "Dated", Difficulty: "easy", Date: "2024/01/01"},
		domain.Record{ID: "c", Name: "Fine", Difficulty: "easy", Date: "2024-01-01"},
	)
	s := newTestStore(t, medium)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	require.Equal(t, 3, s.Len())

	_, err := s.Add(ctx, "new")
	require.NoError(t, err)

	require.Len(t, medium.records, 4, "every loaded task is written back")
	assert.Equal(t, domain.Record{ID: "a", Name: "Keep me"}, medium.records[0])
	assert.Equal(t, domain.Record{ID: "b", Name: "Dated", Difficulty: "easy"}, medium.records[1])
	assert.Equal(t, domain.Record{ID: "c", Name: "Fine", Difficulty: "easy", Date: "2024-01-01"}, medium.records[2])
}

func TestStore_LoadFailureKeepsPriorState(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()
	_, _ = s.Add(ctx, "kept")

	medium.loadErr = errors.NewDecodeError("memory", stderrors.New("bad json"))
	err := s.Load(ctx)

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDecode))
	assert.Equal(t, []string{"kept"}, names(s.Snapshot()))
}

func TestStore_LoadFailureIsNeverOverwritten(t *testing.T) {
	medium := newMemoryMedium(domain.Record{ID: "1", Name: "unreadable"})
	medium.loadErr = errors.NewDecodeError("memory", stderrors.New("bad json"))
	var logs bytes.Buffer
	s := newTestStore(t, medium, WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel})))
	ctx := context.Background()

	require.Error(t, s.Load(ctx))
	_, err := s.Add(ctx, "typed after the failure")
	require.NoError(t, err)

	assert.Zero(t, medium.saves)
	assert.Equal(t, []domain.Record{{ID: "1", Name: "unreadable"}}, medium.records)
	assert.Contains(t, logs.String(), "not saving")
	assert.True(t, errors.IsErrorType(s.Save(ctx), errors.ErrorTypeDecode))

	medium.loadErr = nil
	require.NoError(t, s.Load(ctx))
	_, err = s.Add(ctx, "after recovery")
	require.NoError(t, err)
	assert.Equal(t, 1, medium.saves)
}

func TestStore_WithAutoSaveOff(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium, WithAutoSave(false))
	ctx := context.Background()

	task, err := s.Add(ctx, "buffered")
	require.NoError(t, err)
	_, err = s.Update(ctx, task.ID, "buffered edit", domain.DifficultyEasy, nil)
	require.NoError(t, err)
	assert.Zero(t, medium.saves)

	require.NoError(t, s.Save(ctx))
	assert.Equal(t, 1, medium.saves)
	assert.Equal(t, []domain.Record{{ID: task.ID, Name: "buffered edit", Difficulty: "easy"}}, medium.records)

	medium.saveErr = stderrors.New("disk full")
	assert.True(t, s.Remove(ctx, task.ID))
	assert.EqualError(t, s.Save(ctx), "disk full")
}

func TestStore_ReadOnlyMediumIsNeverWritten(t *testing.T) {
	medium := newMemoryMedium(domain.Record{ID: "1", Name: "static"})
	medium.writable = false
	s := New(medium)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	_, err := s.Add(ctx, "local only")
	require.NoError(t, err)
	assert.True(t, s.Remove(ctx, "1"))

	assert.Zero(t, medium.saves)
	assert.Equal(t, 1, s.Len())

	err = s.Save(ctx)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeReadOnly))
}

func TestStore_SaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	medium := newMemoryMedium()
	medium.saveErr = stderrors.New("disk full")
	var logs bytes.Buffer
	s := newTestStore(t, medium, WithLogger(log.NewWithOptions(&logs, log.Options{Level: log.ErrorLevel})))

	task, err := s.Add(context.Background(), "unsaved")
	require.NoError(t, err)

	_, ok := s.Get(task.ID)
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "could not save tasks")
}

func TestStore_WithRules(t *testing.T) {
	s := New(newMemoryMedium(), WithRules(validation.Rules{NameMaxLength: 3, RequireDueDate: true}))

	_, err := s.Add(context.Background(), "four")
	assert.Error(t, err)
	assert.NotNil(t, s.Medium())
}

func TestStore_Scenario(t *testing.T) {
	medium := newMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()

	task, err := s.Add(ctx, "Buy milk")
	require.NoError(t, err)
	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Buy milk", snapshot[0].Name)
	assert.Equal(t, domain.DifficultyUnset, snapshot[0].Difficulty)

	_, err = s.Update(ctx, task.ID, "Buy milk and eggs", domain.DifficultyEasy, date(t, "2024-01-01"))
	require.NoError(t, err)
	snapshot = s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, task.ID, snapshot[0].ID)
	assert.Equal(t, "Buy milk and eggs", snapshot[0].Name)
	assert.Equal(t, domain.DifficultyEasy, snapshot[0].Difficulty)
	assert.Equal(t, "2024-01-01", snapshot[0].DueDateString())

	assert.True(t, s.Remove(ctx, task.ID))
	assert.Empty(t, s.Snapshot())
	assert.Empty(t, medium.records)
}
