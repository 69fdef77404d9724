package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		taskName string
		expected Task
	}{
		{
			name:     "creates task with name",
			id:       "a1",
			taskName: "Buy milk",
			expected: Task{ID: "a1", Name: "Buy milk"},
		},
		{
			name:     "creates task with empty name",
			id:       "a2",
			taskName: "",
			expected: Task{ID: "a2", Name: ""},
		},
		{
			name:     "creates task with special characters",
			id:       "a3",
			taskName: "Zrób zakupy!",
			expected: Task{ID: "a3", Name: "Zrób zakupy!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewTask(tt.id, tt.taskName)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, DifficultyUnset, result.Difficulty)
			assert.Nil(t, result.DueDate)
		})
	}
}

func TestTask_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{"valid task", Task{ID: "1", Name: "Valid"}, true},
		{"empty name", Task{ID: "1", Name: ""}, false},
		{"whitespace name", Task{ID: "1", Name: "   "}, false},
		{"missing id", Task{Name: "Valid"}, false},
		{"unknown difficulty", Task{ID: "1", Name: "Valid", Difficulty: "epic"}, false},
		{"with difficulty", Task{ID: "1", Name: "Valid", Difficulty: DifficultyHard}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.IsValid())
		})
	}
}

func TestTask_String(t *testing.T) {
	assert.Equal(t, "My Task", Task{ID: "1", Name: "My Task"}.String())
	assert.Equal(t, "", Task{ID: "1"}.String())
}

func TestTask_Clone(t *testing.T) {
	original := Task{ID: "1", Name: "Task", DueDate: date(t, "2024-01-01")}

	clone := original.Clone()
	*clone.DueDate = clone.DueDate.AddDate(0, 0, 1)

	assert.Equal(t, "2024-01-01", original.DueDateString())
	assert.Equal(t, "2024-01-02", clone.DueDateString())
}

func TestTask_Equal(t *testing.T) {
	a := Task{ID: "1", Name: "Task", Difficulty: DifficultyEasy, DueDate: date(t, "2024-03-01")}

	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(Task{ID: "1", Name: "Task", Difficulty: DifficultyEasy}))
	assert.False(t, a.Equal(Task{ID: "2", Name: "Task", Difficulty: DifficultyEasy, DueDate: date(t, "2024-03-01")}))
	assert.True(t, Task{ID: "1"}.Equal(Task{ID: "1"}))
}

func TestTask_DueBefore(t *testing.T) {
	early := Task{ID: "1", DueDate: date(t, "2024-01-01")}
	late := Task{ID: "2", DueDate: date(t, "2024-06-01")}
	undated := Task{ID: "3"}

	assert.True(t, early.DueBefore(late))
	assert.False(t, late.DueBefore(early))
	assert.True(t, late.DueBefore(undated))
	assert.False(t, undated.DueBefore(early))
	assert.False(t, undated.DueBefore(undated))
	assert.False(t, early.DueBefore(early))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate(" 2024-01-31 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2024-01-31", FormatDate(d))

	_, err = ParseDate("31/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2024, 5, 6, 23, 59, 1, 5, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), NormalizeDate(in))
}
