package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due dates everywhere.
const DateLayout = "2006-01-02"

// Task represents a to-do item in the domain model.
// This is a pure domain model without storage-specific concerns.
type Task struct {
	ID         string
	Name       string
	Difficulty Difficulty
	DueDate    *time.Time // nil when the task has no due date
}

// NewTask creates a new Task with the given id and name and blank optional fields.
func NewTask(id, name string) Task {
	return Task{
		ID:   id,
		Name: name,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.ID != "" && strings.TrimSpace(t.Name) != "" && t.Difficulty.IsValid()
}

// HasDueDate returns true if the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// DueDateString returns the due date in DateLayout, or "" when unset.
func (t Task) DueDateString() string {
	return FormatDate(t.DueDate)
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}

// Clone returns a copy of the task that shares no memory with the receiver.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Equal reports whether two tasks carry the same id and fields.
func (t Task) Equal(other Task) bool {
	if t.ID != other.ID || t.Name != other.Name || t.Difficulty != other.Difficulty {
		return false
	}
	if t.DueDate == nil || other.DueDate == nil {
		return t.DueDate == nil && other.DueDate == nil
	}
	return t.DueDate.Equal(*other.DueDate)
}

// DueBefore reports whether t sorts before other in display order:
// dated tasks come first by ascending date, undated tasks last.
func (t Task) DueBefore(other Task) bool {
	switch {
	case t.DueDate == nil:
		return false
	case other.DueDate == nil:
		return true
	default:
		return t.DueDate.Before(*other.DueDate)
	}
}

// ParseDate parses a calendar date in DateLayout. An empty string yields a nil date.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormatDate formats a date in DateLayout, returning "" for nil.
func FormatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}

// NormalizeDate truncates t to its calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
