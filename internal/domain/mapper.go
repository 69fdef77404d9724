package domain

import (
	"fmt"
	"strings"
)

// TaskMapper handles conversion between domain Tasks and persisted Records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to a Record.
func (m *TaskMapper) ToRecord(task Task) Record {
	return Record{
		ID:         task.ID,
		Name:       task.Name,
		Difficulty: string(task.Difficulty),
		Date:       FormatDate(task.DueDate),
	}
}

// FromRecord converts a Record to a domain Task. It fails on an unknown
// difficulty or a malformed date. Surrounding whitespace is trimmed from the id and name.
func (m *TaskMapper) FromRecord(record Record) (Task, error) {
	difficulty, ok := ParseDifficulty(record.Difficulty)
	if !ok {
		return Task{}, fmt.Errorf("unknown difficulty %q", record.Difficulty)
	}
	due, err := ParseDate(record.Date)
	if err != nil {
		return Task{}, fmt.Errorf("malformed date %q: %w", record.Date, err)
	}
	return Task{
		ID:         strings.TrimSpace(record.ID),
		Name:       strings.TrimSpace(record.Name),
		Difficulty: difficulty,
		DueDate:    due,
	}, nil
}

// Repair clears the fields FromRecord would reject and returns the names of the cleared fields.
func (m *TaskMapper) Repair(record Record) (Record, []string) {
	var cleared []string
	if _, ok := ParseDifficulty(record.Difficulty); !ok {
		record.Difficulty = ""
		cleared = append(cleared, "difficulty")
	}
	if _, err := ParseDate(record.Date); err != nil {
		record.Date = ""
		cleared = append(cleared, "date")
	}
	return record, cleared
}

// ToRecordSlice converts a slice of domain Tasks to Records.
func (m *TaskMapper) ToRecordSlice(tasks []Task) []Record {
	records := make([]Record, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(task)
	}
	return records
}
