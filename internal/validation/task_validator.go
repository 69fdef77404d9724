package validation

import (
	"strings"
	"time"

	"fastodo/internal/config"
	"fastodo/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default rules
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator using the configured rules
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// NewTaskValidatorWithRules creates a task validator with explicit rules
func NewTaskValidatorWithRules(rules Rules) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithRules(rules)}
}

// Rules returns the limits this validator enforces
func (tv *TaskValidator) Rules() Rules {
	return tv.validator.Rules()
}

// ValidateTaskName validates a task name for creation or update
func (tv *TaskValidator) ValidateTaskName(name string) error {
	validationError := NewValidationError()

	trimmedName := tv.validator.TrimAndValidateString(name)
	if !tv.validator.IsNonEmptyString(trimmedName) {
		validationError.AddRequiredError(FieldName)
		return validationError
	}

	if !tv.validator.IsValidNameLength(trimmedName) {
		validationError.AddInvalidLengthError(FieldName, trimmedName, tv.validator.Rules().NameMaxLength)
	}

	return validationError.OrNil()
}

// ValidateDifficulty rejects difficulties outside the known set
func (tv *TaskValidator) ValidateDifficulty(difficulty domain.Difficulty) error {
	if difficulty.IsValid() {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddInvalidValueError(FieldDifficulty, string(difficulty), "must be easy, medium or hard")
	return validationError
}

// ValidateDueDate enforces the required-date rule when it is enabled
func (tv *TaskValidator) ValidateDueDate(date *time.Time) error {
	if date != nil || !tv.validator.Rules().RequireDueDate {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddRequiredError(FieldDate)
	return validationError
}

// ValidateTaskID validates a task id
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if tv.validator.IsValidTaskID(id) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddRequiredError(FieldID)
	return validationError
}

// ValidateTaskForCreation validates the fields accepted by add
func (tv *TaskValidator) ValidateTaskForCreation(name string, difficulty domain.Difficulty) error {
	validationError := NewValidationError()
	validationError.Merge(tv.ValidateTaskName(name))
	validationError.Merge(tv.ValidateDifficulty(difficulty))
	return validationError.OrNil()
}

// ValidateTaskForUpdate validates the fields replaced by an edit
func (tv *TaskValidator) ValidateTaskForUpdate(id, name string, difficulty domain.Difficulty, date *time.Time) error {
	validationError := NewValidationError()
	validationError.Merge(tv.ValidateTaskID(id))
	validationError.Merge(tv.ValidateTaskName(name))
	validationError.Merge(tv.ValidateDifficulty(difficulty))
	validationError.Merge(tv.ValidateDueDate(date))
	return validationError.OrNil()
}

// ParseDifficulty converts user input into a Difficulty
func (tv *TaskValidator) ParseDifficulty(input string) (domain.Difficulty, error) {
	difficulty, ok := domain.ParseDifficulty(input)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(FieldDifficulty, input, "must be easy, medium or hard")
		return domain.DifficultyUnset, validationError
	}
	return difficulty, nil
}

// ParseDueDate converts user input into a due date; blank input means no date
func (tv *TaskValidator) ParseDueDate(input string) (*time.Time, error) {
	if !tv.validator.IsValidDate(input) {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError(FieldDate, strings.TrimSpace(input), "YYYY-MM-DD")
		return nil, validationError
	}
	return domain.ParseDate(input)
}
