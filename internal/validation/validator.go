package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"fastodo/internal/config"
	"fastodo/internal/domain"
)

const defaultNameMaxLength = 255

// Rules holds the tunable limits applied to task fields
type Rules struct {
	NameMaxLength  int
	RequireDueDate bool
}

// DefaultRules returns the limits used when nothing is configured
func DefaultRules() Rules {
	return Rules{NameMaxLength: defaultNameMaxLength}
}

// RulesFromConfig reads the validation section of cfg
func RulesFromConfig(cfg *config.Config) Rules {
	rules := DefaultRules()
	if cfg == nil {
		return rules
	}
	if cfg.Validation.NameMaxLength > 0 {
		rules.NameMaxLength = cfg.Validation.NameMaxLength
	}
	rules.RequireDueDate = cfg.Validation.RequireDueDate
	return rules
}

// Validator provides the field checks shared by task validators
type Validator struct {
	rules Rules
}

// NewValidator creates a validator with default limits
func NewValidator() *Validator {
	return &Validator{rules: DefaultRules()}
}

// NewValidatorWithConfig creates a validator that reads limits from cfg
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{rules: RulesFromConfig(cfg)}
}

// NewValidatorWithRules creates a validator with explicit limits
func NewValidatorWithRules(rules Rules) *Validator {
	if rules.NameMaxLength <= 0 {
		rules.NameMaxLength = defaultNameMaxLength
	}
	return &Validator{rules: rules}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidNameLength checks the trimmed name against the maximum, counted in characters
func (v *Validator) IsValidNameLength(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) <= v.rules.NameMaxLength
}

// IsValidTaskID checks that an id is present
func (v *Validator) IsValidTaskID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// IsValidDate checks a YYYY-MM-DD date; blank is valid and means no date
func (v *Validator) IsValidDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// Rules returns the limits in effect
func (v *Validator) Rules() Rules {
	return v.rules
}
