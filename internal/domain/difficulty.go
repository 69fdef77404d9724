package domain

import "strings"

// Difficulty is the self-assessed effort of a task.
type Difficulty string

const (
	DifficultyUnset  Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the selectable difficulties in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty parses a difficulty case-insensitively.
// "", "unset" and "none" all map to DifficultyUnset.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "none":
		return DifficultyUnset, true
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return DifficultyUnset, false
	}
}

// IsValid reports whether d is one of the known difficulties.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyUnset, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// IsSet reports whether a difficulty was chosen.
func (d Difficulty) IsSet() bool {
	return d != DifficultyUnset
}

// Next cycles easy -> medium -> hard -> easy. Unset advances to easy.
func (d Difficulty) Next() Difficulty {
	all := Difficulties()
	for i, c := range all {
		if c == d {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// String returns the display label.
func (d Difficulty) String() string {
	if d == DifficultyUnset {
		return "unset"
	}
	return string(d)
}
