package models

import "strings"

// Difficulty classifies how demanding a course is. The value set is closed;
// catalog validation rejects anything else.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Course is an immutable catalog entry. It is created at catalog load and
// never mutated by the recommendation core.
type Course struct {
	ID                 string     `json:"id" db:"id" validate:"required"`
	Name               string     `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description        string     `json:"description" db:"description"`
	LearningObjectives []string   `json:"learning_objectives,omitempty" db:"learning_objectives"`
	Prerequisites      []string   `json:"prerequisites,omitempty" db:"prerequisites"`
	Difficulty         Difficulty `json:"difficulty" db:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Category           string     `json:"category" db:"category"`
}

// RichText builds the pipe-joined text representation used for embedding:
// name, description, objectives and prerequisites in one string. Courses with
// similar content produce similar embeddings regardless of field layout.
func (c Course) RichText() string {
	parts := []string{"Course: " + c.Name}

	if c.Description != "" {
		parts = append(parts, "Description: "+c.Description)
	}
	if len(c.LearningObjectives) > 0 {
		parts = append(parts, "Objectives: "+strings.Join(c.LearningObjectives, " "))
	}
	if len(c.Prerequisites) > 0 {
		parts = append(parts, "Prerequisites: "+strings.Join(c.Prerequisites, ", "))
	}

	return strings.Join(parts, " | ")
}
