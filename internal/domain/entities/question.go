// Package entities contains domain entities used across the application.
package entities

import "fmt"

// Question represents one multiple-choice driving-test question from a catalog.
type Question struct {
	ID                 string   `json:"id"`                 // stable identifier, shared across languages
	Category           string   `json:"category"`           // topic, e.g. "signs" or "right-of-way"
	Prompt             string   `json:"question"`           // question text shown to the user
	Options            []string `json:"options"`            // answer options in display order
	CorrectOptionIndex int      `json:"correctAnswerIndex"` // index into Options
}

// Validate checks that the question has an id, at least two options
// and a correct index that points at one of them.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question without id: %q", q.Prompt)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: need at least 2 options, got %d", q.ID, len(q.Options))
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return fmt.Errorf("question %s: correct option index %d out of range", q.ID, q.CorrectOptionIndex)
	}
	return nil
}

// IsCorrect reports whether option is the correct answer.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectOptionIndex
}

// HasOption reports whether option indexes one of the question options.
func (q Question) HasOption(option int) bool {
	return option >= 0 && option < len(q.Options)
}
