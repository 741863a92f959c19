package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when a quiz transition is attempted in a state that forbids it.
	ErrInvalidState = errors.New("invalid quiz state")
	// ErrInvalidOption is returned when a selected option does not exist on the current question.
	ErrInvalidOption = fmt.Errorf("%w: option out of range", ErrInvalidState)
	// ErrEmptyQuestionSet is returned when a session is constructed without questions.
	ErrEmptyQuestionSet = errors.New("empty question set")
	// ErrUnsupportedLanguage is returned for language codes outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrInvalidQuestionCount is returned for a negative requested question count.
	ErrInvalidQuestionCount = errors.New("invalid question count")
	// ErrPreferenceNotFound is returned by preference stores when a key has no value.
	ErrPreferenceNotFound = errors.New("preference not found")
)

// StorageError describes a failed read or write against the durable preference store.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("preference storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidState}, args...)...)
}
