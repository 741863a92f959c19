package service

import (
	"context"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// PreferenceStore is the durable key-value store behind the language preference.
// Get returns entities.ErrPreferenceNotFound when the key has no value.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// QuizStorage keeps the active quiz session of every chat.
type QuizStorage interface {
	Store(chatID int64, session *entities.QuizSession) (prev *entities.QuizSession)
	Get(chatID int64) *entities.QuizSession
	Delete(chatID int64)
	DeleteIf(chatID int64, session *entities.QuizSession) bool
	All() map[int64]*entities.QuizSession
}

// QuestionSampler produces the question list for a new session.
type QuestionSampler interface {
	SampleSession(lang entities.LanguageCode, requested int) ([]entities.Question, error)
}

// QuizRecorder receives quiz lifecycle events for metrics.
type QuizRecorder interface {
	SessionStarted(lang entities.LanguageCode, questions int)
	SessionCompleted(lang entities.LanguageCode, report entities.ScoreReport)
	SessionAbandoned(lang entities.LanguageCode, reason string)
}

// StorageErrorRecorder counts failed preference reads and writes.
type StorageErrorRecorder interface {
	PreferenceStorageError(op string)
}

type nopRecorder struct{}

func (nopRecorder) SessionStarted(entities.LanguageCode, int)                   {}
func (nopRecorder) SessionCompleted(entities.LanguageCode, entities.ScoreReport) {}
func (nopRecorder) SessionAbandoned(entities.LanguageCode, string)              {}
func (nopRecorder) PreferenceStorageError(string)                               {}
