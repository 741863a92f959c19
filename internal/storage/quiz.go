package storage

import (
	"maps"
	"sync"

	"github.com/WhoAbdullahSheikh/drivesmart/internal/domain/entities"
)

// QuizStorage provides in-memory storage for active quiz sessions by chat ID.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.QuizSession
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[int64]*entities.QuizSession),
	}
}

// Store saves the session for a chat and returns the one it replaced, if any.
func (s *QuizStorage) Store(chatID int64, session *entities.QuizSession) *entities.QuizSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessions[chatID]
	s.sessions[chatID] = session
	return prev
}

// Get retrieves the session for a chat, or nil.
func (s *QuizStorage) Get(chatID int64) *entities.QuizSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

// Delete removes the session for a chat.
func (s *QuizStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// DeleteIf removes the chat's session only if it is still session.
func (s *QuizStorage) DeleteIf(chatID int64, session *entities.QuizSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[chatID] != session {
		return false
	}
	delete(s.sessions, chatID)
	return true
}

// All returns a copy of the chat to session map.
func (s *QuizStorage) All() map[int64]*entities.QuizSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.sessions)
}

// Len returns the number of stored sessions.
func (s *QuizStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
