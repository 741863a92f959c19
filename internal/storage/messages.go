package storage

import (
	"sync"
	"time"
)

// CardMessage identifies the message that currently shows a chat's quiz card.
type CardMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// MessageStorage remembers the quiz card message of every chat so that
// automatic advances can edit it in place.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]CardMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[int64]CardMessage),
	}
}

func (s *MessageStorage) Get(chatID int64) (CardMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *MessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}

// UpsertAndGetPrev stores messageID as the chat's card and returns the previous card.
func (s *MessageStorage) UpsertAndGetPrev(chatID int64, messageID int) (prev CardMessage, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.messages[chatID]

	s.messages[chatID] = CardMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}

	return prev, hadPrev
}
