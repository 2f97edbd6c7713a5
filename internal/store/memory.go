package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps conversations and preferences in process memory.
// Used when no database is configured; safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	messagesBy   map[string][]Message
	outputModeBy map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		messagesBy:   make(map[string][]Message),
		outputModeBy: make(map[string]string),
	}
}

func (m *MemoryStore) AppendMessage(userID, role, content string) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	// Guard the per-call ordering invariant against a coarse clock: an
	// appended turn never sorts before the one already recorded.
	if msgs := m.messagesBy[userID]; len(msgs) > 0 {
		if last := msgs[len(msgs)-1].Timestamp; msg.Timestamp.Before(last) {
			msg.Timestamp = last
		}
	}
	m.messagesBy[userID] = append(m.messagesBy[userID], msg)
	return msg, nil
}

func (m *MemoryStore) RecentMessages(userID string, limit int) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.messagesBy[userID]
	if limit < 0 {
		limit = 0
	}
	if limit > len(msgs) {
		limit = len(msgs)
	}
	out := make([]Message, 0, limit)
	for i := len(msgs) - 1; i >= len(msgs)-limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (m *MemoryStore) GetPreferences(userID string) (Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mode, ok := m.outputModeBy[userID]; ok {
		return Preferences{UserID: userID, OutputMode: mode}, nil
	}
	return DefaultPreferences(userID), nil
}

func (m *MemoryStore) UpsertPreferences(userID, outputMode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputModeBy[userID] = outputMode
	return nil
}
