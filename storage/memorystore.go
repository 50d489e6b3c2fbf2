package storage

import (
	"context"
	"sync"

	"repopilot/llm"
)

// MemoryStorage is an in-memory ConversationStorage, used when persistence
// is disabled and in tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string][]llm.ChatMessage
	order    []string
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string][]llm.ChatMessage),
	}
}

// Save saves conversation history for a session.
func (m *MemoryStorage) Save(_ context.Context, sessionID string, history []llm.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; !exists {
		m.order = append(m.order, sessionID)
	}
	copied := make([]llm.ChatMessage, len(history))
	copy(copied, history)
	m.sessions[sessionID] = copied
	return nil
}

// Load loads conversation history for a session.
func (m *MemoryStorage) Load(_ context.Context, sessionID string) ([]llm.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history, exists := m.sessions[sessionID]
	if !exists {
		return []llm.ChatMessage{}, nil
	}
	copied := make([]llm.ChatMessage, len(history))
	copy(copied, history)
	return copied, nil
}

// Delete deletes conversation history for a session.
func (m *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	for i, id := range m.order {
		if id == sessionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListSessions lists all session IDs in creation order.
func (m *MemoryStorage) ListSessions(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]string, len(m.order))
	copy(sessions, m.order)
	return sessions, nil
}

// Exists checks if a session exists.
func (m *MemoryStorage) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.sessions[sessionID]
	return exists, nil
}

// Verify MemoryStorage implements ConversationStorage
var _ ConversationStorage = (*MemoryStorage)(nil)
