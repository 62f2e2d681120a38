package services

import (
	"context"
	"sync"
)

// MockPushService is a mock implementation of PushService for testing
type MockPushService struct {
	sent []PushMessage
	err  error
	mu   sync.RWMutex
}

// NewMockPushService creates a new mock push service
func NewMockPushService() *MockPushService {
	return &MockPushService{}
}

// FailWith makes every subsequent Send record the message and return err
func (m *MockPushService) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Send records the message
func (m *MockPushService) Send(ctx context.Context, msg PushMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return m.err
}

// Sent returns every recorded message (for testing assertions)
func (m *MockPushService) Sent() []PushMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent race conditions
	out := make([]PushMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the messages addressed to token
func (m *MockPushService) SentTo(token string) []PushMessage {
	var out []PushMessage
	for _, msg := range m.Sent() {
		if msg.To == token {
			out = append(out, msg)
		}
	}
	return out
}

// Clear forgets every recorded message
func (m *MockPushService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
