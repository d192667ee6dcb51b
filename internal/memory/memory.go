// ABOUTME: Sliding window conversation memory keyed by session id
// ABOUTME: Each session keeps at most 2*maxTurns messages, dropping the oldest first
package memory

import (
	"sync"

	"github.com/uniqlabs/ragbot/internal/models"
)

// SlidingWindow stores recent conversation messages per session.
// Sessions are retained for the lifetime of the process; there is no
// cross-session eviction.
type SlidingWindow struct {
	maxTurns int

	mu       sync.RWMutex
	sessions map[string][]models.Message
}

// NewSlidingWindow creates a memory store keeping the last maxTurns
// user+assistant pairs per session.
func NewSlidingWindow(maxTurns int) *SlidingWindow {
	return &SlidingWindow{
		maxTurns: maxTurns,
		sessions: make(map[string][]models.Message),
	}
}

// maxMessages is the per-session cap: one user and one assistant entry per turn.
func (m *SlidingWindow) maxMessages() int {
	return m.maxTurns * 2
}

// AddUser appends a user message to the session's history.
func (m *SlidingWindow) AddUser(sessionID, text string) {
	m.append(sessionID, models.Message{Role: models.RoleUser, Content: text})
}

// AddAssistant appends an assistant message to the session's history.
func (m *SlidingWindow) AddAssistant(sessionID, text string) {
	m.append(sessionID, models.Message{Role: models.RoleAssistant, Content: text})
}

// Get returns a copy of the session's history, oldest first.
// Unseen sessions return nil.
func (m *SlidingWindow) Get(sessionID string) []models.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := m.sessions[sessionID]
	if hist == nil {
		return nil
	}
	out := make([]models.Message, len(hist))
	copy(out, hist)
	return out
}

func (m *SlidingWindow) append(sessionID string, msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hist := append(m.sessions[sessionID], msg)
	if max := m.maxMessages(); len(hist) > max {
		hist = hist[len(hist)-max:]
	}
	m.sessions[sessionID] = hist
}
