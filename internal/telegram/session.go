package telegram

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// Phase is the per-chat state of quiz creation.
type Phase int

const (
	PhaseAwaitingSource Phase = iota
	PhaseAwaitingTitle
	PhaseCreating
)

// Session is one chat's in-progress quiz creation. InlineText and
// FilePath are mutually exclusive. A session is only ever touched by its
// chat's own worker, so it carries no lock of its own.
type Session struct {
	ChatID     int64
	Phase      Phase
	InlineText string
	FilePath   string // downloaded question file, removed on destroy
	Title      string
}

// sourceText materializes the question source.
func (s *Session) sourceText() (string, error) {
	if s.FilePath != "" {
		raw, err := os.ReadFile(s.FilePath)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return s.InlineText, nil
}

// SessionManager owns the chat → session mapping. The mutex guards only
// the map itself; per-chat mutual exclusion comes from the dispatcher, so
// no lock is ever held across a provider call.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	log      *zap.SugaredLogger
}

func NewSessionManager(log *zap.SugaredLogger) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*Session),
		log:      log,
	}
}

// Get returns the chat's session, if any.
func (m *SessionManager) Get(chatID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// Start replaces any existing session with a fresh one, cleaning up the
// old session's resources.
func (m *SessionManager) Start(chatID int64) *Session {
	m.Destroy(chatID)
	s := &Session{ChatID: chatID, Phase: PhaseAwaitingSource}
	m.mu.Lock()
	m.sessions[chatID] = s
	m.mu.Unlock()
	return s
}

// GetOrStart returns the existing session or starts a fresh one.
func (m *SessionManager) GetOrStart(chatID int64) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[chatID]; ok {
		m.mu.Unlock()
		return s
	}
	s := &Session{ChatID: chatID, Phase: PhaseAwaitingSource}
	m.sessions[chatID] = s
	m.mu.Unlock()
	return s
}

// Destroy removes the session and unconditionally deletes its temporary
// file, if one was downloaded.
func (m *SessionManager) Destroy(chatID int64) {
	m.mu.Lock()
	s := m.sessions[chatID]
	delete(m.sessions, chatID)
	m.mu.Unlock()

	if s == nil || s.FilePath == "" {
		return
	}
	if err := os.Remove(s.FilePath); err != nil && !os.IsNotExist(err) {
		m.log.Warnw("failed to remove temp file", "path", s.FilePath, "err", err)
	}
}
