package pipeline

import (
	"sync"
	"time"
)

// Session is the in-flight state of one run, keyed by the caller-supplied
// session ID.
type Session struct {
	ID        string
	Stage     Stage
	StartedAt time.Time
}

// SessionStore tracks runs while they are in flight. The pipeline puts a
// session at run start, updates its stage as the run advances, and removes
// it on completion.
type SessionStore interface {
	Get(id string) (Session, bool)
	Put(session Session)
	Remove(id string)
}

// MemoryStore is a process-local SessionStore safe for concurrent runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (s *MemoryStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *MemoryStore) Put(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Active returns a snapshot of all in-flight sessions.
func (s *MemoryStore) Active() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}
