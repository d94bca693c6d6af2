package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/edgesketch/engine"
)

// ErrSessionNotFound is returned for ids that were never issued or were deleted.
var ErrSessionNotFound = errors.New("session not found")

// Session is one live graph owned by the server
type Session struct {
	ID      string
	Created time.Time
	Loop    *engine.Loop
}

// Store keeps sessions in memory; nothing survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a loop under a fresh id
func (s *Store) Create(loop *engine.Loop) *Session {
	sess := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Loop:    loop,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with id
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session with id
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
