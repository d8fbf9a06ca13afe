// Package session tracks form editing sessions and the one-shot payload
// handed from the entry screen to the confirmation screen.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/GophSignup/internal/form"
	"github.com/atinyakov/GophSignup/internal/models"
)

// Session is one browser's form editing session.
type Session struct {
	// ID is the cookie value identifying the session.
	ID string
	// Controller is nil once the session navigated away from the entry screen.
	Controller *form.Controller

	payload *models.FormRecord
	touched time.Time
}

// Store is an in-memory session registry. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty Store that forgets sessions idle longer than ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start opens a fresh session around ctrl. If previousID names an existing
// session it is discarded.
func (s *Store) Start(previousID string, ctrl *form.Controller) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, previousID)

	sess := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
		touched:    s.now(),
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Controller returns the live form controller of session id.
func (s *Store) Controller(id string) (*form.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Controller == nil {
		return nil, false
	}
	sess.touched = s.now()
	return sess.Controller, true
}

// Navigate leaves the entry screen: the controller is dropped and record is
// kept as the payload for exactly one confirmation read.
func (s *Store) Navigate(id string, record models.FormRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}
	sess.Controller = nil
	sess.payload = &record
	sess.touched = s.now()
}

// TakePayload returns and clears the payload of session id.
func (s *Store) TakePayload(id string) (models.FormRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.payload == nil {
		return models.FormRecord{}, false
	}
	record := *sess.payload
	sess.payload = nil
	if sess.Controller == nil {
		delete(s.sessions, id)
	}
	return record, true
}

// Delete forgets session id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reap removes sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a submission in flight are kept.
func (s *Store) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if !sess.touched.Before(cutoff) {
			continue
		}
		if sess.Controller != nil && sess.Controller.State() == form.StateSubmitting {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
