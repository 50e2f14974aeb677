// Package session holds per-browser server-side state: the authenticated
// identity snapshot and one-shot flash messages. Sessions are keyed by an
// opaque identifier that carries no payload of its own; they live as long as
// the process and the browser-session cookie do, with no expiry of their own.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*state
}

type state struct {
	identity *model.Identity
	flash    map[string]string
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*state)}
}

// Ensure returns id if it names a live session, otherwise starts a fresh one
// and returns its id.
func (s *Store) Ensure(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return id
	}
	id = uuid.NewString()
	s.sessions[id] = &state{flash: make(map[string]string)}
	return id
}

func (s *Store) Identity(id string) *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.identity == nil {
		return nil
	}
	ident := *sess.identity
	return &ident
}

// SetIdentity snapshots the user into the session. The snapshot is not
// re-read from the store afterwards; role changes take effect on the next
// login or restoration.
func (s *Store) SetIdentity(id string, ident model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.identity = &ident
	}
}

func (s *Store) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) SetFlash(id, key, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.flash[key] = message
	}
}

// TakeFlash removes and returns the flash message for key, read-once.
func (s *Store) TakeFlash(id, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	msg, ok := sess.flash[key]
	if ok {
		delete(sess.flash, key)
	}
	return msg, ok
}
