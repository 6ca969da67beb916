// Package session tracks operator sessions.  One session corresponds to one
// staff member logged into one terminal in one mode; it owns that
// operator's cart and the staff credential used to attribute orders
// upstream.  Sessions live in process memory only.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vilamar/hostelpos/internal/cart"
	"github.com/vilamar/hostelpos/internal/model"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one operator's terminal state.
type Session struct {
	ID        string
	Staff     model.Staff
	StaffPin  string
	Mode      model.OperatorMode
	Cart      *cart.Cart
	CreatedAt time.Time
}

// Store holds active sessions keyed by ID.
type Store struct {
	mu sync.RWMutex
	m  map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{m: make(map[string]*Session)}
}

// Create opens a session for an authenticated operator.
func (s *Store) Create(staff model.Staff, pin string, mode model.OperatorMode) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Staff:     staff,
		StaffPin:  pin,
		Mode:      mode,
		Cart:      cart.New(),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.m[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete closes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}
