// Package session holds the identity of the logged-in user.
//
// The store keeps a single value, the user id handed back by the registry at
// login. It is read when the client starts, written at login and cleared at
// logout. Consumers that only need to know who is logged in depend on Reader.
package session

import (
	"errors"
	"sync"
)

// ErrNotLoggedIn is returned by operations that need a logged-in user.
var ErrNotLoggedIn = errors.New("user not logged in")

// Reader exposes the current user id. ok is false when nobody is logged in.
type Reader interface {
	UserID() (id int64, ok bool)
}

// Store is a Reader that can also be written at login and cleared at logout.
type Store interface {
	Reader
	SetUserID(id int64) error
	Clear() error
}

// Memory is a process-local Store. The zero value is logged out.
type Memory struct {
	mu sync.RWMutex
	id int64
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Bolt)(nil)
)

// NewMemory returns a Memory store, logged in as id when id is positive.
func NewMemory(id int64) *Memory {
	m := &Memory{}
	if id > 0 {
		m.id = id
	}
	return m
}

// UserID implements Reader.
func (m *Memory) UserID() (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id, m.id > 0
}

// SetUserID implements Store.
func (m *Memory) SetUserID(id int64) error {
	if id <= 0 {
		return ErrInvalidUserID
	}
	m.mu.Lock()
	m.id = id
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *Memory) Clear() error {
	m.mu.Lock()
	m.id = 0
	m.mu.Unlock()
	return nil
}
