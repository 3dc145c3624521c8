// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session *Session
	seen    time.Time
}

// Store maps session ids to sessions. State never outlives the process.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry), now: time.Now}
}

// Get returns the session for id, creating a new one (with a fresh id) when
// id is empty or unknown. The returned id is the one to hand back to the client.
func (st *Store) Get(id string) (string, *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if e, ok := st.sessions[id]; ok && id != "" {
		e.seen = st.now()
		return id, e.session
	}

	id = uuid.NewString()
	s := New()
	st.sessions[id] = &entry{session: s, seen: st.now()}
	return id, s
}

// Lookup returns the session for id without creating one. A hit counts as
// activity for Prune.
func (st *Store) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.seen = st.now()
	return e.session, true
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune drops sessions not seen for maxAge, except those still loading.
// It returns the number removed.
func (st *Store) Prune(maxAge time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-maxAge)
	removed := 0
	for id, e := range st.sessions {
		if e.seen.Before(cutoff) && e.session.Snapshot().State != Loading {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
