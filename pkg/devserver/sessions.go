package devserver

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/floatkit/internal/scenario"
)

// liveSession is a scenario session addressed by id.
type liveSession struct {
	id      string
	name    string
	created time.Time
	*scenario.Session
}

// sessionStore holds the open live sessions.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*liveSession)}
}

// Add registers sess under a new random id.
func (st *sessionStore) Add(name string, sess *scenario.Session) *liveSession {
	live := &liveSession{
		id:      uuid.NewString(),
		name:    name,
		created: time.Now(),
		Session: sess,
	}
	st.mu.Lock()
	st.sessions[live.id] = live
	st.mu.Unlock()
	return live
}

// Get returns the session with id.
func (st *sessionStore) Get(id string) (*liveSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	live, ok := st.sessions[id]
	return live, ok
}

// Remove closes and forgets the session with id.
func (st *sessionStore) Remove(id string) bool {
	st.mu.Lock()
	live, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		live.Close()
	}
	return ok
}

// CloseAll closes every session.
func (st *sessionStore) CloseAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*liveSession)
	st.mu.Unlock()

	for _, live := range sessions {
		live.Close()
	}
}

// Len returns the number of open sessions.
func (st *sessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
