package notify

import "sync"

// Session is one connected viewer: who they are and what they currently
// see. The consumer classifies every change event against each session.
type Session struct {
	UserID string
	View   ViewState
}

// SessionRegistry is the in-memory set of live view states, keyed by
// session id. The API updates it when a client reports its current list;
// the change-feed consumer reads it.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]Session)}
}

func (r *SessionRegistry) Put(sessionID string, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = s
}

func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Snapshot copies the current sessions so classification never runs under
// the lock.
func (r *SessionRegistry) Snapshot() map[string]Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Session, len(r.sessions))
	for k, v := range r.sessions {
		out[k] = v
	}
	return out
}
