package registry

import (
	"sync"

	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

// MemoryRegistry is the single-process Registry implementation. In a
// multi-instance deployment this would have to move to a shared store; the
// interface is the seam where that would happen.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]string // userID -> sessionID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]string),
	}
}

func (r *MemoryRegistry) Register(userID, sessionID string) {
	r.mu.Lock()
	prev, had := r.sessions[userID]
	r.sessions[userID] = sessionID
	r.mu.Unlock()

	l := log.Component("registry")
	evt := l.Debug().Str(log.FieldUserID, userID).Str(log.FieldSessionID, sessionID)
	if had {
		evt = evt.Str("superseded_session_id", prev)
	}
	evt.Msg("session registered")
}

func (r *MemoryRegistry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.sessions[userID]
	return sessionID, ok
}

func (r *MemoryRegistry) Unregister(userID, sessionID string) {
	r.mu.Lock()
	current, ok := r.sessions[userID]
	if ok && current == sessionID {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()

	if ok && current == sessionID {
		l := log.Component("registry")
		l.Debug().Str(log.FieldUserID, userID).Str(log.FieldSessionID, sessionID).Msg("session unregistered")
	}
}
