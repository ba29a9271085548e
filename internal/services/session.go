package services

import (
	"log"
	"sync"
	"time"

	"github.com/recipehub/recipebot-backend/internal/models"
)

// SessionManager holds the in-progress dialog sessions, one per user.
// Sessions are ephemeral: they live in memory for the duration of a flow
// and a process restart legitimately discards them.
type SessionManager struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex

	// Per-user locks so events within one session are processed strictly
	// in arrival order. Sessions of different users never contend.
	locks   map[string]*sync.Mutex
	locksMu sync.Mutex
}

// Singleton instance
var (
	sessionManagerInstance *SessionManager
	sessionManagerOnce     sync.Once
)

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*models.Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// GetSessionManager returns the singleton session manager instance
func GetSessionManager() *SessionManager {
	sessionManagerOnce.Do(func() {
		if sessionManagerInstance == nil {
			sessionManagerInstance = NewSessionManager()
		}
	})
	return sessionManagerInstance
}

// SetSessionManager sets the global session manager instance (call from main.go)
func SetSessionManager(sm *SessionManager) {
	sessionManagerInstance = sm
}

// Get retrieves the active session for a user, if any
func (sm *SessionManager) Get(sessionID string) (*models.Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	return session, exists
}

// Put stores a session, replacing any previous one for the same user
func (sm *SessionManager) Put(session *models.Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[session.ID] = session
}

// Delete removes a user's session. Deleting an absent session is a no-op.
func (sm *SessionManager) Delete(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, sessionID)
}

// Lock acquires the per-user ordering lock and returns its release func.
// The dialog engine holds it for the whole of one event's processing.
// The expiry sweep may prune a lock while a caller is blocked on it, so
// after acquiring we confirm the map still carries the same mutex and
// retry on the fresh one when it does not.
func (sm *SessionManager) Lock(sessionID string) func() {
	for {
		l := sm.lockFor(sessionID)
		l.Lock()

		sm.locksMu.Lock()
		current := sm.locks[sessionID]
		sm.locksMu.Unlock()

		if current == l {
			return l.Unlock
		}
		l.Unlock()
	}
}

func (sm *SessionManager) lockFor(sessionID string) *sync.Mutex {
	sm.locksMu.Lock()
	defer sm.locksMu.Unlock()

	l, exists := sm.locks[sessionID]
	if !exists {
		l = &sync.Mutex{}
		sm.locks[sessionID] = l
	}
	return l
}

// ActiveCount returns the number of in-progress sessions (for monitoring)
func (sm *SessionManager) ActiveCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}

// ExpireIdle removes sessions whose last activity is older than ttl and
// returns their IDs. Called by the cleanup job when idle expiry is enabled.
//
// LastActive is only ever written under the per-user ordering lock, so the
// sweep takes that lock (TryLock) before inspecting a session. A user whose
// event is mid-flight holds the lock, which also means the session is not
// idle; skipping it is the correct outcome, not just a fallback.
func (sm *SessionManager) ExpireIdle(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)

	sm.mu.RLock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.RUnlock()

	var expired []string
	for _, id := range ids {
		l := sm.lockFor(id)
		if !l.TryLock() {
			continue
		}

		sm.mu.Lock()
		session, exists := sm.sessions[id]
		if exists && session.LastActive.Before(cutoff) {
			delete(sm.sessions, id)
			expired = append(expired, id)
			exists = false
		}
		if !exists {
			// No session left behind this lock, so the lock can go too.
			// A caller blocked on it re-checks the map and retries.
			sm.locksMu.Lock()
			delete(sm.locks, id)
			sm.locksMu.Unlock()
		}
		sm.mu.Unlock()

		l.Unlock()
	}

	if len(expired) > 0 {
		log.Printf("Cleaned up %d idle session(s)", len(expired))
	}
	return expired
}
