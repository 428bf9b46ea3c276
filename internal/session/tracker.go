package session

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"inbox-triage/internal/model"
)

const (
	CookieName = "inbox_triage_session"
	// ContextKey is where middleware stores the session id on the request context.
	ContextKey = "session_id"
	idKey      = "sid"
)

// NewCookieStore creates a new cookie store for sessions
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Tracker remembers which emails each browser session has opened. Only the
// session id lives in the cookie; the viewed sets stay in process memory
// until the session has been idle for longer than the sweep ttl.
type Tracker struct {
	store sessions.Store
	now   func() time.Time

	mu       sync.RWMutex
	viewed   map[string]model.ViewedSet
	lastSeen map[string]time.Time
}

func NewTracker(store sessions.Store) *Tracker {
	return &Tracker{
		store:    store,
		now:      time.Now,
		viewed:   make(map[string]model.ViewedSet),
		lastSeen: make(map[string]time.Time),
	}
}

// SessionID returns the id stored in the request cookie, issuing a new one
// when the cookie is missing or cannot be decoded.
func (t *Tracker) SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A tampered or stale cookie still yields a fresh session.
	sess, _ := t.store.Get(r, CookieName)

	if id, ok := sess.Values[idKey].(string); ok && id != "" {
		t.touch(id)
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[idKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	t.touch(id)
	return id, nil
}

func (t *Tracker) touch(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeen[sessionID] = t.now()
}

func (t *Tracker) MarkViewed(sessionID, emailID string) {
	if sessionID == "" || emailID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.viewed[sessionID]
	if !ok {
		set = make(model.ViewedSet)
		t.viewed[sessionID] = set
	}
	set[emailID] = true
	t.lastSeen[sessionID] = t.now()
}

// Viewed returns a copy of the ids opened in the session.
func (t *Tracker) Viewed(sessionID string) model.ViewedSet {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(model.ViewedSet, len(t.viewed[sessionID]))
	for id := range t.viewed[sessionID] {
		out[id] = true
	}
	return out
}

// Sweep forgets every session not seen within ttl of now and returns how
// many were dropped.
func (t *Tracker) Sweep(now time.Time, ttl time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for id, seen := range t.lastSeen {
		if now.Sub(seen) > ttl {
			delete(t.viewed, id)
			delete(t.lastSeen, id)
			dropped++
		}
	}
	return dropped
}

// Sessions returns the number of sessions currently tracked.
func (t *Tracker) Sessions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.lastSeen)
}
