package session

import (
	"sync"
	"time"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
)

// Store keys. "loggedInDriverId" is historical: it has always held the
// account user id, not a driver id.
const (
	keyToken  = "userToken"
	keyName   = "userName"
	keyUserID = "loggedInDriverId"
)

// Handle is the single process-wide session object. It is mutated only by
// Begin, End and Invalidate; everything else reads it. The transport reads
// the token before every request.
type Handle struct {
	mu    sync.RWMutex
	store Store
	cur   domain.Session
}

// NewHandle wraps a Store into a session handle with no active session.
func NewHandle(store Store) *Handle {
	return &Handle{store: store}
}

// Restore loads the persisted session at app start. A record without a token
// restores to the unauthenticated state regardless of the other fields.
func (h *Handle) Restore() error {
	token, err := h.store.Get(keyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	name, err := h.store.Get(keyName)
	if err != nil {
		return err
	}
	userID, err := h.store.Get(keyUserID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = domain.Session{
		Token:       token,
		UserID:      domain.UserID(userID),
		DisplayName: name,
		ExpiresAt:   TokenExpiry(token),
	}
	return nil
}

// Begin installs and persists a new session after login.
func (h *Handle) Begin(s domain.Session) error {
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = TokenExpiry(s.Token)
	}
	if err := h.store.Set(keyToken, s.Token); err != nil {
		return err
	}
	if err := h.store.Set(keyName, s.DisplayName); err != nil {
		return err
	}
	if err := h.store.Set(keyUserID, string(s.UserID)); err != nil {
		return err
	}

	h.mu.Lock()
	h.cur = s
	h.mu.Unlock()
	return nil
}

// Current returns a copy of the active session.
func (h *Handle) Current() domain.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

// Token returns the bearer token, or the empty string when unauthenticated.
func (h *Handle) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur.Token
}

// Expired reports whether the active token is known to be past its expiry.
func (h *Handle) Expired(now time.Time) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur.Expired(now)
}

// End clears the session at logout.
func (h *Handle) End() error {
	return h.clear()
}

// Invalidate clears the session after an authentication failure. The
// in-memory state is cleared unconditionally; the persisted copy is removed
// best effort and the error, if any, is returned for logging.
func (h *Handle) Invalidate() error {
	return h.clear()
}

func (h *Handle) clear() error {
	h.mu.Lock()
	h.cur = domain.Session{}
	h.mu.Unlock()
	return h.store.Delete(keyToken, keyName, keyUserID)
}
