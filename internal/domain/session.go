package domain

import "time"

// Session is the authenticated identity carried on every protected request.
// It is all-or-nothing: without a token the remaining fields mean nothing.
type Session struct {
	Token       string
	UserID      UserID
	DisplayName string
	ExpiresAt   time.Time // best effort, decoded from the token; zero if unknown
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the token is known to be past its expiry.
// An unknown expiry is never reported as expired; the server stays
// authoritative via 401.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
