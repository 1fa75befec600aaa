package domain

import "time"

// Session is an authenticated login. Tokens are bound to one session id.
type Session struct {
	ID        string
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// SessionEvent describes a session transition delivered to listeners.
type SessionEvent string

const (
	SessionSignedIn  SessionEvent = "SIGNED_IN"
	SessionSignedOut SessionEvent = "SIGNED_OUT"
)
