package session

import (
	"context"
	"errors"
	"time"
)

type sessionKey string

// Session is the authenticated identity of the current user.
type Session struct {
	Token  string
	UserID string
	Expiry time.Time
}

// State of the session lifecycle. Failed behaves like
// Unauthenticated for routing but keeps the last error around
// until it gets acknowledged.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

const SessionKey sessionKey = "authenticatedSession"

var ErrNoAuth = errors.New("session: no session found")

// FromContext returns the session put there by the session middleware.
func FromContext(ctx context.Context) (*Session, error) {
	sess, ok := ctx.Value(SessionKey).(*Session)
	if !ok || sess == nil {
		return nil, ErrNoAuth
	}
	return sess, nil
}
