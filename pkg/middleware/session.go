package middleware

import (
	"context"
	"net/http"

	"github.com/amiskov/feed-client/pkg/session"
)

type (
	ISessionManager interface {
		Current() (session.Session, bool)
	}

	Session struct {
		manager ISessionManager
	}
)

func NewSessionMiddleware(sm ISessionManager) *Session {
	return &Session{manager: sm}
}

// Middleware puts the live session into the request context so the
// screens can read the token and user id without talking to the
// manager directly.
func (s Session) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.manager.Current()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), session.SessionKey, &sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
