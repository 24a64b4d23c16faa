package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amiskov/feed-client/pkg/session"
)

type stubScreens struct{}

func screen(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name))
	})
}

func (stubScreens) Login() http.Handler  { return screen("login") }
func (stubScreens) Signup() http.Handler { return screen("signup") }
func (stubScreens) Feed() http.Handler   { return screen("feed") }
func (stubScreens) SinglePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("post:" + PostID(r)))
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestForState(t *testing.T) {
	t.Run("guest states expose login and signup", func(t *testing.T) {
		for _, st := range []session.State{session.Unauthenticated, session.Failed, session.Authenticating} {
			r := ForState(st, stubScreens{})

			rec := get(t, r, "/")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "login", rec.Body.String())

			rec = get(t, r, "/signup")
			assert.Equal(t, "signup", rec.Body.String())

			// No single post for guests, just the fallback.
			rec = get(t, r, "/some-post")
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
		}
	})

	t.Run("authenticated state exposes feed and single post", func(t *testing.T) {
		r := ForState(session.Authenticated, stubScreens{})

		rec := get(t, r, "/")
		assert.Equal(t, "feed", rec.Body.String())

		rec = get(t, r, "/42")
		assert.Equal(t, "post:42", rec.Body.String())

		// Signup is gone once logged in.
		rec = get(t, r, "/signup")
		assert.Equal(t, "post:signup", rec.Body.String())

		rec = get(t, r, "/a/b/c")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestGate(t *testing.T) {
	t.Run("swaps the route table on state change", func(t *testing.T) {
		g := NewGate(stubScreens{}, session.Unauthenticated)

		rec := get(t, g, "/")
		assert.Equal(t, "login", rec.Body.String())

		g.Apply(session.Authenticated)
		rec = get(t, g, "/")
		assert.Equal(t, "feed", rec.Body.String())

		g.Apply(session.Unauthenticated)
		rec = get(t, g, "/")
		assert.Equal(t, "login", rec.Body.String())
	})
}
