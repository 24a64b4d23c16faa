package routes

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/amiskov/feed-client/pkg/session"
)

// Screens is the rendering boundary: the session layer decides
// which screens are reachable, it does not render them.
type Screens interface {
	Login() http.Handler
	Signup() http.Handler
	Feed() http.Handler
	SinglePost() http.Handler
}

// ForState builds the route table for the given session state.
// Guest states expose the login and signup screens; an
// authenticated session exposes the feed and single posts. Anything
// else redirects to `/`. Authenticating keeps the guest table: the
// routes don't change just because a request is in flight.
func ForState(st session.State, s Screens) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.RedirectHandler("/", http.StatusFound)

	if st == session.Authenticated {
		r.Handle("/", s.Feed())
		r.Handle("/{postId}", s.SinglePost())
		return r
	}

	r.Handle("/", s.Login())
	r.Handle("/signup", s.Signup())
	return r
}

// PostID extracts the post id route variable.
func PostID(r *http.Request) string {
	return mux.Vars(r)["postId"]
}

// Gate serves the route table of the current session state and
// swaps it whenever the state changes. Wire Apply to a
// session.Manager subscription.
type Gate struct {
	mu      sync.RWMutex
	screens Screens
	current *mux.Router
}

func NewGate(s Screens, st session.State) *Gate {
	return &Gate{
		screens: s,
		current: ForState(st, s),
	}
}

func (g *Gate) Apply(st session.State) {
	router := ForState(st, g.screens)
	g.mu.Lock()
	g.current = router
	g.mu.Unlock()
}

func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.RLock()
	router := g.current
	g.mu.RUnlock()
	router.ServeHTTP(w, r)
}
