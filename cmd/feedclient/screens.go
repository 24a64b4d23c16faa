package main

import (
	"context"
	"net/http"

	"github.com/amiskov/feed-client/pkg/common"
	"github.com/amiskov/feed-client/pkg/logger"
	"github.com/amiskov/feed-client/pkg/routes"
	"github.com/amiskov/feed-client/pkg/session"
)

// Minimal JSON screens behind the route gate. Real rendering lives
// outside the session layer, these only exercise its contract.
type screens struct {
	manager *session.Manager
}

var _ routes.Screens = (*screens)(nil)

func newScreens(m *session.Manager) *screens {
	return &screens{manager: m}
}

type authForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *screens) Login() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			form := new(authForm)
			if err := common.ParseReqBody(r.Body, form); err != nil {
				logger.Log(r.Context()).Errorf("can't parse request body as credentials: %v", err)
				common.WriteMsg(w, "bad request format", http.StatusBadRequest)
				return
			}
			// Not the request context: the login call outlives this
			// handler, its result arrives through the state change.
			if err := s.manager.Login(context.Background(), form.Email, form.Password); err != nil {
				common.WriteMsg(w, err.Error(), http.StatusConflict)
				return
			}
			common.WriteMsg(w, "authenticating", http.StatusAccepted)
			return
		}

		resp := struct {
			Screen string `json:"screen"`
			State  string `json:"state"`
			Error  string `json:"error,omitempty"`
		}{Screen: "login", State: s.manager.State().String()}
		if lastErr := s.manager.LastError(); lastErr != nil {
			resp.Error = lastErr.Message
		}
		common.WriteRespJSON(w, resp)
	})
}

func (s *screens) Signup() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			form := new(authForm)
			if err := common.ParseReqBody(r.Body, form); err != nil {
				logger.Log(r.Context()).Errorf("can't parse request body as signup form: %v", err)
				common.WriteMsg(w, "bad request format", http.StatusBadRequest)
				return
			}
			if err := s.manager.Signup(context.Background(), form.Email, form.Password, form.Name); err != nil {
				common.WriteMsg(w, err.Error(), http.StatusConflict)
				return
			}
			common.WriteMsg(w, "creating account", http.StatusAccepted)
			return
		}

		common.WriteRespJSON(w, struct {
			Screen string `json:"screen"`
		}{Screen: "signup"})
	})
}

func (s *screens) Feed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.FromContext(r.Context())
		if err != nil {
			common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
			return
		}
		common.WriteRespJSON(w, struct {
			Screen string `json:"screen"`
			UserID string `json:"userId"`
			Token  string `json:"token"`
		}{Screen: "feed", UserID: sess.UserID, Token: sess.Token})
	})
}

func (s *screens) SinglePost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.FromContext(r.Context())
		if err != nil {
			common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
			return
		}
		common.WriteRespJSON(w, struct {
			Screen string `json:"screen"`
			PostID string `json:"postId"`
			UserID string `json:"userId"`
			Token  string `json:"token"`
		}{Screen: "post", PostID: routes.PostID(r), UserID: sess.UserID, Token: sess.Token})
	})
}
