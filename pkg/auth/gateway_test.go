package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gw, err := NewGateway(srv.URL)
	require.NoError(t, err)
	return gw
}

func TestGatewayLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the query and returns the payload", func(t *testing.T) {
		var captured graphqlRequest
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(`{"data":{"login":{"userId":"u1","token":"t1"}}}`))
		})

		res, err := gw.Login(ctx, "a@a.com", "x")
		require.NoError(t, err)
		assert.Equal(t, "t1", res.Token)
		assert.Equal(t, "u1", res.UserID)

		assert.Contains(t, captured.Query, "query Login")
		assert.Equal(t, "a@a.com", captured.Variables["email"])
		assert.Equal(t, "x", captured.Variables["password"])
	})

	t.Run("status 401 means invalid credentials", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"status":401,"message":"bad creds"}]}`))
		})

		_, err := gw.Login(ctx, "a@a.com", "x")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, InvalidCredentials, aerr.Kind)
		assert.Equal(t, "bad creds", aerr.Message)
	})

	t.Run("prefers the detailed message from the error data", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"status":401,"message":"generic","data":[{"message":"password too short"}]}]}`))
		})

		_, err := gw.Login(ctx, "a@a.com", "x")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, "password too short", aerr.Message)
	})

	t.Run("errors without a status are unknown", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"message":"something broke"}]}`))
		})

		_, err := gw.Login(ctx, "a@a.com", "x")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, Unknown, aerr.Kind)
		assert.Equal(t, "something broke", aerr.Message)
	})

	t.Run("malformed body is a network error", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})

		_, err := gw.Login(ctx, "a@a.com", "x")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, Network, aerr.Kind)
	})

	t.Run("unreachable backend is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		gw, err := NewGateway(srv.URL)
		require.NoError(t, err)

		_, err = gw.Login(ctx, "a@a.com", "x")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, Network, aerr.Kind)
	})
}

func TestGatewayCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the mutation and returns the new account", func(t *testing.T) {
		var captured graphqlRequest
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(`{"data":{"createUser":{"_id":"5ca7e514","email":"a@a.com","name":"JA"}}}`))
		})

		res, err := gw.CreateUser(ctx, "a@a.com", "x", "JA")
		require.NoError(t, err)
		assert.Equal(t, "5ca7e514", res.ID)
		assert.Equal(t, "a@a.com", res.Email)
		assert.Equal(t, "JA", res.Name)

		assert.Contains(t, captured.Query, "mutation CreateUser")
		assert.Equal(t, "JA", captured.Variables["name"])
	})

	t.Run("status 422 means validation failure", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"status":422,"message":"email taken"}]}`))
		})

		_, err := gw.CreateUser(ctx, "a@a.com", "x", "JA")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, Validation, aerr.Kind)
		assert.Equal(t, "email taken", aerr.Message)
	})

	t.Run("other statuses are unknown", func(t *testing.T) {
		gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"errors":[{"status":500,"message":"boom"}]}`))
		})

		_, err := gw.CreateUser(ctx, "a@a.com", "x", "JA")
		var aerr *Error
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, Unknown, aerr.Kind)
	})
}
