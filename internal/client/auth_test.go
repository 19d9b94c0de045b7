package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLoginServer fakes the two-step EEN login handshake.
func newLoginServer(t *testing.T, authenticateStatus int, token, subdomain, authKey string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/g/aaa/authenticate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "operator@example.com", r.URL.Query().Get("username"))
		assert.Equal(t, "hunter2", r.URL.Query().Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(authenticateStatus)
		if authenticateStatus == http.StatusOK {
			w.Write([]byte(`{"token":"` + token + `"}`))
		} else {
			w.Write([]byte(`{"message":"invalid credentials"}`))
		}
	})

	mux.HandleFunc("/g/aaa/authorize", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, token, r.PostForm.Get("token"))

		if authKey != "" {
			http.SetCookie(w, &http.Cookie{Name: "auth_key", Value: authKey})
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active_brand_subdomain":"` + subdomain + `"}`))
	})

	return httptest.NewServer(mux)
}

func TestAuthenticateSuccess(t *testing.T) {
	ts := newLoginServer(t, http.StatusOK, "tok-123", "c013", "key-456")
	defer ts.Close()

	api := New(ClientConfig{LoginBaseURL: ts.URL})

	sess, err := api.Authenticate(context.Background(), "operator@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "key-456", sess.AuthKey)
	assert.Equal(t, "https://c013.eagleeyenetworks.com", sess.BaseURL)
	assert.Equal(t, "operator@example.com", sess.Username)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	ts := newLoginServer(t, http.StatusUnauthorized, "", "", "")
	defer ts.Close()

	api := New(ClientConfig{LoginBaseURL: ts.URL})

	_, err := api.Authenticate(context.Background(), "operator@example.com", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestAuthenticateMissingToken(t *testing.T) {
	ts := newLoginServer(t, http.StatusOK, "", "c013", "key-456")
	defer ts.Close()

	api := New(ClientConfig{LoginBaseURL: ts.URL})

	_, err := api.Authenticate(context.Background(), "operator@example.com", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Error(), "no token")
}

func TestAuthorizeMissingAuthKeyCookie(t *testing.T) {
	ts := newLoginServer(t, http.StatusOK, "tok-123", "c013", "")
	defer ts.Close()

	api := New(ClientConfig{LoginBaseURL: ts.URL})

	_, err := api.Authenticate(context.Background(), "operator@example.com", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Error(), "auth_key")
}

func TestAuthenticateServerUnreachable(t *testing.T) {
	api := New(ClientConfig{LoginBaseURL: "http://127.0.0.1:1"})

	_, err := api.Authenticate(context.Background(), "operator@example.com", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
}
