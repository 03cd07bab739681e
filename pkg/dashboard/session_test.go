package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionForServer(t *testing.T, handler http.Handler) (*Session, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	client, err := NewClient(server.URL)
	require.NoError(t, err)

	return NewSession(client), server.Close
}

func TestSessionStartsLoading(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer cleanup()

	assert.Equal(t, StateLoading, session.State())
	assert.Nil(t, session.User())
}

func TestSessionInitAuthenticated(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u-1", "email": "sam@thebrooklinpub.com", "firstName": "Sam", "role": "manager", "isActive": true}`))
	}))
	defer cleanup()

	session.Init(context.Background())

	assert.Equal(t, StateAuthenticated, session.State())
	require.NotNil(t, session.User())
	assert.Equal(t, "sam@thebrooklinpub.com", session.User().Email)
}

func TestSessionInitUnauthenticatedOn401(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Authentication required"}`))
	}))
	defer cleanup()

	session.Init(context.Background())

	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Nil(t, session.User())
}

func TestSessionInitUnauthenticatedOnNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(server.URL)
	require.NoError(t, err)
	server.Close() // connection refused from here on

	session := NewSession(client)
	session.Init(context.Background())

	assert.Equal(t, StateUnauthenticated, session.State())
}

func TestSessionLogin(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "u-1", "email": "sam@thebrooklinpub.com", "role": "manager", "isActive": true}`))
	}))
	defer cleanup()

	err := session.Login(context.Background(), "sam@thebrooklinpub.com", "Correct1!")

	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, session.State())
	assert.Equal(t, "manager", session.User().Role)
}

func TestSessionLoginFailure(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid email or password"}`))
	}))
	defer cleanup()

	err := session.Login(context.Background(), "sam@thebrooklinpub.com", "wrong")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Nil(t, session.User())
}

func TestSessionLogoutAlwaysUnauthenticated(t *testing.T) {
	session, cleanup := newSessionForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			_, _ = w.Write([]byte(`{"id": "u-1", "email": "sam@thebrooklinpub.com"}`))
		case "/auth/logout":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message": "Internal server error", "errorId": "req-9"}`))
		}
	}))
	defer cleanup()

	session.Init(context.Background())
	require.Equal(t, StateAuthenticated, session.State())

	err := session.Logout(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, session.State(), "logout must clear local state even when the server fails")
	assert.Nil(t, session.User())
}
