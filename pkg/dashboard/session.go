package dashboard

import (
	"context"
	"sync"
	"time"
)

// SessionState is the authentication state of a Session.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateAuthenticated   SessionState = "authenticated"
	StateUnauthenticated SessionState = "unauthenticated"
)

// User is the authenticated principal as the API reports it.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Phone      *string    `json:"phone"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	VerifiedAt *time.Time `json:"emailVerifiedAt"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session tracks authentication state against the API. It starts in
// StateLoading and settles into authenticated or unauthenticated after Init;
// it never reports loading again afterwards.
type Session struct {
	client *Client

	mu    sync.RWMutex
	state SessionState
	user  *User
}

// NewSession creates a session in StateLoading. Call Init to resolve it.
func NewSession(client *Client) *Session {
	return &Session{
		client: client,
		state:  StateLoading,
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the authenticated user, or nil outside StateAuthenticated.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Init performs the one-time session check. Any failure, network or HTTP,
// resolves to unauthenticated rather than an error: an expired cookie on
// startup is a normal state, not a fault.
func (s *Session) Init(ctx context.Context) {
	var user User
	if err := s.client.get(ctx, "/auth/me", &user); err != nil {
		s.setState(StateUnauthenticated, nil)
		return
	}
	s.setState(StateAuthenticated, &user)
}

// Login authenticates with email and password. On success the session becomes
// authenticated; on failure the state becomes unauthenticated and the
// normalized API error is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	var user User
	err := s.client.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &user)
	if err != nil {
		s.setState(StateUnauthenticated, nil)
		return err
	}

	s.setState(StateAuthenticated, &user)
	return nil
}

// Logout revokes the server session. The local state always lands in
// unauthenticated, even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.post(ctx, "/auth/logout", nil, nil)
	s.setState(StateUnauthenticated, nil)
	return err
}

func (s *Session) setState(state SessionState, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}
