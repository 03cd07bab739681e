package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/config"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter ports.UserFilter) ([]*entities.User, error) {
	var users []*entities.User
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter ports.UserFilter) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.EmailVerifiedAt = &at
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entities.Session
	revoked  map[uuid.UUID]bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*entities.Session),
		revoked:  make(map[uuid.UUID]bool),
	}
}

func (r *fakeSessionRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.sessions[tokenHash] = &entities.Session{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	if session, ok := r.sessions[tokenHash]; ok && session.RevokedAt == nil {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.revoked[userID] = true
	now := time.Now()
	for _, session := range r.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanupExpired(ctx context.Context) error {
	return nil
}

type fakeMailer struct {
	resetEmails  []string
	verifyEmails []string
	fail         bool
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.resetEmails = append(m.resetEmails, email)
	return nil
}

func (m *fakeMailer) SendEmailVerification(ctx context.Context, email, token string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.verifyEmails = append(m.verifyEmails, email)
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionCookieName: "bp_session",
		SessionTTL:        720 * time.Hour,
		TokenSecret:       "test-secret-not-for-production",
		VerifyTokenTTL:    10 * time.Minute,
		ResetTokenTTL:     time.Hour,
		TokenIssuer:       "brooklinpub-admin",
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionRepo, *fakeMailer) {
	t.Helper()

	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	mail := &fakeMailer{}
	svc := NewAuthService(userRepo, sessionRepo, mail, testAuthConfig(), logger.NewNop())
	return svc, userRepo, sessionRepo, mail
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *entities.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Sam",
		LastName:     "Barkeep",
		Role:         entities.UserRoleManager,
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginAndValidateSession(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	result, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "Sam@TheBrooklinPub.com",
		Password: "Correct1!",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.SessionToken == "" {
		t.Fatal("SessionToken is empty")
	}
	if result.User.PasswordHash != "" {
		t.Error("login response leaks the password hash")
	}

	identity, err := svc.ValidateSession(context.Background(), result.SessionToken)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("identity.UserID = %s, want %s", identity.UserID, user.ID)
	}
	if identity.Role != entities.UserRoleManager {
		t.Errorf("identity.Role = %s, want manager", identity.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "sam@thebrooklinpub.com",
		Password: "wrong",
	})
	if !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "nobody@thebrooklinpub.com",
		Password: "whatever",
	})
	if !errors.Is(err, entities.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	result, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "sam@thebrooklinpub.com",
		Password: "Correct1!",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(context.Background(), result.SessionToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := svc.ValidateSession(context.Background(), result.SessionToken); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Fatalf("ValidateSession() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestLogoutWithEmptyToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout(\"\") error = %v, want nil", err)
	}
}

func TestForgotPasswordIsEnumerationSafe(t *testing.T) {
	svc, userRepo, _, mail := newTestAuthService(t)
	seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	if err := svc.ForgotPassword(context.Background(), "sam@thebrooklinpub.com"); err != nil {
		t.Fatalf("ForgotPassword(known) error = %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "stranger@example.com"); err != nil {
		t.Fatalf("ForgotPassword(unknown) error = %v, want nil", err)
	}

	if len(mail.resetEmails) != 1 || mail.resetEmails[0] != "sam@thebrooklinpub.com" {
		t.Errorf("reset emails = %v, want exactly one to the known address", mail.resetEmails)
	}
}

func TestForgotPasswordMailerFailureIsSwallowed(t *testing.T) {
	svc, userRepo, _, mail := newTestAuthService(t)
	seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")
	mail.fail = true

	if err := svc.ForgotPassword(context.Background(), "sam@thebrooklinpub.com"); err != nil {
		t.Fatalf("ForgotPassword() error = %v, want nil despite mailer failure", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	err := svc.ChangePassword(context.Background(), user.ID, ports.ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "Another1!",
	})
	if !errors.Is(err, entities.ErrWrongPassword) {
		t.Fatalf("ChangePassword() error = %v, want ErrWrongPassword", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, ports.ChangePasswordRequest{
		CurrentPassword: "Correct1!",
		NewPassword:     "Another1!",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "sam@thebrooklinpub.com",
		Password: "Another1!",
	}); err != nil {
		t.Fatalf("Login() with new password error = %v", err)
	}
}

func TestVerifyEmailRoundTrip(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	token, err := svc.generateActionToken(user.ID, purposeVerifyEmail, 10*time.Minute)
	if err != nil {
		t.Fatalf("generateActionToken() error = %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}

	stored, _ := userRepo.GetByID(context.Background(), user.ID)
	if stored.EmailVerifiedAt == nil {
		t.Fatal("EmailVerifiedAt not set after verification")
	}
}

func TestVerifyEmailRejectsWrongPurpose(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	token, err := svc.generateActionToken(user.ID, purposePasswordReset, time.Hour)
	if err != nil {
		t.Fatalf("generateActionToken() error = %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, entities.ErrTokenInvalid) {
		t.Fatalf("VerifyEmail() error = %v, want ErrTokenInvalid", err)
	}
}

func TestResetPasswordRevokesAllSessions(t *testing.T) {
	svc, userRepo, sessionRepo, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	result, err := svc.Login(context.Background(), ports.LoginRequest{
		Email:    "sam@thebrooklinpub.com",
		Password: "Correct1!",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	token, err := svc.generateActionToken(user.ID, purposePasswordReset, time.Hour)
	if err != nil {
		t.Fatalf("generateActionToken() error = %v", err)
	}

	err = svc.ResetPassword(context.Background(), ports.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Fresh1!pw",
	})
	if err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if !sessionRepo.revoked[user.ID] {
		t.Error("reset did not revoke the user's sessions")
	}
	if _, err := svc.ValidateSession(context.Background(), result.SessionToken); err == nil {
		t.Error("old session still validates after password reset")
	}
}

func TestExpiredActionToken(t *testing.T) {
	svc, userRepo, _, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "sam@thebrooklinpub.com", "Correct1!")

	token, err := svc.generateActionToken(user.ID, purposePasswordReset, -time.Minute)
	if err != nil {
		t.Fatalf("generateActionToken() error = %v", err)
	}

	err = svc.ResetPassword(context.Background(), ports.ResetPasswordRequest{
		Token:       token,
		NewPassword: "Fresh1!pw",
	})
	if !errors.Is(err, entities.ErrTokenExpired) {
		t.Fatalf("ResetPassword() error = %v, want ErrTokenExpired", err)
	}
}
