package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/config"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// Token purposes for the short-lived action JWTs.
const (
	purposeVerifyEmail   = "verify_email"
	purposePasswordReset = "password_reset"
)

// actionClaims is the claim set for email-verification and password-reset
// links. Purpose prevents a verification token from resetting a password.
type actionClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Mailer delivers account emails. The server never blocks a response on
// delivery failure of an enumeration-safe flow.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
	SendEmailVerification(ctx context.Context, email, token string) error
}

// AuthService handles sessions, credentials and account self-service
type AuthService struct {
	userRepo    ports.UserRepository
	sessionRepo ports.SessionRepository
	mailer      Mailer
	authConfig  config.AuthConfig
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, sessionRepo ports.SessionRepository, mailer Mailer, authConfig config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		mailer:      mailer,
		authConfig:  authConfig,
		logger:      logger,
	}
}

// Login verifies credentials and opens a session. The returned raw token goes
// into an HttpOnly cookie; only its hash is stored.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Warnw("Login attempt with non-existent email", "email", req.Email)
		return nil, entities.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warnw("Login attempt with inactive account", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warnw("Login attempt with invalid password", "email", req.Email, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	token, expiresAt, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "email", user.Email)

	user.PasswordHash = ""
	return &ports.LoginResult{
		User:         user,
		SessionToken: token,
		ExpiresAt:    expiresAt,
	}, nil
}

// Logout revokes the presented session. Revoking an unknown token is not an
// error; the client is logging out either way.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	if err := s.sessionRepo.Revoke(ctx, hashToken(rawToken)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// ValidateSession resolves a raw session token to the authenticated identity.
func (s *AuthService) ValidateSession(ctx context.Context, rawToken string) (*ports.Identity, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}

	if !session.IsValid() {
		return nil, entities.ErrSessionNotFound
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}

	if !user.IsActive {
		return nil, entities.ErrAccountInactive
	}

	return &ports.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName(),
		Role:   user.Role,
	}, nil
}

// GetUser returns the sanitized user record for /auth/me.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the self-service profile edits (name and phone only;
// role and email changes go through user management).
func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, req ports.UpdateProfileRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePassword swaps the password after re-verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, id uuid.UUID, req ports.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.LogSecurityEvent("change_password_wrong_current", user.ID.String(), "", nil)
		return entities.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Infow("Password changed", "user_id", user.ID)
	return nil
}

// ForgotPassword starts the reset flow. It succeeds whether or not the email
// exists so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Infow("Password reset requested for unknown email", "email", email)
		return nil
	}

	token, err := s.generateActionToken(user.ID, purposePasswordReset, s.authConfig.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		// Still report success to the caller; delivery problems must not
		// reveal account existence.
		s.logger.Errorw("Failed to send password reset email", "error", err, "user_id", user.ID)
	}

	return nil
}

// ResetPassword consumes a reset token and sets the new password. All open
// sessions are revoked afterwards.
func (s *AuthService) ResetPassword(ctx context.Context, req ports.ResetPasswordRequest) error {
	userID, err := s.parseActionToken(req.Token, purposePasswordReset)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.sessionRepo.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.Warnw("Failed to revoke sessions after password reset", "error", err, "user_id", userID)
	}

	s.logger.Infow("Password reset completed", "user_id", userID)
	return nil
}

// RequestEmailVerification issues a fresh verification token for the user.
func (s *AuthService) RequestEmailVerification(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	token, err := s.generateActionToken(user.ID, purposeVerifyEmail, s.authConfig.VerifyTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	if err := s.mailer.SendEmailVerification(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.parseActionToken(token, purposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	s.logger.Infow("Email verified", "user_id", userID)
	return nil
}

func (s *AuthService) openSession(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().Add(s.authConfig.SessionTTL)

	if err := s.sessionRepo.Create(ctx, userID, hashToken(token), expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store session: %w", err)
	}

	return token, expiresAt, nil
}

func (s *AuthService) generateActionToken(userID uuid.UUID, purpose string, ttl time.Duration) (string, error) {
	claims := &actionClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.authConfig.TokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authConfig.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (s *AuthService) parseActionToken(tokenString, wantPurpose string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &actionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.TokenSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, entities.ErrTokenExpired
		}
		return uuid.Nil, entities.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*actionClaims)
	if !ok || !token.Valid || claims.Purpose != wantPurpose {
		return uuid.Nil, entities.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, entities.ErrTokenInvalid
	}

	return userID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
