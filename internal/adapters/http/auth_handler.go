package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/config"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	authConfig  config.AuthConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, authConfig config.AuthConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

// Login handles credential exchange and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Login failed", "error", err, "email", req.Email)
		if errors.Is(err, entities.ErrAccountInactive) {
			return echo.NewHTTPError(http.StatusForbidden, "Account is inactive")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	c.SetCookie(h.sessionCookie(result.SessionToken, result.ExpiresAt))

	return c.JSON(http.StatusOK, result.User)
}

// Logout revokes the session and clears the cookie. The cookie is cleared
// even when revocation fails; the client must never stay logged in after a
// logout attempt.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(h.authConfig.SessionCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		h.logger.Errorw("Logout revocation failed", "error", err)
	}

	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	identity := identityFromContext(c)

	user, err := h.authService.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles self-service profile edits
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identity := identityFromContext(c)

	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), identity.UserID, req)
	if err != nil {
		h.logger.Errorw("Profile update failed", "error", err, "user_id", identity.UserID)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles password change with current-password check
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identity := identityFromContext(c)

	var req ports.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), identity.UserID, req); err != nil {
		if errors.Is(err, entities.ErrWrongPassword) {
			return echo.NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
		}
		h.logger.Errorw("Password change failed", "error", err, "user_id", identity.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to change password")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed"})
}

// ForgotPassword initiates the reset flow. The response shape is identical
// whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ports.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		h.logger.Errorw("Forgot password failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "If the email exists, a reset link has been sent"})
}

// ResetPassword consumes a reset token
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ports.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req); err != nil {
		if errors.Is(err, entities.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Reset link has expired")
		}
		if errors.Is(err, entities.ErrTokenInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, "Reset link is invalid")
		}
		h.logger.Errorw("Password reset failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset password")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password has been reset"})
}

// VerifyEmail consumes a verification token
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req ports.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		if errors.Is(err, entities.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Verification link has expired")
		}
		if errors.Is(err, entities.ErrTokenInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, "Verification link is invalid")
		}
		h.logger.Errorw("Email verification failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify email")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Email verified"})
}

// RequestVerification emails a fresh verification link to the logged-in user
func (h *AuthHandler) RequestVerification(c echo.Context) error {
	identity := identityFromContext(c)

	if err := h.authService.RequestEmailVerification(c.Request().Context(), identity.UserID); err != nil {
		h.logger.Errorw("Verification request failed", "error", err, "user_id", identity.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send verification email")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Verification email sent"})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.authConfig.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
