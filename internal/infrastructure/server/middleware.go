package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/ports"
)

const identityContextKey = "identity"

// sessionMiddleware authenticates requests by resolving the session cookie
// against the session store and attaching the principal to the context.
func (s *Server) sessionMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.config.Auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			identity, err := authService.ValidateSession(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired or invalid")
			}

			c.Set(identityContextKey, *identity)
			return next(c)
		}
	}
}

// requireRole restricts a route to the given roles. It must run after
// sessionMiddleware.
func (s *Server) requireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(identityContextKey).(ports.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			for _, role := range roles {
				if identity.Role == role {
					return next(c)
				}
			}

			s.logger.LogSecurityEvent("role_denied", identity.UserID.String(), c.RealIP(), map[string]interface{}{
				"role": string(identity.Role),
				"path": c.Path(),
			})
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
