package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/ports"
)

// MessageResponse is the standard success envelope
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error body: message holds either one string
// or a list of validation messages, errorId correlates 5xx responses with
// server logs.
type ErrorResponse struct {
	Message interface{} `json:"message"`
	ErrorID string      `json:"errorId,omitempty"`
}

// PaginatedResponse wraps list payloads with their total count
type PaginatedResponse[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

const identityContextKey = "identity"

// identityFromContext returns the authenticated principal set by the session
// middleware. Handlers behind that middleware can rely on it being present.
func identityFromContext(c echo.Context) ports.Identity {
	if identity, ok := c.Get(identityContextKey).(ports.Identity); ok {
		return identity
	}
	return ports.Identity{}
}

func pathInt(c echo.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return value, nil
}
