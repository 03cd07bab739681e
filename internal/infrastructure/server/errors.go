package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	httpHandlers "github.com/brooklinpub/admin-api/internal/adapters/http"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
)

// customErrorHandler renders every error as the dashboard error envelope.
// Validation failures become a list of per-field messages, unexpected errors
// become an opaque 500 carrying the request ID for log correlation.
func customErrorHandler(appLogger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		var message interface{} = "Internal server error"

		var validationErrs validator.ValidationErrors
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
			messages := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				messages = append(messages, validationMessage(fieldErr))
			}
			message = messages
		case errors.As(err, &httpErr):
			status = httpErr.Code
			switch m := httpErr.Message.(type) {
			case string:
				message = m
			case []string:
				message = m
			default:
				message = fmt.Sprintf("%v", m)
			}
		}

		body := httpHandlers.ErrorResponse{Message: message}

		if status >= http.StatusInternalServerError {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			body.ErrorID = requestID
			body.Message = "Internal server error"

			appLogger.WithRequestID(requestID).Errorw("Unhandled request error",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Path(),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

// validationMessage turns a field error into a human readable sentence.
func validationMessage(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
