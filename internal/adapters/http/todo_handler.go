package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// TodoHandler handles reminder requests
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService *services.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// List returns the full reminder collection
func (h *TodoHandler) List(c echo.Context) error {
	filter := ports.TodoFilter{}

	if status := c.QueryParam("status"); status != "" {
		todoStatus := entities.TodoStatus(status)
		if !todoStatus.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &todoStatus
	}

	todos, err := h.todoService.List(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List todos failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve todos")
	}

	return c.JSON(http.StatusOK, todos)
}

// Create adds a new reminder
func (h *TodoHandler) Create(c echo.Context) error {
	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	todo, err := h.todoService.Create(c.Request().Context(), identityFromContext(c), req)
	if err != nil {
		h.logger.Errorw("Create todo failed", "error", err)
		return todoErrorToHTTP(err)
	}

	return c.JSON(http.StatusCreated, todo)
}

// Update replaces a reminder's editable fields
func (h *TodoHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	var req ports.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	todo, err := h.todoService.Update(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Errorw("Update todo failed", "error", err, "todo_id", id)
		return todoErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// ToggleComplete flips completion state
func (h *TodoHandler) ToggleComplete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	todo, err := h.todoService.ToggleComplete(c.Request().Context(), id)
	if err != nil {
		h.logger.Errorw("Toggle todo failed", "error", err, "todo_id", id)
		return todoErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Delete removes a reminder
func (h *TodoHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	if err := h.todoService.Delete(c.Request().Context(), id); err != nil {
		h.logger.Errorw("Delete todo failed", "error", err, "todo_id", id)
		return todoErrorToHTTP(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Stats returns the derived summary counts
func (h *TodoHandler) Stats(c echo.Context) error {
	stats, err := h.todoService.Stats(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Todo stats failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to derive stats")
	}

	return c.JSON(http.StatusOK, stats)
}

func todoErrorToHTTP(err error) error {
	switch {
	case errors.Is(err, entities.ErrTodoNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	case errors.Is(err, entities.ErrTitleRequired),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrInvalidPriority):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}
}
