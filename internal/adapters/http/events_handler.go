package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// EventsHandler handles specials, events and opening-hours requests
type EventsHandler struct {
	eventsService *services.EventsService
	logger        *logger.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventsService *services.EventsService, logger *logger.Logger) *EventsHandler {
	return &EventsHandler{
		eventsService: eventsService,
		logger:        logger,
	}
}

// ListSpecials returns promotions
func (h *EventsHandler) ListSpecials(c echo.Context) error {
	specials, err := h.eventsService.ListSpecials(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		h.logger.Errorw("List specials failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve specials")
	}

	return c.JSON(http.StatusOK, specials)
}

// CreateSpecial adds a promotion
func (h *EventsHandler) CreateSpecial(c echo.Context) error {
	var req ports.SpecialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	special, err := h.eventsService.CreateSpecial(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create special failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, special)
}

// UpdateSpecial replaces a promotion
func (h *EventsHandler) UpdateSpecial(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req ports.SpecialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	special, err := h.eventsService.UpdateSpecial(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, entities.ErrSpecialNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Special not found")
		}
		h.logger.Errorw("Update special failed", "error", err, "special_id", id)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, special)
}

// DeleteSpecial soft-deletes a promotion
func (h *EventsHandler) DeleteSpecial(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventsService.DeleteSpecial(c.Request().Context(), id); err != nil {
		if errors.Is(err, entities.ErrSpecialNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Special not found")
		}
		h.logger.Errorw("Delete special failed", "error", err, "special_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete special")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListEvents returns scheduled events
func (h *EventsHandler) ListEvents(c echo.Context) error {
	events, err := h.eventsService.ListEvents(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		h.logger.Errorw("List events failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve events")
	}

	return c.JSON(http.StatusOK, events)
}

// CreateEvent schedules an event
func (h *EventsHandler) CreateEvent(c echo.Context) error {
	var req ports.EventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventsService.CreateEvent(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create event failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent replaces an event
func (h *EventsHandler) UpdateEvent(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req ports.EventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventsService.UpdateEvent(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, entities.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
		h.logger.Errorw("Update event failed", "error", err, "event_id", id)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent soft-deletes an event
func (h *EventsHandler) DeleteEvent(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventsService.DeleteEvent(c.Request().Context(), id); err != nil {
		if errors.Is(err, entities.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
		h.logger.Errorw("Delete event failed", "error", err, "event_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete event")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListOpeningHours returns the weekly schedule
func (h *EventsHandler) ListOpeningHours(c echo.Context) error {
	hours, err := h.eventsService.ListOpeningHours(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List opening hours failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve opening hours")
	}

	return c.JSON(http.StatusOK, hours)
}

// SaveOpeningHours applies the full weekly schedule
func (h *EventsHandler) SaveOpeningHours(c echo.Context) error {
	var reqs []ports.OpeningHoursRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return err
		}
	}

	hours, err := h.eventsService.SaveOpeningHours(c.Request().Context(), reqs)
	if err != nil {
		h.logger.Errorw("Save opening hours failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save opening hours")
	}

	return c.JSON(http.StatusOK, hours)
}
