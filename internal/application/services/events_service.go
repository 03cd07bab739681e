package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// EventsService handles specials, events and opening hours
type EventsService struct {
	specialRepo ports.SpecialRepository
	eventRepo   ports.EventRepository
	hoursRepo   ports.HoursRepository
	logger      *logger.Logger
}

// NewEventsService creates a new events service
func NewEventsService(specialRepo ports.SpecialRepository, eventRepo ports.EventRepository, hoursRepo ports.HoursRepository, logger *logger.Logger) *EventsService {
	return &EventsService{
		specialRepo: specialRepo,
		eventRepo:   eventRepo,
		hoursRepo:   hoursRepo,
		logger:      logger,
	}
}

// ListSpecials returns specials, optionally only the active ones.
func (s *EventsService) ListSpecials(ctx context.Context, activeOnly bool) ([]*entities.Special, error) {
	specials, err := s.specialRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list specials: %w", err)
	}

	return specials, nil
}

// CreateSpecial adds a promotion.
func (s *EventsService) CreateSpecial(ctx context.Context, req ports.SpecialRequest) (*entities.Special, error) {
	special, err := specialFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.specialRepo.Create(ctx, special); err != nil {
		return nil, err
	}

	s.logger.Infow("Special created", "special_id", special.ID, "title", special.Title)
	return special, nil
}

// UpdateSpecial replaces a promotion's fields.
func (s *EventsService) UpdateSpecial(ctx context.Context, id int, req ports.SpecialRequest) (*entities.Special, error) {
	existing, err := s.specialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	special, err := specialFromRequest(req)
	if err != nil {
		return nil, err
	}
	special.ID = existing.ID

	if err := s.specialRepo.Update(ctx, special); err != nil {
		return nil, err
	}

	return special, nil
}

// DeleteSpecial soft-deletes a promotion.
func (s *EventsService) DeleteSpecial(ctx context.Context, id int) error {
	if err := s.specialRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Special deleted", "special_id", id)
	return nil
}

// ListEvents returns events, optionally only the active ones.
func (s *EventsService) ListEvents(ctx context.Context, activeOnly bool) ([]*entities.Event, error) {
	events, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// CreateEvent schedules a new event.
func (s *EventsService) CreateEvent(ctx context.Context, req ports.EventRequest) (*entities.Event, error) {
	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Infow("Event created", "event_id", event.ID, "title", event.Title)
	return event, nil
}

// UpdateEvent replaces an event's fields.
func (s *EventsService) UpdateEvent(ctx context.Context, id int, req ports.EventRequest) (*entities.Event, error) {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.ID = existing.ID

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// DeleteEvent soft-deletes an event.
func (s *EventsService) DeleteEvent(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Event deleted", "event_id", id)
	return nil
}

// ListOpeningHours returns the weekly schedule.
func (s *EventsService) ListOpeningHours(ctx context.Context) ([]*entities.OpeningHours, error) {
	hours, err := s.hoursRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening hours: %w", err)
	}

	return hours, nil
}

// SaveOpeningHours applies a full weekly schedule in one call, the way the
// hours form submits it.
func (s *EventsService) SaveOpeningHours(ctx context.Context, reqs []ports.OpeningHoursRequest) ([]*entities.OpeningHours, error) {
	for _, req := range reqs {
		hours := &entities.OpeningHours{
			Weekday:  req.Weekday,
			OpensAt:  req.OpensAt,
			ClosesAt: req.ClosesAt,
			IsClosed: req.IsClosed,
		}

		if err := s.hoursRepo.Upsert(ctx, hours); err != nil {
			return nil, err
		}
	}

	return s.hoursRepo.List(ctx)
}

func specialFromRequest(req ports.SpecialRequest) (*entities.Special, error) {
	startsOn, err := parseOptionalDate(derefString(req.StartsOn))
	if err != nil {
		return nil, err
	}

	endsOn, err := parseOptionalDate(derefString(req.EndsOn))
	if err != nil {
		return nil, err
	}

	return &entities.Special{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		DayOfWeek:   req.DayOfWeek,
		StartsOn:    startsOn,
		EndsOn:      endsOn,
		IsActive:    req.IsActive,
	}, nil
}

func eventFromRequest(req ports.EventRequest) (*entities.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", req.StartsAt, err)
	}

	endsAt, err := parseOptionalInstant(derefString(req.EndsAt))
	if err != nil {
		return nil, err
	}

	return &entities.Event{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		IsActive:    req.IsActive,
	}, nil
}

func parseOptionalInstant(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", value, err)
	}

	return &t, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
