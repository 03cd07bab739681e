package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// TodoService is the single lifecycle manager for staff reminders. Both the
// dashboard widget and the management page go through it, so derivations like
// the completion percentage exist in exactly one place.
type TodoService struct {
	todoRepo ports.TodoRepository
	clock    clock.Clock
	location *time.Location
	logger   *logger.Logger
}

// NewTodoService creates a new todo service. location is the business
// timezone used for calendar-day comparisons.
func NewTodoService(todoRepo ports.TodoRepository, clk clock.Clock, location *time.Location, logger *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		clock:    clk,
		location: location,
		logger:   logger,
	}
}

// List returns the full reminder collection. An empty list is a valid result,
// not an error.
func (s *TodoService) List(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	todos, err := s.todoRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// Create inserts a new reminder. Missing priority and status fall back to the
// form defaults (medium, pending).
func (s *TodoService) Create(ctx context.Context, identity ports.Identity, req ports.CreateTodoRequest) (*entities.Todo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, entities.ErrTitleRequired
	}

	priority := req.Priority
	if priority == "" {
		priority = entities.TodoPriorityMedium
	}
	if !priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	status := req.Status
	if status == "" {
		status = entities.TodoStatusPending
	}
	if !status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	todo := &entities.Todo{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Priority:        priority,
		Status:          status,
		DueDate:         dueDate,
		CreatedUserID:   identity.UserID,
		CreatedUserName: identity.Name,
	}

	if status == entities.TodoStatusCompleted {
		now := s.clock.Now()
		todo.CompletedAt = &now
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Infow("Todo created", "todo_id", todo.ID, "user_id", identity.UserID)
	return todo, nil
}

// Update replaces the editable fields wholesale; the dashboard always submits
// the complete form state. CompletedAt tracks status transitions here so the
// field stays consistent with the status invariant.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, entities.ErrTitleRequired
	}
	if !req.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}
	if !req.Status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.Status == entities.TodoStatusCompleted && todo.Status != entities.TodoStatusCompleted {
		now := s.clock.Now()
		todo.CompletedAt = &now
	} else if req.Status != entities.TodoStatusCompleted {
		todo.CompletedAt = nil
	}

	todo.Title = strings.TrimSpace(req.Title)
	todo.Description = req.Description
	todo.Priority = req.Priority
	todo.Status = req.Status
	todo.DueDate = dueDate

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Infow("Todo updated", "todo_id", todo.ID)
	return todo, nil
}

// ToggleComplete flips a reminder between completed and pending without going
// through the full edit form.
func (s *TodoService) ToggleComplete(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.ToggleComplete(s.clock.Now())

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.logger.Infow("Todo toggled", "todo_id", todo.ID, "status", todo.Status)
	return todo, nil
}

// Delete removes a reminder permanently.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Todo deleted", "todo_id", id)
	return nil
}

// Stats derives summary counts over the current collection. Overdue uses the
// business timezone's calendar day, never the viewer's.
func (s *TodoService) Stats(ctx context.Context) (entities.TodoStats, error) {
	todos, err := s.todoRepo.List(ctx, ports.TodoFilter{})
	if err != nil {
		return entities.TodoStats{}, fmt.Errorf("failed to list todos: %w", err)
	}

	return entities.DeriveTodoStats(todos, s.clock.Now(), s.location), nil
}

// parseOptionalDate accepts an empty string (no date), a date-only form value,
// or a full RFC 3339 instant. Date-only values become UTC midnight, the
// canonical storage for due calendar days; overdue checks read the day back
// in UTC.
func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return &t, nil
}
