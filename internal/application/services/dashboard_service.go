package services

import (
	"context"
	"fmt"

	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// DashboardService aggregates the landing-page summary so the dashboard loads
// with a single request. Clients fall back to per-resource fetches when this
// endpoint is unavailable.
type DashboardService struct {
	todos    *TodoService
	menu     *MenuService
	events   *EventsService
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(todos *TodoService, menu *MenuService, events *EventsService, userRepo ports.UserRepository, logger *logger.Logger) *DashboardService {
	return &DashboardService{
		todos:    todos,
		menu:     menu,
		events:   events,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Summary collects the aggregated counts for the landing page.
func (s *DashboardService) Summary(ctx context.Context) (*ports.DashboardSummary, error) {
	stats, err := s.todos.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive todo stats: %w", err)
	}

	categories, err := s.menu.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.menu.ListItems(ctx, ports.MenuItemFilter{})
	if err != nil {
		return nil, err
	}

	specials, err := s.events.ListSpecials(ctx, true)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListEvents(ctx, true)
	if err != nil {
		return nil, err
	}

	active := true
	userCount, err := s.userRepo.Count(ctx, ports.UserFilter{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	upcoming := 0
	now := s.todos.clock.Now()
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming++
		}
	}

	return &ports.DashboardSummary{
		Todos:          stats,
		Categories:     len(categories),
		MenuItems:      len(items),
		ActiveSpecials: len(specials),
		UpcomingEvents: upcoming,
		ActiveUsers:    userCount,
	}, nil
}
