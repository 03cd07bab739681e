package services

import (
	"context"
	"fmt"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// MenuService handles primary categories and menu items
type MenuService struct {
	categoryRepo ports.CategoryRepository
	itemRepo     ports.MenuItemRepository
	logger       *logger.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(categoryRepo ports.CategoryRepository, itemRepo ports.MenuItemRepository, logger *logger.Logger) *MenuService {
	return &MenuService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		logger:       logger,
	}
}

// ListCategories returns all categories in display order.
func (s *MenuService) ListCategories(ctx context.Context) ([]*entities.PrimaryCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// CreateCategory appends a new category at the end of the display order.
func (s *MenuService) CreateCategory(ctx context.Context, req ports.CreateCategoryRequest) (*entities.PrimaryCategory, error) {
	category := &entities.PrimaryCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Infow("Category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// UpdateCategory applies partial edits to a category.
func (s *MenuService) UpdateCategory(ctx context.Context, id int, req ports.UpdateCategoryRequest) (*entities.PrimaryCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory soft-deletes a category.
func (s *MenuService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Category deleted", "category_id", id)
	return nil
}

// ReorderCategory swaps a category's display position with its neighbor.
// Moving the first category up or the last one down returns
// ErrReorderOutOfBounds before any write; the list defines no wraparound.
func (s *MenuService) ReorderCategory(ctx context.Context, id int, direction entities.ReorderDirection) error {
	if !direction.IsValid() {
		return entities.ErrInvalidDirection
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	idx := -1
	for i, c := range categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return entities.ErrCategoryNotFound
	}

	var neighbor int
	switch direction {
	case entities.ReorderUp:
		neighbor = idx - 1
	case entities.ReorderDown:
		neighbor = idx + 1
	}

	if neighbor < 0 || neighbor >= len(categories) {
		return entities.ErrReorderOutOfBounds
	}

	if err := s.categoryRepo.SwapSortOrder(ctx, categories[idx], categories[neighbor]); err != nil {
		return err
	}

	s.logger.Infow("Category reordered", "category_id", id, "direction", direction)
	return nil
}

// ListItems returns menu items, optionally scoped to one category.
func (s *MenuService) ListItems(ctx context.Context, filter ports.MenuItemFilter) ([]*entities.MenuItem, error) {
	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	return items, nil
}

// CreateItem adds a dish to a category.
func (s *MenuService) CreateItem(ctx context.Context, req ports.CreateMenuItemRequest) (*entities.MenuItem, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	item := &entities.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Infow("Menu item created", "item_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateItem applies partial edits to a menu item.
func (s *MenuService) UpdateItem(ctx context.Context, id int, req ports.UpdateMenuItemRequest) (*entities.MenuItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem soft-deletes a menu item.
func (s *MenuService) DeleteItem(ctx context.Context, id int) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Menu item deleted", "item_id", id)
	return nil
}
