package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// CategoryRepositoryImpl implements the CategoryRepository interface
type CategoryRepositoryImpl struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new primary-category repository
func NewCategoryRepository(db *sqlx.DB) ports.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

const categoryColumns = `id, name, description, sort_order, is_active, created_at, updated_at, deleted_at`

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *entities.PrimaryCategory) error {
	// New categories land at the end of the display order.
	query := `
		INSERT INTO primary_categories (name, description, sort_order, is_active)
		VALUES ($1, $2,
			COALESCE((SELECT MAX(sort_order) FROM primary_categories WHERE deleted_at IS NULL), 0) + 1,
			$3)
		RETURNING id, sort_order, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		category.Name, category.Description, category.IsActive,
	).Scan(&category.ID, &category.SortOrder, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.PrimaryCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM primary_categories WHERE id = $1 AND deleted_at IS NULL`

	var category entities.PrimaryCategory
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *entities.PrimaryCategory) error {
	query := `
		UPDATE primary_categories
		SET name = $2, description = $3, is_active = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		category.ID, category.Name, category.Description, category.IsActive,
	).Scan(&category.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrCategoryNotFound
		}
		return fmt.Errorf("update category: %w", err)
	}

	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `UPDATE primary_categories SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*entities.PrimaryCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM primary_categories WHERE deleted_at IS NULL ORDER BY sort_order`

	categories := []*entities.PrimaryCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// SwapSortOrder exchanges the display positions of two categories in one
// transaction so a crash cannot leave duplicate sort orders behind.
func (r *CategoryRepositoryImpl) SwapSortOrder(ctx context.Context, a, b *entities.PrimaryCategory) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE primary_categories SET sort_order = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	if _, err := tx.ExecContext(ctx, query, a.ID, b.SortOrder); err != nil {
		return fmt.Errorf("swap sort order: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, b.ID, a.SortOrder); err != nil {
		return fmt.Errorf("swap sort order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit swap: %w", err)
	}

	a.SortOrder, b.SortOrder = b.SortOrder, a.SortOrder
	return nil
}

// MenuItemRepositoryImpl implements the MenuItemRepository interface
type MenuItemRepositoryImpl struct {
	db *sqlx.DB
}

// NewMenuItemRepository creates a new menu item repository
func NewMenuItemRepository(db *sqlx.DB) ports.MenuItemRepository {
	return &MenuItemRepositoryImpl{db: db}
}

const menuItemColumns = `id, category_id, name, description, price, is_available, created_at, updated_at, deleted_at`

func (r *MenuItemRepositoryImpl) Create(ctx context.Context, item *entities.MenuItem) error {
	query := `
		INSERT INTO menu_items (category_id, name, description, price, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		item.CategoryID, item.Name, item.Description, item.Price, item.IsAvailable,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}

	return nil
}

func (r *MenuItemRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 AND deleted_at IS NULL`

	var item entities.MenuItem
	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("get menu item by id: %w", err)
	}

	return &item, nil
}

func (r *MenuItemRepositoryImpl) Update(ctx context.Context, item *entities.MenuItem) error {
	query := `
		UPDATE menu_items
		SET category_id = $2, name = $3, description = $4, price = $5,
			is_available = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.CategoryID, item.Name, item.Description, item.Price, item.IsAvailable,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrMenuItemNotFound
		}
		return fmt.Errorf("update menu item: %w", err)
	}

	return nil
}

func (r *MenuItemRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `UPDATE menu_items SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrMenuItemNotFound
	}

	return nil
}

func (r *MenuItemRepositoryImpl) List(ctx context.Context, filter ports.MenuItemFilter) ([]*entities.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE deleted_at IS NULL`
	args := []interface{}{}
	argIdx := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.AvailableOnly {
		query += " AND is_available = TRUE"
	}

	query += " ORDER BY name"

	items := []*entities.MenuItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	return items, nil
}
