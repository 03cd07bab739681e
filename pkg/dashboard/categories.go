package dashboard

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrAtBoundary is returned when a reorder would move the first category up or
// the last category down. No request is issued in that case.
var ErrAtBoundary = errors.New("category already at boundary")

// Category mirrors the API's primary menu category representation. The list
// endpoint returns categories in sort order.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type reorderRequest struct {
	Direction string `json:"direction"`
}

// ListCategories fetches the categories in display order.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/menu/primary-categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category at the end of the display order.
func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	var category Category
	if err := c.post(ctx, "/menu/primary-categories", input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory updates a category's fields.
func (c *Client) UpdateCategory(ctx context.Context, id int, input CategoryInput) (*Category, error) {
	var category Category
	if err := c.patch(ctx, "/menu/primary-categories/"+strconv.Itoa(id), input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.delete(ctx, "/menu/primary-categories/"+strconv.Itoa(id))
}

// ReorderCategory moves a category one position up or down within the given
// current ordering. Moving the first category up or the last down returns
// ErrAtBoundary before any request; otherwise the swap is requested and the
// fresh ordering fetched and returned.
func (c *Client) ReorderCategory(ctx context.Context, current []Category, id int, direction string) ([]Category, error) {
	idx := -1
	for i, category := range current {
		if category.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errors.New("category not in list")
	}

	if direction == "up" && idx == 0 {
		return nil, ErrAtBoundary
	}
	if direction == "down" && idx == len(current)-1 {
		return nil, ErrAtBoundary
	}

	path := "/menu/primary-categories/" + strconv.Itoa(id) + "/reorder"
	if err := c.patch(ctx, path, reorderRequest{Direction: direction}, nil); err != nil {
		return nil, err
	}

	return c.ListCategories(ctx)
}
