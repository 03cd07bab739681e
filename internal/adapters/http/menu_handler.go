package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// MenuHandler handles primary-category and menu item requests
type MenuHandler struct {
	menuService *services.MenuService
	logger      *logger.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *services.MenuService, logger *logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		logger:      logger,
	}
}

// ListCategories returns categories in display order
func (h *MenuHandler) ListCategories(c echo.Context) error {
	categories, err := h.menuService.ListCategories(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List categories failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve categories")
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a category at the end of the display order
func (h *MenuHandler) CreateCategory(c echo.Context) error {
	var req ports.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.menuService.CreateCategory(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create category failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory applies partial edits
func (h *MenuHandler) UpdateCategory(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.menuService.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return categoryErrorToHTTP(h.logger, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory soft-deletes a category
func (h *MenuHandler) DeleteCategory(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.menuService.DeleteCategory(c.Request().Context(), id); err != nil {
		return categoryErrorToHTTP(h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReorderCategory swaps a category with its neighbor
func (h *MenuHandler) ReorderCategory(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req ports.ReorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.menuService.ReorderCategory(c.Request().Context(), id, req.Direction); err != nil {
		switch {
		case errors.Is(err, entities.ErrReorderOutOfBounds),
			errors.Is(err, entities.ErrInvalidDirection):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, entities.ErrCategoryNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Category not found")
		default:
			h.logger.Errorw("Reorder category failed", "error", err, "category_id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reorder category")
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Category reordered"})
}

// ListItems returns menu items, optionally scoped to a category
func (h *MenuHandler) ListItems(c echo.Context) error {
	filter := ports.MenuItemFilter{}

	if categoryStr := c.QueryParam("categoryId"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid categoryId parameter")
		}
		filter.CategoryID = &categoryID
	}

	if c.QueryParam("available") == "true" {
		filter.AvailableOnly = true
	}

	items, err := h.menuService.ListItems(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List menu items failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve menu items")
	}

	return c.JSON(http.StatusOK, items)
}

// CreateItem adds a dish
func (h *MenuHandler) CreateItem(c echo.Context) error {
	var req ports.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.menuService.CreateItem(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrCategoryNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Category not found")
		}
		h.logger.Errorw("Create menu item failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create menu item")
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateItem applies partial edits to a dish
func (h *MenuHandler) UpdateItem(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.menuService.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrMenuItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Menu item not found")
		case errors.Is(err, entities.ErrCategoryNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "Category not found")
		default:
			h.logger.Errorw("Update menu item failed", "error", err, "item_id", id)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update menu item")
		}
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem soft-deletes a dish
func (h *MenuHandler) DeleteItem(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.menuService.DeleteItem(c.Request().Context(), id); err != nil {
		if errors.Is(err, entities.ErrMenuItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Menu item not found")
		}
		h.logger.Errorw("Delete menu item failed", "error", err, "item_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete menu item")
	}

	return c.NoContent(http.StatusNoContent)
}

func categoryErrorToHTTP(log *logger.Logger, err error) error {
	if errors.Is(err, entities.ErrCategoryNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	log.Errorw("Category operation failed", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
}
