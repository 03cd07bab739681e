package ports

import (
	"time"

	"github.com/google/uuid"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
)

// Request/response shapes shared between handlers and services.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the authenticated user plus the raw session token the
// handler turns into a cookie. The token is never stored in clear text.
type LoginResult struct {
	User         *entities.User
	SessionToken string
	ExpiresAt    time.Time
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type CreateUserRequest struct {
	Email     string            `json:"email" validate:"required,email"`
	Password  string            `json:"password" validate:"required,min=8"`
	FirstName string            `json:"firstName" validate:"required,max=100"`
	LastName  string            `json:"lastName" validate:"required,max=100"`
	Phone     *string           `json:"phone" validate:"omitempty,max=30"`
	Role      entities.UserRole `json:"role" validate:"required"`
	IsActive  bool              `json:"isActive"`
}

type UpdateUserRequest struct {
	Email     *string            `json:"email" validate:"omitempty,email"`
	FirstName *string            `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string            `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string            `json:"phone" validate:"omitempty,max=30"`
	Role      *entities.UserRole `json:"role"`
	IsActive  *bool              `json:"isActive"`
}

// CreateTodoRequest carries the full create form. DueDate accepts either a
// date-only string (2006-01-02) or an RFC 3339 instant; empty means no due
// date.
type CreateTodoRequest struct {
	Title       string                `json:"title" validate:"required,min=1,max=200"`
	Description string                `json:"description" validate:"max=2000"`
	Priority    entities.TodoPriority `json:"priority"`
	Status      entities.TodoStatus   `json:"status"`
	DueDate     string                `json:"dueDate"`
}

// UpdateTodoRequest is full-replace: the dashboard always submits the complete
// form state, so every field is required except the optional due date.
type UpdateTodoRequest struct {
	Title       string                `json:"title" validate:"required,min=1,max=200"`
	Description string                `json:"description" validate:"max=2000"`
	Priority    entities.TodoPriority `json:"priority" validate:"required"`
	Status      entities.TodoStatus   `json:"status" validate:"required"`
	DueDate     string                `json:"dueDate"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    bool    `json:"isActive"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

type ReorderRequest struct {
	Direction entities.ReorderDirection `json:"direction" validate:"required"`
}

type CreateMenuItemRequest struct {
	CategoryID  int     `json:"categoryId" validate:"required"`
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsAvailable bool    `json:"isAvailable"`
}

type UpdateMenuItemRequest struct {
	CategoryID  *int     `json:"categoryId"`
	Name        *string  `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	IsAvailable *bool    `json:"isAvailable"`
}

type SpecialRequest struct {
	Title       string   `json:"title" validate:"required,max=150"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	DayOfWeek   *int     `json:"dayOfWeek" validate:"omitempty,gte=0,lte=6"`
	StartsOn    *string  `json:"startsOn"`
	EndsOn      *string  `json:"endsOn"`
	IsActive    bool     `json:"isActive"`
}

type EventRequest struct {
	Title       string  `json:"title" validate:"required,max=150"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	StartsAt    string  `json:"startsAt" validate:"required"`
	EndsAt      *string `json:"endsAt"`
	IsActive    bool    `json:"isActive"`
}

type OpeningHoursRequest struct {
	Weekday  int     `json:"weekday" validate:"gte=0,lte=6"`
	OpensAt  *string `json:"opensAt"`
	ClosesAt *string `json:"closesAt"`
	IsClosed bool    `json:"isClosed"`
}

// DashboardSummary aggregates the landing-page counts in one payload so the
// dashboard needs a single round-trip.
type DashboardSummary struct {
	Todos          entities.TodoStats `json:"todos"`
	Categories     int                `json:"categories"`
	MenuItems      int                `json:"menuItems"`
	ActiveSpecials int                `json:"activeSpecials"`
	UpcomingEvents int                `json:"upcomingEvents"`
	ActiveUsers    int64              `json:"activeUsers"`
}

// Identity is the authenticated principal placed on the request context.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   entities.UserRole
}
