package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTodoNotFound        = errors.New("todo not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrSpecialNotFound     = errors.New("special not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrEmailTaken          = errors.New("email is already taken")
	ErrTitleRequired       = errors.New("title is required")
	ErrReorderOutOfBounds  = errors.New("cannot move category past list boundary")
	ErrInvalidDirection    = errors.New("direction must be up or down")
	ErrTokenExpired        = errors.New("token is expired")
	ErrTokenInvalid        = errors.New("token is invalid")
	ErrWrongPassword       = errors.New("current password is incorrect")
)

// Enums and types
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusCancelled  TodoStatus = "cancelled"
)

type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
	TodoPriorityUrgent TodoPriority = "urgent"
)

type ReorderDirection string

const (
	ReorderUp   ReorderDirection = "up"
	ReorderDown ReorderDirection = "down"
)

// User represents a staff member with dashboard access
type User struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Email           string     `json:"email" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	FirstName       string     `json:"firstName" db:"first_name"`
	LastName        string     `json:"lastName" db:"last_name"`
	Phone           *string    `json:"phone" db:"phone"`
	Role            UserRole   `json:"role" db:"role"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt" db:"email_verified_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsVerified reports whether the user has confirmed their email address.
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Todo represents a staff reminder
type Todo struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	Title           string       `json:"title" db:"title"`
	Description     string       `json:"description" db:"description"`
	Priority        TodoPriority `json:"priority" db:"priority"`
	Status          TodoStatus   `json:"status" db:"status"`
	DueDate         *time.Time   `json:"dueDate" db:"due_date"`
	CompletedAt     *time.Time   `json:"completedAt" db:"completed_at"`
	CreatedUserID   uuid.UUID    `json:"createdUserId" db:"created_user_id"`
	CreatedUserName string       `json:"createdUserName" db:"created_user_name"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsOverdue reports whether the todo's due date lies strictly before the
// current calendar day in the business timezone. Completed todos are never
// overdue, whatever their due date.
//
// Due dates are calendar days stored as UTC midnight, so the due day is read
// in UTC. Shifting that instant into the business timezone would land on the
// previous evening and mark todos due today as overdue.
func (t *Todo) IsOverdue(now time.Time, loc *time.Location) bool {
	if t.Status == TodoStatusCompleted || t.DueDate == nil {
		return false
	}

	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	dy, dm, dd := t.DueDate.UTC().Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)

	return due.Before(today)
}

// ToggleComplete flips the todo between completed and pending. CompletedAt is
// maintained here and only here, so it is set exactly when the status is
// completed.
func (t *Todo) ToggleComplete(now time.Time) {
	if t.Status == TodoStatusCompleted {
		t.Status = TodoStatusPending
		t.CompletedAt = nil
		return
	}

	t.Status = TodoStatusCompleted
	t.CompletedAt = &now
}

// TodoStats aggregates counts over a todo collection
type TodoStats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	InProgress      int     `json:"inProgress"`
	Completed       int     `json:"completed"`
	Cancelled       int     `json:"cancelled"`
	Overdue         int     `json:"overdue"`
	PercentComplete float64 `json:"percentComplete"`
}

// DeriveTodoStats computes summary statistics over todos. The percent-complete
// figure is 0 for an empty collection.
func DeriveTodoStats(todos []*Todo, now time.Time, loc *time.Location) TodoStats {
	stats := TodoStats{Total: len(todos)}

	for _, t := range todos {
		switch t.Status {
		case TodoStatusPending:
			stats.Pending++
		case TodoStatusInProgress:
			stats.InProgress++
		case TodoStatusCompleted:
			stats.Completed++
		case TodoStatusCancelled:
			stats.Cancelled++
		}

		if t.IsOverdue(now, loc) {
			stats.Overdue++
		}
	}

	if stats.Total > 0 {
		stats.PercentComplete = float64(stats.Completed) / float64(stats.Total) * 100
	}

	return stats
}

// PrimaryCategory represents a top-level menu category
type PrimaryCategory struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// MenuItem represents a dish under a primary category
type MenuItem struct {
	ID          int        `json:"id" db:"id"`
	CategoryID  int        `json:"categoryId" db:"category_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	IsAvailable bool       `json:"isAvailable" db:"is_available"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// Special represents a recurring or dated promotion
type Special struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Price       *float64   `json:"price" db:"price"`
	DayOfWeek   *int       `json:"dayOfWeek" db:"day_of_week"`
	StartsOn    *time.Time `json:"startsOn" db:"starts_on"`
	EndsOn      *time.Time `json:"endsOn" db:"ends_on"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// Event represents a scheduled pub event
type Event struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	StartsAt    time.Time  `json:"startsAt" db:"starts_at"`
	EndsAt      *time.Time `json:"endsAt" db:"ends_at"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt   *time.Time `json:"-" db:"deleted_at"`
}

// IsUpcoming reports whether the event starts after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}

// OpeningHours represents one weekday's hours. Weekday follows time.Weekday
// numbering (Sunday = 0).
type OpeningHours struct {
	ID        int       `json:"id" db:"id"`
	Weekday   int       `json:"weekday" db:"weekday"`
	OpensAt   *string   `json:"opensAt" db:"opens_at"`
	ClosesAt  *string   `json:"closesAt" db:"closes_at"`
	IsClosed  bool      `json:"isClosed" db:"is_closed"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Session represents a cookie-backed login session. Only the hash of the
// session token ever reaches storage.
type Session struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the session is expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked checks if the session is revoked
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid checks if the session is usable
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// Utility methods
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleStaff:
		return true
	default:
		return false
	}
}

func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, TodoStatusCancelled:
		return true
	default:
		return false
	}
}

func (p TodoPriority) IsValid() bool {
	switch p {
	case TodoPriorityLow, TodoPriorityMedium, TodoPriorityHigh, TodoPriorityUrgent:
		return true
	default:
		return false
	}
}

func (d ReorderDirection) IsValid() bool {
	return d == ReorderUp || d == ReorderDown
}
