package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter UserFilter) ([]*entities.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error)
	Update(ctx context.Context, todo *entities.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TodoFilter) ([]*entities.Todo, error)
}

// CategoryRepository defines the interface for primary-category operations.
// Reorder swaps sort orders inside a transaction; callers validate bounds.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.PrimaryCategory) error
	GetByID(ctx context.Context, id int) (*entities.PrimaryCategory, error)
	Update(ctx context.Context, category *entities.PrimaryCategory) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*entities.PrimaryCategory, error)
	SwapSortOrder(ctx context.Context, a, b *entities.PrimaryCategory) error
}

// MenuItemRepository defines the interface for menu item operations
type MenuItemRepository interface {
	Create(ctx context.Context, item *entities.MenuItem) error
	GetByID(ctx context.Context, id int) (*entities.MenuItem, error)
	Update(ctx context.Context, item *entities.MenuItem) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter MenuItemFilter) ([]*entities.MenuItem, error)
}

// SpecialRepository defines the interface for specials operations
type SpecialRepository interface {
	Create(ctx context.Context, special *entities.Special) error
	GetByID(ctx context.Context, id int) (*entities.Special, error)
	Update(ctx context.Context, special *entities.Special) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]*entities.Special, error)
}

// EventRepository defines the interface for event operations
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	GetByID(ctx context.Context, id int) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]*entities.Event, error)
}

// HoursRepository defines the interface for opening-hours operations
type HoursRepository interface {
	List(ctx context.Context) ([]*entities.OpeningHours, error)
	Upsert(ctx context.Context, hours *entities.OpeningHours) error
}

// SessionRepository defines the interface for login-session storage
type SessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	CleanupExpired(ctx context.Context) error
}

// Filter types for repository queries
type UserFilter struct {
	Role     *entities.UserRole
	IsActive *bool
	Search   *string
	Limit    int
	Offset   int
}

type TodoFilter struct {
	Status        *entities.TodoStatus
	Priority      *entities.TodoPriority
	CreatedUserID *uuid.UUID
	DueBefore     *time.Time
	Limit         int
	Offset        int
}

type MenuItemFilter struct {
	CategoryID    *int
	AvailableOnly bool
}
