package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// SpecialRepositoryImpl implements the SpecialRepository interface
type SpecialRepositoryImpl struct {
	db *sqlx.DB
}

// NewSpecialRepository creates a new specials repository
func NewSpecialRepository(db *sqlx.DB) ports.SpecialRepository {
	return &SpecialRepositoryImpl{db: db}
}

const specialColumns = `id, title, description, price, day_of_week, starts_on, ends_on,
	is_active, created_at, updated_at, deleted_at`

func (r *SpecialRepositoryImpl) Create(ctx context.Context, special *entities.Special) error {
	query := `
		INSERT INTO specials (title, description, price, day_of_week, starts_on, ends_on, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		special.Title, special.Description, special.Price, special.DayOfWeek,
		special.StartsOn, special.EndsOn, special.IsActive,
	).Scan(&special.ID, &special.CreatedAt, &special.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create special: %w", err)
	}

	return nil
}

func (r *SpecialRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Special, error) {
	query := `SELECT ` + specialColumns + ` FROM specials WHERE id = $1 AND deleted_at IS NULL`

	var special entities.Special
	err := r.db.GetContext(ctx, &special, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrSpecialNotFound
		}
		return nil, fmt.Errorf("get special by id: %w", err)
	}

	return &special, nil
}

func (r *SpecialRepositoryImpl) Update(ctx context.Context, special *entities.Special) error {
	query := `
		UPDATE specials
		SET title = $2, description = $3, price = $4, day_of_week = $5,
			starts_on = $6, ends_on = $7, is_active = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		special.ID, special.Title, special.Description, special.Price,
		special.DayOfWeek, special.StartsOn, special.EndsOn, special.IsActive,
	).Scan(&special.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrSpecialNotFound
		}
		return fmt.Errorf("update special: %w", err)
	}

	return nil
}

func (r *SpecialRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `UPDATE specials SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete special: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrSpecialNotFound
	}

	return nil
}

func (r *SpecialRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*entities.Special, error) {
	query := `SELECT ` + specialColumns + ` FROM specials WHERE deleted_at IS NULL`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY day_of_week NULLS LAST, title"

	specials := []*entities.Special{}
	if err := r.db.SelectContext(ctx, &specials, query); err != nil {
		return nil, fmt.Errorf("list specials: %w", err)
	}

	return specials, nil
}

// EventRepositoryImpl implements the EventRepository interface
type EventRepositoryImpl struct {
	db *sqlx.DB
}

// NewEventRepository creates a new events repository
func NewEventRepository(db *sqlx.DB) ports.EventRepository {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, title, description, starts_at, ends_at, is_active, created_at, updated_at, deleted_at`

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entities.Event) error {
	query := `
		INSERT INTO events (title, description, starts_at, ends_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.StartsAt, event.EndsAt, event.IsActive,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *EventRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND deleted_at IS NULL`

	var event entities.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *entities.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, starts_at = $4, ends_at = $5,
			is_active = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.StartsAt, event.EndsAt, event.IsActive,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrEventNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `UPDATE events SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE deleted_at IS NULL`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY starts_at"

	events := []*entities.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// HoursRepositoryImpl implements the HoursRepository interface
type HoursRepositoryImpl struct {
	db *sqlx.DB
}

// NewHoursRepository creates a new opening-hours repository
func NewHoursRepository(db *sqlx.DB) ports.HoursRepository {
	return &HoursRepositoryImpl{db: db}
}

func (r *HoursRepositoryImpl) List(ctx context.Context) ([]*entities.OpeningHours, error) {
	query := `SELECT id, weekday, opens_at, closes_at, is_closed, updated_at FROM opening_hours ORDER BY weekday`

	hours := []*entities.OpeningHours{}
	if err := r.db.SelectContext(ctx, &hours, query); err != nil {
		return nil, fmt.Errorf("list opening hours: %w", err)
	}

	return hours, nil
}

func (r *HoursRepositoryImpl) Upsert(ctx context.Context, hours *entities.OpeningHours) error {
	query := `
		INSERT INTO opening_hours (weekday, opens_at, closes_at, is_closed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (weekday) DO UPDATE
		SET opens_at = EXCLUDED.opens_at, closes_at = EXCLUDED.closes_at,
			is_closed = EXCLUDED.is_closed, updated_at = CURRENT_TIMESTAMP
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		hours.Weekday, hours.OpensAt, hours.ClosesAt, hours.IsClosed,
	).Scan(&hours.ID, &hours.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert opening hours: %w", err)
	}

	return nil
}
