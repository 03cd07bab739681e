package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// TodoRepositoryImpl implements the TodoRepository interface
type TodoRepositoryImpl struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sqlx.DB) ports.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

// The created_user_name column is denormalized at insert time so listing does
// not need a join against users for every dashboard refresh.
const todoColumns = `id, title, description, priority, status, due_date, completed_at,
	created_user_id, created_user_name, created_at, updated_at`

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, priority, status, due_date,
			completed_at, created_user_id, created_user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Priority, todo.Status,
		todo.DueDate, todo.CompletedAt, todo.CreatedUserID, todo.CreatedUserName,
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	var todo entities.Todo
	err := r.db.GetContext(ctx, &todo, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	return &todo, nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, todo *entities.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, priority = $4, status = $5,
			due_date = $6, completed_at = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Priority, todo.Status,
		todo.DueDate, todo.CompletedAt,
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTodoNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	return nil
}

func (r *TodoRepositoryImpl) List(ctx context.Context, filter ports.TodoFilter) ([]*entities.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Priority != nil {
		query += fmt.Sprintf(" AND priority = $%d", argIdx)
		args = append(args, *filter.Priority)
		argIdx++
	}

	if filter.CreatedUserID != nil {
		query += fmt.Sprintf(" AND created_user_id = $%d", argIdx)
		args = append(args, *filter.CreatedUserID)
		argIdx++
	}

	if filter.DueBefore != nil {
		query += fmt.Sprintf(" AND due_date < $%d", argIdx)
		args = append(args, *filter.DueBefore)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	todos := []*entities.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}
