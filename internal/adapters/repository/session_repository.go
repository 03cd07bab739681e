package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brooklinpub/admin-api/internal/domain/entities"
	"github.com/brooklinpub/admin-api/internal/ports"
)

// SessionRepositoryImpl implements the SessionRepository interface
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	query := `INSERT INTO sessions (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepositoryImpl) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM sessions
		WHERE token_hash = $1`

	var session entities.Session
	err := r.db.GetContext(ctx, &session, query, tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

func (r *SessionRepositoryImpl) Revoke(ctx context.Context, tokenHash string) error {
	query := `UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE token_hash = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (r *SessionRepositoryImpl) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP WHERE user_id = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}

	return nil
}

func (r *SessionRepositoryImpl) CleanupExpired(ctx context.Context) error {
	query := `DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP OR revoked_at IS NOT NULL`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cleanup sessions: %w", err)
	}

	return nil
}
