package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/models"
)

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) SaveSession(ctx context.Context, s models.Session) error {
	if _, err := r.DB.ExecContext(ctx, saveSession, s.Login, s.Token, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context) (models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, getSession).Scan(&s.Login, &s.Token, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrLocalSessionNotFound
		}
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	return s, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, deleteSession); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
