package database

import (
	"context"
	"errors"
	"galeria-pdf/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID           uuid.UUID
	UserID       int64
	RefreshToken string
	UserAgent    string
	ClientIP     string
	ExpiresAt    time.Time
}

func (s *PostgresStore) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.pool.Exec(ctx, query,
		arg.ID,
		arg.UserID,
		arg.RefreshToken,
		arg.UserAgent,
		arg.ClientIP,
		arg.ExpiresAt,
	)
	return err
}

// RotateSession atomically consumes a refresh token: it looks up the
// session's user, deletes the old session and inserts the new one.
// Returns nil, nil when the token is unknown or expired.
func (s *PostgresStore) RotateSession(ctx context.Context, refreshToken string, newSession CreateSessionParams) (*models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lookup := `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.refresh_token = $1 AND se.expires_at > now()
		FOR UPDATE OF se
	`
	var user models.User
	err = tx.QueryRow(ctx, lookup, refreshToken).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO sessions (id, user_id, refresh_token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, insert,
		newSession.ID,
		user.ID,
		newSession.RefreshToken,
		newSession.UserAgent,
		newSession.ClientIP,
		newSession.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &user, nil
}
