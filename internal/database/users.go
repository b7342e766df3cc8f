package database

import (
	"context"
	"errors"
	"galeria-pdf/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUser = errors.New("a user with this username or email already exists")

func (s *PostgresStore) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at
	`
	var user models.User

	err := s.pool.QueryRow(ctx, query, username, email, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return &user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	var user models.User

	err := s.pool.QueryRow(ctx, query, username).Scan(
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

	return &user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User

	err := s.pool.QueryRow(ctx, query, id).Scan(
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

	return &user, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, userID, passwordHash)
	return err
}

type UserStats struct {
	TotalPdfs         int64 `json:"totalPDFs"`
	TotalStorageBytes int64 `json:"-"`
	PublicPdfs        int64 `json:"publicPDFs"`
	PrivatePdfs       int64 `json:"privatePDFs"`
}

// GetUserStats aggregates the caller's document counts and storage
// usage in a single query.
func (s *PostgresStore) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(file_size), 0),
			COUNT(*) FILTER (WHERE is_public),
			COUNT(*) FILTER (WHERE NOT is_public)
		FROM pdfs
		WHERE owner_id = $1
	`
	var stats UserStats

	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&stats.TotalPdfs,
		&stats.TotalStorageBytes,
		&stats.PublicPdfs,
		&stats.PrivatePdfs,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
