package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"galeria-pdf/internal/models"
	"galeria-pdf/internal/query"

	"github.com/jackc/pgx/v5"
)

type CreatePdfParams struct {
	ID          string
	OwnerID     int64
	Title       string
	Description string
	Tags        []string
	IsPublic    bool
	FileSize    int64
	StoredPath  string
}

func (s *PostgresStore) CreatePdf(ctx context.Context, arg CreatePdfParams) (*models.PdfDocument, error) {
	q := `
		INSERT INTO pdfs (id, owner_id, title, description, tags, is_public, file_size, stored_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	if arg.Tags == nil {
		arg.Tags = []string{}
	}

	doc := models.PdfDocument{
		ID:          arg.ID,
		OwnerID:     arg.OwnerID,
		Title:       arg.Title,
		Description: arg.Description,
		Tags:        arg.Tags,
		IsPublic:    arg.IsPublic,
		FileSize:    arg.FileSize,
		StoredPath:  arg.StoredPath,
	}

	err := s.pool.QueryRow(ctx, q,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Tags,
		arg.IsPublic,
		arg.FileSize,
		arg.StoredPath,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *PostgresStore) PdfExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pdfs WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetPdfByID returns the document if it is visible to the caller:
// public, or owned by them. Invisible and absent are both nil, nil so
// the API never reveals which one it was.
func (s *PostgresStore) GetPdfByID(ctx context.Context, id string, callerID int64) (*models.PdfDocument, error) {
	q := `
		SELECT p.id, p.owner_id, p.title, p.description, p.tags, p.is_public,
		       p.file_size, p.stored_path, p.created_at, u.username
		FROM pdfs p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1 AND (p.is_public OR p.owner_id = $2)
	`
	var doc models.PdfDocument

	err := s.pool.QueryRow(ctx, q, id, callerID).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.Tags,
		&doc.IsPublic,
		&doc.FileSize,
		&doc.StoredPath,
		&doc.CreatedAt,
		&doc.UploadedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

type UpdatePdfParams struct {
	Title       *string
	Description *string
	Tags        []string
	IsPublic    *bool
}

// UpdatePdf mutates only the allow-listed metadata fields; owner,
// file size and stored path are untouchable. A nil field means "keep
// the current value". Returns nil, nil when the document does not
// exist or the caller is not its owner.
func (s *PostgresStore) UpdatePdf(ctx context.Context, id string, ownerID int64, arg UpdatePdfParams) (*models.PdfDocument, error) {
	q := `
		WITH updated AS (
			UPDATE pdfs SET
				title       = COALESCE($3::text, title),
				description = COALESCE($4::text, description),
				tags        = COALESCE($5::text[], tags),
				is_public   = COALESCE($6::boolean, is_public)
			WHERE id = $1 AND owner_id = $2
			RETURNING id, owner_id, title, description, tags, is_public, file_size, stored_path, created_at
		)
		SELECT p.id, p.owner_id, p.title, p.description, p.tags, p.is_public,
		       p.file_size, p.stored_path, p.created_at, u.username
		FROM updated p
		JOIN users u ON u.id = p.owner_id
	`
	var doc models.PdfDocument

	err := s.pool.QueryRow(ctx, q, id, ownerID, arg.Title, arg.Description, arg.Tags, arg.IsPublic).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.Tags,
		&doc.IsPublic,
		&doc.FileSize,
		&doc.StoredPath,
		&doc.CreatedAt,
		&doc.UploadedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

// DeletePdf removes the metadata record if the caller owns it and
// returns the deleted record so the handler can clean up the blob.
// Returns nil, nil when nothing was deleted.
func (s *PostgresStore) DeletePdf(ctx context.Context, id string, ownerID int64) (*models.PdfDocument, error) {
	q := `
		DELETE FROM pdfs
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, description, tags, is_public, file_size, stored_path, created_at
	`
	var doc models.PdfDocument

	err := s.pool.QueryRow(ctx, q, id, ownerID).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.Tags,
		&doc.IsPublic,
		&doc.FileSize,
		&doc.StoredPath,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

// ListPdfs executes a query.Spec against Postgres. The WHERE clauses
// mirror query.Spec.Matches exactly.
func (s *PostgresStore) ListPdfs(ctx context.Context, spec query.Spec) ([]models.PdfDocument, error) {
	conds := make([]string, 0, 3)
	args := []interface{}{spec.CallerID}

	if spec.Filter == query.FilterPrivate {
		conds = append(conds, "p.owner_id = $1 AND NOT p.is_public")
	} else {
		conds = append(conds, "(p.is_public OR p.owner_id = $1)")
	}

	if spec.Search != "" {
		args = append(args, "%"+spec.Search+"%")
		n := len(args)
		titleCond := fmt.Sprintf("p.title ILIKE $%d", n)
		descCond := fmt.Sprintf("p.description ILIKE $%d", n)
		tagCond := fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(p.tags) AS tag WHERE tag ILIKE $%d)", n)

		switch spec.SearchBy {
		case query.SearchTitle:
			conds = append(conds, titleCond)
		case query.SearchDescription:
			conds = append(conds, descCond)
		case query.SearchTags:
			conds = append(conds, tagCond)
		default:
			conds = append(conds, "("+titleCond+" OR "+descCond+" OR "+tagCond+")")
		}
	}

	if spec.CreatedAfter != nil {
		args = append(args, *spec.CreatedAfter)
		conds = append(conds, fmt.Sprintf("p.created_at >= $%d", len(args)))
	}

	var orderBy string
	switch spec.Sort {
	case query.SortOldest:
		orderBy = "p.created_at ASC, p.id"
	case query.SortName:
		orderBy = "p.title ASC, p.id"
	case query.SortSize:
		orderBy = "p.file_size DESC, p.id"
	default:
		orderBy = "p.created_at DESC, p.id"
	}

	q := `
		SELECT p.id, p.owner_id, p.title, p.description, p.tags, p.is_public,
		       p.file_size, p.created_at, u.username
		FROM pdfs p
		JOIN users u ON u.id = p.owner_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY ` + orderBy

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []models.PdfDocument
	for rows.Next() {
		var doc models.PdfDocument
		err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&doc.Title,
			&doc.Description,
			&doc.Tags,
			&doc.IsPublic,
			&doc.FileSize,
			&doc.CreatedAt,
			&doc.UploadedBy,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if docs == nil {
		return []models.PdfDocument{}, nil
	}

	return docs, nil
}
