package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brandflow/brandflow/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrMediaFileNotFound is returned when no media row matches.
var ErrMediaFileNotFound = errors.New("media file not found")

// MediaFilter narrows a media listing. OwnerID is required.
type MediaFilter struct {
	OwnerID    string
	BusinessID string
	Type       string
}

const mediaColumns = `id, user_id, business_id, url, type, created_at`

// CreateMediaFile inserts a new media row.
func (r *Repository) CreateMediaFile(ctx context.Context, m *model.MediaFile) error {
	query := `
		INSERT INTO media_files (id, user_id, business_id, url, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.BusinessID,
		m.URL,
		m.Type,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create media file: %w", err)
	}

	return nil
}

// GetMediaFileByID retrieves a media row by ID regardless of owner.
func (r *Repository) GetMediaFileByID(ctx context.Context, id string) (*model.MediaFile, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_files WHERE id = $1`

	m, err := scanMediaFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMediaFileNotFound
		}
		return nil, fmt.Errorf("failed to get media file by ID: %w", err)
	}

	return m, nil
}

// ListMediaFiles returns the owner's media, newest first.
func (r *Repository) ListMediaFiles(ctx context.Context, filter MediaFilter) ([]*model.MediaFile, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.OwnerID}

	if filter.BusinessID != "" {
		args = append(args, filter.BusinessID)
		conditions = append(conditions, fmt.Sprintf("business_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `
		SELECT ` + mediaColumns + `
		FROM media_files
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media files: %w", err)
	}
	defer rows.Close()

	files := make([]*model.MediaFile, 0)
	for rows.Next() {
		m, err := scanMediaFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media file: %w", err)
		}
		files = append(files, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media files: %w", err)
	}

	return files, nil
}

// ListLogosWithBusiness returns the owner's logos joined with their business.
func (r *Repository) ListLogosWithBusiness(ctx context.Context, ownerID string) ([]*model.LogoWithBusiness, error) {
	query := `
		SELECT m.id, m.user_id, m.business_id, m.url, m.type, m.created_at,
		       b.id, b.name, b.field
		FROM media_files m
		LEFT JOIN businesses b ON b.id = m.business_id
		WHERE m.user_id = $1 AND m.type = $2
		ORDER BY m.created_at DESC, m.id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, model.MediaTypeLogo)
	if err != nil {
		return nil, fmt.Errorf("failed to list logos: %w", err)
	}
	defer rows.Close()

	logos := make([]*model.LogoWithBusiness, 0)
	for rows.Next() {
		var (
			logo                     model.LogoWithBusiness
			bizID, bizName, bizField *string
		)
		err := rows.Scan(
			&logo.ID,
			&logo.UserID,
			&logo.BusinessID,
			&logo.URL,
			&logo.Type,
			&logo.CreatedAt,
			&bizID,
			&bizName,
			&bizField,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan logo: %w", err)
		}
		if bizID != nil {
			logo.Business = &model.BusinessSummary{ID: *bizID, Name: deref(bizName), Field: deref(bizField)}
		}
		logos = append(logos, &logo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating logos: %w", err)
	}

	return logos, nil
}

// DeleteMediaFile removes a media row.
func (r *Repository) DeleteMediaFile(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMediaFileNotFound
	}

	return nil
}

func scanMediaFile(row pgx.Row) (*model.MediaFile, error) {
	var m model.MediaFile
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.BusinessID,
		&m.URL,
		&m.Type,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
