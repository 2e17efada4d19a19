package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandflow/brandflow/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrBusinessNotFound is returned when no business row matches.
var ErrBusinessNotFound = errors.New("business not found")

const businessColumns = `id, user_id, name, field, description, color_palette, created_at, updated_at`

// CreateBusiness inserts a new business.
func (r *Repository) CreateBusiness(ctx context.Context, b *model.Business) error {
	query := `
		INSERT INTO businesses (id, user_id, name, field, description, color_palette, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.UserID,
		b.Name,
		b.Field,
		b.Description,
		jsonParam(b.ColorPalette),
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

// GetBusinessByID retrieves a business by its ID regardless of owner.
func (r *Repository) GetBusinessByID(ctx context.Context, id string) (*model.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	b, err := scanBusiness(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business by ID: %w", err)
	}

	return b, nil
}

// ListBusinessesByOwner returns the owner's businesses, newest first.
func (r *Repository) ListBusinessesByOwner(ctx context.Context, ownerID string) ([]*model.Business, error) {
	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	businesses := make([]*model.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}

	return businesses, nil
}

// UpdateBusiness writes the mutable fields of a business.
func (r *Repository) UpdateBusiness(ctx context.Context, b *model.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, field = $3, description = $4, color_palette = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Name,
		b.Field,
		b.Description,
		jsonParam(b.ColorPalette),
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}

	return nil
}

// DeleteBusiness removes a business. Media files, plans and conversations
// referencing it are removed by the foreign keys.
func (r *Repository) DeleteBusiness(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}

	return nil
}

func scanBusiness(row pgx.Row) (*model.Business, error) {
	var (
		b       model.Business
		palette []byte
	)
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Name,
		&b.Field,
		&b.Description,
		&palette,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.ColorPalette = jsonValue(palette)
	return &b, nil
}
