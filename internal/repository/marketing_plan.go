package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandflow/brandflow/internal/model"
	"github.com/jackc/pgx/v5"
)

// ErrMarketingPlanNotFound is returned when no plan row matches.
var ErrMarketingPlanNotFound = errors.New("marketing plan not found")

// PlanFilter narrows a plan listing. OwnerID is required.
type PlanFilter struct {
	OwnerID    string
	BusinessID string
}

const planColumns = `id, user_id, business_id, content, created_at, updated_at`

// CreateMarketingPlan inserts a new plan.
func (r *Repository) CreateMarketingPlan(ctx context.Context, p *model.MarketingPlan) error {
	query := `
		INSERT INTO marketing_plans (id, user_id, business_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.BusinessID,
		p.Content,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create marketing plan: %w", err)
	}

	return nil
}

// GetMarketingPlanByID retrieves a plan by ID regardless of owner.
func (r *Repository) GetMarketingPlanByID(ctx context.Context, id string) (*model.MarketingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM marketing_plans WHERE id = $1`

	p, err := scanMarketingPlan(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMarketingPlanNotFound
		}
		return nil, fmt.Errorf("failed to get marketing plan by ID: %w", err)
	}

	return p, nil
}

// ListMarketingPlans returns the owner's plans, newest first.
func (r *Repository) ListMarketingPlans(ctx context.Context, filter PlanFilter) ([]*model.MarketingPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM marketing_plans
		WHERE user_id = $1 AND ($2 = '' OR business_id = $2)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.OwnerID, filter.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketing plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*model.MarketingPlan, 0)
	for rows.Next() {
		p, err := scanMarketingPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marketing plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marketing plans: %w", err)
	}

	return plans, nil
}

// UpdateMarketingPlan writes the plan content.
func (r *Repository) UpdateMarketingPlan(ctx context.Context, p *model.MarketingPlan) error {
	query := `
		UPDATE marketing_plans
		SET content = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, p.ID, p.Content, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update marketing plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMarketingPlanNotFound
	}

	return nil
}

// DeleteMarketingPlan removes a plan.
func (r *Repository) DeleteMarketingPlan(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM marketing_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete marketing plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMarketingPlanNotFound
	}

	return nil
}

func scanMarketingPlan(row pgx.Row) (*model.MarketingPlan, error) {
	var p model.MarketingPlan
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.BusinessID,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
