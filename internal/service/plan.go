package service

import (
	"context"
	"strings"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
)

// PlanService handles marketing plans.
type PlanService struct {
	plans      PlanStore
	businesses BusinessStore
	metrics    metrics.Recorder
}

// NewPlanService creates a new PlanService.
func NewPlanService(plans PlanStore, businesses BusinessStore, recorder metrics.Recorder) *PlanService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PlanService{plans: plans, businesses: businesses, metrics: recorder}
}

// List returns the caller's plans, newest first, optionally for one business.
func (s *PlanService) List(ctx context.Context, callerID, businessID string) ([]*model.MarketingPlan, error) {
	if businessID != "" {
		if _, err := ownedBusiness(ctx, s.businesses, callerID, businessID); err != nil {
			return nil, err
		}
	}
	return s.plans.ListMarketingPlans(ctx, repository.PlanFilter{OwnerID: callerID, BusinessID: businessID})
}

// Create stores a plan for a business the caller owns.
func (s *PlanService) Create(ctx context.Context, callerID, businessID, content string) (*model.MarketingPlan, error) {
	if strings.TrimSpace(content) == "" || strings.TrimSpace(businessID) == "" {
		return nil, invalid("Content and businessId are required")
	}

	if _, err := ownedBusiness(ctx, s.businesses, callerID, businessID); err != nil {
		return nil, err
	}

	ts := now()
	p := &model.MarketingPlan{
		ID:         newID(),
		UserID:     callerID,
		BusinessID: businessID,
		Content:    content,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	if err := s.plans.CreateMarketingPlan(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.IncResourceCreated(kindMarketingPlan)
	return p, nil
}

// Get returns a plan the caller owns.
func (s *PlanService) Get(ctx context.Context, callerID, id string) (*model.MarketingPlan, error) {
	return s.owned(ctx, callerID, id)
}

// Update replaces the content of a plan the caller owns. Absent or blank
// content keeps the stored text.
func (s *PlanService) Update(ctx context.Context, callerID, id string, content *string) (*model.MarketingPlan, error) {
	p, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if content != nil && strings.TrimSpace(*content) != "" {
		p.Content = *content
	}
	p.UpdatedAt = now()

	if err := s.plans.UpdateMarketingPlan(ctx, p); err != nil {
		return nil, mapMissing(err, repository.ErrMarketingPlanNotFound, resourceMarketingPlan)
	}

	return p, nil
}

// Delete removes a plan the caller owns.
func (s *PlanService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.plans.DeleteMarketingPlan(ctx, id); err != nil {
		return mapMissing(err, repository.ErrMarketingPlanNotFound, resourceMarketingPlan)
	}

	s.metrics.IncResourceDeleted(kindMarketingPlan)
	return nil
}

func (s *PlanService) owned(ctx context.Context, callerID, id string) (*model.MarketingPlan, error) {
	return loadOwned(ctx, resourceMarketingPlan, callerID, id, s.plans.GetMarketingPlanByID, repository.ErrMarketingPlanNotFound)
}
