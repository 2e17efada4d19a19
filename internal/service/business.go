package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
)

// Patch is a tri-state field update: Set false keeps the stored value,
// Set true with a nil Value clears it.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// BusinessService handles business profiles.
type BusinessService struct {
	store   BusinessStore
	metrics metrics.Recorder
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(store BusinessStore, recorder metrics.Recorder) *BusinessService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BusinessService{store: store, metrics: recorder}
}

// CreateBusinessInput defines input for creating a business.
type CreateBusinessInput struct {
	Name         string
	Field        string
	Description  *string
	ColorPalette json.RawMessage
}

// UpdateBusinessInput defines a partial update. Blank Name or Field keeps
// the stored value.
type UpdateBusinessInput struct {
	Name         *string
	Field        *string
	Description  Patch[string]
	ColorPalette Patch[json.RawMessage]
}

// List returns the caller's businesses, newest first.
func (s *BusinessService) List(ctx context.Context, callerID string) ([]*model.Business, error) {
	return s.store.ListBusinessesByOwner(ctx, callerID)
}

// Create stores a business owned by the caller.
func (s *BusinessService) Create(ctx context.Context, callerID string, input CreateBusinessInput) (*model.Business, error) {
	name := strings.TrimSpace(input.Name)
	field := strings.TrimSpace(input.Field)
	if name == "" || field == "" {
		return nil, invalid("Name and field are required")
	}

	ts := now()
	b := &model.Business{
		ID:           newID(),
		UserID:       callerID,
		Name:         name,
		Field:        field,
		Description:  input.Description,
		ColorPalette: palette(input.ColorPalette),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if err := s.store.CreateBusiness(ctx, b); err != nil {
		return nil, err
	}

	s.metrics.IncResourceCreated(kindBusiness)
	return b, nil
}

// Get returns a business the caller owns.
func (s *BusinessService) Get(ctx context.Context, callerID, id string) (*model.Business, error) {
	return ownedBusiness(ctx, s.store, callerID, id)
}

// Update merges the supplied fields into a business the caller owns.
func (s *BusinessService) Update(ctx context.Context, callerID, id string, input UpdateBusinessInput) (*model.Business, error) {
	b, err := ownedBusiness(ctx, s.store, callerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		b.Name = strings.TrimSpace(*input.Name)
	}
	if input.Field != nil && strings.TrimSpace(*input.Field) != "" {
		b.Field = strings.TrimSpace(*input.Field)
	}
	if input.Description.Set {
		b.Description = input.Description.Value
	}
	if input.ColorPalette.Set {
		if input.ColorPalette.Value == nil {
			b.ColorPalette = nil
		} else {
			b.ColorPalette = palette(*input.ColorPalette.Value)
		}
	}
	b.UpdatedAt = now()

	if err := s.store.UpdateBusiness(ctx, b); err != nil {
		return nil, mapMissing(err, repository.ErrBusinessNotFound, resourceBusiness)
	}

	return b, nil
}

// Delete removes a business the caller owns along with its media, plans
// and conversations.
func (s *BusinessService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := ownedBusiness(ctx, s.store, callerID, id); err != nil {
		return err
	}

	if err := s.store.DeleteBusiness(ctx, id); err != nil {
		return mapMissing(err, repository.ErrBusinessNotFound, resourceBusiness)
	}

	s.metrics.IncResourceDeleted(kindBusiness)
	return nil
}

// palette normalizes an optional JSON document; a JSON null means absent.
func palette(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.RawMessage(trimmed)
}
