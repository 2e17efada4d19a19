package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
)

// Resource names used in errors and metrics.
const (
	resourceBusiness      = "business"
	resourceMediaFile     = "media file"
	resourceLogo          = "logo"
	resourceMarketingPlan = "marketing plan"
	resourceUser          = "user"

	kindBusiness      = "business"
	kindMediaFile     = "media_file"
	kindMarketingPlan = "marketing_plan"
	kindConversation  = "conversation"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// BusinessStore persists businesses.
type BusinessStore interface {
	CreateBusiness(ctx context.Context, b *model.Business) error
	GetBusinessByID(ctx context.Context, id string) (*model.Business, error)
	ListBusinessesByOwner(ctx context.Context, ownerID string) ([]*model.Business, error)
	UpdateBusiness(ctx context.Context, b *model.Business) error
	DeleteBusiness(ctx context.Context, id string) error
}

// MediaStore persists media files.
type MediaStore interface {
	CreateMediaFile(ctx context.Context, m *model.MediaFile) error
	GetMediaFileByID(ctx context.Context, id string) (*model.MediaFile, error)
	ListMediaFiles(ctx context.Context, filter repository.MediaFilter) ([]*model.MediaFile, error)
	ListLogosWithBusiness(ctx context.Context, ownerID string) ([]*model.LogoWithBusiness, error)
	DeleteMediaFile(ctx context.Context, id string) error
}

// PlanStore persists marketing plans.
type PlanStore interface {
	CreateMarketingPlan(ctx context.Context, p *model.MarketingPlan) error
	GetMarketingPlanByID(ctx context.Context, id string) (*model.MarketingPlan, error)
	ListMarketingPlans(ctx context.Context, filter repository.PlanFilter) ([]*model.MarketingPlan, error)
	UpdateMarketingPlan(ctx context.Context, p *model.MarketingPlan) error
	DeleteMarketingPlan(ctx context.Context, id string) error
}

// ConversationStore persists saved chat exchanges.
type ConversationStore interface {
	CreateConversation(ctx context.Context, c *model.Conversation) error
	ListConversations(ctx context.Context, ownerID, businessID string) ([]*model.Conversation, error)
}

// Store is the full persistence surface. *repository.Repository satisfies it.
type Store interface {
	UserStore
	BusinessStore
	MediaStore
	PlanStore
	ConversationStore
}

var _ Store = (*repository.Repository)(nil)

// owned is implemented by every user-scoped entity.
type owned interface {
	OwnerID() string
}

// loadOwned fetches id with get and applies the shared access rule:
// a missing row is ErrNotFound, a row owned by someone else is ErrForbidden.
func loadOwned[T owned](ctx context.Context, resource, callerID, id string, get func(context.Context, string) (T, error), missing error) (T, error) {
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, notFound(resource)
	}

	v, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, missing) {
			return zero, notFound(resource)
		}
		return zero, err
	}

	if v.OwnerID() != callerID {
		return zero, forbidden(resource)
	}

	return v, nil
}

// ownedBusiness loads a business the caller owns.
func ownedBusiness(ctx context.Context, store BusinessStore, callerID, businessID string) (*model.Business, error) {
	return loadOwned(ctx, resourceBusiness, callerID, businessID, store.GetBusinessByID, repository.ErrBusinessNotFound)
}

// mapMissing converts a repository not-found sentinel returned by a write
// into the service error for resource.
func mapMissing(err, missing error, resource string) error {
	if errors.Is(err, missing) {
		return notFound(resource)
	}
	return err
}

func newID() string {
	return ulid.Make().String()
}

// now returns the current time at database precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
