package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
)

// MemStore is an in-memory stand-in for *repository.Repository. It returns
// the same sentinel errors and applies the same cascade on business delete.
type MemStore struct {
	mu            sync.Mutex
	users         map[string]*model.User
	businesses    map[string]*model.Business
	media         map[string]*model.MediaFile
	plans         map[string]*model.MarketingPlan
	conversations map[string]*model.Conversation
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:         map[string]*model.User{},
		businesses:    map[string]*model.Business{},
		media:         map[string]*model.MediaFile{},
		plans:         map[string]*model.MarketingPlan{},
		conversations: map[string]*model.Conversation{},
	}
}

// CountUsersByEmail returns how many users carry email.
func (s *MemStore) CountUsersByEmail(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

// CountMediaFiles returns the number of stored media rows.
func (s *MemStore) CountMediaFiles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.media)
}

// CountMarketingPlans returns the number of stored plans.
func (s *MemStore) CountMarketingPlans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans)
}

// CountConversations returns the number of stored conversations.
func (s *MemStore) CountConversations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// CreateUser implements the user store.
func (s *MemStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID implements the user store.
func (s *MemStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail implements the user store.
func (s *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateBusiness implements the business store.
func (s *MemStore) CreateBusiness(_ context.Context, b *model.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[b.ID] = copyBusiness(b)
	return nil
}

// GetBusinessByID implements the business store.
func (s *MemStore) GetBusinessByID(_ context.Context, id string) (*model.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[id]
	if !ok {
		return nil, repository.ErrBusinessNotFound
	}
	return copyBusiness(b), nil
}

// ListBusinessesByOwner implements the business store.
func (s *MemStore) ListBusinessesByOwner(_ context.Context, ownerID string) ([]*model.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Business, 0)
	for _, b := range s.businesses {
		if b.UserID == ownerID {
			out = append(out, copyBusiness(b))
		}
	}
	sortNewest(out, func(b *model.Business) (time.Time, string) { return b.CreatedAt, b.ID })
	return out, nil
}

// UpdateBusiness implements the business store.
func (s *MemStore) UpdateBusiness(_ context.Context, b *model.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.businesses[b.ID]; !ok {
		return repository.ErrBusinessNotFound
	}
	s.businesses[b.ID] = copyBusiness(b)
	return nil
}

// DeleteBusiness implements the business store, cascading to child rows.
func (s *MemStore) DeleteBusiness(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.businesses[id]; !ok {
		return repository.ErrBusinessNotFound
	}
	delete(s.businesses, id)
	for k, m := range s.media {
		if m.BusinessID != nil && *m.BusinessID == id {
			delete(s.media, k)
		}
	}
	for k, p := range s.plans {
		if p.BusinessID == id {
			delete(s.plans, k)
		}
	}
	for k, c := range s.conversations {
		if c.BusinessID == id {
			delete(s.conversations, k)
		}
	}
	return nil
}

// CreateMediaFile implements the media store.
func (s *MemStore) CreateMediaFile(_ context.Context, m *model.MediaFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.media[m.ID] = &cp
	return nil
}

// GetMediaFileByID implements the media store.
func (s *MemStore) GetMediaFileByID(_ context.Context, id string) (*model.MediaFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.media[id]
	if !ok {
		return nil, repository.ErrMediaFileNotFound
	}
	cp := *m
	return &cp, nil
}

// ListMediaFiles implements the media store.
func (s *MemStore) ListMediaFiles(_ context.Context, filter repository.MediaFilter) ([]*model.MediaFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.MediaFile, 0)
	for _, m := range s.media {
		if m.UserID != filter.OwnerID {
			continue
		}
		if filter.BusinessID != "" && (m.BusinessID == nil || *m.BusinessID != filter.BusinessID) {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortNewest(out, func(m *model.MediaFile) (time.Time, string) { return m.CreatedAt, m.ID })
	return out, nil
}

// ListLogosWithBusiness implements the media store.
func (s *MemStore) ListLogosWithBusiness(_ context.Context, ownerID string) ([]*model.LogoWithBusiness, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.LogoWithBusiness, 0)
	for _, m := range s.media {
		if m.UserID != ownerID || m.Type != model.MediaTypeLogo {
			continue
		}
		logo := &model.LogoWithBusiness{MediaFile: *m}
		if m.BusinessID != nil {
			if b, ok := s.businesses[*m.BusinessID]; ok {
				logo.Business = b.Summary()
			}
		}
		out = append(out, logo)
	}
	sortNewest(out, func(l *model.LogoWithBusiness) (time.Time, string) { return l.CreatedAt, l.ID })
	return out, nil
}

// DeleteMediaFile implements the media store.
func (s *MemStore) DeleteMediaFile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[id]; !ok {
		return repository.ErrMediaFileNotFound
	}
	delete(s.media, id)
	return nil
}

// CreateMarketingPlan implements the plan store.
func (s *MemStore) CreateMarketingPlan(_ context.Context, p *model.MarketingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.plans[p.ID] = &cp
	return nil
}

// GetMarketingPlanByID implements the plan store.
func (s *MemStore) GetMarketingPlanByID(_ context.Context, id string) (*model.MarketingPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrMarketingPlanNotFound
	}
	cp := *p
	return &cp, nil
}

// ListMarketingPlans implements the plan store.
func (s *MemStore) ListMarketingPlans(_ context.Context, filter repository.PlanFilter) ([]*model.MarketingPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.MarketingPlan, 0)
	for _, p := range s.plans {
		if p.UserID != filter.OwnerID {
			continue
		}
		if filter.BusinessID != "" && p.BusinessID != filter.BusinessID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sortNewest(out, func(p *model.MarketingPlan) (time.Time, string) { return p.CreatedAt, p.ID })
	return out, nil
}

// UpdateMarketingPlan implements the plan store.
func (s *MemStore) UpdateMarketingPlan(_ context.Context, p *model.MarketingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[p.ID]; !ok {
		return repository.ErrMarketingPlanNotFound
	}
	cp := *p
	s.plans[p.ID] = &cp
	return nil
}

// DeleteMarketingPlan implements the plan store.
func (s *MemStore) DeleteMarketingPlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return repository.ErrMarketingPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

// CreateConversation implements the conversation store.
func (s *MemStore) CreateConversation(_ context.Context, c *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.conversations[c.ID] = &cp
	return nil
}

// ListConversations implements the conversation store.
func (s *MemStore) ListConversations(_ context.Context, ownerID, businessID string) ([]*model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Conversation, 0)
	for _, c := range s.conversations {
		if c.UserID == ownerID && c.BusinessID == businessID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sortNewest(out, func(c *model.Conversation) (time.Time, string) { return c.CreatedAt, c.ID })
	return out, nil
}

func copyBusiness(b *model.Business) *model.Business {
	cp := *b
	if b.ColorPalette != nil {
		cp.ColorPalette = append(json.RawMessage(nil), b.ColorPalette...)
	}
	return &cp
}

func sortNewest[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return strings.Compare(idi, idj) > 0
	})
}
