package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/repository"
)

// IdentityCache keeps resolved identities between requests.
type IdentityCache interface {
	GetIdentity(ctx context.Context, userID string) (*model.Identity, error)
	SetIdentity(ctx context.Context, id *model.Identity) error
}

// AccountService handles registration, login and bearer authentication.
type AccountService struct {
	users   UserStore
	tokens  *auth.TokenIssuer
	cache   IdentityCache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewAccountService creates a new AccountService. cache may be nil.
func NewAccountService(users UserStore, tokens *auth.TokenIssuer, cache IdentityCache, recorder metrics.Recorder, logger *slog.Logger) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		users:   users,
		tokens:  tokens,
		cache:   cache,
		metrics: recorder,
		logger:  logger,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     *string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Register creates an account and issues a token for it.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, invalid("Email and password are required")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	ts := now()
	user := &model.User{
		ID:           newID(),
		Name:         optionalString(input.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.metrics.IncUserRegistered()

	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	var hash string
	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		hash = user.PasswordHash
	case errors.Is(err, repository.ErrUserNotFound):
		// hash stays empty; VerifyPassword still spends a bcrypt comparison
	default:
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, hash)
	if err != nil {
		return nil, err
	}
	if !ok || user == nil {
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Profile returns the caller's account.
func (s *AccountService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, notFound(resourceUser)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate resolves a bearer token to the identity of an existing user.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if s.cache != nil {
		if id, err := s.cache.GetIdentity(ctx, userID); err == nil && id != nil {
			return id, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve token user: %w", err)
	}

	id := user.Identity()
	if s.cache != nil {
		if err := s.cache.SetIdentity(ctx, id); err != nil {
			s.logger.Warn("identity cache write failed", "user_id", id.ID, "error", err)
		}
	}

	return id, nil
}

func (s *AccountService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
