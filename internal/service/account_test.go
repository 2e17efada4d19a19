package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/metrics"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/testutil"
)

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	store := testutil.NewMemStore()
	accounts := newTestAccounts(t, store)
	name := "  Alice "

	res, err := accounts.Register(context.Background(), RegisterInput{Name: &name, Email: " Alice@Example.COM ", Password: "pw"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	require.NotNil(t, res.User.Name)
	assert.Equal(t, "Alice", *res.User.Name)
	assert.NotEqual(t, "pw", res.User.PasswordHash)

	id, err := accounts.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := testutil.NewMemStore()
	accounts := newTestAccounts(t, store)
	registerUser(t, accounts, "dup@example.com")

	_, err := accounts.Register(context.Background(), RegisterInput{Email: "DUP@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, 1, store.CountUsersByEmail("dup@example.com"))
}

func TestRegister_RequiresEmailAndPassword(t *testing.T) {
	accounts := newTestAccounts(t, testutil.NewMemStore())

	for _, input := range []RegisterInput{
		{Email: "", Password: "pw"},
		{Email: "a@example.com", Password: ""},
		{Email: "   ", Password: "pw"},
	} {
		_, err := accounts.Register(context.Background(), input)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordMatch(t *testing.T) {
	store := testutil.NewMemStore()
	recorder := metrics.NewInMemory()
	accounts := NewAccountService(store, auth.NewTokenIssuer("test-secret", time.Hour), nil, recorder, nil)
	registerUser(t, accounts, "bob@example.com")

	_, errUnknown := accounts.Login(context.Background(), "nobody@example.com", "secret-pass")
	_, errWrong := accounts.Login(context.Background(), "bob@example.com", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.Equal(t, 2, recorder.Snapshot().LoginsFailed)

	res, err := accounts.Login(context.Background(), " BOB@example.com", "secret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	store := testutil.NewMemStore()
	accounts := newTestAccounts(t, store)

	_, err := accounts.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// valid signature, user gone
	token, _, err := auth.NewTokenIssuer("test-secret", time.Hour).Issue("ghost")
	require.NoError(t, err)
	_, err = accounts.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

type mapIdentityCache struct {
	items map[string]*model.Identity
	gets  int
}

func (c *mapIdentityCache) GetIdentity(_ context.Context, userID string) (*model.Identity, error) {
	c.gets++
	return c.items[userID], nil
}

func (c *mapIdentityCache) SetIdentity(_ context.Context, id *model.Identity) error {
	c.items[id.ID] = id
	return nil
}

func TestAuthenticate_UsesIdentityCache(t *testing.T) {
	store := testutil.NewMemStore()
	cache := &mapIdentityCache{items: map[string]*model.Identity{}}
	accounts := NewAccountService(store, auth.NewTokenIssuer("test-secret", time.Hour), cache, nil, nil)

	res, err := accounts.Register(context.Background(), RegisterInput{Email: "c@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = accounts.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	require.Contains(t, cache.items, res.User.ID)
	assert.Equal(t, "c@example.com", cache.items[res.User.ID].Email)
}

func TestProfile_UnknownUser(t *testing.T) {
	accounts := newTestAccounts(t, testutil.NewMemStore())
	_, err := accounts.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
