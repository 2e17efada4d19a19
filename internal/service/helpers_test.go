package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brandflow/brandflow/internal/auth"
	"github.com/brandflow/brandflow/internal/model"
	"github.com/brandflow/brandflow/internal/testutil"
)

var _ Store = (*testutil.MemStore)(nil)

func newTestAccounts(t *testing.T, store *testutil.MemStore) *AccountService {
	t.Helper()
	return NewAccountService(store, auth.NewTokenIssuer("test-secret", time.Hour), nil, nil, nil)
}

func registerUser(t *testing.T, accounts *AccountService, email string) *model.User {
	t.Helper()
	res, err := accounts.Register(context.Background(), RegisterInput{Email: email, Password: "secret-pass"})
	require.NoError(t, err)
	return res.User
}

func createBusiness(t *testing.T, store *testutil.MemStore, ownerID, name string) *model.Business {
	t.Helper()
	b, err := NewBusinessService(store, nil).Create(context.Background(), ownerID, CreateBusinessInput{Name: name, Field: "retail"})
	require.NoError(t, err)
	return b
}
