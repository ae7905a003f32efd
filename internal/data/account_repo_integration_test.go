package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/testutil"
)

func TestAccountRepo_CreateAndExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := NewAccountRepo(db)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "user1@node2.example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Create(ctx, federation.Account{
		UID:           "user1@node2.example.com",
		DisplayName:   "User One",
		ProvisionedBy: "https://idp.example.com/saml",
	}, "placeholder-secret")
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, "user1@node2.example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepo_CreateDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := NewAccountRepo(db)
	ctx := context.Background()

	account := federation.Account{UID: "dupe@example.com"}
	require.NoError(t, repo.Create(ctx, account, "secret-one"))

	err := repo.Create(ctx, account, "secret-two")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestAccountRepo_GetByUID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := NewAccountRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, federation.Account{
		UID:           "lookup@example.com",
		DisplayName:   "Lookup",
		ProvisionedBy: "provider-a",
	}, "placeholder"))

	got, err := repo.GetByUID(ctx, "lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "lookup@example.com", got.UID)
	assert.Equal(t, "Lookup", got.DisplayName)
	assert.Equal(t, "provider-a", got.ProvisionedBy)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByUID(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepo_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	repo := NewAccountRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, federation.Account{UID: "login@example.com"}, "right-password"))

	ok, err := repo.Login(ctx, "login@example.com", "right-password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Login(ctx, "login@example.com", "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Login(ctx, "nobody@example.com", "any")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Login(ctx, "login@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}
