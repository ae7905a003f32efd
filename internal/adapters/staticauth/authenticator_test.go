package staticauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestAuthenticator_Login(t *testing.T) {
	auth, err := New(map[string]string{"alice": "secret123"})
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := auth.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Login(ctx, "nobody", "secret123")
	require.NoError(t, err)
	assert.False(t, ok)
}
