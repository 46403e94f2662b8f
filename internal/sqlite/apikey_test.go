package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/budgetline/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	token, err := GenerateToken()
	require.NoError(t, err)
	require.Len(t, token, 64)

	require.NoError(t, repo.Create(ctx, token, "alice", "alice@example.com", "laptop"))
	require.ErrorIs(t, repo.Create(ctx, token, "alice", "", ""), repository.ErrConflict)

	id, err := repo.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "alice", Email: "alice@example.com"}, id)

	var lastUsed *string
	require.NoError(t, db.QueryRow(`SELECT last_used FROM api_keys WHERE user_id = 'alice'`).Scan(&lastUsed))
	require.NotNil(t, lastUsed)

	userID, email, err := repo.ResolveUser(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", userID)
	require.Equal(t, "alice@example.com", email)

	_, err = repo.Resolve(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)

	n, err := repo.Revoke(ctx, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = repo.Resolve(ctx, token)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
