package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, "test-secret", time.Hour), mr
}

func TestTokenIssueAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: 42, Name: "Jo", Email: "jo@example.com", Role: "teacher"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := store.Load(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "teacher", identity.Role)
	assert.Equal(t, token, identity.Token)
}

func TestTokenLoadUnknown(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenCorruptPayloadIsPurged(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	key := store.redisKey("broken")
	require.NoError(t, mr.Set(key, "{not json"))

	_, err := store.Load(ctx, "broken")
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.False(t, mr.Exists(key), "corrupt payload must be deleted")
}

func TestTokenKeysNeverCarryBearerValue(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: 3, Role: "teacher"})
	require.NoError(t, err)

	assert.False(t, mr.Exists("token:"+token), "raw bearer value must not be a key")
	assert.True(t, mr.Exists(store.redisKey(token)))

	identity, err := store.Load(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), identity.UserID)
}

func TestTokenRevokeIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: 1, Role: "student"})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))
	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Load(ctx, token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenTenantAffiliation(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Identity{UserID: 9, Role: "school_admin"})
	require.NoError(t, err)

	identity, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.Nil(t, identity.TenantID)

	require.NoError(t, store.SetTenant(ctx, identity, 3, "greenfield"))

	reloaded, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, reloaded.TenantID)
	assert.Equal(t, int64(3), *reloaded.TenantID)
	assert.Equal(t, "greenfield", reloaded.TenantSlug)

	require.NoError(t, store.ClearTenant(ctx, reloaded))

	cleared, err := store.Load(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, cleared.TenantID)
	assert.Empty(t, cleared.TenantSlug)
}
