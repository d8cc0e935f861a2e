package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	expected := models.Profile{UserID: "u1", Email: "a@b.c", Role: models.RoleCoach}
	require.NoError(t, c.Set(ctx, "profile:u1", expected, time.Minute))

	var actual models.Profile
	found, err := c.Get(ctx, "profile:u1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.Email, actual.Email)
	assert.Equal(t, models.RoleCoach, actual.Role)
}

func TestGetNotFound(t *testing.T) {
	c, _ := setupTestCache(t)

	var out models.Profile
	found, err := c.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Invalidate(ctx, "key"))

	var out string
	found, err := c.Get(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Db.Set(ctx, "bad", "not-json", time.Minute).Err())

	var out models.Profile
	found, err := c.Get(ctx, "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestRevoke(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "jti-2", 0))
	assert.False(t, mr.Exists(revokedPrefix+"jti-2"))
}

func TestInitServerInvalidAddr(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := InitServer(ctx, config.RedisConnection{AddressRedis: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Nil(t, c)
	assert.Error(t, err)
}
