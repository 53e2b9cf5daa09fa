package directory_test

import (
	"acquisitions-api/app/server/constants"
	"acquisitions-api/app/server/directory"
	"acquisitions-api/app/server/directory/directorytest"
	"acquisitions-api/app/server/models"
	"context"
	"fmt"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"testing"
)

func newCached(t *testing.T) (*directory.Cached, *directorytest.Memory, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mem := directorytest.NewMemory()
	return directory.NewCached(mem, rdb, zap.NewNop()), mem, mr
}

func seed(t *testing.T, store directory.Store, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Seeded", Email: email, Role: models.RoleUser, Password: "digest"}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestCached_IdentityIsCached(t *testing.T) {
	c, mem, mr := newCached(t)
	ctx := context.Background()
	user := seed(t, c, "alice@example.com")

	first, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.True(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserIdentity, user.ID)))

	// 缓存命中时不访问底层存储
	mem.FailWith(assert.AnError)
	second, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}

func TestCached_DeleteDropsIdentity(t *testing.T) {
	c, _, mr := newCached(t)
	ctx := context.Background()
	user := seed(t, c, "bob@example.com")

	_, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)

	_, err = c.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(fmt.Sprintf(constants.CacheKeyUserIdentity, user.ID)))

	_, err = c.Identity(ctx, user.ID)
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestCached_UpdateDropsIdentity(t *testing.T) {
	c, _, _ := newCached(t)
	ctx := context.Background()
	user := seed(t, c, "carol@example.com")

	_, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)

	user.Role = models.RoleAdmin
	require.NoError(t, c.Update(ctx, user))

	identity, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestCached_CorruptEntryFallsBack(t *testing.T) {
	c, _, mr := newCached(t)
	ctx := context.Background()
	user := seed(t, c, "dan@example.com")

	require.NoError(t, mr.Set(fmt.Sprintf(constants.CacheKeyUserIdentity, user.ID), "{not json"))

	identity, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dan@example.com", identity.Email)
}

func TestCached_RedisDownFallsBack(t *testing.T) {
	c, _, mr := newCached(t)
	ctx := context.Background()
	user := seed(t, c, "erin@example.com")

	mr.Close()

	identity, err := c.Identity(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin@example.com", identity.Email)
}
