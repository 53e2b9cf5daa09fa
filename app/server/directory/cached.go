package directory

import (
	"acquisitions-api/app/server/constants"
	"acquisitions-api/app/server/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cached 在 Store 外面加一层 redis 缓存，只缓存认证用的 Identity
type Cached struct {
	Store
	rdb *redis.Client
	l   *zap.Logger
}

var _ Store = (*Cached)(nil)

func NewCached(store Store, rdb *redis.Client, l *zap.Logger) *Cached {
	return &Cached{Store: store, rdb: rdb, l: l}
}

func (c *Cached) Identity(ctx context.Context, id uint) (*models.Identity, error) {
	var identity models.Identity

	// 查询缓存
	cacheKey := fmt.Sprintf(constants.CacheKeyUserIdentity, id)
	if cacheBytes, err := c.rdb.Get(ctx, cacheKey).Bytes(); err != nil {
		if !errors.Is(err, redis.Nil) {
			c.l.Error("failed to query cache for user identity", zap.Uint("id", id), zap.Error(err))
		}
	} else if err = json.Unmarshal(cacheBytes, &identity); err != nil {
		c.l.Error("failed to unmarshal user identity", zap.Uint("id", id), zap.ByteString("cacheBytes", cacheBytes), zap.Error(err))
		// 可能是无效的缓存，清理掉
		c.rdb.Del(ctx, cacheKey)
	} else {
		return &identity, nil
	}

	// 查询数据库
	found, err := c.Store.Identity(ctx, id)
	if err != nil {
		return nil, err
	}

	// 格式化并加入缓存，方便下一次查询
	if cacheBytes, err := json.Marshal(found); err != nil {
		c.l.Error("failed to marshal user identity", zap.Uint("id", id), zap.Error(err))
	} else if err = c.rdb.Set(ctx, cacheKey, cacheBytes, constants.CacheExpireUserIdentity).Err(); err != nil {
		c.l.Error("failed to cache user identity", zap.Uint("id", id), zap.Error(err))
	}

	return found, nil
}

func (c *Cached) Update(ctx context.Context, user *models.User) error {
	if err := c.Store.Update(ctx, user); err != nil {
		return err
	}
	c.forget(ctx, user.ID)
	return nil
}

func (c *Cached) Delete(ctx context.Context, id uint) (*models.User, error) {
	deleted, err := c.Store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	c.forget(ctx, id)
	return deleted, nil
}

func (c *Cached) forget(ctx context.Context, id uint) {
	if err := c.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserIdentity, id)).Err(); err != nil {
		c.l.Error("failed to drop cached user identity", zap.Uint("id", id), zap.Error(err))
	}
}
