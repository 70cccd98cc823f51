// Package cache 提供仪表盘统计使用的 TTL 缓存抽象。
//
// 两种后端：
//   - memory：进程内缓存（默认），多实例部署时各自独立
//   - redis：共享缓存，依赖 pkg/redis
//
// 条目写入后固定 TTL 过期，读取不续期，也不随底层数据变化主动失效。
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kandidou391-dotcom/pfe/pkg/redis"
)

// Cache 键值缓存接口，值为已序列化的字节
type Cache interface {
	// Get 读取缓存；未命中或已过期时 found=false
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set 写入缓存，ttl 从写入时刻开始计算
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ── 进程内实现 ──

// MemoryCache 基于 go-cache 的进程内 TTL 缓存
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache 创建进程内缓存，cleanupInterval 为过期条目的后台清理周期
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// ItemCount 当前条目数（含尚未清理的过期条目）
func (c *MemoryCache) ItemCount() int {
	return c.store.ItemCount()
}

// ── Redis 实现 ──

// RedisCache 基于 Redis 的共享缓存
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建 Redis 缓存
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.client.CacheGet(ctx, key)
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.CacheSet(ctx, key, value, ttl)
}
