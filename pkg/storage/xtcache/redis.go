package xtcache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultScanCount SCAN 命令单次迭代的默认批量。
const DefaultScanCount = 200

// 确保 *RedisStore 实现 Store 接口
var _ Store = (*RedisStore)(nil)

// RedisStore 是基于 Redis 的租户缓存存储。
//
// 按租户淘汰通过 SCAN + DEL 实现，只删除匹配租户前缀的键，
// Precise 返回 true。
type RedisStore struct {
	client    redis.UniversalClient
	scanCount int64
	closed    atomic.Bool
}

// RedisStoreOption 定义 RedisStore 的配置选项。
type RedisStoreOption func(*RedisStore)

// WithScanCount 设置按租户淘汰时 SCAN 的单次迭代批量。
func WithScanCount(n int64) RedisStoreOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.scanCount = n
		}
	}
}

// NewRedisStore 创建 Redis 存储。
// client 必须是已初始化的 redis.UniversalClient。
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	s := &RedisStore{
		client:    client,
		scanCount: DefaultScanCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get 读取条目。
func (s *RedisStore) Get(ctx context.Context, cache string, tenantID uuid.UUID, key string) ([]byte, error) {
	if err := s.checkEntry(cache, key); err != nil {
		return nil, err
	}

	value, err := s.client.Get(ctx, storageKey(cache, tenantID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("xtcache: redis get: %w", err)
	}
	return value, nil
}

// Put 写入条目。
func (s *RedisStore) Put(
	ctx context.Context,
	cache string,
	tenantID uuid.UUID,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	if err := s.checkEntry(cache, key); err != nil {
		return err
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, storageKey(cache, tenantID, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("xtcache: redis set: %w", err)
	}
	return nil
}

// Evict 删除单个条目。
func (s *RedisStore) Evict(ctx context.Context, cache string, tenantID uuid.UUID, key string) error {
	if err := s.checkEntry(cache, key); err != nil {
		return err
	}

	if err := s.client.Del(ctx, storageKey(cache, tenantID, key)).Err(); err != nil {
		return fmt.Errorf("xtcache: redis del: %w", err)
	}
	return nil
}

// EvictCache 删除租户在指定逻辑缓存下的所有条目。
func (s *RedisStore) EvictCache(ctx context.Context, cache string, tenantID uuid.UUID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return err
	}
	return s.deleteByPattern(ctx, KeyPrefix+":"+cache+":"+tenantID.String()+":*")
}

// EvictTenant 删除租户的所有条目。
// 缓存名不允许包含 ':'，模式中的单段通配不会越过租户边界。
func (s *RedisStore) EvictTenant(ctx context.Context, tenantID uuid.UUID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.deleteByPattern(ctx, KeyPrefix+":*:"+tenantID.String()+":*")
}

// Keys 枚举租户在指定逻辑缓存下的所有键。
func (s *RedisStore) Keys(ctx context.Context, cache string, tenantID uuid.UUID) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return nil, err
	}

	prefix := KeyPrefix + ":" + cache + ":" + tenantID.String() + ":"
	var keys []string

	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, prefix+"*", s.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("xtcache: redis scan: %w", err)
		}
		for _, k := range batch {
			keys = append(keys, k[len(prefix):])
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Precise Redis 存储按租户精确淘汰。
func (s *RedisStore) Precise() bool { return true }

// Client 返回底层的 redis.UniversalClient。
func (s *RedisStore) Client() redis.UniversalClient { return s.client }

// Close 关闭底层连接。
func (s *RedisStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return s.client.Close()
}

// deleteByPattern 按模式分批删除键。
func (s *RedisStore) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, s.scanCount).Result()
		if err != nil {
			return fmt.Errorf("xtcache: redis scan: %w", err)
		}
		if len(batch) > 0 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("xtcache: redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// checkEntry 校验条目寻址参数并检查关闭状态。
func (s *RedisStore) checkEntry(cache, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return err
	}
	return validateEntryKey(key)
}
