package xtcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// 内存存储默认容量参数。
const (
	// DefaultNumCounters ristretto 频率计数器数量。
	// 约为预期最大条目数的 10 倍。
	DefaultNumCounters = 1e6

	// DefaultMaxCost 默认最大成本（按值字节数计，64MB）。
	DefaultMaxCost = 64 << 20

	// DefaultBufferItems ristretto Get 缓冲大小，官方推荐值。
	DefaultBufferItems = 64
)

// 确保 *MemoryStore 实现 Store 接口
var _ Store = (*MemoryStore)(nil)

// MemoryStore 是基于 ristretto 的进程内租户缓存存储。
//
// ristretto 不支持键枚举，无法按前缀删除：EvictCache/EvictTenant
// 会清空整个缓存并返回 ErrImpreciseEviction，Keys 返回
// ErrKeysUnsupported，Precise 返回 false。需要精确租户淘汰的
// 部署应使用 RedisStore。
type MemoryStore struct {
	cache  *ristretto.Cache[string, []byte]
	closed atomic.Bool
}

// MemoryStoreOptions 定义 MemoryStore 的容量配置。
type MemoryStoreOptions struct {
	// NumCounters 频率计数器数量。默认 1e6。
	NumCounters int64

	// MaxCost 最大成本（按值字节数计）。默认 64MB。
	MaxCost int64

	// BufferItems Get 缓冲大小。默认 64。
	BufferItems int64
}

// MemoryStoreOption 定义 MemoryStore 的配置选项。
type MemoryStoreOption func(*MemoryStoreOptions)

// WithNumCounters 设置频率计数器数量。
func WithNumCounters(n int64) MemoryStoreOption {
	return func(o *MemoryStoreOptions) {
		if n > 0 {
			o.NumCounters = n
		}
	}
}

// WithMaxCost 设置最大成本。
func WithMaxCost(n int64) MemoryStoreOption {
	return func(o *MemoryStoreOptions) {
		if n > 0 {
			o.MaxCost = n
		}
	}
}

// WithBufferItems 设置 Get 缓冲大小。
func WithBufferItems(n int64) MemoryStoreOption {
	return func(o *MemoryStoreOptions) {
		if n > 0 {
			o.BufferItems = n
		}
	}
}

// NewMemoryStore 创建进程内存储。
func NewMemoryStore(opts ...MemoryStoreOption) (*MemoryStore, error) {
	options := &MemoryStoreOptions{
		NumCounters: DefaultNumCounters,
		MaxCost:     DefaultMaxCost,
		BufferItems: DefaultBufferItems,
	}
	for _, opt := range opts {
		opt(options)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: options.NumCounters,
		MaxCost:     options.MaxCost,
		BufferItems: options.BufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("xtcache: create memory store: %w", err)
	}

	return &MemoryStore{cache: cache}, nil
}

// Get 读取条目。
func (s *MemoryStore) Get(_ context.Context, cache string, tenantID uuid.UUID, key string) ([]byte, error) {
	if err := s.checkEntry(cache, key); err != nil {
		return nil, err
	}

	value, ok := s.cache.Get(storageKey(cache, tenantID, key))
	if !ok {
		return nil, ErrCacheMiss
	}
	return value, nil
}

// Put 写入条目。
// ristretto 的写入是异步的，成本按值字节数计。
func (s *MemoryStore) Put(
	_ context.Context,
	cache string,
	tenantID uuid.UUID,
	key string,
	value []byte,
	ttl time.Duration,
) error {
	if err := s.checkEntry(cache, key); err != nil {
		return err
	}

	k := storageKey(cache, tenantID, key)
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	if ttl > 0 {
		s.cache.SetWithTTL(k, value, cost, ttl)
	} else {
		s.cache.Set(k, value, cost)
	}
	return nil
}

// Evict 删除单个条目。
func (s *MemoryStore) Evict(_ context.Context, cache string, tenantID uuid.UUID, key string) error {
	if err := s.checkEntry(cache, key); err != nil {
		return err
	}
	s.cache.Del(storageKey(cache, tenantID, key))
	return nil
}

// EvictCache 清空整个缓存并返回 ErrImpreciseEviction。
// ristretto 无法按前缀删除，宁可多清不可漏清——停用租户的条目
// 绝不能残留。
func (s *MemoryStore) EvictCache(_ context.Context, cache string, _ uuid.UUID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return err
	}
	s.cache.Clear()
	return ErrImpreciseEviction
}

// EvictTenant 清空整个缓存并返回 ErrImpreciseEviction。
func (s *MemoryStore) EvictTenant(_ context.Context, _ uuid.UUID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.cache.Clear()
	return ErrImpreciseEviction
}

// Keys 不支持键枚举。
func (s *MemoryStore) Keys(_ context.Context, cache string, _ uuid.UUID) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return nil, err
	}
	return nil, ErrKeysUnsupported
}

// Precise 进程内存储的租户淘汰不精确。
func (s *MemoryStore) Precise() bool { return false }

// Wait 等待异步写入落盘，主要用于测试。
func (s *MemoryStore) Wait() {
	s.cache.Wait()
}

// Close 关闭底层缓存。
func (s *MemoryStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	s.cache.Close()
	return nil
}

// checkEntry 校验条目寻址参数并检查关闭状态。
func (s *MemoryStore) checkEntry(cache, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := validateCacheName(cache); err != nil {
		return err
	}
	return validateEntryKey(key)
}
