package xtcache

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix 所有租户缓存键的统一前缀。
const KeyPrefix = "tk"

// Store 定义按租户隔离的缓存存储接口。
//
// 所有条目以 "tk:{cache}:{tenant}:{key}" 形式寻址。cache 是逻辑
// 缓存名（如 "work-orders"），同一租户下的多个逻辑缓存可以独立淘汰。
type Store interface {
	// Get 读取条目。键不存在时返回 ErrCacheMiss。
	Get(ctx context.Context, cache string, tenantID uuid.UUID, key string) ([]byte, error)

	// Put 写入条目。ttl <= 0 表示不过期。
	Put(ctx context.Context, cache string, tenantID uuid.UUID, key string, value []byte, ttl time.Duration) error

	// Evict 删除单个条目。键不存在时不报错。
	Evict(ctx context.Context, cache string, tenantID uuid.UUID, key string) error

	// EvictCache 删除租户在指定逻辑缓存下的所有条目。
	// 无法精确按租户淘汰的实现返回 ErrImpreciseEviction（操作仍已生效）。
	EvictCache(ctx context.Context, cache string, tenantID uuid.UUID) error

	// EvictTenant 删除租户的所有条目，跨全部逻辑缓存。
	// 无法精确按租户淘汰的实现返回 ErrImpreciseEviction（操作仍已生效）。
	EvictTenant(ctx context.Context, tenantID uuid.UUID) error

	// Keys 枚举租户在指定逻辑缓存下的所有键（不含前缀）。
	// 不支持枚举的实现返回 ErrKeysUnsupported。
	Keys(ctx context.Context, cache string, tenantID uuid.UUID) ([]string, error)

	// Precise 报告 EvictCache/EvictTenant 是否精确作用于租户范围。
	Precise() bool

	// Close 释放底层资源。
	Close() error
}

// storageKey 构建存储键。
func storageKey(cache string, tenantID uuid.UUID, key string) string {
	return KeyPrefix + ":" + cache + ":" + tenantID.String() + ":" + key
}

// validateCacheName 校验逻辑缓存名。
// 冒号是键分隔符，缓存名中出现会破坏租户前缀的解析。
func validateCacheName(cache string) error {
	if cache == "" || strings.Contains(cache, ":") {
		return ErrInvalidCacheName
	}
	return nil
}

// validateEntryKey 校验条目键。
func validateEntryKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
