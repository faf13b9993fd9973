package xtcache

import "errors"

// =============================================================================
// 配置错误
// =============================================================================

var (
	// ErrNilService 表示传入的租户服务为 nil。
	ErrNilService = errors.New("xtcache: tenant service is nil")

	// ErrNilStore 表示传入的存储实现为 nil。
	ErrNilStore = errors.New("xtcache: store is nil")

	// ErrNilClient 表示传入的底层客户端为 nil。
	ErrNilClient = errors.New("xtcache: client is nil")

	// ErrNilWarmUp 表示注册的预热函数为 nil。
	ErrNilWarmUp = errors.New("xtcache: warm-up func is nil")
)

// =============================================================================
// 操作错误
// =============================================================================

var (
	// ErrCacheMiss 表示键不存在。
	ErrCacheMiss = errors.New("xtcache: cache miss")

	// ErrEmptyKey 表示键为空。
	ErrEmptyKey = errors.New("xtcache: key is empty")

	// ErrInvalidCacheName 表示缓存名为空或包含保留字符 ':'。
	ErrInvalidCacheName = errors.New("xtcache: invalid cache name")

	// ErrImpreciseEviction 表示存储无法按租户精确淘汰，
	// 实际执行了整体清空。操作已生效，调用方可据此决定是否告警。
	ErrImpreciseEviction = errors.New("xtcache: eviction cleared entries beyond the tenant scope")

	// ErrKeysUnsupported 表示存储不支持键枚举。
	ErrKeysUnsupported = errors.New("xtcache: store does not support key enumeration")

	// ErrNoWarmUp 表示缓存未注册预热函数。
	ErrNoWarmUp = errors.New("xtcache: no warm-up registered for cache")

	// ErrClosed 表示存储或管理器已关闭。
	ErrClosed = errors.New("xtcache: already closed")
)
