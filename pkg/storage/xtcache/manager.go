package xtcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
	"github.com/omeyang/tenantkit/pkg/observability/xmetrics"
)

// 观测常量。
const (
	// MetricsComponent 组件名称。
	MetricsComponent = "xtcache"

	// MetricsOpGet 读取操作。
	MetricsOpGet = "get"
	// MetricsOpPut 写入操作。
	MetricsOpPut = "put"
	// MetricsOpEvict 淘汰操作。
	MetricsOpEvict = "evict"
	// MetricsOpWarmUp 预热操作。
	MetricsOpWarmUp = "warmup"

	// MetricsAttrTenantID 租户 ID 属性。
	MetricsAttrTenantID = "tenant_id"
	// MetricsAttrCache 逻辑缓存名属性。
	MetricsAttrCache = "cache"
)

// WarmUpFunc 是逻辑缓存的预热函数。
// 执行时 ctx 已携带目标租户的上下文，函数内通过 Manager.Put
// 写入的条目自动落在该租户的键空间下。
type WarmUpFunc func(ctx context.Context, tenantID uuid.UUID) error

// TenantLister 返回需要周期性预热的租户集合。
type TenantLister func(ctx context.Context) ([]uuid.UUID, error)

// IntegrityReport 是租户缓存完整性检查的结果。
type IntegrityReport struct {
	TenantID uuid.UUID
	Cache    string

	// Keys 租户在该逻辑缓存下的条目数。仅 Verified 为 true 时有效。
	Keys int

	// Verified 表示是否实际枚举了键。
	// 不支持枚举的存储（进程内）无法验证，返回 false。
	Verified bool

	// Precise 表示存储是否支持精确的租户范围淘汰。
	Precise bool
}

// =============================================================================
// Manager 租户缓存管理器
// =============================================================================

// Manager 在 Store 之上提供租户感知的缓存操作。
//
// 读写操作从 ctx 提取当前租户并强制键隔离；管理操作
// （按租户淘汰、预热、指标、健康）接受显式的租户 ID。
type Manager struct {
	service  *xtenant.Service
	store    Store
	logger   *slog.Logger
	observer xmetrics.Observer
	metrics  metricsRegistry

	mu      sync.RWMutex
	warmups map[string]WarmUpFunc

	cron   *cron.Cron
	closed atomic.Bool
}

// ManagerOption 定义 Manager 的配置选项。
type ManagerOption func(*Manager)

// WithLogger 设置日志器。
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver 设置观测接口。
func WithObserver(observer xmetrics.Observer) ManagerOption {
	return func(m *Manager) {
		if observer != nil {
			m.observer = observer
		}
	}
}

// NewManager 创建租户缓存管理器。
//
// store 的生命周期由调用方管理，Manager.Close 不会关闭它。
func NewManager(service *xtenant.Service, store Store, opts ...ManagerOption) (*Manager, error) {
	if service == nil {
		return nil, ErrNilService
	}
	if store == nil {
		return nil, ErrNilStore
	}

	m := &Manager{
		service:  service,
		store:    store,
		logger:   slog.Default(),
		observer: xmetrics.NoopObserver{},
		warmups:  make(map[string]WarmUpFunc),
		cron:     cron.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// =============================================================================
// 租户上下文读写
// =============================================================================

// Get 读取当前租户的条目。
// ctx 未携带租户上下文时返回 xtenant.ErrNoTenantContext。
func (m *Manager) Get(ctx context.Context, cache, key string) ([]byte, error) {
	tc, err := m.currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := m.startSpan(ctx, MetricsOpGet, cache, tc.TenantID)

	counters := m.metrics.forTenant(tc.TenantID)
	value, err := m.store.Get(ctx, cache, tc.TenantID, key)
	switch {
	case err == nil:
		counters.hits.Add(1)
		counters.touch()
	case errors.Is(err, ErrCacheMiss):
		counters.misses.Add(1)
		counters.touch()
	default:
		counters.errors.Add(1)
		counters.touch()
	}

	span.End(xmetrics.Result{Err: ignoreMiss(err)})
	return value, err
}

// Put 写入当前租户的条目。
func (m *Manager) Put(ctx context.Context, cache, key string, value []byte, ttl time.Duration) error {
	tc, err := m.currentTenant(ctx)
	if err != nil {
		return err
	}

	ctx, span := m.startSpan(ctx, MetricsOpPut, cache, tc.TenantID)

	counters := m.metrics.forTenant(tc.TenantID)
	err = m.store.Put(ctx, cache, tc.TenantID, key, value, ttl)
	if err != nil {
		counters.errors.Add(1)
	}
	counters.touch()

	span.End(xmetrics.Result{Err: err})
	return err
}

// Evict 删除当前租户的单个条目。
func (m *Manager) Evict(ctx context.Context, cache, key string) error {
	tc, err := m.currentTenant(ctx)
	if err != nil {
		return err
	}

	ctx, span := m.startSpan(ctx, MetricsOpEvict, cache, tc.TenantID)

	counters := m.metrics.forTenant(tc.TenantID)
	err = m.store.Evict(ctx, cache, tc.TenantID, key)
	if err != nil {
		counters.errors.Add(1)
	} else {
		counters.evictions.Add(1)
	}
	counters.touch()

	span.End(xmetrics.Result{Err: err})
	return err
}

// =============================================================================
// 租户级管理操作
// =============================================================================

// EvictCacheForTenant 淘汰租户在指定逻辑缓存下的所有条目。
// 存储不支持精确淘汰时透传 ErrImpreciseEviction（条目已清除）。
func (m *Manager) EvictCacheForTenant(ctx context.Context, cache string, tenantID uuid.UUID) error {
	if m.closed.Load() {
		return ErrClosed
	}

	err := m.store.EvictCache(ctx, cache, tenantID)
	m.noteEviction(tenantID, err)
	return err
}

// EvictAllForTenant 淘汰租户的所有条目并重置其指标。
// 租户下线时调用，指标重置确保重新上线后健康评估从零开始。
func (m *Manager) EvictAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	if m.closed.Load() {
		return ErrClosed
	}

	err := m.store.EvictTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, ErrImpreciseEviction) {
		m.metrics.forTenant(tenantID).errors.Add(1)
		return err
	}

	if errors.Is(err, ErrImpreciseEviction) {
		m.logger.Warn("tenant eviction cleared entire cache",
			slog.String("tenant_id", tenantID.String()),
		)
	}
	m.metrics.reset(tenantID)
	return err
}

// noteEviction 记录淘汰结果的指标与日志。
func (m *Manager) noteEviction(tenantID uuid.UUID, err error) {
	counters := m.metrics.forTenant(tenantID)
	switch {
	case err == nil:
		counters.evictions.Add(1)
	case errors.Is(err, ErrImpreciseEviction):
		counters.evictions.Add(1)
		m.logger.Warn("cache eviction cleared entries beyond tenant scope",
			slog.String("tenant_id", tenantID.String()),
		)
	default:
		counters.errors.Add(1)
	}
	counters.touch()
}

// =============================================================================
// 预热
// =============================================================================

// RegisterWarmUp 注册逻辑缓存的预热函数。
// 同名缓存重复注册时覆盖旧函数。
func (m *Manager) RegisterWarmUp(cache string, fn WarmUpFunc) error {
	if err := validateCacheName(cache); err != nil {
		return err
	}
	if fn == nil {
		return ErrNilWarmUp
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.warmups[cache] = fn
	return nil
}

// WarmUpForTenant 在指定租户的上下文中执行逻辑缓存的预热函数。
// 未注册预热函数时返回 ErrNoWarmUp。
func (m *Manager) WarmUpForTenant(ctx context.Context, cache string, tenantID uuid.UUID) error {
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.RLock()
	fn, ok := m.warmups[cache]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoWarmUp, cache)
	}

	ctx, span := m.startSpan(ctx, MetricsOpWarmUp, cache, tenantID)

	err := m.service.ExecuteWithTenant(ctx, tenantID, func(ctx context.Context) error {
		return fn(ctx, tenantID)
	})
	if err == nil {
		counters := m.metrics.forTenant(tenantID)
		counters.preloads.Add(1)
		counters.touch()
	}

	span.End(xmetrics.Result{Err: err})
	return err
}

// WarmUpAllForTenant 在指定租户的上下文中执行所有已注册的预热函数。
//
// 租户上线/恢复时调用，无需调用方跟踪注册过哪些逻辑缓存。
// 未注册任何预热函数时返回 ErrNoWarmUp；单个缓存的失败不中断
// 其余缓存的预热，全部失败聚合后返回。
func (m *Manager) WarmUpAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	if m.closed.Load() {
		return ErrClosed
	}

	m.mu.RLock()
	caches := make([]string, 0, len(m.warmups))
	for cache := range m.warmups {
		caches = append(caches, cache)
	}
	m.mu.RUnlock()

	if len(caches) == 0 {
		return ErrNoWarmUp
	}
	// 固定顺序，日志与聚合错误可复现
	sort.Strings(caches)

	var errs []error
	for _, cache := range caches {
		if err := m.WarmUpForTenant(ctx, cache, tenantID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cache, err))
		}
	}
	return errors.Join(errs...)
}

// ScheduleWarmUp 按 cron 表达式周期性地为一批租户预热指定缓存。
//
// spec 支持标准 5 字段表达式和 "@every 10m" 等描述符。
// 返回的 EntryID 可用于 RemoveSchedule。
// 任务在 StartScheduler 调用后才会开始执行。
func (m *Manager) ScheduleWarmUp(spec, cache string, lister TenantLister) (cron.EntryID, error) {
	if err := validateCacheName(cache); err != nil {
		return 0, err
	}
	if lister == nil {
		return 0, ErrNilWarmUp
	}

	id, err := m.cron.AddFunc(spec, func() {
		m.runScheduledWarmUp(cache, lister)
	})
	if err != nil {
		return 0, fmt.Errorf("xtcache: schedule warm-up: %w", err)
	}
	return id, nil
}

// runScheduledWarmUp 执行一轮计划预热。
// 单个租户的失败只记录日志，不中断其余租户。
func (m *Manager) runScheduledWarmUp(cache string, lister TenantLister) {
	ctx := context.Background()

	tenants, err := lister(ctx)
	if err != nil {
		m.logger.Error("list tenants for scheduled warm-up failed",
			slog.String("cache", cache),
			slog.String("error", err.Error()),
		)
		return
	}

	for _, tenantID := range tenants {
		if err := m.WarmUpForTenant(ctx, cache, tenantID); err != nil {
			m.logger.Warn("scheduled warm-up failed",
				slog.String("cache", cache),
				slog.String("tenant_id", tenantID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// RemoveSchedule 移除计划预热任务。
func (m *Manager) RemoveSchedule(id cron.EntryID) {
	m.cron.Remove(id)
}

// StartScheduler 启动预热调度器（非阻塞）。重复调用无效果。
func (m *Manager) StartScheduler() {
	m.cron.Start()
}

// StopScheduler 停止预热调度器。
// 返回的 context 在所有运行中的预热任务完成后 Done。
func (m *Manager) StopScheduler() context.Context {
	return m.cron.Stop()
}

// =============================================================================
// 指标与健康
// =============================================================================

// MetricsForTenant 返回租户的缓存指标快照。
func (m *Manager) MetricsForTenant(tenantID uuid.UUID) Metrics {
	return m.metrics.snapshot(tenantID)
}

// HealthForTenant 返回租户的缓存健康报告。
func (m *Manager) HealthForTenant(tenantID uuid.UUID) Health {
	return healthOf(m.metrics.snapshot(tenantID))
}

// Tenants 返回当前有缓存活动记录的租户列表。
func (m *Manager) Tenants() []uuid.UUID {
	return m.metrics.tenants()
}

// ValidateIntegrityForTenant 检查租户在指定逻辑缓存下的条目。
//
// 支持键枚举的存储返回实际条目数；不支持的存储（进程内）
// 返回 Verified = false 的报告，不视为错误。
func (m *Manager) ValidateIntegrityForTenant(
	ctx context.Context,
	cache string,
	tenantID uuid.UUID,
) (IntegrityReport, error) {
	if m.closed.Load() {
		return IntegrityReport{}, ErrClosed
	}

	report := IntegrityReport{
		TenantID: tenantID,
		Cache:    cache,
		Precise:  m.store.Precise(),
	}

	keys, err := m.store.Keys(ctx, cache, tenantID)
	if errors.Is(err, ErrKeysUnsupported) {
		return report, nil
	}
	if err != nil {
		return report, err
	}

	report.Keys = len(keys)
	report.Verified = true
	return report, nil
}

// =============================================================================
// 生命周期
// =============================================================================

// Close 停止调度器并等待运行中的预热任务完成。
// 不关闭底层 Store。
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	<-m.cron.Stop().Done()
	return nil
}

// =============================================================================
// 内部辅助
// =============================================================================

// currentTenant 提取当前租户，并检查管理器状态。
func (m *Manager) currentTenant(ctx context.Context) (xtenant.Context, error) {
	if m.closed.Load() {
		return xtenant.Context{}, ErrClosed
	}
	tc, ok := xtenant.FromContext(ctx)
	if !ok {
		return xtenant.Context{}, xtenant.ErrNoTenantContext
	}
	return tc, nil
}

// startSpan 开始一次缓存操作观测。
func (m *Manager) startSpan(
	ctx context.Context,
	operation, cache string,
	tenantID uuid.UUID,
) (context.Context, xmetrics.Span) {
	return xmetrics.Start(ctx, m.observer, xmetrics.SpanOptions{
		Component: MetricsComponent,
		Operation: operation,
		Attrs: []xmetrics.Attr{
			xmetrics.String(MetricsAttrCache, cache),
			xmetrics.String(MetricsAttrTenantID, tenantID.String()),
		},
	})
}

// ignoreMiss 将缓存未命中从观测错误中剔除。
// 未命中是正常路径，按错误计量会污染错误率指标。
func ignoreMiss(err error) error {
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}
