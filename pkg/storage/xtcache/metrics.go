package xtcache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// 按租户指标
// =============================================================================

// Metrics 是某个租户缓存指标的一致性快照。
type Metrics struct {
	TenantID    uuid.UUID
	Hits        int64
	Misses      int64
	Evictions   int64
	Preloads    int64
	Errors      int64
	LastUpdated time.Time
}

// Lookups 返回总查询次数。
func (m Metrics) Lookups() int64 {
	return m.Hits + m.Misses
}

// HitRatio 返回命中率，无查询时返回 0。
func (m Metrics) HitRatio() float64 {
	total := m.Lookups()
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// tenantCounters 单个租户的原子计数器。
type tenantCounters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	preloads    atomic.Int64
	errors      atomic.Int64
	lastUpdated atomic.Int64 // UnixNano，0 表示从未更新
}

func (c *tenantCounters) touch() {
	c.lastUpdated.Store(time.Now().UnixNano())
}

// metricsRegistry 维护所有租户的计数器。
type metricsRegistry struct {
	counters sync.Map // uuid.UUID -> *tenantCounters
}

// forTenant 返回租户的计数器，首次访问时创建。
func (r *metricsRegistry) forTenant(tenantID uuid.UUID) *tenantCounters {
	if c, ok := r.counters.Load(tenantID); ok {
		return c.(*tenantCounters)
	}
	c, _ := r.counters.LoadOrStore(tenantID, &tenantCounters{})
	return c.(*tenantCounters)
}

// snapshot 返回租户指标快照。从未活动的租户返回零值快照。
func (r *metricsRegistry) snapshot(tenantID uuid.UUID) Metrics {
	m := Metrics{TenantID: tenantID}
	c, ok := r.counters.Load(tenantID)
	if !ok {
		return m
	}

	counters := c.(*tenantCounters)
	m.Hits = counters.hits.Load()
	m.Misses = counters.misses.Load()
	m.Evictions = counters.evictions.Load()
	m.Preloads = counters.preloads.Load()
	m.Errors = counters.errors.Load()
	if nano := counters.lastUpdated.Load(); nano > 0 {
		m.LastUpdated = time.Unix(0, nano)
	}
	return m
}

// reset 清除租户的所有计数器。
// 租户下线淘汰缓存后调用，避免旧指标影响重新上线后的健康评估。
func (r *metricsRegistry) reset(tenantID uuid.UUID) {
	r.counters.Delete(tenantID)
}

// tenants 返回当前有计数器的租户列表。
func (r *metricsRegistry) tenants() []uuid.UUID {
	var ids []uuid.UUID
	r.counters.Range(func(key, _ any) bool {
		ids = append(ids, key.(uuid.UUID))
		return true
	})
	return ids
}

// =============================================================================
// 健康评估
// =============================================================================

// HealthLevel 表示租户缓存健康等级。
type HealthLevel string

const (
	// HealthExcellent 命中率 > 0.8。
	HealthExcellent HealthLevel = "excellent"
	// HealthGood 命中率 > 0.6。
	HealthGood HealthLevel = "good"
	// HealthFair 命中率 > 0.4。
	HealthFair HealthLevel = "fair"
	// HealthPoor 命中率 <= 0.4。
	HealthPoor HealthLevel = "poor"
	// HealthUnknown 样本不足，无法评估。
	HealthUnknown HealthLevel = "unknown"
)

// MinHealthSamples 健康评估所需的最小查询样本数。
// 样本过少时命中率波动剧烈，评估结果没有意义。
const MinHealthSamples = 10

// Health 是某个租户的缓存健康报告。
type Health struct {
	TenantID  uuid.UUID
	Level     HealthLevel
	HitRatio  float64
	Lookups   int64
	Evictions int64
	Errors    int64
}

// healthOf 根据指标快照评估健康等级。
func healthOf(m Metrics) Health {
	h := Health{
		TenantID:  m.TenantID,
		HitRatio:  m.HitRatio(),
		Lookups:   m.Lookups(),
		Evictions: m.Evictions,
		Errors:    m.Errors,
	}

	switch ratio := h.HitRatio; {
	case h.Lookups < MinHealthSamples:
		h.Level = HealthUnknown
	case ratio > 0.8:
		h.Level = HealthExcellent
	case ratio > 0.6:
		h.Level = HealthGood
	case ratio > 0.4:
		h.Level = HealthFair
	default:
		h.Level = HealthPoor
	}
	return h
}
