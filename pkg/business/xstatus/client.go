package xstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
	"github.com/omeyang/tenantkit/pkg/observability/xmetrics"
)

// maxResponseSize 最大响应体大小（1MB）。
// 状态响应只有一个布尔字段，超出此限制说明响应异常。
const maxResponseSize = 1 * 1024 * 1024

// 观测常量。
const (
	// MetricsComponent 组件名称。
	MetricsComponent = "xstatus"

	// MetricsOpLookup 状态查询操作。
	MetricsOpLookup = "status_lookup"

	// MetricsAttrTenantID 租户 ID 属性。
	MetricsAttrTenantID = "tenant_id"

	// MetricsAttrCacheHit 缓存命中属性。
	MetricsAttrCacheHit = "cache_hit"
)

// 确保 *Client 实现 StatusChecker 接口
var _ xtenant.StatusChecker = (*Client)(nil)

// =============================================================================
// Client 租户状态查询客户端
// =============================================================================

// Client 通过 HTTP 查询租户管理服务获取租户启停状态。
//
// 查询路径：缓存 -> singleflight -> 熔断 + 重试 -> 远程 API。
type Client struct {
	http     *http.Client
	host     string
	logger   *slog.Logger
	observer xmetrics.Observer

	maxAttempts int
	retryDelay  time.Duration

	// cache 为 nil 时表示禁用本地缓存（CacheTTL < 0）。
	cache   *expirable.LRU[uuid.UUID, bool]
	sf      singleflight.Group
	breaker *gobreaker.CircuitBreaker[bool]
}

// NewClient 创建租户状态查询客户端。
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	var cache *expirable.LRU[uuid.UUID, bool]
	if cfg.CacheTTL > 0 {
		cache = expirable.NewLRU[uuid.UUID, bool](cfg.CacheSize, nil, cfg.CacheTTL)
	}

	// 设计决策: ErrTenantUnknown 和 ErrStatusRejected 不计入熔断失败——
	// 服务明确应答了请求，说明服务本身是健康的。
	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "xstatus",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrTenantUnknown) || errors.Is(err, ErrStatusRejected)
		},
	})

	return &Client{
		http:        httpClient,
		host:        cfg.Host,
		logger:      cfg.Logger,
		observer:    cfg.Observer,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		cache:       cache,
		breaker:     breaker,
	}, nil
}

// IsActive 查询租户是否处于激活状态。
//
// 缓存命中时不触发网络请求。未命中时同一租户的并发查询
// 通过 singleflight 合并为一次远程调用。
func (c *Client) IsActive(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	ctx, span := xmetrics.Start(ctx, c.observer, xmetrics.SpanOptions{
		Component: MetricsComponent,
		Operation: MetricsOpLookup,
		Attrs: []xmetrics.Attr{
			xmetrics.String(MetricsAttrTenantID, tenantID.String()),
		},
	})

	if c.cache != nil {
		if active, ok := c.cache.Get(tenantID); ok {
			span.End(xmetrics.Result{Attrs: []xmetrics.Attr{
				xmetrics.Bool(MetricsAttrCacheHit, true),
			}})
			return active, nil
		}
	}

	active, err := c.lookup(ctx, tenantID)
	span.End(xmetrics.Result{
		Err:   err,
		Attrs: []xmetrics.Attr{xmetrics.Bool(MetricsAttrCacheHit, false)},
	})
	return active, err
}

// lookup 执行未命中缓存的查询，合并并发请求并回填缓存。
//
// 设计决策: singleflight.Do 使用第一个调用方的 ctx 发起请求，后续
// 调用共享结果。若首个 ctx 被取消，所有等待者均收到错误。对状态
// 查询场景可接受——请求超时一致，且调用方会在下次校验时重新查询。
func (c *Client) lookup(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	result, err, _ := c.sf.Do(tenantID.String(), func() (any, error) {
		active, fetchErr := c.fetchWithRetry(ctx, tenantID)
		if fetchErr != nil {
			return false, fetchErr
		}
		if c.cache != nil {
			c.cache.Add(tenantID, active)
		}
		return active, nil
	})
	if err != nil {
		return false, err
	}

	active, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("xstatus: unexpected result type from singleflight")
	}
	return active, nil
}

// fetchWithRetry 带重试和熔断地执行远程查询。
//
// 重试在外、熔断在内：熔断开启后的快速失败不属于 ErrStatusUnavailable
// 包装的传输错误，不会被重试，避免对着打开的熔断器空转。
func (c *Client) fetchWithRetry(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	active, err := retry.NewWithData[bool](
		retry.Context(ctx),
		retry.Attempts(uintAttempts(c.maxAttempts)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrStatusUnavailable)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("tenant status lookup retry",
				slog.String("tenant_id", tenantID.String()),
				slog.Uint64("attempt", uint64(n)+1),
				slog.String("error", err.Error()),
			)
		}),
	).Do(func() (bool, error) {
		return c.breaker.Execute(func() (bool, error) {
			return c.fetchOnce(ctx, tenantID)
		})
	})

	if err != nil {
		// 熔断器自身的错误归一化为服务不可用
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
		}
		return false, err
	}
	return active, nil
}

// statusResponse 租户状态响应体。
type statusResponse struct {
	Active bool `json:"active"`
}

// fetchOnce 执行一次远程状态查询。
func (c *Client) fetchOnce(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	url := c.host + fmt.Sprintf(PathTenantStatus, tenantID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("xstatus: create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStatusUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // Close 错误无法传播，通常可忽略

	return c.handleResponse(resp, tenantID)
}

// handleResponse 处理状态查询响应。
func (c *Client) handleResponse(resp *http.Response, tenantID uuid.UUID) (bool, error) {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: %s", ErrTenantUnknown, tenantID)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// 404 之外的 4xx 是请求自身的问题，重试无意义
		return false, fmt.Errorf("%w: status %d", ErrStatusRejected, resp.StatusCode)
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("%w: unexpected status %d", ErrStatusUnavailable, resp.StatusCode)
	}

	// 多读取 1 字节用于检测截断
	lr := &io.LimitedReader{R: resp.Body, N: maxResponseSize + 1}
	body, err := io.ReadAll(lr)
	if err != nil {
		return false, fmt.Errorf("%w: read response body: %w", ErrStatusUnavailable, err)
	}
	if len(body) > maxResponseSize {
		return false, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, maxResponseSize)
	}

	var status statusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return false, fmt.Errorf("%w: unmarshal response: %w", ErrStatusUnavailable, err)
	}
	return status.Active, nil
}

// Invalidate 使指定租户的本地缓存失效。
// 租户被停用后调用此方法可立即生效，无需等待 TTL 过期。
func (c *Client) Invalidate(tenantID uuid.UUID) {
	if c.cache != nil {
		c.cache.Remove(tenantID)
	}
}

// PurgeCache 清空本地缓存。
func (c *Client) PurgeCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// BreakerState 返回熔断器当前状态，用于健康检查和调试。
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// uintAttempts 将尝试次数安全转换为 retry-go 的 uint 参数。
func uintAttempts(n int) uint {
	if n <= 0 {
		return 1
	}
	return uint(n)
}
