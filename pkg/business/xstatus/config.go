package xstatus

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/omeyang/tenantkit/pkg/observability/xmetrics"
)

// =============================================================================
// 默认值
// =============================================================================

const (
	// DefaultTimeout 默认单次请求超时时间。
	DefaultTimeout = 5 * time.Second

	// DefaultCacheTTL 默认本地缓存 TTL。
	// 租户启停是低频操作，30 秒内的陈旧状态可以接受。
	DefaultCacheTTL = 30 * time.Second

	// DefaultCacheSize 默认本地缓存最大条目数。
	DefaultCacheSize = 4096

	// DefaultMaxAttempts 默认最大尝试次数（首次 + 2 次重试）。
	DefaultMaxAttempts = 3

	// DefaultRetryDelay 默认重试基础延迟（指数退避的起点）。
	DefaultRetryDelay = 100 * time.Millisecond

	// DefaultBreakerTimeout 熔断器从 Open 恢复到 HalfOpen 的默认时间。
	DefaultBreakerTimeout = 30 * time.Second

	// DefaultBreakerFailures 触发熔断的默认连续失败次数。
	DefaultBreakerFailures = 5
)

// PathTenantStatus 租户状态查询路径模板，%s 为租户 ID。
const PathTenantStatus = "/api/v1/tenants/%s/status"

// =============================================================================
// Config 配置结构
// =============================================================================

// Config 定义 xstatus 客户端配置。
type Config struct {
	// Host 租户管理服务地址（必填）。
	// 必须使用 https:// 前缀，除非显式设置 AllowInsecure = true。
	// 例如：https://tenants.example.com
	Host string

	// AllowInsecure 允许使用 http:// 非加密连接。
	// 仅在开发/测试环境中启用此选项。
	AllowInsecure bool

	// Timeout 单次请求超时时间。
	// 默认 5 秒。
	Timeout time.Duration

	// CacheTTL 本地缓存 TTL。
	// 默认 30 秒。设置为负值禁用本地缓存。
	CacheTTL time.Duration

	// CacheSize 本地缓存最大条目数。
	// 默认 4096。
	CacheSize int

	// MaxAttempts 最大尝试次数（包含首次请求）。
	// 默认 3。
	MaxAttempts int

	// RetryDelay 重试基础延迟，按指数退避递增。
	// 默认 100ms。
	RetryDelay time.Duration

	// BreakerTimeout 熔断器从 Open 恢复到 HalfOpen 的时间。
	// 默认 30 秒。
	BreakerTimeout time.Duration

	// BreakerFailures 触发熔断的连续失败次数。
	// 默认 5。
	BreakerFailures uint32

	// Client 自定义 HTTP 客户端。
	// 如果设置，Timeout 仅用于观测，不再注入 http.Client。
	Client *http.Client

	// Logger 日志器。为 nil 时使用 slog.Default()。
	Logger *slog.Logger

	// Observer 可观测性接口。为 nil 时不记录指标。
	Observer xmetrics.Observer
}

// Validate 验证配置有效性。
func (c *Config) Validate() error {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		return ErrMissingHost
	}

	// 无 scheme 的地址在拼接 API 路径后无法正确请求，
	// fail-fast 在配置阶段暴露问题，而非在运行期请求失败。
	u, err := url.Parse(host)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidHost
	}

	if !c.AllowInsecure && u.Scheme != "https" {
		return ErrInsecureHost
	}

	return nil
}

// ApplyDefaults 应用默认值。
func (c *Config) ApplyDefaults() {
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = DefaultBreakerTimeout
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = DefaultBreakerFailures
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Observer == nil {
		c.Observer = xmetrics.NoopObserver{}
	}
}
