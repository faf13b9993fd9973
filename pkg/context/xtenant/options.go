package xtenant

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Options 结构
// =============================================================================

// Options 定义 Service 的可选配置。
type Options struct {
	// Logger 日志记录器。
	// 如果不设置，使用 slog.Default()。
	Logger *slog.Logger

	// SystemTenantID 系统租户 ID。
	// 默认为 DefaultSystemTenantID。
	SystemTenantID uuid.UUID

	// StatusTimeout 租户状态查询超时。
	// 悬挂的状态查询不得无限阻塞写操作，默认 5 秒。
	StatusTimeout time.Duration
}

// Option 定义配置 Service 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认的 Options。
func defaultOptions() *Options {
	return &Options{
		Logger:         slog.Default(),
		SystemTenantID: DefaultSystemTenantID,
		StatusTimeout:  5 * time.Second,
	}
}

// applyOptions 应用所有 Option。
func applyOptions(opts []Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// =============================================================================
// Option 函数
// =============================================================================

// WithLogger 设置日志记录器。
// 传入 nil 时使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithSystemTenantID 设置系统租户 ID。
// 零值 UUID 会被忽略（保留默认值）。
func WithSystemTenantID(id uuid.UUID) Option {
	return func(o *Options) {
		if id != uuid.Nil {
			o.SystemTenantID = id
		}
	}
}

// WithStatusTimeout 设置租户状态查询超时。
func WithStatusTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.StatusTimeout = d
		}
	}
}
