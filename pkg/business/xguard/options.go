package xguard

import (
	"log/slog"

	"github.com/omeyang/tenantkit/pkg/observability/xmetrics"
)

// =============================================================================
// Options 结构
// =============================================================================

// Options 定义 Validator 的可选配置。
type Options struct {
	// Logger 日志记录器。
	// 如果不设置，使用 slog.Default()。
	Logger *slog.Logger

	// Observer 可观测性接口。
	Observer xmetrics.Observer

	// Registry 声明注册表。
	// 如果不设置，创建一个空注册表。
	Registry *Registry

	// Resolver 仓储级归属查询，ModeValidateEntityIDs 必需。
	// 未配置时该模式 fail-closed（ErrNoOwnerResolver）。
	Resolver OwnerResolver

	// Sink 审计记录写入端。
	// 如果不设置，使用基于 Logger 的 slog Sink。
	Sink Sink
}

// Option 定义配置 Validator 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认的 Options。
func defaultOptions() *Options {
	return &Options{
		Logger:   slog.Default(),
		Observer: xmetrics.NoopObserver{},
		Registry: NewRegistry(),
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

// WithObserver 设置可观测性接口。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *Options) {
		if observer != nil {
			o.Observer = observer
		}
	}
}

// WithRegistry 设置声明注册表。
// 适用于多个校验器共享一份声明的场景。
func WithRegistry(registry *Registry) Option {
	return func(o *Options) {
		if registry != nil {
			o.Registry = registry
		}
	}
}

// WithOwnerResolver 设置仓储级归属查询。
func WithOwnerResolver(resolver OwnerResolver) Option {
	return func(o *Options) {
		if resolver != nil {
			o.Resolver = resolver
		}
	}
}

// WithSink 设置审计记录写入端。
func WithSink(sink Sink) Option {
	return func(o *Options) {
		if sink != nil {
			o.Sink = sink
		}
	}
}
