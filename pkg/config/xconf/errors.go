package xconf

import "errors"

// 配置加载和解析相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 表示配置加载失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 表示配置反序列化失败。
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrNotReloadable 表示从字节数据创建的配置不支持重载和监视。
	ErrNotReloadable = errors.New("xconf: config created from bytes cannot be reloaded")
)

// Settings 校验相关错误。
var (
	// ErrInvalidSystemTenant 表示 system_tenant_id 不是合法的非零 UUID。
	ErrInvalidSystemTenant = errors.New("xconf: invalid system_tenant_id")

	// ErrMissingStatusHost 表示未配置租户状态服务地址。
	ErrMissingStatusHost = errors.New("xconf: status.host is required")

	// ErrInvalidCacheName 表示缓存名为空或包含保留字符 ':'。
	ErrInvalidCacheName = errors.New("xconf: invalid cache name")

	// ErrInvalidSchedule 表示预热调度表达式不是合法的 cron 表达式。
	ErrInvalidSchedule = errors.New("xconf: invalid warmup_schedule")
)
