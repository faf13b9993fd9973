package xstatus

import "errors"

// =============================================================================
// 配置错误
// =============================================================================

var (
	// ErrMissingHost 表示未配置租户管理服务地址。
	ErrMissingHost = errors.New("xstatus: host is required")

	// ErrInvalidHost 表示 Host 不是合法的 http(s) URL。
	ErrInvalidHost = errors.New("xstatus: host must be a valid http(s) URL")

	// ErrInsecureHost 表示在未启用 AllowInsecure 时使用了 http:// 地址。
	ErrInsecureHost = errors.New("xstatus: http host requires AllowInsecure")
)

// =============================================================================
// 查询错误
// =============================================================================

var (
	// ErrTenantUnknown 表示租户管理服务不认识该租户。
	// 这是永久性错误，不会触发重试。
	ErrTenantUnknown = errors.New("xstatus: tenant unknown")

	// ErrStatusUnavailable 表示租户状态服务暂时不可用。
	// 包括网络失败、5xx 响应和熔断开启等情况。
	ErrStatusUnavailable = errors.New("xstatus: tenant status service unavailable")

	// ErrStatusRejected 表示租户状态服务拒绝了请求（404 之外的 4xx）。
	// 这是永久性错误，不会触发重试：请求本身有问题（鉴权、路径、参数），
	// 重发同样的请求不会得到不同结果。
	ErrStatusRejected = errors.New("xstatus: tenant status request rejected")

	// ErrResponseTooLarge 表示响应体超出大小限制。
	ErrResponseTooLarge = errors.New("xstatus: response body too large")
)
