package xtenant

import "errors"

// =============================================================================
// 通用错误
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xtenant: nil context")

	// ErrNilStatusChecker 表示租户状态查询协作方为 nil。
	ErrNilStatusChecker = errors.New("xtenant: nil status checker")

	// ErrNilWork 表示传入的工作函数为 nil。
	ErrNilWork = errors.New("xtenant: nil work function")
)

// =============================================================================
// 租户上下文错误
// =============================================================================

var (
	// ErrNoTenantContext 表示当前工作单元没有激活的租户上下文。
	// 上下文缺失对需要租户的操作始终是硬失败，不存在隐式默认租户。
	ErrNoTenantContext = errors.New("xtenant: no tenant context")

	// ErrInvalidTenantID 表示租户 ID 非法（零值 UUID）。
	// 零值 UUID 无法区分"未设置"和"设置为零"，在入口处 fail-fast。
	ErrInvalidTenantID = errors.New("xtenant: invalid tenant id")
)

// =============================================================================
// 状态查询错误
// =============================================================================

var (
	// ErrStatusLookup 表示租户状态查询失败（协作方不可用或超时）。
	// 查询失败被视为 ValidateCurrentTenantAccess 的失败，不会被静默忽略。
	ErrStatusLookup = errors.New("xtenant: tenant status lookup failed")
)
