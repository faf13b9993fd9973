package xguard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// =============================================================================
// 配置错误
// =============================================================================

var (
	// ErrNilService 表示租户上下文服务为 nil。
	ErrNilService = errors.New("xguard: nil tenant service")

	// ErrNilRedisClient 表示 Redis 客户端为 nil。
	ErrNilRedisClient = errors.New("xguard: nil redis client")

	// ErrEmptyStream 表示审计流名称为空。
	ErrEmptyStream = errors.New("xguard: empty audit stream name")

	// ErrNoDeclaration 表示组件/操作没有注册任何守卫声明。
	ErrNoDeclaration = errors.New("xguard: no declaration registered")

	// ErrUnknownMode 表示声明中的校验模式未知。
	ErrUnknownMode = errors.New("xguard: unknown validation mode")
)

// =============================================================================
// 访问校验错误
// =============================================================================

var (
	// ErrNoTenantContext 表示需要租户上下文但当前没有激活的上下文。
	// 上下文存在性不可协商：此失败不受 SoftFail 降级影响。
	ErrNoTenantContext = errors.New("xguard: no tenant context")

	// ErrTenantMismatch 表示声明的租户 ID 参数与当前租户不一致。
	ErrTenantMismatch = errors.New("xguard: tenant id mismatch")

	// ErrNotTenantAware 表示参数未实现 xtenant.Aware 能力。
	ErrNotTenantAware = errors.New("xguard: argument is not tenant-aware")

	// ErrCrossTenantAccess 表示实体/集合归属于另一个租户。
	ErrCrossTenantAccess = errors.New("xguard: cross-tenant access denied")

	// ErrInactiveTenant 表示对已停用租户尝试写/删除操作。
	ErrInactiveTenant = errors.New("xguard: tenant is inactive")
)

// =============================================================================
// 参数解析错误
// =============================================================================

var (
	// ErrMissingParam 表示声明引用的参数在 Args 中不存在。
	ErrMissingParam = errors.New("xguard: missing declared parameter")

	// ErrInvalidParamType 表示参数类型不符合声明的模式要求。
	ErrInvalidParamType = errors.New("xguard: invalid parameter type")

	// ErrNoOwnerResolver 表示 ModeValidateEntityIDs 需要 OwnerResolver
	// 但未配置。按 fail-closed 处理：没有归属查询能力时不放行。
	ErrNoOwnerResolver = errors.New("xguard: no owner resolver configured")
)

// =============================================================================
// AccessError
// =============================================================================

// AccessError 携带声明上下文的访问拒绝错误。
//
// Unwrap 返回底层错误（包装上方的哨兵），errors.Is(err, ErrTenantMismatch)
// 等判断可直接使用。
type AccessError struct {
	// Err 底层错误，包装哨兵错误。
	Err error

	// Mode 失败的校验模式。
	Mode Mode

	// Component 守卫操作所属组件（可为空）。
	Component string

	// Operation 守卫操作名（可为空）。
	Operation string

	// ResourceType 资源类型（来自声明，可为空）。
	ResourceType string

	// TenantID 校验时的当前租户；上下文缺失时为零值。
	TenantID uuid.UUID

	// Message 声明中的自定义消息；为空时使用生成的描述。
	Message string
}

func (e *AccessError) Error() string {
	// 自定义消息补上包前缀；底层错误已自带前缀，直接使用。
	msg := e.Err.Error()
	if e.Message != "" {
		msg = "xguard: " + e.Message
	}
	if e.Component != "" || e.Operation != "" {
		return fmt.Sprintf("%s [mode=%s component=%s operation=%s]", msg, e.Mode, e.Component, e.Operation)
	}
	return fmt.Sprintf("%s [mode=%s]", msg, e.Mode)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
