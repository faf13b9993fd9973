package xtenant

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// Context Key 类型定义
// =============================================================================

// 设计决策: contextKey 使用 string 而非 int+iota：
//   - 包私有类型不会与其他包的 context key 冲突（Go context 比较包含类型信息）
//   - 字符串值在调试时可读性高，便于排查上下文传播问题
type contextKey string

const keyTenant = contextKey("xtenant:tenant")

// =============================================================================
// 租户上下文值
// =============================================================================

// Context 租户上下文。
//
// 一条 context 链上同一时刻恰有一个激活的 Context；嵌套作用域通过
// 派生新的 context 临时遮蔽外层值，绝不原地修改。
type Context struct {
	// TenantID 激活的租户 ID。
	TenantID uuid.UUID

	// System 标记当前上下文是否为特权系统租户。
	// 是否允许系统租户绕过校验由守卫声明按操作决定，此处只记录事实。
	System bool
}

// =============================================================================
// 注入函数
// =============================================================================

// WithTenant 将租户 ID 注入 context，返回携带新租户上下文的派生 context。
//
// 外层 context 不受影响：调用方继续持有原 context 即保留原有租户。
// 如果 ctx 为 nil 返回 ErrNilContext，tenantID 为零值返回 ErrInvalidTenantID。
func WithTenant(ctx context.Context, tenantID uuid.UUID) (context.Context, error) {
	return WithTenantContext(ctx, Context{TenantID: tenantID})
}

// WithTenantContext 将完整的租户上下文值注入 context。
//
// 一般业务代码使用 WithTenant 即可；需要显式标记系统租户时
// 使用 Service.WithSystemTenant。
func WithTenantContext(ctx context.Context, tc Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if tc.TenantID == uuid.Nil {
		return nil, ErrInvalidTenantID
	}
	return context.WithValue(ctx, keyTenant, tc), nil
}

// =============================================================================
// 提取函数
// =============================================================================

// FromContext 提取原始租户上下文值。
// 第二个返回值为 false 表示当前 context 链上没有激活的租户。
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	tc, ok := ctx.Value(keyTenant).(Context)
	return tc, ok
}

// CurrentTenant 获取当前激活的租户 ID。
//
// 语义：值必须存在，缺失时返回 ErrNoTenantContext，由调用方决策。
// 如果 ctx 为 nil，返回 ErrNilContext。
func CurrentTenant(ctx context.Context) (uuid.UUID, error) {
	if ctx == nil {
		return uuid.Nil, ErrNilContext
	}
	tc, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNoTenantContext
	}
	return tc.TenantID, nil
}

// HasTenant 判断当前是否存在激活的租户上下文（不返回错误的探测入口）。
func HasTenant(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

// IsSystemTenant 判断当前上下文是否为系统租户。
// 上下文缺失时返回 false。
func IsSystemTenant(ctx context.Context) bool {
	tc, ok := FromContext(ctx)
	return ok && tc.System
}
