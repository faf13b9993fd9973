package xguard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// 声明
// =============================================================================

// Args 守卫操作的命名参数。
//
// 租户 ID 参数接受 uuid.UUID 或 UUID 字符串；实体参数须实现
// xtenant.Aware；ID 集合参数接受 []uuid.UUID 或 []string。
type Args map[string]any

// CheckFunc 自定义检查函数（ModeCustom 的扩展点）。
// 返回非 nil 错误表示校验失败。
type CheckFunc func(ctx context.Context, args Args) error

// OwnerResolver 仓储级归属查询。
//
// ModeValidateEntityIDs 用它解析集合中每个 ID 的归属租户。
// 未配置 OwnerResolver 时该模式按 fail-closed 处理（ErrNoOwnerResolver）。
type OwnerResolver interface {
	// ResolveOwner 返回给定记录 ID 的归属租户 ID。
	ResolveOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OwnerResolverFunc 函数适配器。
type OwnerResolverFunc func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

// ResolveOwner 实现 OwnerResolver。
func (f OwnerResolverFunc) ResolveOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return f(ctx, id)
}

// Declaration 附着在守卫操作上的校验声明。
//
// 声明一次、按值传递，约定为不可变；同一声明可被任意多次 Check 复用。
type Declaration struct {
	// Mode 校验模式。
	Mode Mode

	// TenantIDParam ModeValidateTenantID 检查的参数名。
	TenantIDParam string

	// EntityParam ModeValidateEntityTenant 检查的参数名。
	EntityParam string

	// EntityIDsParam ModeValidateEntityIDs 检查的集合参数名。
	EntityIDsParam string

	// AllowSystemTenant 允许系统租户短路通过本次调用的所有检查。
	// 必须按操作显式声明，绝不隐式全局生效。
	AllowSystemTenant bool

	// ValidateTenantStatus 在 ModeRequireContext / ModeReadAccess 下
	// 额外要求租户处于激活状态（写/删除模式始终校验状态，不受此开关影响）。
	ValidateTenantStatus bool

	// SoftFail 失败转为 Warn 日志并放行（显式的不安全降级，默认 false 即
	// fail-fast）。上下文缺失不受 SoftFail 影响。
	SoftFail bool

	// Audit 每次校验写入审计记录（无论成败）。
	Audit bool

	// Message 自定义失败消息；为空时使用生成的描述。
	Message string

	// ResourceType 资源类型标签，进入错误与审计记录。
	ResourceType string

	// Operation 操作标签，进入审计记录（经 Registry 解析时自动填充）。
	Operation string

	// Custom ModeCustom 的检查函数。
	Custom CheckFunc
}

// =============================================================================
// Registry：组件级默认 + 操作级覆盖
// =============================================================================

// Registry 守卫声明注册表。
//
// 优先级：操作级声明完整胜出（不与组件级合并）；都不存在时
// 解析失败。这是注解式"类级默认、方法级覆盖"的显式化。
type Registry struct {
	mu         sync.RWMutex
	components map[string]Declaration
	operations map[string]Declaration
}

// NewRegistry 创建空的注册表。
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]Declaration),
		operations: make(map[string]Declaration),
	}
}

// SetComponent 注册组件级默认声明。
func (r *Registry) SetComponent(component string, decl Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[component] = decl
}

// SetOperation 注册操作级声明（完整覆盖组件级默认）。
func (r *Registry) SetOperation(component, operation string, decl Declaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[operationKey(component, operation)] = decl
}

// Resolve 解析组件+操作对应的声明。
// 操作级存在时返回操作级；否则返回组件级；都不存在时 ok 为 false。
func (r *Registry) Resolve(component, operation string) (Declaration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if decl, ok := r.operations[operationKey(component, operation)]; ok {
		return decl, true
	}
	decl, ok := r.components[component]
	return decl, ok
}

func operationKey(component, operation string) string {
	return component + "." + operation
}
