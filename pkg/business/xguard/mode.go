package xguard

import "strconv"

// Mode 守卫操作的校验模式。
type Mode int

const (
	// ModeRequireContext 要求存在租户上下文；
	// 声明 ValidateTenantStatus 时还要求租户处于激活状态。
	ModeRequireContext Mode = iota

	// ModeValidateTenantID 要求命名参数（UUID 或 UUID 字符串）等于当前租户。
	ModeValidateTenantID

	// ModeValidateEntityTenant 要求命名参数实现 xtenant.Aware
	// 且 AccessibleBy(当前租户) 为 true。
	ModeValidateEntityTenant

	// ModeValidateEntityIDs 要求命名集合参数中的每个 ID 都归属于当前租户
	// （通过 OwnerResolver 做仓储级归属查询）。
	ModeValidateEntityIDs

	// ModeReadAccess 等价于 ModeRequireContext。
	ModeReadAccess

	// ModeWriteAccess 要求租户上下文且租户处于激活状态。
	ModeWriteAccess

	// ModeDeleteAccess 要求租户上下文且租户处于激活状态。
	ModeDeleteAccess

	// ModeCustom 仅要求租户上下文，随后执行声明中的 Custom 检查函数。
	ModeCustom
)

// String 返回模式的可读表示，用于日志和审计记录。
func (m Mode) String() string {
	switch m {
	case ModeRequireContext:
		return "REQUIRE_CONTEXT"
	case ModeValidateTenantID:
		return "VALIDATE_TENANT_ID"
	case ModeValidateEntityTenant:
		return "VALIDATE_ENTITY_TENANT"
	case ModeValidateEntityIDs:
		return "VALIDATE_ENTITY_IDS"
	case ModeReadAccess:
		return "READ_ACCESS"
	case ModeWriteAccess:
		return "WRITE_ACCESS"
	case ModeDeleteAccess:
		return "DELETE_ACCESS"
	case ModeCustom:
		return "CUSTOM"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}
