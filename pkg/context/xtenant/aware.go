package xtenant

import "github.com/google/uuid"

// =============================================================================
// Tenant-Aware 能力
// =============================================================================

// Aware 领域实体的租户归属能力。
//
// 被守卫操作当作参数传递的实体需要实现此接口，xguard 的
// ModeValidateEntityTenant 依赖它回答"给定租户可否访问此记录"。
//
// 不变量：AccessibleBy(t) 为 true 当且仅当 t 等于归属租户。
// 系统租户绕过不在实体层表达——它必须由守卫声明按操作显式允许，
// 在实体层内置绕过会让隔离被静默击穿。
type Aware interface {
	// OwnerTenantID 返回记录的归属租户 ID。
	OwnerTenantID() uuid.UUID

	// AccessibleBy 回答给定租户是否可以访问此记录。
	AccessibleBy(tenantID uuid.UUID) bool
}

// Owned 可嵌入的租户归属字段。
//
// 领域实体嵌入 Owned 即获得 Aware 能力：
//
//	type WorkOrder struct {
//	    xtenant.Owned
//	    Title string
//	}
type Owned struct {
	// TenantID 归属租户 ID。
	TenantID uuid.UUID
}

// OwnerTenantID 返回归属租户 ID。
func (o Owned) OwnerTenantID() uuid.UUID {
	return o.TenantID
}

// AccessibleBy 仅当 tenantID 等于归属租户时返回 true。
func (o Owned) AccessibleBy(tenantID uuid.UUID) bool {
	return tenantID != uuid.Nil && tenantID == o.TenantID
}
