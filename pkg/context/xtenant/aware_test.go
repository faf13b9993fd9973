package xtenant_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
)

// workOrder 测试用领域实体，通过嵌入 Owned 获得 Aware 能力。
type workOrder struct {
	xtenant.Owned
	Title string
}

func TestOwned(t *testing.T) {
	order := workOrder{
		Owned: xtenant.Owned{TenantID: tenantA},
		Title: "replace HVAC filter",
	}

	t.Run("归属租户可访问", func(t *testing.T) {
		if !order.AccessibleBy(tenantA) {
			t.Error("AccessibleBy(owner) = false, want true")
		}
	})

	t.Run("其他租户不可访问", func(t *testing.T) {
		if order.AccessibleBy(tenantB) {
			t.Error("AccessibleBy(other) = true, want false")
		}
	})

	t.Run("系统租户在实体层同样不可访问", func(t *testing.T) {
		// 系统租户绕过由守卫声明按操作允许，实体层不内置绕过。
		if order.AccessibleBy(xtenant.DefaultSystemTenantID) {
			t.Error("AccessibleBy(system) = true, want false")
		}
	})

	t.Run("零值UUID不可访问", func(t *testing.T) {
		if order.AccessibleBy(uuid.Nil) {
			t.Error("AccessibleBy(uuid.Nil) = true, want false")
		}
	})

	t.Run("OwnerTenantID返回归属租户", func(t *testing.T) {
		if got := order.OwnerTenantID(); got != tenantA {
			t.Errorf("OwnerTenantID() = %v, want %v", got, tenantA)
		}
	})
}

// 编译期断言：Owned 实现 Aware。
var _ xtenant.Aware = xtenant.Owned{}
