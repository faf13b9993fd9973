package xstatus

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
)

// 确保 *StaticChecker 实现 StatusChecker 接口
var _ xtenant.StatusChecker = (*StaticChecker)(nil)

// StaticChecker 是内存实现的租户状态检查器。
//
// 用于测试和无租户管理服务的部署（例如单租户自部署），
// 租户集合由调用方显式维护。
type StaticChecker struct {
	mu     sync.RWMutex
	active map[uuid.UUID]bool
}

// NewStaticChecker 创建静态检查器，入参租户均标记为激活状态。
func NewStaticChecker(tenants ...uuid.UUID) *StaticChecker {
	active := make(map[uuid.UUID]bool, len(tenants))
	for _, id := range tenants {
		active[id] = true
	}
	return &StaticChecker{active: active}
}

// IsActive 返回租户是否激活。
// 未注册的租户返回 ErrTenantUnknown，与 Client 行为一致。
func (s *StaticChecker) IsActive(_ context.Context, tenantID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active, ok := s.active[tenantID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrTenantUnknown, tenantID)
	}
	return active, nil
}

// Set 注册或更新租户状态。
func (s *StaticChecker) Set(tenantID uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[tenantID] = active
}

// Remove 移除租户，后续查询返回 ErrTenantUnknown。
func (s *StaticChecker) Remove(tenantID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, tenantID)
}

// Len 返回已注册的租户数量。
func (s *StaticChecker) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}
