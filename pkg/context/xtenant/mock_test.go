package xtenant_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// Mock StatusChecker
// =============================================================================

// mockChecker 用于测试的租户状态查询 Mock。
type mockChecker struct {
	mu       sync.Mutex
	active   map[uuid.UUID]bool
	err      error
	calls    int
	lastCtx  context.Context
	blockC   chan struct{} // 非 nil 时阻塞直到 channel 关闭或 ctx 取消
}

func newMockChecker() *mockChecker {
	return &mockChecker{active: make(map[uuid.UUID]bool)}
}

func (m *mockChecker) setActive(id uuid.UUID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[id] = active
}

func (m *mockChecker) IsActive(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.calls++
	m.lastCtx = ctx
	blockC := m.blockC
	err := m.err
	active := m.active[tenantID]
	m.mu.Unlock()

	if blockC != nil {
		select {
		case <-blockC:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

func (m *mockChecker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
