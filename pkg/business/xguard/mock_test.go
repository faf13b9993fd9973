package xguard_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/omeyang/tenantkit/pkg/business/xguard"
)

// =============================================================================
// Mock StatusChecker
// =============================================================================

// mockChecker 用于测试的租户状态查询 Mock。
type mockChecker struct {
	mu     sync.Mutex
	active map[uuid.UUID]bool
	err    error
}

func newMockChecker() *mockChecker {
	return &mockChecker{active: make(map[uuid.UUID]bool)}
}

func (m *mockChecker) setActive(id uuid.UUID, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[id] = active
}

func (m *mockChecker) IsActive(_ context.Context, tenantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.active[tenantID], nil
}

// =============================================================================
// Mock OwnerResolver
// =============================================================================

// mockResolver 用于测试的归属查询 Mock。
type mockResolver struct {
	mu     sync.Mutex
	owners map[uuid.UUID]uuid.UUID
	err    error
	calls  int
}

func newMockResolver() *mockResolver {
	return &mockResolver{owners: make(map[uuid.UUID]uuid.UUID)}
}

func (m *mockResolver) setOwner(id, owner uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[id] = owner
}

func (m *mockResolver) ResolveOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return uuid.Nil, m.err
	}
	return m.owners[id], nil
}

// =============================================================================
// Capture Sink
// =============================================================================

// captureSink 记录写入的审计记录。
type captureSink struct {
	mu      sync.Mutex
	records []xguard.Record
	err     error
}

func (s *captureSink) Write(_ context.Context, record xguard.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *captureSink) all() []xguard.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]xguard.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *captureSink) last() (xguard.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return xguard.Record{}, false
	}
	return s.records[len(s.records)-1], true
}
