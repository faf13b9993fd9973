package xtcache_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
	"github.com/omeyang/tenantkit/pkg/storage/xtcache"
)

// mockChecker 把所有租户视为激活状态。
type mockChecker struct{}

func (mockChecker) IsActive(_ context.Context, _ uuid.UUID) (bool, error) {
	return true, nil
}

func newManager(t *testing.T, store xtcache.Store, opts ...xtcache.ManagerOption) *xtcache.Manager {
	t.Helper()
	svc, err := xtenant.NewService(mockChecker{})
	require.NoError(t, err)

	manager, err := xtcache.NewManager(svc, store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func ctxWith(t *testing.T, tenantID uuid.UUID) context.Context {
	t.Helper()
	ctx, err := xtenant.WithTenant(context.Background(), tenantID)
	require.NoError(t, err)
	return ctx
}
