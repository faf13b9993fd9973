package xtcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/storage/xtcache"
)

func newMemoryStore(t *testing.T) *xtcache.MemoryStore {
	t.Helper()
	store, err := xtcache.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMemoryStoreBasic(t *testing.T) {
	ctx := context.Background()

	t.Run("写入后读取", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("v1"), time.Minute))
		store.Wait()

		value, err := store.Get(ctx, "orders", tenantA, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), value)
	})

	t.Run("不存在的键返回ErrCacheMiss", func(t *testing.T) {
		store := newMemoryStore(t)
		_, err := store.Get(ctx, "orders", tenantA, "absent")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("租户键空间互不可见", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("a"), 0))
		store.Wait()

		_, err := store.Get(ctx, "orders", tenantB, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("空值条目可以写入", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", nil, 0))
		store.Wait()

		value, err := store.Get(ctx, "orders", tenantA, "k1")
		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("Precise返回false", func(t *testing.T) {
		store := newMemoryStore(t)
		assert.False(t, store.Precise())
	})
}

func TestMemoryStoreEviction(t *testing.T) {
	ctx := context.Background()

	t.Run("Evict删除单个条目", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("v"), 0))
		store.Wait()
		require.NoError(t, store.Evict(ctx, "orders", tenantA, "k1"))

		_, err := store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("EvictTenant清空全部并返回ErrImpreciseEviction", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("a"), 0))
		require.NoError(t, store.Put(ctx, "orders", tenantB, "k1", []byte("b"), 0))
		store.Wait()

		err := store.EvictTenant(ctx, tenantA)
		assert.ErrorIs(t, err, xtcache.ErrImpreciseEviction)

		// 目标租户的条目必须已清除
		_, err = store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
		// 整体清空的代价：其他租户的条目也被清除
		_, err = store.Get(ctx, "orders", tenantB, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("EvictCache同样整体清空", func(t *testing.T) {
		store := newMemoryStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("a"), 0))
		store.Wait()

		err := store.EvictCache(ctx, "orders", tenantA)
		assert.ErrorIs(t, err, xtcache.ErrImpreciseEviction)
	})

	t.Run("Keys返回ErrKeysUnsupported", func(t *testing.T) {
		store := newMemoryStore(t)
		_, err := store.Keys(ctx, "orders", tenantA)
		assert.ErrorIs(t, err, xtcache.ErrKeysUnsupported)
	})
}

func TestMemoryStoreClosed(t *testing.T) {
	store, err := xtcache.NewMemoryStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(context.Background(), "orders", tenantA, "k1")
	assert.ErrorIs(t, err, xtcache.ErrClosed)
	assert.ErrorIs(t, store.Close(), xtcache.ErrClosed)
}
