package xtcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/storage/xtcache"
)

var (
	tenantA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func newRedisStore(t *testing.T) (*xtcache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store, err := xtcache.NewRedisStore(client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreBasic(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client返回ErrNilClient", func(t *testing.T) {
		_, err := xtcache.NewRedisStore(nil)
		assert.ErrorIs(t, err, xtcache.ErrNilClient)
	})

	t.Run("写入后读取", func(t *testing.T) {
		store, _ := newRedisStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("v1"), time.Minute))
		value, err := store.Get(ctx, "orders", tenantA, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), value)
	})

	t.Run("不存在的键返回ErrCacheMiss", func(t *testing.T) {
		store, _ := newRedisStore(t)
		_, err := store.Get(ctx, "orders", tenantA, "absent")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("TTL过期后未命中", func(t *testing.T) {
		store, mr := newRedisStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("v1"), time.Second))
		mr.FastForward(2 * time.Second)

		_, err := store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("租户键空间互不可见", func(t *testing.T) {
		store, _ := newRedisStore(t)

		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("a"), 0))
		_, err := store.Get(ctx, "orders", tenantB, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
	})

	t.Run("空key返回ErrEmptyKey", func(t *testing.T) {
		store, _ := newRedisStore(t)
		_, err := store.Get(ctx, "orders", tenantA, "")
		assert.ErrorIs(t, err, xtcache.ErrEmptyKey)
	})

	t.Run("缓存名含冒号返回ErrInvalidCacheName", func(t *testing.T) {
		store, _ := newRedisStore(t)
		err := store.Put(ctx, "or:ders", tenantA, "k1", nil, 0)
		assert.ErrorIs(t, err, xtcache.ErrInvalidCacheName)
	})

	t.Run("Precise返回true", func(t *testing.T) {
		store, _ := newRedisStore(t)
		assert.True(t, store.Precise())
	})
}

func TestRedisStoreEviction(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *xtcache.RedisStore) {
		t.Helper()
		require.NoError(t, store.Put(ctx, "orders", tenantA, "k1", []byte("a1"), 0))
		require.NoError(t, store.Put(ctx, "orders", tenantA, "k2", []byte("a2"), 0))
		require.NoError(t, store.Put(ctx, "assets", tenantA, "k1", []byte("a3"), 0))
		require.NoError(t, store.Put(ctx, "orders", tenantB, "k1", []byte("b1"), 0))
	}

	t.Run("Evict删除单个条目", func(t *testing.T) {
		store, _ := newRedisStore(t)
		seed(t, store)

		require.NoError(t, store.Evict(ctx, "orders", tenantA, "k1"))
		_, err := store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)

		// 其余条目不受影响
		_, err = store.Get(ctx, "orders", tenantA, "k2")
		assert.NoError(t, err)
	})

	t.Run("EvictCache只清除租户在该缓存下的条目", func(t *testing.T) {
		store, _ := newRedisStore(t)
		seed(t, store)

		require.NoError(t, store.EvictCache(ctx, "orders", tenantA))

		_, err := store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
		_, err = store.Get(ctx, "orders", tenantA, "k2")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)

		// 其他缓存和其他租户不受影响
		_, err = store.Get(ctx, "assets", tenantA, "k1")
		assert.NoError(t, err)
		_, err = store.Get(ctx, "orders", tenantB, "k1")
		assert.NoError(t, err)
	})

	t.Run("EvictTenant清除租户的全部条目", func(t *testing.T) {
		store, _ := newRedisStore(t)
		seed(t, store)

		require.NoError(t, store.EvictTenant(ctx, tenantA))

		_, err := store.Get(ctx, "orders", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)
		_, err = store.Get(ctx, "assets", tenantA, "k1")
		assert.ErrorIs(t, err, xtcache.ErrCacheMiss)

		// 其他租户不受影响
		_, err = store.Get(ctx, "orders", tenantB, "k1")
		assert.NoError(t, err)
	})

	t.Run("Keys枚举租户条目", func(t *testing.T) {
		store, _ := newRedisStore(t)
		seed(t, store)

		keys, err := store.Keys(ctx, "orders", tenantA)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"k1", "k2"}, keys)
	})

	t.Run("键含冒号时枚举保留完整键名", func(t *testing.T) {
		store, _ := newRedisStore(t)
		require.NoError(t, store.Put(ctx, "orders", tenantA, "a:b:c", []byte("v"), 0))

		keys, err := store.Keys(ctx, "orders", tenantA)
		require.NoError(t, err)
		assert.Equal(t, []string{"a:b:c"}, keys)
	})
}

func TestRedisStoreClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store, err := xtcache.NewRedisStore(client)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(context.Background(), "orders", tenantA, "k1")
	assert.ErrorIs(t, err, xtcache.ErrClosed)
	assert.ErrorIs(t, store.Close(), xtcache.ErrClosed)
}
