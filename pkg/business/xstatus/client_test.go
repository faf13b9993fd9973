package xstatus_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/business/xstatus"
)

var (
	tenantA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// statusServer 模拟租户管理服务。
type statusServer struct {
	*httptest.Server

	mu       sync.Mutex
	active   map[uuid.UUID]bool
	failWith int // 非 0 时所有请求返回该状态码
	requests atomic.Int64
}

func newStatusServer(t *testing.T) *statusServer {
	t.Helper()
	s := &statusServer{active: map[uuid.UUID]bool{tenantA: true, tenantB: false}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *statusServer) handle(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	s.mu.Lock()
	failWith := s.failWith
	s.mu.Unlock()
	if failWith != 0 {
		w.WriteHeader(failWith)
		return
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1/tenants/"), "/status")
	id, err := uuid.Parse(raw)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	active, ok := s.active[id]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	fmt.Fprintf(w, `{"active":%t}`, active)
}

func (s *statusServer) setFailWith(code int) {
	s.mu.Lock()
	s.failWith = code
	s.mu.Unlock()
}

func newTestClient(t *testing.T, srv *statusServer, mutate func(*xstatus.Config)) *xstatus.Client {
	t.Helper()
	cfg := xstatus.Config{
		Host:          srv.URL,
		AllowInsecure: true,
		RetryDelay:    time.Millisecond,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := xstatus.NewClient(cfg)
	require.NoError(t, err)
	return client
}

// =============================================================================
// 配置校验
// =============================================================================

func TestNewClientConfig(t *testing.T) {
	t.Run("缺少host返回ErrMissingHost", func(t *testing.T) {
		_, err := xstatus.NewClient(xstatus.Config{})
		assert.ErrorIs(t, err, xstatus.ErrMissingHost)
	})

	t.Run("无scheme返回ErrInvalidHost", func(t *testing.T) {
		_, err := xstatus.NewClient(xstatus.Config{Host: "tenants.example.com"})
		assert.ErrorIs(t, err, xstatus.ErrInvalidHost)
	})

	t.Run("http默认拒绝", func(t *testing.T) {
		_, err := xstatus.NewClient(xstatus.Config{Host: "http://tenants.example.com"})
		assert.ErrorIs(t, err, xstatus.ErrInsecureHost)
	})

	t.Run("AllowInsecure放行http", func(t *testing.T) {
		_, err := xstatus.NewClient(xstatus.Config{
			Host:          "http://tenants.example.com",
			AllowInsecure: true,
		})
		assert.NoError(t, err)
	})

	t.Run("https直接放行", func(t *testing.T) {
		_, err := xstatus.NewClient(xstatus.Config{Host: "https://tenants.example.com"})
		assert.NoError(t, err)
	})
}

// =============================================================================
// 状态查询
// =============================================================================

func TestClientIsActive(t *testing.T) {
	t.Run("激活租户返回true", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, nil)

		active, err := client.IsActive(context.Background(), tenantA)
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("停用租户返回false", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, nil)

		active, err := client.IsActive(context.Background(), tenantB)
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("未知租户返回ErrTenantUnknown", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, nil)

		_, err := client.IsActive(context.Background(), uuid.New())
		assert.ErrorIs(t, err, xstatus.ErrTenantUnknown)
		// 永久性错误不触发重试
		assert.Equal(t, int64(1), srv.requests.Load())
	})

	t.Run("4xx返回ErrStatusRejected且不重试", func(t *testing.T) {
		srv := newStatusServer(t)
		srv.setFailWith(http.StatusForbidden)
		client := newTestClient(t, srv, func(cfg *xstatus.Config) {
			cfg.MaxAttempts = 3
		})

		_, err := client.IsActive(context.Background(), tenantA)
		assert.ErrorIs(t, err, xstatus.ErrStatusRejected)
		// 请求本身的问题，重发不会有不同结果
		assert.Equal(t, int64(1), srv.requests.Load())
	})

	t.Run("5xx重试后返回ErrStatusUnavailable", func(t *testing.T) {
		srv := newStatusServer(t)
		srv.setFailWith(http.StatusInternalServerError)
		client := newTestClient(t, srv, func(cfg *xstatus.Config) {
			cfg.MaxAttempts = 3
		})

		_, err := client.IsActive(context.Background(), tenantA)
		assert.ErrorIs(t, err, xstatus.ErrStatusUnavailable)
		assert.Equal(t, int64(3), srv.requests.Load())
	})

	t.Run("临时失败后恢复", func(t *testing.T) {
		srv := newStatusServer(t)
		srv.setFailWith(http.StatusServiceUnavailable)
		client := newTestClient(t, srv, nil)

		// 第一次请求失败后恢复服务，重试应该成功
		go func() {
			time.Sleep(5 * time.Millisecond)
			srv.setFailWith(0)
		}()

		active, err := client.IsActive(context.Background(), tenantA)
		require.NoError(t, err)
		assert.True(t, active)
	})
}

// =============================================================================
// 本地缓存
// =============================================================================

func TestClientCache(t *testing.T) {
	t.Run("命中缓存不触发请求", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, nil)

		for range 5 {
			active, err := client.IsActive(context.Background(), tenantA)
			require.NoError(t, err)
			assert.True(t, active)
		}
		assert.Equal(t, int64(1), srv.requests.Load())
	})

	t.Run("Invalidate后重新查询", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, nil)

		_, err := client.IsActive(context.Background(), tenantA)
		require.NoError(t, err)

		// 服务端停用租户，缓存失效后应看到新状态
		srv.mu.Lock()
		srv.active[tenantA] = false
		srv.mu.Unlock()
		client.Invalidate(tenantA)

		active, err := client.IsActive(context.Background(), tenantA)
		require.NoError(t, err)
		assert.False(t, active)
		assert.Equal(t, int64(2), srv.requests.Load())
	})

	t.Run("禁用缓存时每次都请求", func(t *testing.T) {
		srv := newStatusServer(t)
		client := newTestClient(t, srv, func(cfg *xstatus.Config) {
			cfg.CacheTTL = -1
		})

		for range 3 {
			_, err := client.IsActive(context.Background(), tenantA)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(3), srv.requests.Load())
	})

	t.Run("查询失败不写入缓存", func(t *testing.T) {
		srv := newStatusServer(t)
		srv.setFailWith(http.StatusInternalServerError)
		client := newTestClient(t, srv, func(cfg *xstatus.Config) {
			cfg.MaxAttempts = 1
		})

		_, err := client.IsActive(context.Background(), tenantA)
		require.ErrorIs(t, err, xstatus.ErrStatusUnavailable)

		srv.setFailWith(0)
		active, err := client.IsActive(context.Background(), tenantA)
		require.NoError(t, err)
		assert.True(t, active)
	})
}

// =============================================================================
// 并发合并
// =============================================================================

func TestClientSingleflight(t *testing.T) {
	var requests atomic.Int64

	// 让请求慢到足以让并发调用在首个请求完成前全部进入
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		time.Sleep(20 * time.Millisecond)
		fmt.Fprint(w, `{"active":true}`)
	}))
	t.Cleanup(slow.Close)

	client, err := xstatus.NewClient(xstatus.Config{
		Host:          slow.URL,
		AllowInsecure: true,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			active, err := client.IsActive(context.Background(), tenantA)
			assert.NoError(t, err)
			assert.True(t, active)
		}()
	}
	wg.Wait()

	// singleflight 合并后远多于 1 个 goroutine 共享同一次请求
	assert.LessOrEqual(t, requests.Load(), int64(2))
}

// =============================================================================
// 熔断
// =============================================================================

func TestClientBreaker(t *testing.T) {
	srv := newStatusServer(t)
	srv.setFailWith(http.StatusInternalServerError)
	client := newTestClient(t, srv, func(cfg *xstatus.Config) {
		cfg.MaxAttempts = 1
		cfg.BreakerFailures = 2
		cfg.CacheTTL = -1
	})

	// 连续失败触发熔断
	for range 2 {
		_, err := client.IsActive(context.Background(), tenantA)
		require.ErrorIs(t, err, xstatus.ErrStatusUnavailable)
	}

	before := srv.requests.Load()
	_, err := client.IsActive(context.Background(), tenantA)
	assert.ErrorIs(t, err, xstatus.ErrStatusUnavailable)
	// 熔断开启后快速失败，不再触发网络请求
	assert.Equal(t, before, srv.requests.Load())
}
