package xconf_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/config/xconf"
)

func TestWatch(t *testing.T) {
	t.Run("字节配置不支持监视", func(t *testing.T) {
		cfg, err := xconf.LoadBytes([]byte("x: 1"), xconf.FormatYAML)
		require.NoError(t, err)

		_, err = cfg.Watch(func(*xconf.Config, error) {})
		assert.ErrorIs(t, err, xconf.ErrNotReloadable)
	})

	t.Run("文件变更触发重载", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "value: 1\n")
		cfg, err := xconf.Load(path)
		require.NoError(t, err)

		reloaded := make(chan error, 1)
		w, err := cfg.Watch(func(_ *xconf.Config, err error) {
			select {
			case reloaded <- err:
			default:
			}
		}, xconf.WithDebounce(10*time.Millisecond))
		require.NoError(t, err)
		t.Cleanup(func() { _ = w.Stop() })

		w.StartAsync()
		// 给监视循环一点启动时间
		time.Sleep(50 * time.Millisecond)

		require.NoError(t, os.WriteFile(path, []byte("value: 2\n"), 0o600))

		select {
		case err := <-reloaded:
			require.NoError(t, err)
			assert.Equal(t, 2, cfg.Client().Int("value"))
		case <-time.After(3 * time.Second):
			t.Fatal("reload callback not invoked")
		}
	})

	t.Run("Stop后不再触发回调", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "value: 1\n")
		cfg, err := xconf.Load(path)
		require.NoError(t, err)

		called := make(chan struct{}, 1)
		w, err := cfg.Watch(func(*xconf.Config, error) {
			select {
			case called <- struct{}{}:
			default:
			}
		}, xconf.WithDebounce(10*time.Millisecond))
		require.NoError(t, err)

		w.StartAsync()
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, w.Stop())

		require.NoError(t, os.WriteFile(path, []byte("value: 2\n"), 0o600))

		select {
		case <-called:
			t.Fatal("callback invoked after Stop")
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("重复Stop安全", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "value: 1\n")
		cfg, err := xconf.Load(path)
		require.NoError(t, err)

		w, err := cfg.Watch(nil)
		require.NoError(t, err)
		w.StartAsync()

		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})
}
