package xconf_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/tenantkit/pkg/config/xconf"
	"github.com/omeyang/tenantkit/pkg/context/xtenant"
)

const fullSettingsYAML = `
system_tenant_id: "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee"
status:
  host: "https://tenants.example.com"
  allow_insecure: false
  timeout: 10s
  cache_ttl: 1m
cache:
  caches: ["work-orders", "assets"]
  warmup_schedule: "@every 30m"
guard:
  audit_stream: "facilities:audit"
  audit_max_len: 5000
`

func loadSettings(t *testing.T, yaml string) (*xconf.Settings, error) {
	t.Helper()
	cfg, err := xconf.LoadBytes([]byte(yaml), xconf.FormatYAML)
	require.NoError(t, err)
	return xconf.SettingsFrom(cfg)
}

func TestSettingsFull(t *testing.T) {
	s, err := loadSettings(t, fullSettingsYAML)
	require.NoError(t, err)

	assert.Equal(t, "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee", s.SystemTenant().String())
	assert.Equal(t, "https://tenants.example.com", s.Status.Host)
	assert.Equal(t, 10*time.Second, s.Status.Timeout)
	assert.Equal(t, time.Minute, s.Status.CacheTTL)
	assert.Equal(t, []string{"work-orders", "assets"}, s.Cache.Caches)
	assert.Equal(t, "@every 30m", s.Cache.WarmUpSchedule)
	assert.Equal(t, "facilities:audit", s.Guard.AuditStream)
	assert.Equal(t, int64(5000), s.Guard.AuditMaxLen)
}

func TestSettingsDefaults(t *testing.T) {
	s, err := loadSettings(t, "status:\n  host: \"https://tenants.example.com\"\n")
	require.NoError(t, err)

	assert.Equal(t, xtenant.DefaultSystemTenantID, s.SystemTenant())
	assert.Equal(t, xconf.DefaultStatusTimeout, s.Status.Timeout)
	assert.Equal(t, xconf.DefaultStatusCacheTTL, s.Status.CacheTTL)
	assert.Equal(t, xconf.DefaultAuditStream, s.Guard.AuditStream)
	assert.Zero(t, s.Guard.AuditMaxLen)
}

func TestSettingsValidation(t *testing.T) {
	t.Run("缺少status host", func(t *testing.T) {
		_, err := loadSettings(t, "system_tenant_id: \"eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee\"\n")
		assert.ErrorIs(t, err, xconf.ErrMissingStatusHost)
	})

	t.Run("非法system_tenant_id", func(t *testing.T) {
		_, err := loadSettings(t, `
system_tenant_id: "not-a-uuid"
status:
  host: "https://tenants.example.com"
`)
		assert.ErrorIs(t, err, xconf.ErrInvalidSystemTenant)
	})

	t.Run("零值system_tenant_id被拒绝", func(t *testing.T) {
		_, err := loadSettings(t, `
system_tenant_id: "00000000-0000-0000-0000-000000000000"
status:
  host: "https://tenants.example.com"
`)
		assert.ErrorIs(t, err, xconf.ErrInvalidSystemTenant)
	})

	t.Run("缓存名含冒号被拒绝", func(t *testing.T) {
		_, err := loadSettings(t, `
status:
  host: "https://tenants.example.com"
cache:
  caches: ["work:orders"]
`)
		assert.ErrorIs(t, err, xconf.ErrInvalidCacheName)
	})

	t.Run("非法调度表达式被拒绝", func(t *testing.T) {
		_, err := loadSettings(t, `
status:
  host: "https://tenants.example.com"
cache:
  warmup_schedule: "every half hour"
`)
		assert.ErrorIs(t, err, xconf.ErrInvalidSchedule)
	})
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := writeFile(t, "tenantkit.yaml", fullSettingsYAML)
	s, err := xconf.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://tenants.example.com", s.Status.Host)
}
