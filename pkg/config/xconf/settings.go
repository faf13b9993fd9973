package xconf

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
)

// Settings 默认值。
const (
	// DefaultStatusTimeout 状态查询默认超时。
	DefaultStatusTimeout = 5 * time.Second

	// DefaultStatusCacheTTL 状态查询结果的默认本地缓存 TTL。
	DefaultStatusCacheTTL = 30 * time.Second

	// DefaultAuditStream 审计记录的默认 Redis Stream 名。
	DefaultAuditStream = "tenantkit:audit"

	// DefaultAuditMaxLen 审计 Stream 的默认长度上限。
	DefaultAuditMaxLen = 100_000
)

// Settings 是 tenantkit 的类型化配置。
//
// 配置文件示例（YAML）：
//
//	system_tenant_id: "ffffffff-ffff-ffff-ffff-ffffffffffff"
//	status:
//	  host: "https://tenants.example.com"
//	  timeout: 5s
//	  cache_ttl: 30s
//	cache:
//	  caches: ["work-orders", "assets"]
//	  warmup_schedule: "@every 30m"
//	guard:
//	  audit_stream: "tenantkit:audit"
//	  audit_max_len: 100000
type Settings struct {
	// SystemTenantID 系统租户 UUID。为空时使用内置默认值。
	SystemTenantID string `koanf:"system_tenant_id"`

	Status StatusSettings `koanf:"status"`
	Cache  CacheSettings  `koanf:"cache"`
	Guard  GuardSettings  `koanf:"guard"`
}

// StatusSettings 租户状态服务配置。
type StatusSettings struct {
	// Host 租户管理服务地址（必填）。
	Host string `koanf:"host"`

	// AllowInsecure 允许 http:// 非加密连接，仅用于开发环境。
	AllowInsecure bool `koanf:"allow_insecure"`

	// Timeout 单次状态查询超时。默认 5s。
	Timeout time.Duration `koanf:"timeout"`

	// CacheTTL 状态结果的本地缓存 TTL。默认 30s。
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// CacheSettings 租户缓存配置。
type CacheSettings struct {
	// Caches 预期存在的逻辑缓存名列表。
	Caches []string `koanf:"caches"`

	// WarmUpSchedule 周期预热的 cron 表达式。为空时不做周期预热。
	WarmUpSchedule string `koanf:"warmup_schedule"`
}

// GuardSettings 访问校验与审计配置。
type GuardSettings struct {
	// AuditStream 审计记录写入的 Redis Stream。默认 "tenantkit:audit"。
	AuditStream string `koanf:"audit_stream"`

	// AuditMaxLen 审计 Stream 的近似长度上限。默认 100000，0 表示不裁剪。
	AuditMaxLen int64 `koanf:"audit_max_len"`
}

// LoadSettings 从文件加载并校验 tenantkit 配置。
func LoadSettings(path string) (*Settings, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return SettingsFrom(cfg)
}

// SettingsFrom 从已加载的 Config 解析 tenantkit 配置。
// 热更新回调中可用它重新解析。
func SettingsFrom(cfg *Config) (*Settings, error) {
	var s Settings
	if err := cfg.Unmarshal("", &s); err != nil {
		return nil, err
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults 应用默认值。
func (s *Settings) ApplyDefaults() {
	if s.Status.Timeout <= 0 {
		s.Status.Timeout = DefaultStatusTimeout
	}
	if s.Status.CacheTTL == 0 {
		s.Status.CacheTTL = DefaultStatusCacheTTL
	}
	if s.Guard.AuditStream == "" {
		s.Guard.AuditStream = DefaultAuditStream
	}
	if s.Guard.AuditMaxLen < 0 {
		s.Guard.AuditMaxLen = DefaultAuditMaxLen
	}
}

// Validate 校验配置有效性。
func (s *Settings) Validate() error {
	if s.SystemTenantID != "" {
		id, err := uuid.Parse(s.SystemTenantID)
		if err != nil || id == uuid.Nil {
			return fmt.Errorf("%w: %q", ErrInvalidSystemTenant, s.SystemTenantID)
		}
	}

	if strings.TrimSpace(s.Status.Host) == "" {
		return ErrMissingStatusHost
	}

	for _, name := range s.Cache.Caches {
		if name == "" || strings.Contains(name, ":") {
			return fmt.Errorf("%w: %q", ErrInvalidCacheName, name)
		}
	}

	if s.Cache.WarmUpSchedule != "" {
		if _, err := cron.ParseStandard(s.Cache.WarmUpSchedule); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, s.Cache.WarmUpSchedule, err)
		}
	}

	return nil
}

// SystemTenant 返回系统租户 UUID。
// 未配置时返回内置默认值。必须在 Validate 通过后调用。
func (s *Settings) SystemTenant() uuid.UUID {
	if s.SystemTenantID == "" {
		return xtenant.DefaultSystemTenantID
	}
	return uuid.MustParse(s.SystemTenantID)
}
