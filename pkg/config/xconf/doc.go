// Package xconf 提供 tenantkit 的配置加载与热更新。
//
// 配置文件支持 YAML 和 JSON 两种格式，底层使用 koanf 解析。
// 通用加载能力由 Config 提供；Settings 是 tenantkit 自身的
// 类型化配置模式，覆盖系统租户、状态服务、缓存和审计。
//
// # 快速开始
//
//	settings, err := xconf.LoadSettings("/etc/tenantkit/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// 需要访问模式之外的自定义键时，使用底层 Config：
//
//	cfg, err := xconf.Load("/etc/tenantkit/config.yaml")
//	port := cfg.Client().Int("app.port")
//
// # 热更新
//
// Watch 监视配置文件变更并自动重载，适合 K8s ConfigMap 挂载场景：
//
//	w, err := cfg.Watch(func(c *xconf.Config, err error) {
//	    if err != nil {
//	        slog.Warn("config reload failed", "error", err)
//	        return
//	    }
//	    // 从 c 重新读取需要的键
//	})
//	w.StartAsync()
//	defer w.Stop()
//
// # 线程安全
//
// Config 的读取和 Reload 是并发安全的。Settings 是一次性解析的
// 值对象，解析后不再变化。
package xconf
