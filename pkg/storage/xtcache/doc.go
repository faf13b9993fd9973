// Package xtcache 提供按租户隔离的缓存管理。
//
// xtcache 在底层存储（Redis 或进程内 ristretto）之上强制执行
// 租户键隔离：所有条目以 "tk:{cache}:{tenant}:{key}" 形式存储，
// 读写操作从 context 中提取当前租户，不同租户的条目互不可见。
//
// # 核心理念
//
//   - 隔离优先: 调用方永远不拼接租户前缀，Manager 从 xtenant
//     上下文推导。缺失租户上下文的读写直接失败，不存在
//     "忘记加前缀" 导致的跨租户污染
//   - 按租户观测: 命中、未命中、淘汰、预热、错误按租户计数，
//     并据此给出每个租户的缓存健康等级
//   - 诚实的淘汰语义: 进程内存储无法按前缀精确淘汰，
//     EvictTenant 会清空整个缓存并返回 ErrImpreciseEviction，
//     通过 Store.Precise() 可以在部署前感知这一差异
//
// # 快速开始
//
//	store, err := xtcache.NewRedisStore(redisClient)
//	manager, err := xtcache.NewManager(svc, store)
//
//	// ctx 携带租户上下文
//	err = manager.Put(ctx, "work-orders", "wo-42", payload, time.Hour)
//	value, err := manager.Get(ctx, "work-orders", "wo-42")
//
//	// 租户下线时整体清理并重置指标
//	err = manager.EvictAllForTenant(ctx, tenantID)
//
// # 预热
//
// 通过 RegisterWarmUp 注册缓存的预热函数，WarmUpForTenant 在
// 指定租户的上下文中执行它；ScheduleWarmUp 按 cron 表达式周期
// 性地为一批租户预热。
//
// # 线程安全
//
// Manager 与两种 Store 实现的所有方法都是并发安全的。
package xtcache
