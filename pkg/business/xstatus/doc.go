// Package xstatus 提供租户启停状态的查询客户端。
//
// xstatus 实现 xtenant.StatusChecker 接口，向租户管理服务查询
// 指定租户当前是否处于激活状态，供 xtenant.Service 与 xguard
// 在访问校验时消费。
//
// # 核心理念
//
// 状态查询位于每次访问校验的关键路径上，必须快且稳：
//
//   - 本地缓存: 查询结果写入带 TTL 的 LRU 缓存（默认 30 秒），
//     绝大多数校验不触发网络请求
//   - 请求合并: 同一租户的并发未命中通过 singleflight 合并为一次远程调用
//   - 重试: 临时性失败按指数退避重试（默认最多 3 次尝试）
//   - 熔断: 远程服务持续不可用时熔断快速失败，避免拖垮调用方
//
// # 快速开始
//
//	client, err := xstatus.NewClient(xstatus.Config{
//	    Host: "https://tenants.example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc, err := xtenant.NewService(client)
//
// 测试或单租户部署场景可使用内存实现：
//
//	checker := xstatus.NewStaticChecker(tenantA, tenantB)
//
// # 安全
//
// Host 默认强制 https://。租户状态虽非凭据，但其查询路径暴露了
// 租户 ID 与系统拓扑，明文传输仅允许在开发环境通过
// Config.AllowInsecure 显式放行。
//
// # 线程安全
//
// Client 与 StaticChecker 的所有方法都是并发安全的。
package xstatus
