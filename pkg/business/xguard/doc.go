// Package xguard 提供守卫操作的租户访问校验（Access Validator）。
//
// # 核心理念
//
// 任意多个互不相关的 CRUD 操作共享同一套租户边界校验，而无需各自
// 重新实现检查逻辑。每个受守卫的操作携带一份声明（Declaration），
// 在操作体执行前显式调用 Validator.Check：
//
//	decl := xguard.Declaration{
//	    Mode:         xguard.ModeValidateEntityTenant,
//	    EntityParam:  "order",
//	    ResourceType: "WorkOrder",
//	    Audit:        true,
//	}
//	if err := validator.Check(ctx, decl, xguard.Args{"order": order}); err != nil {
//	    return err
//	}
//	// ... 操作体 ...
//
// 显式守卫调用取代了注解/切面式拦截：声明即参数，组件级默认与
// 操作级覆盖的优先级成为显式的配置解析（操作级完整胜出，不合并），
// 而非反射式注解查找。
//
// # 失败语义
//
// 默认 fail-fast：校验失败时守卫操作体不会执行，错误上抛给调用方。
// SoftFail 是显式的降级开关——失败转为 Warn 日志并放行，必须按声明
// 逐个启用，谨慎使用。上下文*缺失*不受 SoftFail 影响：没有租户
// 上下文时任何模式都返回 ErrNoTenantContext（上下文存在性不可协商，
// 否则放行等于完全失去隔离）。
//
// # 系统租户绕过
//
// 声明 AllowSystemTenant 且当前上下文为系统租户时，该次调用的所有
// 检查短路为成功。绕过必须按操作声明，绝不隐式全局生效。
//
// # 审计
//
// 声明 Audit 后，每次校验无论成败都会写入一条审计记录（Record）。
// Sink 的写入失败只记日志，绝不影响守卫结果。内置 slog Sink 与
// Redis Stream Sink（追加式，XAdd + MAXLEN 截断）。
//
// # 线程安全
//
// Validator 构造后只读，可并发使用；Registry 的注册与解析并发安全。
package xguard
