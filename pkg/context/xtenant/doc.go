// Package xtenant 提供租户上下文的传播与租户服务能力。
//
// # 核心理念
//
// xtenant 管理"当前工作单元正在以哪个租户身份运行"这一事实：
//
//   - Context: 不可变的租户上下文值（租户 ID + 是否系统租户）
//   - Service: 租户上下文的唯一权威（设置、读取、作用域执行、状态校验）
//   - Aware: 领域实体的租户归属能力（暴露归属租户、回答可达性）
//
// # 显式传播
//
// 租户上下文通过 context.Context 显式传递，而非进程级环境或
// goroutine-local 状态。跨 goroutine、后台任务、线程池边界时
// 上下文不会自动继承——必须通过 ExecuteWithTenant 显式授予。
// 这使得"临时成为另一个租户"成为一个可见的、有作用域的动作，
// 作用域退出后外层上下文天然恢复（包括 fn 返回错误或 panic 的情况）。
//
// # 无默认租户
//
// 上下文缺失对任何需要租户的操作都是硬失败（ErrNoTenantContext），
// 不存在隐式默认租户。HasTenant 提供不返回错误的探测入口。
//
// # 系统租户
//
// 系统租户是用于跨租户管理操作的特权伪租户。xtenant 只负责标记
// "当前上下文是系统租户"这一事实；是否允许系统租户绕过校验由
// xguard 的 Declaration 按操作显式声明，绝不隐式全局生效。
//
// # 快速开始
//
// 入站请求完成认证后调用 WithTenant 注入租户；业务代码通过
// CurrentTenant 读取；后台任务通过 Service.ExecuteWithTenant
// 在指定租户作用域内执行。
//
// 详细使用示例参考 example_test.go。
//
// # 线程安全
//
// Context 是不可变值，所有导出函数均可并发调用。
// Service 在构造后只读，可被任意多个工作单元共享。
package xtenant
