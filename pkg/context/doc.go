// Package context 提供租户上下文相关的子包。
//
// 子包列表：
//   - xtenant: 租户上下文的显式传播与租户服务
//
// 设计原则：
//   - 租户身份只通过 context.Context 传递，不使用全局变量
//   - 不存在隐式默认租户，缺失上下文的操作 fail-fast
package context
