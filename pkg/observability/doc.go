// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xmetrics: 统一观测接口与 OpenTelemetry 实现
//
// 设计原则：
//   - 业务包只依赖 Observer 抽象，不直接依赖 OpenTelemetry
//   - 观测失败不影响业务流程
package observability
