// Package xmetrics 提供统一的观测抽象：Observer 接口与 OpenTelemetry 实现。
//
// # 核心理念
//
// 业务包（xguard、xtcache）只依赖 Observer 接口，不直接依赖 OTel API。
// 默认的 NoopObserver 零开销，生产环境注入 NewOTelObserver 即可获得
// 指标（操作计数 + 耗时直方图）与追踪跨度。
//
// # 快速开始
//
//	observer, err := xmetrics.NewOTelObserver()
//	validator, _ := xguard.New(svc, xguard.WithObserver(observer))
//
// # 线程安全
//
// 所有 Observer 实现均可并发使用。
package xmetrics
