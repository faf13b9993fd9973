// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xtcache: 按租户隔离的缓存管理，支持 Redis 和进程内存储
//
// 设计原则：
//   - 租户键隔离由存储层强制执行，调用方不拼接前缀
//   - 内置按租户的指标与健康评估
package storage
