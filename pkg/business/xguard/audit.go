package xguard

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// =============================================================================
// 审计记录
// =============================================================================

// Result 审计结果。
type Result string

const (
	// ResultSuccess 校验通过。
	ResultSuccess Result = "SUCCESS"
	// ResultFailed 校验失败。
	ResultFailed Result = "FAILED"
)

// Record 一次守卫校验的审计记录（追加式，声明 Audit 时每次调用一条）。
type Record struct {
	// Component 守卫操作所属组件。
	Component string

	// Operation 守卫操作名。
	Operation string

	// Mode 校验模式。
	Mode Mode

	// TenantID 校验时的当前租户；上下文缺失时为零值。
	TenantID uuid.UUID

	// Result 校验结果。
	Result Result

	// ResourceType 资源类型标签。
	ResourceType string

	// Detail 失败原因描述；成功时为空。
	Detail string

	// At 记录时间。
	At time.Time
}

// Sink 审计记录写入端。
//
// 写入失败由 Validator 记日志兜底，绝不影响守卫结果；
// 实现方无需自行吞错。
type Sink interface {
	Write(ctx context.Context, record Record) error
}

// =============================================================================
// slog Sink
// =============================================================================

type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink 创建基于 slog 的审计 Sink。
// logger 为 nil 时使用 slog.Default()。
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogSink{logger: logger}
}

func (s *slogSink) Write(ctx context.Context, record Record) error {
	attrs := []slog.Attr{
		slog.String("component", record.Component),
		slog.String("operation", record.Operation),
		slog.String("mode", record.Mode.String()),
		slog.String("tenant_id", record.TenantID.String()),
		slog.String("result", string(record.Result)),
		slog.String("resource_type", record.ResourceType),
		slog.Time("at", record.At),
	}
	if record.Detail != "" {
		attrs = append(attrs, slog.String("detail", record.Detail))
	}

	level := slog.LevelInfo
	if record.Result == ResultFailed {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "tenant access audit", attrs...)
	return nil
}

// =============================================================================
// Redis Stream Sink
// =============================================================================

type redisSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// NewRedisSink 创建基于 Redis Stream 的审计 Sink。
//
// 记录通过 XAdd 追加到 stream，使用近似 MAXLEN 截断防止无界增长
// （maxLen <= 0 时不截断）。stream 天然只追加，满足审计汇的
// append-only 要求。
func NewRedisSink(client redis.UniversalClient, stream string, maxLen int64) (Sink, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}
	if stream == "" {
		return nil, ErrEmptyStream
	}
	return &redisSink{client: client, stream: stream, maxLen: maxLen}, nil
}

func (s *redisSink) Write(ctx context.Context, record Record) error {
	values := map[string]any{
		"component":     record.Component,
		"operation":     record.Operation,
		"mode":          record.Mode.String(),
		"tenant_id":     record.TenantID.String(),
		"result":        string(record.Result),
		"resource_type": record.ResourceType,
		"at":            record.At.UTC().Format(time.RFC3339Nano),
	}
	if record.Detail != "" {
		values["detail"] = record.Detail
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return s.client.XAdd(ctx, args).Err()
}
