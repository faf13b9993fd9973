package xmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/tenantkit/xmetrics"
	unknownComponent           = "unknown"
	unknownOperation           = "unknown"

	metricOperationTotal    = "tenantkit.operation.total"
	metricOperationDuration = "tenantkit.operation.duration"

	attrKeyComponent = "component"
	attrKeyOperation = "operation"
	attrKeyStatus    = "status"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
// 不注入 provider 时使用全局 otel.GetTracerProvider / otel.GetMeterProvider。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(cfg.instrumentationName)
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	total, err := meter.Int64Counter(
		metricOperationTotal,
		metric.WithDescription("total guarded and cache operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}

	duration, err := meter.Float64Histogram(
		metricOperationDuration,
		metric.WithDescription("operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create histogram failed: %w", err)
	}

	return &otelObserver{
		tracer:   tracer,
		total:    total,
		duration: duration,
	}, nil
}

type otelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// Start 开始一次观测跨度。
func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	component := opts.Component
	if component == "" {
		component = unknownComponent
	}
	operation := opts.Operation
	if operation == "" {
		operation = unknownOperation
	}

	base := make([]attribute.KeyValue, 0, len(opts.Attrs)+2)
	base = append(base,
		attribute.String(attrKeyComponent, component),
		attribute.String(attrKeyOperation, operation),
	)
	for _, a := range opts.Attrs {
		base = append(base, toKeyValue(a))
	}

	spanCtx, span := o.tracer.Start(ctx, component+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(base...),
	)

	return spanCtx, &otelSpan{
		observer: o,
		span:     span,
		start:    time.Now(),
		base:     base,
		ctx:      spanCtx,
	}
}

type otelSpan struct {
	observer *otelObserver
	span     trace.Span
	start    time.Time
	base     []attribute.KeyValue
	ctx      context.Context
}

// End 结束观测并记录结果。
func (s *otelSpan) End(result Result) {
	status := result.Status
	if status == "" {
		status = StatusOK
		if result.Err != nil {
			status = StatusError
		}
	}

	attrs := make([]attribute.KeyValue, 0, len(s.base)+len(result.Attrs)+1)
	attrs = append(attrs, s.base...)
	for _, a := range result.Attrs {
		attrs = append(attrs, toKeyValue(a))
	}
	attrs = append(attrs, attribute.String(attrKeyStatus, string(status)))

	if result.Err != nil {
		s.span.RecordError(result.Err)
		s.span.SetStatus(codes.Error, result.Err.Error())
	} else if status == StatusError {
		s.span.SetStatus(codes.Error, "operation failed")
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.SetAttributes(attrs...)
	s.span.End()

	opt := metric.WithAttributes(attrs...)
	s.observer.total.Add(s.ctx, 1, opt)
	s.observer.duration.Record(s.ctx, time.Since(s.start).Seconds(), opt)
}

// toKeyValue 将 Attr 转换为 OTel attribute.KeyValue。
// 未覆盖的类型退化为 fmt.Sprintf 字符串表示。
func toKeyValue(a Attr) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case int64:
		return attribute.Int64(a.Key, v)
	case uint64:
		// attribute 无 uint64 类型，转为字符串避免截断
		return attribute.String(a.Key, fmt.Sprintf("%d", v))
	case float64:
		return attribute.Float64(a.Key, v)
	case time.Duration:
		return attribute.Int64(a.Key, v.Milliseconds())
	case fmt.Stringer:
		return attribute.String(a.Key, v.String())
	default:
		return attribute.String(a.Key, fmt.Sprintf("%v", v))
	}
}
