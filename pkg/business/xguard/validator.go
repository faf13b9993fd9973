package xguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
	"github.com/omeyang/tenantkit/pkg/observability/xmetrics"
)

// =============================================================================
// 指标常量
// =============================================================================

const (
	// MetricsComponent 组件名称。
	MetricsComponent = "xguard"

	// MetricsOpCheck 守卫检查操作名。
	MetricsOpCheck = "Check"

	// 属性 Key
	MetricsAttrTenantID = "tenant_id"
	MetricsAttrMode     = "mode"
	MetricsAttrResource = "resource_type"
	MetricsAttrSoftFail = "soft_fail"
)

// =============================================================================
// Validator
// =============================================================================

// Validator 守卫操作的访问校验器。
//
// 构造后只读，可被任意多个工作单元并发使用。校验器自身不持有
// 租户状态——当前租户来自 context，共享状态仅剩追加式的审计汇。
type Validator struct {
	service *xtenant.Service
	opts    *Options
}

// New 创建访问校验器。
// service 为 nil 时返回 ErrNilService。
func New(service *xtenant.Service, opts ...Option) (*Validator, error) {
	if service == nil {
		return nil, ErrNilService
	}

	options := applyOptions(opts)
	if options.Sink == nil {
		options.Sink = NewSlogSink(options.Logger)
	}

	return &Validator{
		service: service,
		opts:    options,
	}, nil
}

// Registry 返回校验器使用的声明注册表，供启动期注册声明。
func (v *Validator) Registry() *Registry {
	return v.opts.Registry
}

// =============================================================================
// 守卫入口
// =============================================================================

// Check 按声明校验一次守卫调用。
//
// 在守卫操作体执行前调用；返回非 nil 错误（*AccessError）时操作体
// 不得执行。声明 SoftFail 时失败被降级为 Warn 日志并返回 nil——
// 唯一的例外是租户上下文缺失，它始终硬失败。
func (v *Validator) Check(ctx context.Context, decl Declaration, args Args) error {
	return v.checkWith(ctx, "", decl.Operation, decl, args)
}

// CheckOp 通过注册表解析声明后校验。
//
// 解析优先级：操作级声明完整胜出，否则组件级默认；
// 均未注册时返回 ErrNoDeclaration（没有声明的操作不是受守卫操作，
// 静默放行会掩盖接线遗漏）。
func (v *Validator) CheckOp(ctx context.Context, component, operation string, args Args) error {
	decl, ok := v.opts.Registry.Resolve(component, operation)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrNoDeclaration, component, operation)
	}
	if decl.Operation == "" {
		decl.Operation = operation
	}
	return v.checkWith(ctx, component, decl.Operation, decl, args)
}

func (v *Validator) checkWith(ctx context.Context, component, operation string, decl Declaration, args Args) error {
	obsCtx, span := xmetrics.Start(ctx, v.opts.Observer, xmetrics.SpanOptions{
		Component: MetricsComponent,
		Operation: MetricsOpCheck,
		Attrs: []xmetrics.Attr{
			xmetrics.String(MetricsAttrMode, decl.Mode.String()),
			xmetrics.String(MetricsAttrResource, decl.ResourceType),
		},
	})

	tc, hasCtx := xtenant.FromContext(obsCtx)
	err := v.evaluate(obsCtx, tc, hasCtx, decl, args)

	if decl.Audit {
		v.writeAudit(obsCtx, component, operation, decl, tc, err)
	}

	span.End(xmetrics.Result{
		Err: err,
		Attrs: []xmetrics.Attr{
			xmetrics.String(MetricsAttrTenantID, tc.TenantID.String()),
			xmetrics.Bool(MetricsAttrSoftFail, decl.SoftFail),
		},
	})

	if err == nil {
		return nil
	}

	// 上下文存在性不可协商：SoftFail 只降级模式检查，不降级 ErrNoTenantContext。
	if decl.SoftFail && !errors.Is(err, ErrNoTenantContext) {
		v.opts.Logger.Warn("tenant access check failed, continuing (soft-fail)",
			slog.String("component", component),
			slog.String("operation", operation),
			slog.String("mode", decl.Mode.String()),
			slog.String("tenant_id", tc.TenantID.String()),
			slog.Any("error", err),
		)
		return nil
	}

	return &AccessError{
		Err:          err,
		Mode:         decl.Mode,
		Component:    component,
		Operation:    operation,
		ResourceType: decl.ResourceType,
		TenantID:     tc.TenantID,
		Message:      decl.Message,
	}
}

// =============================================================================
// 模式检查
// =============================================================================

func (v *Validator) evaluate(ctx context.Context, tc xtenant.Context, hasCtx bool, decl Declaration, args Args) error {
	if !hasCtx {
		return ErrNoTenantContext
	}

	// 系统租户绕过：仅当声明显式允许时短路本次调用的所有检查。
	if decl.AllowSystemTenant && (tc.System || v.service.IsSystem(tc.TenantID)) {
		return nil
	}

	switch decl.Mode {
	case ModeRequireContext, ModeReadAccess:
		if decl.ValidateTenantStatus {
			return v.requireActive(ctx)
		}
		return nil

	case ModeValidateTenantID:
		declared, err := tenantIDArg(args, decl.TenantIDParam)
		if err != nil {
			return err
		}
		if declared != tc.TenantID {
			return fmt.Errorf("%w: declared %s, current %s", ErrTenantMismatch, declared, tc.TenantID)
		}
		return nil

	case ModeValidateEntityTenant:
		entity, err := entityArg(args, decl.EntityParam)
		if err != nil {
			return err
		}
		if !entity.AccessibleBy(tc.TenantID) {
			return fmt.Errorf("%w: entity owned by %s", ErrCrossTenantAccess, entity.OwnerTenantID())
		}
		return nil

	case ModeValidateEntityIDs:
		ids, err := idsArg(args, decl.EntityIDsParam)
		if err != nil {
			return err
		}
		if v.opts.Resolver == nil {
			return ErrNoOwnerResolver
		}
		for _, id := range ids {
			owner, err := v.opts.Resolver.ResolveOwner(ctx, id)
			if err != nil {
				return fmt.Errorf("xguard: resolve owner of %s: %w", id, err)
			}
			if owner != tc.TenantID {
				return fmt.Errorf("%w: id %s owned by %s", ErrCrossTenantAccess, id, owner)
			}
		}
		return nil

	case ModeWriteAccess, ModeDeleteAccess:
		// 写/删除始终要求激活租户，不受 ValidateTenantStatus 开关影响。
		return v.requireActive(ctx)

	case ModeCustom:
		if decl.Custom != nil {
			return decl.Custom(ctx, args)
		}
		return nil

	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(decl.Mode))
	}
}

// requireActive 要求当前租户处于激活状态。
// 状态查询失败按失败处理（包含 xtenant.ErrStatusLookup），不静默放行。
func (v *Validator) requireActive(ctx context.Context) error {
	active, err := v.service.ValidateCurrentTenantAccess(ctx)
	if err != nil {
		return err
	}
	if !active {
		return ErrInactiveTenant
	}
	return nil
}

// =============================================================================
// 审计
// =============================================================================

func (v *Validator) writeAudit(ctx context.Context, component, operation string, decl Declaration, tc xtenant.Context, checkErr error) {
	record := Record{
		Component:    component,
		Operation:    operation,
		Mode:         decl.Mode,
		TenantID:     tc.TenantID,
		Result:       ResultSuccess,
		ResourceType: decl.ResourceType,
		At:           time.Now(),
	}
	if checkErr != nil {
		record.Result = ResultFailed
		record.Detail = checkErr.Error()
	}

	// 审计写入失败只记日志，绝不影响守卫结果。
	if err := v.opts.Sink.Write(ctx, record); err != nil {
		v.opts.Logger.Error("audit sink write failed",
			slog.String("component", component),
			slog.String("operation", operation),
			slog.Any("error", err),
		)
	}
}
