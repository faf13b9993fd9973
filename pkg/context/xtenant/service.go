package xtenant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// =============================================================================
// 外部协作方
// =============================================================================

// StatusChecker 租户状态查询协作方。
//
// 这是核心与外部世界的边界之一：租户是否处于激活状态由外部系统
// （租户管理服务/公司表）回答。生产实现见 xstatus 包。
type StatusChecker interface {
	// IsActive 查询租户是否处于激活状态。
	// 协作方不可用时返回错误，调用方不得将错误当作"激活"处理。
	IsActive(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// =============================================================================
// Service
// =============================================================================

// DefaultSystemTenantID 默认的系统租户 ID。
// 可通过 WithSystemTenantID 选项覆盖。
var DefaultSystemTenantID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

// Service 租户上下文服务，"当前以哪个租户运行"的唯一权威。
//
// Service 构造后只读，可被任意多个工作单元并发共享。
// 租户上下文本身通过 context.Context 随调用链传递，Service 不持有它。
type Service struct {
	checker StatusChecker
	opts    *Options
}

// NewService 创建租户上下文服务。
// checker 为 nil 时返回 ErrNilStatusChecker（fail-fast：
// 状态校验是 Write/Delete 守卫的前置条件，缺失应在启动期暴露）。
func NewService(checker StatusChecker, opts ...Option) (*Service, error) {
	if checker == nil {
		return nil, ErrNilStatusChecker
	}
	return &Service{
		checker: checker,
		opts:    applyOptions(opts),
	}, nil
}

// SystemTenantID 返回配置的系统租户 ID。
func (s *Service) SystemTenantID() uuid.UUID {
	return s.opts.SystemTenantID
}

// IsSystem 判断给定租户 ID 是否为系统租户。
func (s *Service) IsSystem(tenantID uuid.UUID) bool {
	return tenantID == s.opts.SystemTenantID
}

// WithSystemTenant 将系统租户注入 context。
//
// 仅供跨租户管理操作（运维工具、后台任务）使用；注入系统租户
// 本身不授予任何绕过能力，绕过由守卫声明按操作允许。
func (s *Service) WithSystemTenant(ctx context.Context) (context.Context, error) {
	return WithTenantContext(ctx, Context{TenantID: s.opts.SystemTenantID, System: true})
}

// =============================================================================
// 状态校验
// =============================================================================

// ValidateCurrentTenantAccess 校验当前租户是否处于激活状态。
//
// 返回 (false, nil) 表示租户被停用；返回错误表示上下文缺失或
// 状态查询失败（ErrStatusLookup 包装）。查询带超时
// （默认 5s，可通过 WithStatusTimeout 配置），悬挂的状态查询
// 不会无限阻塞所有写操作。
//
// 设计决策: 系统租户视为始终激活——它是特权伪租户，外部租户表中
// 没有对应记录，向协作方查询只会得到 not found。
func (s *Service) ValidateCurrentTenantAccess(ctx context.Context) (bool, error) {
	tc, ok := FromContext(ctx)
	if !ok {
		if ctx == nil {
			return false, ErrNilContext
		}
		return false, ErrNoTenantContext
	}
	if tc.System || s.IsSystem(tc.TenantID) {
		return true, nil
	}
	return s.IsTenantActive(ctx, tc.TenantID)
}

// IsTenantActive 校验指定租户是否处于激活状态（带超时的协作方查询）。
func (s *Service) IsTenantActive(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	if ctx == nil {
		return false, ErrNilContext
	}
	if tenantID == uuid.Nil {
		return false, ErrInvalidTenantID
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.opts.StatusTimeout)
	defer cancel()

	active, err := s.checker.IsActive(lookupCtx, tenantID)
	if err != nil {
		s.opts.Logger.Warn("tenant status lookup failed",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("%w: %w", ErrStatusLookup, err)
	}
	return active, nil
}

// =============================================================================
// 作用域执行
// =============================================================================

// ExecuteWithTenant 在指定租户的作用域内执行 fn。
//
// 这是临时"成为"另一个租户的唯一认可方式（后台任务、缓存预热等）。
// fn 收到的是携带 tenantID 的派生 context；调用方持有的外层 context
// 不受影响，因此作用域退出后（包括 fn 返回错误或 panic）外层租户
// 天然恢复，嵌套作用域按 LIFO 恢复。
func (s *Service) ExecuteWithTenant(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilWork
	}

	scoped, err := WithTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	prev, hadPrev := FromContext(ctx)
	s.opts.Logger.Debug("entering tenant scope",
		slog.String("tenant_id", tenantID.String()),
		slog.Bool("nested", hadPrev),
	)
	// defer 保证即使 fn panic，作用域退出也会被记录（保证清理式作用域）。
	defer func() {
		if hadPrev {
			s.opts.Logger.Debug("leaving tenant scope",
				slog.String("tenant_id", tenantID.String()),
				slog.String("restored_tenant_id", prev.TenantID.String()),
			)
			return
		}
		s.opts.Logger.Debug("leaving tenant scope",
			slog.String("tenant_id", tenantID.String()),
		)
	}()

	return fn(scoped)
}

// ExecuteAsSystem 在系统租户作用域内执行 fn。
// 等价于 ExecuteWithTenant(ctx, 系统租户, fn)，但派生 context 会
// 被标记为系统租户，使守卫声明中的 AllowSystemTenant 生效。
func (s *Service) ExecuteAsSystem(ctx context.Context, fn func(ctx context.Context) error) error {
	if fn == nil {
		return ErrNilWork
	}
	scoped, err := s.WithSystemTenant(ctx)
	if err != nil {
		return err
	}
	return fn(scoped)
}

// ExecuteWithTenantValue 在指定租户的作用域内执行 fn 并返回结果。
//
// 设计决策: 包级泛型函数而非 Service 方法——Go 方法不支持类型参数。
func ExecuteWithTenantValue[T any](s *Service, ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if fn == nil {
		return zero, ErrNilWork
	}

	var result T
	err := s.ExecuteWithTenant(ctx, tenantID, func(scoped context.Context) error {
		var innerErr error
		result, innerErr = fn(scoped)
		return innerErr
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
