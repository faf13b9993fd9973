package xguard

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/omeyang/tenantkit/pkg/context/xtenant"
)

// =============================================================================
// 参数解析
// 声明引用的参数从 Args 中按名提取；缺失与类型错误都是 fail-fast 的
// 校验失败，而非静默跳过——声明写错参数名应当在第一次调用就暴露。
// =============================================================================

// tenantIDArg 提取租户 ID 参数，接受 uuid.UUID 或 UUID 字符串。
func tenantIDArg(args Args, name string) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("%w: tenant id param name not declared", ErrMissingParam)
	}
	raw, ok := args[name]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMissingParam, name)
	}

	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %q is not a UUID string: %v", ErrInvalidParamType, name, err)
		}
		return id, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %q is %T, want uuid.UUID or string", ErrInvalidParamType, name, raw)
	}
}

// entityArg 提取实体参数，要求实现 xtenant.Aware。
func entityArg(args Args, name string) (xtenant.Aware, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: entity param name not declared", ErrMissingParam)
	}
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingParam, name)
	}

	entity, ok := raw.(xtenant.Aware)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T", ErrNotTenantAware, name, raw)
	}
	return entity, nil
}

// idsArg 提取 ID 集合参数，接受 []uuid.UUID 或 []string。
// 空集合是合法的（空集上的归属校验平凡成立）。
func idsArg(args Args, name string) ([]uuid.UUID, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: entity ids param name not declared", ErrMissingParam)
	}
	raw, ok := args[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingParam, name)
	}

	switch v := raw.(type) {
	case []uuid.UUID:
		return v, nil
	case []string:
		ids := make([]uuid.UUID, 0, len(v))
		for _, s := range v {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %q contains non-UUID %q: %v", ErrInvalidParamType, name, s, err)
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%w: %q is %T, want []uuid.UUID or []string", ErrInvalidParamType, name, raw)
	}
}
