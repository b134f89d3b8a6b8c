package authz

import (
	"fmt"

	"github.com/mercado-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵：seller 继承 customer，admin 继承 seller
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleCustomer.String(),
			Policies: []Policy{
				{Object: "/me", Action: "GET"},
				{Object: "/me/permissions", Action: "GET"},
				{Object: "/cart", Action: "GET"},
				{Object: "/cart/items", Action: "POST"},
				{Object: "/cart/items/:id", Action: "PATCH"},
				{Object: "/cart/items/:id", Action: "DELETE"},
			},
		},
		{
			Role:     constants.RoleSeller.String(),
			Inherits: []string{constants.RoleCustomer.String()},
			Policies: []Policy{
				{Object: "/me/store", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleAdmin.String(),
			Inherits: []string{constants.RoleSeller.String()},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（可重复执行）
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("ensure builtin role %s failed: %w", seed.Role, err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
