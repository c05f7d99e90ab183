package authz

import "fmt"

// RoleSeed 組み込みロール定義
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds システム組み込みロールの一覧
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "content_editor",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/exchanges", Action: "*"},
				{Object: "/admin/exchanges/:id", Action: "*"},
				{Object: "/admin/guides", Action: "*"},
				{Object: "/admin/guides/:id", Action: "*"},
				{Object: "/admin/banners", Action: "*"},
				{Object: "/admin/banners/:id", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "affiliate_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/routes", Action: "*"},
				{Object: "/admin/routes/:id", Action: "*"},
				{Object: "/admin/clicks", Action: "GET"},
				{Object: "/admin/stats/*", Action: "GET"},
				{Object: "/admin/settings/tracking_config", Action: "PUT"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 組み込みロールと既定ポリシーを初期化する
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
