package auth

import "context"

type PermissionChecker interface {
	CanReadBudget(userPermissions []string) bool
	CanCreateBudgetCategory(userPermissions []string) bool
	CanUpdateBudgetCategory(userPermissions []string) bool
	CanDeleteBudgetCategory(userPermissions []string) bool
	CanSendBroadcast(userPermissions []string) bool
	CanUpdateSettings(userPermissions []string) bool
	CanReadActivity(userPermissions []string) bool
	HasAnyPermission(userPermissions []string, requiredPermissions []string) bool
	IsAdmin(userPermissions []string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error) {
	return c.HasAnyPermission(userPermissions, []string{permission}), nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, userPermissions []string) (bool, error) {
	return c.IsAdmin(userPermissions), nil
}

func (c *DefaultPermissionChecker) CanReadBudget(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"budget:read", "admin"})
}

func (c *DefaultPermissionChecker) CanCreateBudgetCategory(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"budget:create", "admin"})
}

func (c *DefaultPermissionChecker) CanUpdateBudgetCategory(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"budget:update", "admin"})
}

func (c *DefaultPermissionChecker) CanDeleteBudgetCategory(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"budget:delete", "admin"})
}

func (c *DefaultPermissionChecker) CanSendBroadcast(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"messaging:send", "admin"})
}

func (c *DefaultPermissionChecker) CanUpdateSettings(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"settings:update", "admin"})
}

func (c *DefaultPermissionChecker) CanReadActivity(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"activity:read", "admin"})
}

func (c *DefaultPermissionChecker) HasAnyPermission(userPermissions []string, requiredPermissions []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range requiredPermissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

func (c *DefaultPermissionChecker) IsAdmin(userPermissions []string) bool {
	return c.HasAnyPermission(userPermissions, []string{"admin"})
}
