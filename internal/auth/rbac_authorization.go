package auth

import (
	"context"
	"log/slog"
	"net/http"
)

type PermissionAuthorizer interface {
	HasPermission(ctx context.Context, userPermissions []string, permission string) (bool, error)
	IsAdminCtx(ctx context.Context, userPermissions []string) (bool, error)
}

type RBACAuthorization struct {
	authorizer PermissionAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		authorizer: authorizer,
		logger:     logger,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			ra.logger.Warn("authorization check failed: user not found in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		hasAccess, err := ra.authorizer.HasPermission(r.Context(), user.Permissions, permission)
		if err != nil {
			ra.logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", user.ID, "permission", permission)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// admin bypasses resource-level permissions
		if !hasAccess {
			isAdmin, err := ra.authorizer.IsAdminCtx(r.Context(), user.Permissions)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "admin check failed", "error", err, "user_id", user.ID)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			hasAccess = isAdmin
		}

		if !hasAccess {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", user.ID,
				"required_permission", permission,
				"user_permissions", user.Permissions)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// CheckAny passes when the user holds at least one of the permissions.
func (ra *RBACAuthorization) CheckAny(next http.HandlerFunc, permissions ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			ra.logger.Warn("authorization check failed: user not found in context")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		hasAccess := false
		for _, permission := range permissions {
			granted, err := ra.authorizer.HasPermission(r.Context(), user.Permissions, permission)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", user.ID, "permission", permission)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if granted {
				hasAccess = true
				break
			}
		}

		if !hasAccess {
			isAdmin, err := ra.authorizer.IsAdminCtx(r.Context(), user.Permissions)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "admin check failed", "error", err, "user_id", user.ID)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			hasAccess = isAdmin
		}

		if !hasAccess {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", user.ID,
				"required_permissions", permissions,
				"user_permissions", user.Permissions)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) Middleware(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}

func (ra *RBACAuthorization) MiddlewareAny(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.CheckAny(next.ServeHTTP, permissions...)
	}
}

func (ra *RBACAuthorization) RequireBudgetRead() func(http.Handler) http.Handler {
	return ra.Middleware("budget:read")
}

func (ra *RBACAuthorization) RequireBudgetCreate() func(http.Handler) http.Handler {
	return ra.Middleware("budget:create")
}

// RequireBudgetCreateOrUpdate gates category creation, which either the
// create or the update permission may perform.
func (ra *RBACAuthorization) RequireBudgetCreateOrUpdate() func(http.Handler) http.Handler {
	return ra.MiddlewareAny("budget:create", "budget:update")
}

func (ra *RBACAuthorization) RequireBudgetUpdate() func(http.Handler) http.Handler {
	return ra.Middleware("budget:update")
}

func (ra *RBACAuthorization) RequireBudgetDelete() func(http.Handler) http.Handler {
	return ra.Middleware("budget:delete")
}

func (ra *RBACAuthorization) RequireBroadcast() func(http.Handler) http.Handler {
	return ra.Middleware("messaging:send")
}

func (ra *RBACAuthorization) RequireSettingsUpdate() func(http.Handler) http.Handler {
	return ra.Middleware("settings:update")
}

func (ra *RBACAuthorization) RequireActivityRead() func(http.Handler) http.Handler {
	return ra.Middleware("activity:read")
}
