package middleware

import (
	"net/http"

	"marcha-api/internal/domain/entity"
	"marcha-api/pkg/response"
)

// RequireRole creates a middleware that checks if the caller has any of the required roles.
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireStaff allows administrators and professionals
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleProfessional)(next)
}

// IsStaff reports whether the caller in the request context is staff
func IsStaff(r *http.Request) bool {
	role, _ := GetRoleFromContext(r.Context())
	return role == entity.RoleAdmin || role == entity.RoleProfessional
}
