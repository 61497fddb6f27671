package middleware

import (
	"net/http"

	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the allowed roles.
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if entity.Role(role) == allowedRole {
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

// RequirePractitioner allows psychologists and psychiatrists
func RequirePractitioner(next http.Handler) http.Handler {
	return RequireRole(entity.RolePsychologue, entity.RolePsychiatre)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireAdminOrPractitioner allows admins and both practitioner roles
func RequireAdminOrPractitioner(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RolePsychologue, entity.RolePsychiatre)(next)
}
