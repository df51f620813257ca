package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/domain"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// classRoles lists the token roles each guard class accepts.
var classRoles = map[domain.PrincipalClass][]domain.Role{
	domain.PrincipalStudent: {domain.RoleStudent},
	domain.PrincipalAdmin:   {domain.RoleAdmin, domain.RoleSuperAdmin},
}

// RoleAllowed reports whether a token role may resolve against the class's store.
func RoleAllowed(class domain.PrincipalClass, role domain.Role) bool {
	for _, allowed := range classRoles[class] {
		if allowed == role {
			return true
		}
	}
	return false
}

// RequireRole ensures an already-authenticated principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
