package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"

	// SuperAdminHeader carries the super-admin capability token.
	SuperAdminHeader = "X-Super-Admin-Token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Class   domain.PrincipalClass
	Role    domain.Role
	Student *domain.Student
	Admin   *domain.Admin
}

// Subject returns the business identifier of the caller.
func (p *Principal) Subject() string {
	switch {
	case p.Student != nil:
		return p.Student.StudentID
	case p.Admin != nil:
		return p.Admin.Email
	default:
		return ""
	}
}

// Guard validates bearer tokens and resolves them to live principals.
type Guard struct {
	tokens      *TokenManager
	students    repository.StudentRepository
	admins      repository.AdminRepository
	superAdmins repository.SuperAdminRepository
	logger      *zap.Logger
}

// NewGuard constructs the access guard.
func NewGuard(tokens *TokenManager, students repository.StudentRepository, admins repository.AdminRepository, superAdmins repository.SuperAdminRepository, logger *zap.Logger) *Guard {
	return &Guard{
		tokens:      tokens,
		students:    students,
		admins:      admins,
		superAdmins: superAdmins,
		logger:      logger.With(zap.String("component", "access_guard")),
	}
}

// Authenticate resolves the Authorization header value to a principal of the given class.
func (g *Guard) Authenticate(ctx context.Context, authHeader string, class domain.PrincipalClass) (*Principal, error) {
	raw, ok := bearerToken(authHeader)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing or malformed bearer token")
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperrors.NewUnauthorized("token expired")
		}
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if !RoleAllowed(class, claims.Role) {
		return nil, apperrors.NewUnauthorized("token not valid for this resource")
	}

	principal := &Principal{Class: class, Role: claims.Role}
	switch class {
	case domain.PrincipalStudent:
		student, err := g.students.GetByStudentID(ctx, claims.Subject)
		if err != nil {
			return nil, g.lookupError(err)
		}
		redacted := student.Redacted()
		principal.Student = &redacted
	case domain.PrincipalAdmin:
		admin, err := g.admins.GetByEmail(ctx, claims.Subject)
		if err != nil {
			return nil, g.lookupError(err)
		}
		redacted := admin.Redacted()
		principal.Admin = &redacted
		principal.Role = admin.Role
	default:
		return nil, apperrors.NewUnauthorized("unknown principal class")
	}
	return principal, nil
}

func (g *Guard) lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewUnauthorized("principal no longer exists")
	}
	g.logger.Error("principal lookup failed", zap.Error(err))
	return apperrors.NewUpstreamUnavailable(err)
}

// RequireStudent admits only callers holding a live student token.
func (g *Guard) RequireStudent() fiber.Handler {
	return g.require(domain.PrincipalStudent)
}

// RequireAdmin admits only callers holding a live admin or superadmin token.
func (g *Guard) RequireAdmin() fiber.Handler {
	return g.require(domain.PrincipalAdmin)
}

func (g *Guard) require(class domain.PrincipalClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := g.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization), class)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireSuperAdmin checks the capability header against the super-admin store.
func (g *Guard) RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(SuperAdminHeader))
		if token == "" {
			return apperrors.NewForbidden("super admin token required")
		}
		if _, err := g.superAdmins.GetByCapabilityToken(c.UserContext(), token); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewForbidden("super admin token not recognized")
			}
			g.logger.Error("super admin lookup failed", zap.Error(err))
			return apperrors.NewUpstreamUnavailable(err)
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CurrentStudent returns the resolved student or an Unauthenticated error.
func CurrentStudent(c *fiber.Ctx) (*domain.Student, error) {
	p, ok := PrincipalFromContext(c)
	if !ok || p.Student == nil {
		return nil, apperrors.NewUnauthorized("student authentication required")
	}
	return p.Student, nil
}

// CurrentAdmin returns the resolved admin or an Unauthenticated error.
func CurrentAdmin(c *fiber.Ctx) (*domain.Admin, error) {
	p, ok := PrincipalFromContext(c)
	if !ok || p.Admin == nil {
		return nil, apperrors.NewUnauthorized("admin authentication required")
	}
	return p.Admin, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
