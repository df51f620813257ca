package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository/memory"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

type guardFixture struct {
	store  *memory.Store
	tokens *TokenManager
	guard  *Guard
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	store := memory.NewStore()
	tokens := NewTokenManager("secret", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Students().Create(ctx, &domain.Student{
		StudentID:    "SSGI1",
		Email:        "a@b.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
	}))
	require.NoError(t, store.Admins().Create(ctx, &domain.Admin{
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
	}))
	store.SeedSuperAdmin("root@example.com", "cap-token")

	return &guardFixture{
		store:  store,
		tokens: tokens,
		guard:  NewGuard(tokens, store.Students(), store.Admins(), store.SuperAdmins(), zap.NewNop()),
	}
}

func (f *guardFixture) bearer(t *testing.T, subject string, role domain.Role) string {
	t.Helper()
	token, _, err := f.tokens.Issue(subject, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticateResolvesStudent(t *testing.T) {
	f := newGuardFixture(t)

	p, err := f.guard.Authenticate(context.Background(), f.bearer(t, "SSGI1", domain.RoleStudent), domain.PrincipalStudent)
	require.NoError(t, err)
	require.NotNil(t, p.Student)
	assert.Equal(t, "SSGI1", p.Subject())
	assert.Empty(t, p.Student.PasswordHash)
}

func TestAuthenticateResolvesAdmin(t *testing.T) {
	f := newGuardFixture(t)

	p, err := f.guard.Authenticate(context.Background(), f.bearer(t, "admin@example.com", domain.RoleAdmin), domain.PrincipalAdmin)
	require.NoError(t, err)
	require.NotNil(t, p.Admin)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.Empty(t, p.Admin.PasswordHash)
}

func TestAuthenticateFailures(t *testing.T) {
	f := newGuardFixture(t)
	expired, _, err := f.tokens.Issue("SSGI1", domain.RoleStudent, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		class  domain.PrincipalClass
	}{
		{"missing header", "", domain.PrincipalStudent},
		{"wrong scheme", "Basic abc", domain.PrincipalStudent},
		{"empty bearer", "Bearer ", domain.PrincipalStudent},
		{"garbage token", "Bearer not-a-token", domain.PrincipalStudent},
		{"expired token", "Bearer " + expired, domain.PrincipalStudent},
		{"student token on admin route", f.bearer(t, "SSGI1", domain.RoleStudent), domain.PrincipalAdmin},
		{"admin token on student route", f.bearer(t, "admin@example.com", domain.RoleAdmin), domain.PrincipalStudent},
		{"deleted student", f.bearer(t, "SSGI999", domain.RoleStudent), domain.PrincipalStudent},
		{"admin subject in student store", f.bearer(t, "admin@example.com", domain.RoleStudent), domain.PrincipalStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.guard.Authenticate(context.Background(), tt.header, tt.class)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
		})
	}
}

func TestAuthenticateStoreOutage(t *testing.T) {
	f := newGuardFixture(t)
	header := f.bearer(t, "SSGI1", domain.RoleStudent)
	f.store.Fail = errors.New("connection refused")

	_, err := f.guard.Authenticate(context.Background(), header, domain.PrincipalStudent)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, apperrors.CodeOf(err))
}

func newGuardApp(f *guardFixture) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/student", f.guard.RequireStudent(), func(c *fiber.Ctx) error {
		s, err := CurrentStudent(c)
		if err != nil {
			return err
		}
		return c.SendString(s.StudentID)
	})
	app.Get("/admin", f.guard.RequireAdmin(), RequireRole(domain.RoleSuperAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Post("/create_admin", f.guard.RequireSuperAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusCreated)
	})
	return app
}

func TestGuardHandlers(t *testing.T) {
	f := newGuardFixture(t)
	app := newGuardApp(f)

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"student ok", http.MethodGet, "/student", map[string]string{"Authorization": f.bearer(t, "SSGI1", domain.RoleStudent)}, http.StatusOK},
		{"student missing token", http.MethodGet, "/student", nil, http.StatusUnauthorized},
		{"admin route with student token", http.MethodGet, "/admin", map[string]string{"Authorization": f.bearer(t, "SSGI1", domain.RoleStudent)}, http.StatusUnauthorized},
		{"admin lacks superadmin role", http.MethodGet, "/admin", map[string]string{"Authorization": f.bearer(t, "admin@example.com", domain.RoleAdmin)}, http.StatusForbidden},
		{"create admin without capability", http.MethodPost, "/create_admin", nil, http.StatusForbidden},
		{"create admin with unknown capability", http.MethodPost, "/create_admin", map[string]string{SuperAdminHeader: "nope"}, http.StatusForbidden},
		{"create admin with capability", http.MethodPost, "/create_admin", map[string]string{SuperAdminHeader: "cap-token"}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, h.Compare(hash, "secret1"))
	assert.Error(t, h.Compare(hash, "secret2"))
	h.CompareMissing("secret1")
}
