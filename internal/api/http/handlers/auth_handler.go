package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/api/dto"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/service"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

const tokenType = "bearer"

// AuthHandler exposes login and registration endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /token. Students are tried before admins.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var form dto.TokenForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form payload", nil)
	}
	if strings.TrimSpace(form.Username) == "" || form.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}
	session, err := h.auth.LoginAny(c.UserContext(), form.Username, form.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: session.Token, TokenType: tokenType})
}

// StudentLogin handles POST /login.
func (h *AuthHandler) StudentLogin(c *fiber.Ctx) error {
	var req dto.StudentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password, domain.PrincipalStudent)
	if err != nil {
		return err
	}
	return c.JSON(dto.StudentLoginResponse{
		Message:         "Login successful",
		AccessToken:     session.Token,
		TokenType:       tokenType,
		StudentID:       session.Student.StudentID,
		CurrentStep:     session.Student.CurrentStep,
		IsStepCompleted: session.Student.IsStepCompleted,
	})
}

// RegisterStudent handles POST /student-register.
func (h *AuthHandler) RegisterStudent(c *fiber.Ctx) error {
	var req dto.StudentRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.auth.RegisterStudent(c.UserContext(), service.StudentRegistration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Contact:   req.Contact,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.StudentRegisterResponse{
		Message:         "Student registered successfully",
		StudentID:       session.Student.StudentID,
		AccessToken:     session.Token,
		TokenType:       tokenType,
		CurrentStep:     session.Student.CurrentStep,
		IsStepCompleted: session.Student.IsStepCompleted,
	})
}

// AdminLogin handles POST /admin-login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AdminEmail == "" || req.AdminPassword == "" {
		return apperrors.NewValidationError("admin_email and admin_password required", nil)
	}
	session, err := h.auth.Login(c.UserContext(), req.AdminEmail, req.AdminPassword, domain.PrincipalAdmin)
	if err != nil {
		return err
	}
	admin := session.Admin
	return c.JSON(dto.AdminLoginResponse{
		AdminEmail:       admin.Email,
		FirstName:        admin.FirstName,
		LastName:         admin.LastName,
		AdminAccessToken: session.Token,
		AdminID:          admin.ID,
		Role:             string(admin.Role),
		TokenType:        tokenType,
		Message:          "Login successful",
	})
}

// CreateAdmin handles POST /create_admin behind the super-admin guard.
func (h *AuthHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role, err := domain.ParseRole(req.Role)
	if req.Role != "" && err != nil {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
	}
	if _, err := h.auth.CreateAdmin(c.UserContext(), service.AdminRegistration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	}); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "Admin created successfully"})
}
