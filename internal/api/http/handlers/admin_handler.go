package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/api/dto"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/service"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// AdminHandler serves admin dashboards and student management.
type AdminHandler struct {
	admin         *service.AdminService
	notifications *service.NotificationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, notifications *service.NotificationService) *AdminHandler {
	return &AdminHandler{admin: admin, notifications: notifications}
}

// Profile GET /admin/profile.
func (h *AdminHandler) Profile(c *fiber.Ctx) error {
	admin, err := auth.CurrentAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"admin_id":    admin.ID,
		"admin_email": admin.Email,
		"first_name":  admin.FirstName,
		"last_name":   admin.LastName,
		"role":        admin.Role,
	})
}

// ListStudents GET /get-all-students.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	roster, err := h.admin.ListStudents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(roster)
}

// ViewStudent GET /view-profile?student_id=.
func (h *AdminHandler) ViewStudent(c *fiber.Ctx) error {
	student, err := h.admin.ViewStudent(c.UserContext(), c.Query("student_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"student_details": student})
}

// GrantEditAccess PUT /grant-edit-access?allow=&all_students=. The body is a JSON array of student ids.
func (h *AdminHandler) GrantEditAccess(c *fiber.Ctx) error {
	admin, err := auth.CurrentAdmin(c)
	if err != nil {
		return err
	}
	allow, err := queryBool(c, "allow", true)
	if err != nil {
		return err
	}
	all, err := queryBool(c, "all_students", false)
	if err != nil {
		return err
	}
	var ids []string
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&ids); err != nil {
			return apperrors.NewValidationError("body must be a JSON array of student ids", nil)
		}
	}

	result, err := h.admin.SetEditAccess(c.UserContext(), admin, allow, all, ids)
	if err != nil {
		return err
	}
	verb := "granted"
	if !result.Allow {
		verb = "revoked"
	}
	if result.All {
		return c.JSON(dto.EditAccessResponse{
			Message:          "Profile edit access " + verb + " for all students",
			TargetedStudents: "all",
			ModifiedCount:    result.ModifiedCount,
		})
	}
	return c.JSON(dto.EditAccessResponse{
		Message:           "Profile edit access " + verb,
		TargetedStudents:  result.Targeted,
		InvalidStudentIDs: result.InvalidIDs,
		ModifiedCount:     result.ModifiedCount,
	})
}

// Dashboard GET /dashboard-stats.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// SendNotification POST /send-notification.
func (h *AdminHandler) SendNotification(c *fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	count, err := h.notifications.Send(c.UserContext(), req.StudentID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Notification sent successfully", "recipients": count})
}

func queryBool(c *fiber.Ctx, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError("invalid boolean query parameter", map[string]any{key: raw})
	}
	return v, nil
}
