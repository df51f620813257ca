package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/api/dto"
	"github.com/spec-kit/placement-service/internal/auth"
	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/service"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// ContentHandler serves announcements and preparation resources.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs handler.
func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// AddAnnouncement POST /announcement/add-announcement.
func (h *ContentHandler) AddAnnouncement(c *fiber.Ctx) error {
	admin, err := auth.CurrentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	a, err := h.content.AddAnnouncement(c.UserContext(), admin, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Announcement added successfully", "announcement": a})
}

// ListAnnouncements GET /announcement/get-announcements.
func (h *ContentHandler) ListAnnouncements(c *fiber.Ctx) error {
	items, err := h.content.Announcements(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"announcements": items})
}

// AddResource POST /resources.
func (h *ContentHandler) AddResource(c *fiber.Ctx) error {
	var req dto.ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.content.AddResource(c.UserContext(), domain.Resource{
		Name:        req.Name,
		Category:    req.Category,
		Link:        req.Link,
		Description: req.Description,
		Kind:        req.Type,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"resource": res})
}

// ListResources GET /resources.
func (h *ContentHandler) ListResources(c *fiber.Ctx) error {
	items, err := h.content.Resources(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"resources": items})
}
