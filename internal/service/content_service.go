package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// ContentService manages announcements and preparation resources.
type ContentService struct {
	announcements repository.AnnouncementRepository
	resources     repository.ResourceRepository
	logger        *zap.Logger
}

// NewContentService builds the service.
func NewContentService(announcements repository.AnnouncementRepository, resources repository.ResourceRepository, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		announcements: announcements,
		resources:     resources,
		logger:        logger.With(zap.String("component", "content")),
	}
}

// AddAnnouncement publishes an announcement on behalf of an admin.
func (s *ContentService) AddAnnouncement(ctx context.Context, actor *domain.Admin, title, content string) (*domain.Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	}
	if content == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid announcement", details)
	}

	a := &domain.Announcement{Title: title, Content: content, AdminID: actor.ID}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, storeFailure(s.logger, "create announcement", err)
	}
	return a, nil
}

// Announcements lists announcements, newest first.
func (s *ContentService) Announcements(ctx context.Context) ([]domain.Announcement, error) {
	items, err := s.announcements.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list announcements", err)
	}
	if items == nil {
		items = []domain.Announcement{}
	}
	return items, nil
}

// AddResource stores a preparation resource.
func (s *ContentService) AddResource(ctx context.Context, res domain.Resource) (*domain.Resource, error) {
	res.Name = strings.TrimSpace(res.Name)
	res.Link = strings.TrimSpace(res.Link)
	details := map[string]any{}
	if res.Name == "" {
		details["name"] = "required"
	}
	if res.Link == "" {
		details["link"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid resource", details)
	}
	if err := s.resources.Create(ctx, &res); err != nil {
		return nil, storeFailure(s.logger, "create resource", err)
	}
	return &res, nil
}

// Resources lists every stored resource.
func (s *ContentService) Resources(ctx context.Context) ([]domain.Resource, error) {
	items, err := s.resources.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list resources", err)
	}
	if items == nil {
		items = []domain.Resource{}
	}
	return items, nil
}
