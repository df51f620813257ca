package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// ApplicationService handles student job applications.
type ApplicationService struct {
	applications repository.ApplicationRepository
	postings     repository.PostingRepository
	activity     *ActivityRecorder
	dispatcher   events.Dispatcher
	logger       *zap.Logger
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	Applications repository.ApplicationRepository
	Postings     repository.PostingRepository
	Activity     *ActivityRecorder
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewApplicationService builds the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		applications: deps.Applications,
		postings:     deps.Postings,
		activity:     deps.Activity,
		dispatcher:   deps.Dispatcher,
		logger:       logger.With(zap.String("component", "applications")),
	}
}

// ApplicationInput carries the optional application form.
type ApplicationInput struct {
	ResumeLink       string
	Skills           []string
	Projects         []string
	GithubProfile    *string
	PortfolioWebsite *string
	AdditionalInfo   *string
}

// AppliedPosting pairs an application with the posting it targets.
type AppliedPosting struct {
	Application domain.Application `json:"application"`
	Posting     domain.Posting     `json:"company"`
}

// Apply submits the student's application to an open or upcoming posting.
func (s *ApplicationService) Apply(ctx context.Context, student *domain.Student, postingID string, in ApplicationInput) (*domain.Application, error) {
	postingID = strings.TrimSpace(postingID)
	if postingID == "" {
		return nil, apperrors.NewValidationError("company_id is required", nil)
	}
	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("company", map[string]any{"id": postingID})
		}
		return nil, storeFailure(s.logger, "get posting", err)
	}
	if posting.Status == domain.PostingClosed {
		return nil, apperrors.NewValidationError("applications for this company are closed", map[string]any{"id": postingID})
	}

	resume := strings.TrimSpace(in.ResumeLink)
	if resume == "" && student.ResumeLink != nil {
		resume = *student.ResumeLink
	}
	if resume == "" {
		return nil, apperrors.NewValidationError("upload a resume before applying", map[string]any{"resume_link": "required"})
	}

	app := &domain.Application{
		StudentID:        student.StudentID,
		PostingID:        posting.ID,
		ResumeLink:       resume,
		Skills:           in.Skills,
		Projects:         in.Projects,
		GithubProfile:    in.GithubProfile,
		PortfolioWebsite: in.PortfolioWebsite,
		AdditionalInfo:   in.AdditionalInfo,
		Status:           domain.ApplicationApplied,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewAlreadyExists("already applied to this company")
		}
		return nil, storeFailure(s.logger, "create application", err)
	}

	s.activity.Record(ctx, student.StudentID, "apply_job", "/apply-job", map[string]any{
		"company_id":   posting.ID,
		"company_name": posting.CompanyName,
	})
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:  events.EventApplicationSubmitted,
			Actor: events.Actor{Role: domain.RoleStudent, Subject: student.StudentID},
			Payload: events.ApplicationSubmittedPayload{
				ApplicationID: app.ID,
				PostingID:     posting.ID,
				CompanyName:   posting.CompanyName,
				StudentID:     student.StudentID,
				StudentEmail:  student.Email,
			},
		})
	}
	return app, nil
}

// ForStudent lists a student's applications with their postings, newest first.
// Applications whose posting no longer exists are skipped.
func (s *ApplicationService) ForStudent(ctx context.Context, studentID string) ([]AppliedPosting, error) {
	apps, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeFailure(s.logger, "list applications", err)
	}
	out := make([]AppliedPosting, 0, len(apps))
	for _, app := range apps {
		posting, err := s.postings.GetByID(ctx, app.PostingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, storeFailure(s.logger, "get posting", err)
		}
		out = append(out, AppliedPosting{Application: app, Posting: *posting})
	}
	return out, nil
}
