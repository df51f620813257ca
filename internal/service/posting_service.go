package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/events"
	"github.com/spec-kit/placement-service/internal/repository"
	"github.com/spec-kit/placement-service/internal/storage"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// PostingService manages company postings and their applicants.
type PostingService struct {
	postings     repository.PostingRepository
	applications repository.ApplicationRepository
	students     repository.StudentRepository
	objects      storage.ObjectStore
	dispatcher   events.Dispatcher
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// PostingDependencies bundles collaborators for the posting service.
type PostingDependencies struct {
	Postings     repository.PostingRepository
	Applications repository.ApplicationRepository
	Students     repository.StudentRepository
	Objects      storage.ObjectStore
	Dispatcher   events.Dispatcher
	Location     *time.Location
	Clock        func() time.Time
	Logger       *zap.Logger
}

// NewPostingService builds the service.
func NewPostingService(deps PostingDependencies) *PostingService {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostingService{
		postings:     deps.Postings,
		applications: deps.Applications,
		students:     deps.Students,
		objects:      deps.Objects,
		dispatcher:   deps.Dispatcher,
		loc:          loc,
		now:          clock,
		logger:       logger.With(zap.String("component", "postings")),
	}
}

// PostingInput describes posting creation fields.
type PostingInput struct {
	CompanyName         string
	JobRole             string
	ShortDescription    string
	DetailedDescription string
	Location            string
	Package             int64
	Deadline            string
	RelatedDocuments    []string
	CompanyWebsite      *string
	Status              string
	Eligibility         *float64
}

// PostingUpdate describes a partial posting update; nil fields are left unchanged.
type PostingUpdate struct {
	CompanyName         *string
	JobRole             *string
	ShortDescription    *string
	DetailedDescription *string
	Location            *string
	Package             *int64
	Deadline            *string
	RelatedDocuments    []string
	CompanyWebsite      *string
	Status              *string
	Eligibility         *float64
}

// PostingSummary aggregates the public company listing.
type PostingSummary struct {
	Postings       []domain.Posting
	CompanyVisited int
	HighestPackage int64
	AveragePackage float64
}

// Applicant is the admin view of one application.
type Applicant struct {
	StudentID     string    `json:"student_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Branch        string    `json:"branch"`
	ApplicationID string    `json:"application_id"`
	ResumeLink    string    `json:"resume_link"`
	AppliedOn     time.Time `json:"applied_on"`
}

// Create validates and stores a posting. A posting whose deadline already passed is stored Closed.
func (s *PostingService) Create(ctx context.Context, actor *domain.Admin, in PostingInput) (*domain.Posting, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.CompanyName) == "" {
		details["company_name"] = "required"
	}
	if strings.TrimSpace(in.JobRole) == "" {
		details["role"] = "required"
	}
	if in.Package < 0 {
		details["package"] = "must not be negative"
	}
	deadline, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.Deadline))
	if err != nil {
		details["apply_before"] = "must be a YYYY-MM-DD date"
	}
	status, err := domain.ParsePostingStatus(in.Status)
	if err != nil {
		details["status"] = "must be ComingSoon, Open or Closed"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid posting", details)
	}

	posting := &domain.Posting{
		CompanyName:         strings.TrimSpace(in.CompanyName),
		JobRole:             strings.TrimSpace(in.JobRole),
		ShortDescription:    in.ShortDescription,
		DetailedDescription: in.DetailedDescription,
		Location:            in.Location,
		Package:             in.Package,
		Deadline:            deadline,
		RelatedDocuments:    in.RelatedDocuments,
		CompanyWebsite:      in.CompanyWebsite,
		Status:              status,
		Eligibility:         in.Eligibility,
	}
	s.applyExpiry(posting)

	if err := s.postings.Create(ctx, posting); err != nil {
		return nil, storeFailure(s.logger, "create posting", err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:  events.EventPostingCreated,
			Actor: events.Actor{Role: actor.Role, Subject: actor.Email},
			Payload: events.PostingCreatedPayload{
				PostingID:   posting.ID,
				CompanyName: posting.CompanyName,
				JobRole:     posting.JobRole,
				Status:      posting.Status,
				Deadline:    posting.Deadline,
			},
		})
	}
	s.logger.Info("posting created", zap.String("posting_id", posting.ID), zap.String("status", string(posting.Status)))
	return posting, nil
}

// Update applies a partial update and re-evaluates the deadline rule.
func (s *PostingService) Update(ctx context.Context, id string, in PostingUpdate) (*domain.Posting, error) {
	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	if in.CompanyName != nil {
		posting.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.JobRole != nil {
		posting.JobRole = strings.TrimSpace(*in.JobRole)
	}
	if in.ShortDescription != nil {
		posting.ShortDescription = *in.ShortDescription
	}
	if in.DetailedDescription != nil {
		posting.DetailedDescription = *in.DetailedDescription
	}
	if in.Location != nil {
		posting.Location = *in.Location
	}
	if in.Package != nil {
		posting.Package = *in.Package
	}
	if in.Deadline != nil {
		deadline, err := time.Parse(domain.DateLayout, strings.TrimSpace(*in.Deadline))
		if err != nil {
			details["apply_before"] = "must be a YYYY-MM-DD date"
		}
		posting.Deadline = deadline
	}
	if in.RelatedDocuments != nil {
		posting.RelatedDocuments = in.RelatedDocuments
	}
	if in.CompanyWebsite != nil {
		posting.CompanyWebsite = in.CompanyWebsite
	}
	if in.Status != nil {
		status, err := domain.ParsePostingStatus(*in.Status)
		if err != nil {
			details["status"] = "must be ComingSoon, Open or Closed"
		}
		posting.Status = status
	}
	if in.Eligibility != nil {
		posting.Eligibility = in.Eligibility
	}
	if posting.CompanyName == "" {
		details["company_name"] = "required"
	}
	if posting.JobRole == "" {
		details["role"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid posting", details)
	}
	s.applyExpiry(posting)

	if err := s.postings.Update(ctx, posting); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("company", map[string]any{"id": id})
		}
		return nil, storeFailure(s.logger, "update posting", err)
	}
	return posting, nil
}

// Get returns one posting.
func (s *PostingService) Get(ctx context.Context, id string) (*domain.Posting, error) {
	posting, err := s.postings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("company", map[string]any{"id": id})
		}
		return nil, storeFailure(s.logger, "get posting", err)
	}
	return posting, nil
}

// List returns all postings, open ones first, with package statistics.
func (s *PostingService) List(ctx context.Context) (*PostingSummary, error) {
	postings, err := s.postings.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list postings", err)
	}
	summary := &PostingSummary{Postings: postings, CompanyVisited: len(postings)}
	if len(postings) == 0 {
		summary.Postings = []domain.Posting{}
		return summary, nil
	}
	var total int64
	for _, p := range postings {
		total += p.Package
		if p.Package > summary.HighestPackage {
			summary.HighestPackage = p.Package
		}
	}
	summary.AveragePackage = float64(total) / float64(len(postings))
	return summary, nil
}

// UploadDocuments stores files and appends their URLs to the posting.
func (s *PostingService) UploadDocuments(ctx context.Context, id string, files []storage.Object) ([]string, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files provided", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		f.Folder = "company-documents"
		url, err := s.objects.Put(ctx, f)
		if err != nil {
			return nil, storeFailure(s.logger, "upload company document", err)
		}
		urls = append(urls, url)
	}
	if err := s.postings.AppendDocuments(ctx, id, urls); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("company", map[string]any{"id": id})
		}
		return nil, storeFailure(s.logger, "append documents", err)
	}
	return urls, nil
}

// Applicants lists students who applied to a posting.
func (s *PostingService) Applicants(ctx context.Context, id string) (*domain.Posting, []Applicant, error) {
	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.applications.ListByPosting(ctx, id)
	if err != nil {
		return nil, nil, storeFailure(s.logger, "list applications", err)
	}

	applicants := make([]Applicant, 0, len(apps))
	for _, app := range apps {
		student, err := s.students.GetByStudentID(ctx, app.StudentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, nil, storeFailure(s.logger, "load applicant", err)
		}
		applicants = append(applicants, Applicant{
			StudentID:     student.StudentID,
			FirstName:     student.FirstName,
			LastName:      student.LastName,
			Branch:        student.Profile.Branch,
			ApplicationID: app.ID,
			ResumeLink:    app.ResumeLink,
			AppliedOn:     app.AppliedOn,
		})
	}
	return posting, applicants, nil
}

func (s *PostingService) applyExpiry(p *domain.Posting) {
	if p.ExpiredBy(domain.StartOfDay(s.now(), s.loc)) {
		p.Status = domain.PostingClosed
	}
}
