package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// AdminService backs the admin dashboard and student management.
type AdminService struct {
	students repository.StudentRepository
	postings repository.PostingRepository
	logger   *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(students repository.StudentRepository, postings repository.PostingRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		students: students,
		postings: postings,
		logger:   logger.With(zap.String("component", "admin")),
	}
}

// StudentRoster is the admin listing of every student.
type StudentRoster struct {
	Students      []domain.Student `json:"students"`
	TotalStudents int              `json:"total_students"`
	TotalPlaced   int              `json:"total_students_placed"`
	PlacementRate float64          `json:"placement_rate"`
}

// DashboardStats summarises placement progress.
type DashboardStats struct {
	TotalStudents       int64   `json:"total_students"`
	TotalPlacedStudents int64   `json:"total_placed_students"`
	PlacementRate       float64 `json:"placement_rate"`
	ActiveCompanies     int     `json:"active_companies"`
	TotalCompanies      int     `json:"total_companies"`
}

// EditAccessResult reports a grant or revoke of profile edit access.
type EditAccessResult struct {
	Allow         bool
	All           bool
	Targeted      []string
	InvalidIDs    []string
	ModifiedCount int64
}

// ListStudents returns every student with the placement rate.
func (s *AdminService) ListStudents(ctx context.Context) (*StudentRoster, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list students", err)
	}
	roster := &StudentRoster{Students: make([]domain.Student, 0, len(students)), TotalStudents: len(students)}
	for _, st := range students {
		if st.PlacementStatus == domain.PlacementPlaced {
			roster.TotalPlaced++
		}
		roster.Students = append(roster.Students, st.Redacted())
	}
	roster.PlacementRate = placementRate(int64(roster.TotalPlaced), int64(roster.TotalStudents))
	return roster, nil
}

// ViewStudent returns one student's redacted record.
func (s *AdminService) ViewStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperrors.NewValidationError("student_id is required", nil)
	}
	student, err := s.students.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("student", map[string]any{"student_id": studentID})
		}
		return nil, storeFailure(s.logger, "get student", err)
	}
	redacted := student.Redacted()
	return &redacted, nil
}

// SetEditAccess grants or revokes profile editing for all students or a list of ids.
// Unknown ids are reported; an empty list or a list with no known ids is an error.
func (s *AdminService) SetEditAccess(ctx context.Context, actor *domain.Admin, allow, all bool, studentIDs []string) (*EditAccessResult, error) {
	if all {
		n, err := s.students.SetEditAccessAll(ctx, allow)
		if err != nil {
			return nil, storeFailure(s.logger, "set edit access", err)
		}
		s.logger.Info("edit access changed for all students",
			zap.String("admin", actor.Email), zap.Bool("allow", allow), zap.Int64("modified", n))
		return &EditAccessResult{Allow: allow, All: true, ModifiedCount: n}, nil
	}

	requested := dedupe(studentIDs)
	if len(requested) == 0 {
		return nil, apperrors.NewValidationError("provide student_ids or set all_students=true", nil)
	}
	existing, err := s.students.ExistingIDs(ctx, requested)
	if err != nil {
		return nil, storeFailure(s.logger, "lookup student ids", err)
	}
	if len(existing) == 0 {
		return nil, apperrors.NewNotFound("student", map[string]any{"student_ids": requested})
	}

	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	invalid := []string{}
	for _, id := range requested {
		if !known[id] {
			invalid = append(invalid, id)
		}
	}

	n, err := s.students.SetEditAccess(ctx, existing, allow)
	if err != nil {
		return nil, storeFailure(s.logger, "set edit access", err)
	}
	s.logger.Info("edit access changed",
		zap.String("admin", actor.Email), zap.Bool("allow", allow),
		zap.Int("targeted", len(existing)), zap.Int64("modified", n))
	sort.Strings(existing)
	return &EditAccessResult{Allow: allow, Targeted: existing, InvalidIDs: invalid, ModifiedCount: n}, nil
}

// Dashboard returns placement and company counts.
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, placed, err := s.students.CountByPlacement(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "count students", err)
	}
	postings, err := s.postings.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list postings", err)
	}
	stats := &DashboardStats{
		TotalStudents:       total,
		TotalPlacedStudents: placed,
		PlacementRate:       placementRate(placed, total),
		TotalCompanies:      len(postings),
	}
	for _, p := range postings {
		if p.Status != domain.PostingClosed {
			stats.ActiveCompanies++
		}
	}
	return stats, nil
}

func placementRate(placed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(placed) / float64(total) * 100
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
