package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
)

// ActivityRecorder appends entries to a student's activity trail.
// A failed write is logged and never fails the caller's request.
type ActivityRecorder struct {
	activities repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityRecorder builds a recorder. A nil repository disables recording.
func NewActivityRecorder(activities repository.ActivityRepository, logger *zap.Logger) *ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRecorder{activities: activities, logger: logger.With(zap.String("component", "activity"))}
}

// Record stores one action.
func (r *ActivityRecorder) Record(ctx context.Context, studentID, action, route string, metadata map[string]any) {
	if r == nil || r.activities == nil {
		return
	}
	entry := &domain.ActivityLog{StudentID: studentID, Action: action, Route: route, Metadata: metadata}
	if err := r.activities.Create(ctx, entry); err != nil {
		r.logger.Warn("activity log write failed",
			zap.String("student_id", studentID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// List returns a student's activities, newest first.
func (r *ActivityRecorder) List(ctx context.Context, studentID string) ([]domain.ActivityLog, error) {
	if r == nil || r.activities == nil {
		return []domain.ActivityLog{}, nil
	}
	items, err := r.activities.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeFailure(r.logger, "list activities", err)
	}
	if items == nil {
		items = []domain.ActivityLog{}
	}
	return items, nil
}
