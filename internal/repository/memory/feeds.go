package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/spec-kit/placement-service/internal/domain"
)

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = r.s.now()
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r notificationRepo) Broadcast(ctx context.Context, message string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(r.s.students))
	for id := range r.s.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	now := r.s.now()
	for _, id := range ids {
		r.s.notifications = append(r.s.notifications, domain.Notification{
			ID:        uuid.NewString(),
			StudentID: id,
			Message:   message,
			CreatedAt: now,
		})
	}
	return int64(len(ids)), nil
}

func (r notificationRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	var out []domain.Notification
	for _, n := range r.s.notifications {
		if n.StudentID == studentID {
			out = append(out, n)
		}
	}
	reverse(out)
	return out, nil
}

type announcementRepo struct{ s *Store }

func (r announcementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.s.now()
	r.s.announcements = append(r.s.announcements, *a)
	return nil
}

func (r announcementRepo) List(ctx context.Context) ([]domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	out := append([]domain.Announcement(nil), r.s.announcements...)
	reverse(out)
	return out, nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Create(ctx context.Context, e *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = r.s.now()
	r.s.activities = append(r.s.activities, *e)
	return nil
}

func (r activityRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	var out []domain.ActivityLog
	for _, e := range r.s.activities {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	reverse(out)
	return out, nil
}

type resourceRepo struct{ s *Store }

func (r resourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	res.ID = uuid.NewString()
	r.s.resources = append(r.s.resources, *res)
	return nil
}

func (r resourceRepo) List(ctx context.Context) ([]domain.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	out := append([]domain.Resource(nil), r.s.resources...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
