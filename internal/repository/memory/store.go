// Package memory provides map-backed repositories used in development mode
// and as store doubles in tests. All repositories created from one Store share
// a single lock and dataset.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
)

// Store holds every collection in process memory.
type Store struct {
	mu            sync.RWMutex
	now           func() time.Time
	students      map[string]domain.Student
	admins        map[string]domain.Admin
	superAdmins   map[string]domain.SuperAdmin
	postings      map[string]domain.Posting
	applications  []domain.Application
	notifications []domain.Notification
	announcements []domain.Announcement
	activities    []domain.ActivityLog
	resources     []domain.Resource

	// Fail, when set, is returned by every call. Tests use it to simulate an outage.
	Fail error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:         time.Now,
		students:    make(map[string]domain.Student),
		admins:      make(map[string]domain.Admin),
		superAdmins: make(map[string]domain.SuperAdmin),
		postings:    make(map[string]domain.Posting),
	}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedSuperAdmin registers a capability token.
func (s *Store) SeedSuperAdmin(email, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedSuperAdmin(email, token)
}

func (s *Store) seedSuperAdmin(email, token string) {
	for existing, sa := range s.superAdmins {
		if sa.Email == email {
			delete(s.superAdmins, existing)
		}
	}
	s.superAdmins[token] = domain.SuperAdmin{ID: uuid.NewString(), Email: email, CapabilityToken: token, CreatedAt: s.now()}
}

func (s *Store) Students() repository.StudentRepository           { return studentRepo{s} }
func (s *Store) Admins() repository.AdminRepository               { return adminRepo{s} }
func (s *Store) SuperAdmins() repository.SuperAdminRepository     { return superAdminRepo{s} }
func (s *Store) Postings() repository.PostingRepository           { return postingRepo{s} }
func (s *Store) Applications() repository.ApplicationRepository   { return applicationRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Announcements() repository.AnnouncementRepository { return announcementRepo{s} }
func (s *Store) Activities() repository.ActivityRepository        { return activityRepo{s} }
func (s *Store) Resources() repository.ResourceRepository         { return resourceRepo{s} }

func (s *Store) check(ctx context.Context) error {
	if s.Fail != nil {
		return s.Fail
	}
	return ctx.Err()
}

type studentRepo struct{ s *Store }

func (r studentRepo) Create(ctx context.Context, st *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	if _, ok := r.s.students[st.StudentID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range r.s.students {
		if strings.EqualFold(existing.Email, st.Email) {
			return repository.ErrDuplicate
		}
	}
	st.CreatedAt = r.s.now()
	st.UpdatedAt = st.CreatedAt
	r.s.students[st.StudentID] = *st
	return nil
}

func (r studentRepo) Update(ctx context.Context, st *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	existing, ok := r.s.students[st.StudentID]
	if !ok {
		return repository.ErrNotFound
	}
	st.Email = existing.Email
	st.PasswordHash = existing.PasswordHash
	st.Role = existing.Role
	st.CreatedAt = existing.CreatedAt
	st.UpdatedAt = r.s.now()
	r.s.students[st.StudentID] = *st
	return nil
}

func (r studentRepo) GetByStudentID(ctx context.Context, id string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	st, ok := r.s.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (r studentRepo) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	for _, st := range r.s.students {
		if strings.EqualFold(st.Email, email) {
			return &st, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r studentRepo) List(ctx context.Context) ([]domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Student, 0, len(r.s.students))
	for _, st := range r.s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r studentRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if _, ok := r.s.students[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r studentRepo) SetEditAccess(ctx context.Context, ids []string, allow bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		st, ok := r.s.students[id]
		if !ok {
			continue
		}
		st.CanEditProfile = allow
		st.UpdatedAt = r.s.now()
		r.s.students[id] = st
		n++
	}
	return n, nil
}

func (r studentRepo) SetEditAccessAll(ctx context.Context, allow bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return 0, err
	}
	for id, st := range r.s.students {
		st.CanEditProfile = allow
		r.s.students[id] = st
	}
	return int64(len(r.s.students)), nil
}

func (r studentRepo) CountByPlacement(ctx context.Context) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return 0, 0, err
	}
	var placed int64
	for _, st := range r.s.students {
		if st.PlacementStatus == domain.PlacementPlaced {
			placed++
		}
	}
	return int64(len(r.s.students)), placed, nil
}

type adminRepo struct{ s *Store }

func (r adminRepo) Create(ctx context.Context, a *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	key := strings.ToLower(a.Email)
	if _, ok := r.s.admins[key]; ok {
		return repository.ErrDuplicate
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.s.now()
	r.s.admins[key] = *a
	return nil
}

func (r adminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	a, ok := r.s.admins[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

type superAdminRepo struct{ s *Store }

func (r superAdminRepo) GetByCapabilityToken(ctx context.Context, token string) (*domain.SuperAdmin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	sa, ok := r.s.superAdmins[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sa, nil
}

func (r superAdminRepo) Ensure(ctx context.Context, email, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	r.s.seedSuperAdmin(strings.ToLower(strings.TrimSpace(email)), token)
	return nil
}
