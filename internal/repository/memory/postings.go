package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/placement-service/internal/domain"
	"github.com/spec-kit/placement-service/internal/repository"
)

type postingRepo struct{ s *Store }

func (r postingRepo) Create(ctx context.Context, p *domain.Posting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.postings[p.ID] = clonePosting(*p)
	return nil
}

func (r postingRepo) Update(ctx context.Context, p *domain.Posting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	existing, ok := r.s.postings[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.s.now()
	r.s.postings[p.ID] = clonePosting(*p)
	return nil
}

func (r postingRepo) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	p, ok := r.s.postings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePosting(p)
	return &p, nil
}

func (r postingRepo) List(ctx context.Context) ([]domain.Posting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Posting, 0, len(r.s.postings))
	for _, p := range r.s.postings {
		out = append(out, clonePosting(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Status == domain.PostingClosed, out[j].Status == domain.PostingClosed
		if ci != cj {
			return !ci
		}
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out, nil
}

func (r postingRepo) AppendDocuments(ctx context.Context, id string, urls []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	p, ok := r.s.postings[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.RelatedDocuments = append(append([]string{}, p.RelatedDocuments...), urls...)
	p.UpdatedAt = r.s.now()
	r.s.postings[id] = p
	return nil
}

func (r postingRepo) CloseExpired(ctx context.Context, today time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	var closed []string
	for id, p := range r.s.postings {
		if p.Status == domain.PostingClosed || !p.ExpiredBy(today) {
			continue
		}
		p.Status = domain.PostingClosed
		p.UpdatedAt = r.s.now()
		r.s.postings[id] = p
		closed = append(closed, id)
	}
	sort.Strings(closed)
	return closed, nil
}

func clonePosting(p domain.Posting) domain.Posting {
	p.RelatedDocuments = append([]string(nil), p.RelatedDocuments...)
	return p
}

type applicationRepo struct{ s *Store }

func (r applicationRepo) Create(ctx context.Context, a *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.check(ctx); err != nil {
		return err
	}
	for _, existing := range r.s.applications {
		if existing.StudentID == a.StudentID && existing.PostingID == a.PostingID {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.NewString()
	a.AppliedOn = r.s.now()
	r.s.applications = append(r.s.applications, *a)
	return nil
}

func (r applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	return r.filter(ctx, func(a domain.Application) bool { return a.StudentID == studentID }, true)
}

func (r applicationRepo) ListByPosting(ctx context.Context, postingID string) ([]domain.Application, error) {
	return r.filter(ctx, func(a domain.Application) bool { return a.PostingID == postingID }, false)
}

func (r applicationRepo) filter(ctx context.Context, keep func(domain.Application) bool, newestFirst bool) ([]domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.check(ctx); err != nil {
		return nil, err
	}
	var out []domain.Application
	for _, a := range r.s.applications {
		if keep(a) {
			out = append(out, a)
		}
	}
	if newestFirst {
		reverse(out)
	}
	return out, nil
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
