package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-service/internal/domain"
)

// ApplicationRepository encapsulates job application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error)
	ListByPosting(ctx context.Context, postingID string) ([]domain.Application, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, student_id, posting_id, resume_link, skills, projects, github_profile,
        portfolio_website, additional_info, status, applied_on`

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	const query = `
        INSERT INTO applications (student_id, posting_id, resume_link, skills, projects, github_profile,
            portfolio_website, additional_info, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, applied_on`
	err := r.pool.QueryRow(ctx, query,
		a.StudentID,
		a.PostingID,
		a.ResumeLink,
		nonNil(a.Skills),
		nonNil(a.Projects),
		a.GithubProfile,
		a.PortfolioWebsite,
		a.AdditionalInfo,
		a.Status,
	).Scan(&a.ID, &a.AppliedOn)
	return mapError(err)
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE student_id=$1 ORDER BY applied_on DESC`
	return r.list(ctx, query, studentID)
}

func (r *applicationRepository) ListByPosting(ctx context.Context, postingID string) ([]domain.Application, error) {
	if !isUUID(postingID) {
		return nil, nil
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE posting_id=$1 ORDER BY applied_on`
	return r.list(ctx, query, postingID)
}

func (r *applicationRepository) list(ctx context.Context, query string, arg string) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, mapError(err)
	}
	apps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Application, error) {
		var a domain.Application
		err := row.Scan(
			&a.ID,
			&a.StudentID,
			&a.PostingID,
			&a.ResumeLink,
			&a.Skills,
			&a.Projects,
			&a.GithubProfile,
			&a.PortfolioWebsite,
			&a.AdditionalInfo,
			&a.Status,
			&a.AppliedOn,
		)
		return a, err
	})
	return apps, mapError(err)
}
