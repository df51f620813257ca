package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-service/internal/domain"
)

// PostingRepository encapsulates company posting persistence.
type PostingRepository interface {
	Create(ctx context.Context, posting *domain.Posting) error
	Update(ctx context.Context, posting *domain.Posting) error
	GetByID(ctx context.Context, id string) (*domain.Posting, error)
	List(ctx context.Context) ([]domain.Posting, error)
	AppendDocuments(ctx context.Context, id string, urls []string) error
	// CloseExpired closes every non-closed posting whose deadline is strictly
	// before today's calendar date and returns the affected ids.
	CloseExpired(ctx context.Context, today time.Time) ([]string, error)
}

type postingRepository struct {
	pool *pgxpool.Pool
}

// NewPostingRepository instantiates repository.
func NewPostingRepository(pool *pgxpool.Pool) PostingRepository {
	return &postingRepository{pool: pool}
}

const postingColumns = `id, company_name, job_role, short_description, detailed_description, location,
        package, deadline, related_documents, company_website, status, eligibility, created_at, updated_at`

func (r *postingRepository) Create(ctx context.Context, p *domain.Posting) error {
	const query = `
        INSERT INTO postings (company_name, job_role, short_description, detailed_description, location,
            package, deadline, related_documents, company_website, status, eligibility)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.CompanyName,
		p.JobRole,
		p.ShortDescription,
		p.DetailedDescription,
		p.Location,
		p.Package,
		p.Deadline,
		nonNil(p.RelatedDocuments),
		p.CompanyWebsite,
		p.Status,
		p.Eligibility,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapError(err)
}

func (r *postingRepository) Update(ctx context.Context, p *domain.Posting) error {
	if !isUUID(p.ID) {
		return ErrNotFound
	}
	const query = `
        UPDATE postings SET company_name=$1, job_role=$2, short_description=$3, detailed_description=$4,
            location=$5, package=$6, deadline=$7, related_documents=$8, company_website=$9,
            status=$10, eligibility=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.CompanyName,
		p.JobRole,
		p.ShortDescription,
		p.DetailedDescription,
		p.Location,
		p.Package,
		p.Deadline,
		nonNil(p.RelatedDocuments),
		p.CompanyWebsite,
		p.Status,
		p.Eligibility,
		p.ID,
	).Scan(&p.UpdatedAt)
	return mapError(err)
}

func (r *postingRepository) GetByID(ctx context.Context, id string) (*domain.Posting, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + postingColumns + ` FROM postings WHERE id=$1`
	return scanPosting(r.pool.QueryRow(ctx, query, id))
}

func (r *postingRepository) List(ctx context.Context) ([]domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings ORDER BY (status = 'Closed'), deadline`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var postings []domain.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, *p)
	}
	return postings, mapError(rows.Err())
}

func (r *postingRepository) AppendDocuments(ctx context.Context, id string, urls []string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `
        UPDATE postings SET related_documents = related_documents || $1, updated_at=NOW()
        WHERE id=$2`, urls, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postingRepository) CloseExpired(ctx context.Context, today time.Time) ([]string, error) {
	const query = `
        UPDATE postings SET status=$1, updated_at=NOW()
        WHERE deadline < $2::date AND status <> $1
        RETURNING id`
	rows, err := r.pool.Query(ctx, query, domain.PostingClosed, today)
	if err != nil {
		return nil, mapError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, mapError(err)
}

func scanPosting(row pgx.Row) (*domain.Posting, error) {
	var p domain.Posting
	if err := row.Scan(
		&p.ID,
		&p.CompanyName,
		&p.JobRole,
		&p.ShortDescription,
		&p.DetailedDescription,
		&p.Location,
		&p.Package,
		&p.Deadline,
		&p.RelatedDocuments,
		&p.CompanyWebsite,
		&p.Status,
		&p.Eligibility,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
