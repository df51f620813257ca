package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-service/internal/domain"
)

// AdminRepository defines persistence access for admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// SuperAdminRepository resolves super-admin capability tokens.
type SuperAdminRepository interface {
	GetByCapabilityToken(ctx context.Context, token string) (*domain.SuperAdmin, error)
	// Ensure stores the capability token for email, replacing any previous one.
	Ensure(ctx context.Context, email, token string) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	const query = `
        INSERT INTO admins (email, password_hash, first_name, last_name, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		a.Email,
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		a.Role,
	).Scan(&a.ID, &a.CreatedAt)
	return mapError(err)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `
        SELECT id, email, password_hash, first_name, last_name, role, created_at
        FROM admins WHERE email=$1`
	var a domain.Admin
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.Role,
		&a.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

type superAdminRepository struct {
	pool *pgxpool.Pool
}

// NewSuperAdminRepository returns a Postgres-backed implementation.
func NewSuperAdminRepository(pool *pgxpool.Pool) SuperAdminRepository {
	return &superAdminRepository{pool: pool}
}

func (r *superAdminRepository) GetByCapabilityToken(ctx context.Context, token string) (*domain.SuperAdmin, error) {
	const query = `
        SELECT id, email, capability_token, created_at
        FROM super_admins WHERE capability_token=$1`
	var sa domain.SuperAdmin
	err := r.pool.QueryRow(ctx, query, token).Scan(&sa.ID, &sa.Email, &sa.CapabilityToken, &sa.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, mapError(err)
	}
	return &sa, nil
}

func (r *superAdminRepository) Ensure(ctx context.Context, email, token string) error {
	const query = `
        INSERT INTO super_admins (email, capability_token)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET capability_token = EXCLUDED.capability_token`
	_, err := r.pool.Exec(ctx, query, email, token)
	return mapError(err)
}
