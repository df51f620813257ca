package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-service/internal/domain"
)

// StudentRepository defines persistence access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	ExistingIDs(ctx context.Context, studentIDs []string) ([]string, error)
	SetEditAccess(ctx context.Context, studentIDs []string, allow bool) (int64, error)
	SetEditAccessAll(ctx context.Context, allow bool) (int64, error)
	CountByPlacement(ctx context.Context) (total int64, placed int64, err error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `student_id, email, password_hash, first_name, last_name, contact, role,
        placement_status, can_edit_profile, current_step, is_step_completed, is_eligible,
        overall_cgpa, resume_link, profile, created_at, updated_at`

func (r *studentRepository) Create(ctx context.Context, s *domain.Student) error {
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	const query = `
        INSERT INTO students (student_id, email, password_hash, first_name, last_name, contact, role,
            placement_status, can_edit_profile, current_step, is_step_completed, is_eligible, profile)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	err = r.pool.QueryRow(ctx, query,
		s.StudentID,
		s.Email,
		s.PasswordHash,
		s.FirstName,
		s.LastName,
		s.Contact,
		s.Role,
		s.PlacementStatus,
		s.CanEditProfile,
		s.CurrentStep,
		s.IsStepCompleted,
		s.IsEligible,
		profile,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapError(err)
}

func (r *studentRepository) Update(ctx context.Context, s *domain.Student) error {
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	const query = `
        UPDATE students SET first_name=$1, last_name=$2, contact=$3, placement_status=$4,
            can_edit_profile=$5, current_step=$6, is_step_completed=$7, is_eligible=$8,
            overall_cgpa=$9, resume_link=$10, profile=$11, updated_at=NOW()
        WHERE student_id=$12
        RETURNING updated_at`
	err = r.pool.QueryRow(ctx, query,
		s.FirstName,
		s.LastName,
		s.Contact,
		s.PlacementStatus,
		s.CanEditProfile,
		s.CurrentStep,
		s.IsStepCompleted,
		s.IsEligible,
		s.OverallCGPA,
		s.ResumeLink,
		profile,
		s.StudentID,
	).Scan(&s.UpdatedAt)
	return mapError(err)
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id=$1`
	return scanStudent(r.pool.QueryRow(ctx, query, studentID))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email=$1`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

func (r *studentRepository) List(ctx context.Context) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, mapError(rows.Err())
}

func (r *studentRepository) ExistingIDs(ctx context.Context, studentIDs []string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_id FROM students WHERE student_id = ANY($1)`, studentIDs)
	if err != nil {
		return nil, mapError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, mapError(err)
}

func (r *studentRepository) SetEditAccess(ctx context.Context, studentIDs []string, allow bool) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE students SET can_edit_profile=$1, updated_at=NOW() WHERE student_id = ANY($2)`,
		allow, studentIDs)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *studentRepository) SetEditAccessAll(ctx context.Context, allow bool) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE students SET can_edit_profile=$1, updated_at=NOW()`, allow)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *studentRepository) CountByPlacement(ctx context.Context) (int64, int64, error) {
	const query = `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE placement_status = $1)
        FROM students`
	var total, placed int64
	if err := r.pool.QueryRow(ctx, query, domain.PlacementPlaced).Scan(&total, &placed); err != nil {
		return 0, 0, mapError(err)
	}
	return total, placed, nil
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var (
		s       domain.Student
		profile []byte
	)
	if err := row.Scan(
		&s.StudentID,
		&s.Email,
		&s.PasswordHash,
		&s.FirstName,
		&s.LastName,
		&s.Contact,
		&s.Role,
		&s.PlacementStatus,
		&s.CanEditProfile,
		&s.CurrentStep,
		&s.IsStepCompleted,
		&s.IsEligible,
		&s.OverallCGPA,
		&s.ResumeLink,
		&profile,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &s.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	return &s, nil
}
