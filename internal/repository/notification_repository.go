package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-service/internal/domain"
)

// NotificationRepository stores per-student notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// Broadcast writes one notification per registered student and returns the count.
	Broadcast(ctx context.Context, message string) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Notification, error)
}

// AnnouncementRepository stores public announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	List(ctx context.Context) ([]domain.Announcement, error)
}

// ActivityRepository stores the student activity trail.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.ActivityLog, error)
}

// ResourceRepository stores preparation resources.
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) error
	List(ctx context.Context) ([]domain.Resource, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (student_id, message)
        VALUES ($1, $2)
        RETURNING id, created_at`
	return mapError(r.pool.QueryRow(ctx, query, n.StudentID, n.Message).Scan(&n.ID, &n.CreatedAt))
}

func (r *notificationRepository) Broadcast(ctx context.Context, message string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
        INSERT INTO notifications (student_id, message)
        SELECT student_id, $1 FROM students`, message)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *notificationRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, student_id, message, created_at
        FROM notifications WHERE student_id=$1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Notification, error) {
		var n domain.Notification
		err := row.Scan(&n.ID, &n.StudentID, &n.Message, &n.CreatedAt)
		return n, err
	})
	return out, mapError(err)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository instantiates repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	const query = `
        INSERT INTO announcements (title, content, admin_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return mapError(r.pool.QueryRow(ctx, query, a.Title, a.Content, a.AdminID).Scan(&a.ID, &a.CreatedAt))
}

func (r *announcementRepository) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, title, content, admin_id, created_at
        FROM announcements ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Announcement, error) {
		var a domain.Announcement
		err := row.Scan(&a.ID, &a.Title, &a.Content, &a.AdminID, &a.CreatedAt)
		return a, err
	})
	return out, mapError(err)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, e *domain.ActivityLog) error {
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	const query = `
        INSERT INTO activity_logs (student_id, action, route, metadata)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return mapError(r.pool.QueryRow(ctx, query, e.StudentID, e.Action, e.Route, metadata).Scan(&e.ID, &e.CreatedAt))
}

func (r *activityRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, student_id, action, route, metadata, created_at
        FROM activity_logs WHERE student_id=$1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ActivityLog, error) {
		var (
			e   domain.ActivityLog
			raw []byte
		)
		if err := row.Scan(&e.ID, &e.StudentID, &e.Action, &e.Route, &raw, &e.CreatedAt); err != nil {
			return e, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Metadata); err != nil {
				return e, fmt.Errorf("decode metadata: %w", err)
			}
		}
		return e, nil
	})
	return out, mapError(err)
}

type resourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository instantiates repository.
func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

func (r *resourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	const query = `
        INSERT INTO resources (name, category, link, description, kind)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return mapError(r.pool.QueryRow(ctx, query, res.Name, res.Category, res.Link, res.Description, res.Kind).Scan(&res.ID))
}

func (r *resourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, category, link, description, kind
        FROM resources ORDER BY category, name`)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Resource, error) {
		var res domain.Resource
		err := row.Scan(&res.ID, &res.Name, &res.Category, &res.Link, &res.Description, &res.Kind)
		return res, err
	})
	return out, mapError(err)
}
