package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// NoticeRepository handles notice data access.
type NoticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository creates a new NoticeRepository.
func NewNoticeRepository(pool *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{pool: pool}
}

// Create inserts a new notice.
func (r *NoticeRepository) Create(ctx context.Context, n *model.Notice) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notices (class_id, title, message, is_important, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		n.ClassID, n.Title, n.Message, n.IsImportant, n.CreatedBy,
	).Scan(&n.ID, &n.CreatedAt)
}

// GetByID retrieves a notice.
func (r *NoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	n := &model.Notice{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_id, title, message, is_important, created_by, created_at
		 FROM notices WHERE id = $1`, id,
	).Scan(&n.ID, &n.ClassID, &n.Title, &n.Message, &n.IsImportant, &n.CreatedBy, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListByClass retrieves a class's notices, newest first.
func (r *NoticeRepository) ListByClass(ctx context.Context, classID int) ([]model.Notice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, message, is_important, created_by, created_at
		 FROM notices WHERE class_id = $1
		 ORDER BY created_at DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.ID, &n.ClassID, &n.Title, &n.Message,
			&n.IsImportant, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	if notices == nil {
		notices = []model.Notice{}
	}
	return notices, rows.Err()
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
