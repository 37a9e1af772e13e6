package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// HomeworkRepository handles homework data access.
type HomeworkRepository struct {
	pool *pgxpool.Pool
}

// NewHomeworkRepository creates a new HomeworkRepository.
func NewHomeworkRepository(pool *pgxpool.Pool) *HomeworkRepository {
	return &HomeworkRepository{pool: pool}
}

// Create inserts a new homework entry.
func (r *HomeworkRepository) Create(ctx context.Context, h *model.Homework) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO homework (class_id, title, description, due_date, attachment_link)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		h.ClassID, h.Title, h.Description, h.DueDate, h.AttachmentLink,
	).Scan(&h.ID, &h.CreatedAt)
}

// GetByID retrieves a homework entry.
func (r *HomeworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Homework, error) {
	h := &model.Homework{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_id, title, description, due_date, attachment_link, created_at
		 FROM homework WHERE id = $1`, id,
	).Scan(&h.ID, &h.ClassID, &h.Title, &h.Description, &h.DueDate, &h.AttachmentLink, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ListByClass retrieves a class's homework, newest first.
func (r *HomeworkRepository) ListByClass(ctx context.Context, classID int) ([]model.Homework, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, description, due_date, attachment_link, created_at
		 FROM homework WHERE class_id = $1
		 ORDER BY created_at DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var homework []model.Homework
	for rows.Next() {
		var h model.Homework
		if err := rows.Scan(&h.ID, &h.ClassID, &h.Title, &h.Description,
			&h.DueDate, &h.AttachmentLink, &h.CreatedAt); err != nil {
			return nil, err
		}
		homework = append(homework, h)
	}
	if homework == nil {
		homework = []model.Homework{}
	}
	return homework, rows.Err()
}

// Delete removes a homework entry.
func (r *HomeworkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM homework WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
