package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// ResourceRepository handles class resource data access.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// Create inserts a new resource.
func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO resources (class_id, name, type, link)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		res.ClassID, res.Name, res.Type, res.Link,
	).Scan(&res.ID, &res.CreatedAt)
}

// GetByID retrieves a resource.
func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	res := &model.Resource{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_id, name, type, link, created_at
		 FROM resources WHERE id = $1`, id,
	).Scan(&res.ID, &res.ClassID, &res.Name, &res.Type, &res.Link, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByClass retrieves a class's resources, newest first.
func (r *ResourceRepository) ListByClass(ctx context.Context, classID int) ([]model.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, name, type, link, created_at
		 FROM resources WHERE class_id = $1
		 ORDER BY created_at DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.ClassID, &res.Name, &res.Type, &res.Link, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	if resources == nil {
		resources = []model.Resource{}
	}
	return resources, rows.Err()
}

// Delete removes a resource.
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
