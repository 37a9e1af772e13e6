package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// TestRepository handles test data access. Questions are stored as a
// JSONB array in document order.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// Create inserts a new test with its parsed questions.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (class_id, title, description, duration_minutes, questions, question_count, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		t.ClassID, t.Title, t.Description, t.DurationMinutes, questions, t.QuestionCount, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByID retrieves a test with its full question list.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	var questions []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_id, title, description, duration_minutes, questions, question_count, created_by, created_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.ClassID, &t.Title, &t.Description, &t.DurationMinutes,
		&questions, &t.QuestionCount, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return t, nil
}

// ListByClass retrieves test summaries for a class, questions omitted.
func (r *TestRepository) ListByClass(ctx context.Context, classID int) ([]model.TestSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, description, duration_minutes, question_count, created_by, created_at
		 FROM tests WHERE class_id = $1
		 ORDER BY created_at DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.TestSummary
	for rows.Next() {
		var t model.TestSummary
		if err := rows.Scan(&t.ID, &t.ClassID, &t.Title, &t.Description,
			&t.DurationMinutes, &t.QuestionCount, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	if tests == nil {
		tests = []model.TestSummary{}
	}
	return tests, rows.Err()
}

// ListAll retrieves every test with questions, for cache prewarming.
func (r *TestRepository) ListAll(ctx context.Context) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, title, description, duration_minutes, questions, question_count, created_by, created_at
		 FROM tests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var (
			t         model.Test
			questions []byte
		)
		if err := rows.Scan(&t.ID, &t.ClassID, &t.Title, &t.Description, &t.DurationMinutes,
			&questions, &t.QuestionCount, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questions, &t.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// Delete removes a test. Submissions cascade at the database level.
func (r *TestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
