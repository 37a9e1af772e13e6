package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// OverviewRepository handles admin overview data access.
type OverviewRepository struct {
	pool *pgxpool.Pool
}

// NewOverviewRepository creates a new OverviewRepository.
func NewOverviewRepository(pool *pgxpool.Pool) *OverviewRepository {
	return &OverviewRepository{pool: pool}
}

// GetTotals retrieves the high-level entity counts.
func (r *OverviewRepository) GetTotals(ctx context.Context) (model.OverviewTotals, error) {
	var totals model.OverviewTotals
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM users WHERE role = 'teacher'),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM tests),
			(SELECT COUNT(*) FROM submissions)`,
	).Scan(&totals.Students, &totals.Teachers, &totals.Classes, &totals.Tests, &totals.Submissions)
	return totals, err
}

// GetRecentSubmissions retrieves the last N submissions across all tests.
func (r *OverviewRepository) GetRecentSubmissions(ctx context.Context, limit int) ([]model.RecentSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, u.name, t.title, s.score, s.total_questions, s.submitted_at
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 JOIN tests t ON t.id = s.test_id
		 ORDER BY s.submitted_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recents []model.RecentSubmission
	for rows.Next() {
		var rec model.RecentSubmission
		if err := rows.Scan(&rec.SubmissionID, &rec.StudentName, &rec.TestTitle,
			&rec.Score, &rec.TotalQuestions, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		recents = append(recents, rec)
	}
	if recents == nil {
		recents = []model.RecentSubmission{}
	}
	return recents, rows.Err()
}
