package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// ErrDuplicateSubmission is returned when a student already has a
// submission for the test.
var ErrDuplicateSubmission = errors.New("submission already exists for this test and student")

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a graded submission. The (test_id, student_id) unique
// constraint surfaces a duplicate as a unique violation for the service
// to map.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO submissions (test_id, student_id, answers, score, total_questions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, submitted_at`,
		s.TestID, s.StudentID, answers, s.Score, s.TotalQuestions,
	).Scan(&s.ID, &s.SubmittedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateSubmission
			case "23503": // test or student deleted mid-flight
				return pgx.ErrNoRows
			}
		}
		return err
	}
	return nil
}

// GetByTestAndStudent retrieves a student's submission for a test.
func (r *SubmissionRepository) GetByTestAndStudent(ctx context.Context, testID uuid.UUID, studentID int) (*model.Submission, error) {
	s := &model.Submission{}
	var answers []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, test_id, student_id, answers, score, total_questions, submitted_at
		 FROM submissions WHERE test_id = $1 AND student_id = $2`,
		testID, studentID,
	).Scan(&s.ID, &s.TestID, &s.StudentID, &answers, &s.Score, &s.TotalQuestions, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return s, nil
}

// ListByTest retrieves all submissions for a test with student identity,
// newest first.
func (r *SubmissionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.SubmissionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.student_id, u.name, u.email, s.score, s.total_questions, s.submitted_at
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.test_id = $1
		 ORDER BY s.submitted_at DESC`,
		testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []model.SubmissionRow
	for rows.Next() {
		var row model.SubmissionRow
		if err := rows.Scan(&row.SubmissionID, &row.StudentID, &row.StudentName, &row.StudentEmail,
			&row.Score, &row.TotalQuestions, &row.SubmittedAt); err != nil {
			return nil, err
		}
		submissions = append(submissions, row)
	}
	if submissions == nil {
		submissions = []model.SubmissionRow{}
	}
	return submissions, rows.Err()
}

// ListByStudent retrieves a student's result history, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.ResultHistoryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.test_id, t.title, c.name, s.score, s.total_questions, s.submitted_at
		 FROM submissions s
		 JOIN tests t ON t.id = s.test_id
		 JOIN classes c ON c.id = t.class_id
		 WHERE s.student_id = $1
		 ORDER BY s.submitted_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultHistoryRow
	for rows.Next() {
		var row model.ResultHistoryRow
		if err := rows.Scan(&row.SubmissionID, &row.TestID, &row.TestTitle, &row.ClassName,
			&row.Score, &row.TotalQuestions, &row.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	if results == nil {
		results = []model.ResultHistoryRow{}
	}
	return results, rows.Err()
}

// CountByTest returns the number of submissions for a test.
func (r *SubmissionRepository) CountByTest(ctx context.Context, testID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE test_id = $1`, testID,
	).Scan(&count)
	return count, err
}
