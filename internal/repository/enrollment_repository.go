package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// ErrDuplicateEnrollment is returned when the student is already
// enrolled in the class.
var ErrDuplicateEnrollment = errors.New("student already enrolled in this class")

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts a new enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, class_id)
		 VALUES ($1, $2)
		 RETURNING id, enrolled_at`,
		e.StudentID, e.ClassID,
	).Scan(&e.ID, &e.EnrolledAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateEnrollment
			case "23503":
				return pgx.ErrNoRows
			}
		}
		return err
	}
	return nil
}

// Delete removes a student's enrollment in a class.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, classID int) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id = $1 AND class_id = $2`,
		studentID, classID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Exists reports whether a student is enrolled in a class.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, classID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`,
		studentID, classID,
	).Scan(&exists)
	return exists, err
}

// CountByClass returns the number of students enrolled in a class.
func (r *EnrollmentRepository) CountByClass(ctx context.Context, classID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE class_id = $1`, classID,
	).Scan(&count)
	return count, err
}
