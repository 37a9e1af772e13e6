package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edifyminds/edify-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, name, description, grade_level, days_of_week, schedule_time,
	start_date, end_date, meeting_link, teacher_id, created_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.GradeLevel, &c.DaysOfWeek,
		&c.ScheduleTime, &c.StartDate, &c.EndDate, &c.MeetingLink, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// ListByTeacher retrieves classes owned by a teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE teacher_id = $1 ORDER BY created_at DESC`,
		teacherID)
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// ListForStudent retrieves the classes a student is enrolled in.
func (r *ClassRepository) ListForStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.description, c.grade_level, c.days_of_week, c.schedule_time,
		        c.start_date, c.end_date, c.meeting_link, c.teacher_id, c.created_at
		 FROM classes c
		 JOIN enrollments e ON e.class_id = c.id
		 WHERE e.student_id = $1
		 ORDER BY c.created_at DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// ListAll retrieves every class.
func (r *ClassRepository) ListAll(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

func collectClasses(rows pgx.Rows) ([]model.Class, error) {
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.GradeLevel, &c.DaysOfWeek,
			&c.ScheduleTime, &c.StartDate, &c.EndDate, &c.MeetingLink, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	if classes == nil {
		classes = []model.Class{}
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description, grade_level, days_of_week, schedule_time,
		                      start_date, end_date, meeting_link, teacher_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		c.Name, c.Description, c.GradeLevel, c.DaysOfWeek, c.ScheduleTime,
		c.StartDate, c.EndDate, c.MeetingLink, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt)
}

// Update modifies an existing class.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, description = $2, grade_level = $3, days_of_week = $4,
		        schedule_time = $5, start_date = $6, end_date = $7, meeting_link = $8
		 WHERE id = $9`,
		c.Name, c.Description, c.GradeLevel, c.DaysOfWeek, c.ScheduleTime,
		c.StartDate, c.EndDate, c.MeetingLink, c.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a class. Enrollments, tests, homework, notices and
// resources cascade at the database level.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListStudents retrieves the enrolled students of a class.
func (r *ClassRepository) ListStudents(ctx context.Context, classID int) ([]model.ClassStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, e.enrolled_at
		 FROM users u
		 JOIN enrollments e ON e.student_id = u.id
		 WHERE e.class_id = $1
		 ORDER BY u.name`,
		classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.ClassStudent
	for rows.Next() {
		var s model.ClassStudent
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.EnrolledAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if students == nil {
		students = []model.ClassStudent{}
	}
	return students, rows.Err()
}
