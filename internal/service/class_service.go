package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/model"
	"github.com/edifyminds/edify-backend/internal/repository"
)

// Domain errors.
var (
	ErrAlreadyEnrolled   = errors.New("student already enrolled in this class")
	ErrNotStudentAccount = errors.New("user is not a student account")
	ErrNoClassAccess     = errors.New("no access to this class")
)

// ClassService handles class and enrollment business logic.
type ClassService struct {
	classRepo  *repository.ClassRepository
	enrollRepo *repository.EnrollmentRepository
	userRepo   *repository.UserRepository
	log        zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(
	classRepo *repository.ClassRepository,
	enrollRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	log zerolog.Logger,
) *ClassService {
	return &ClassService{
		classRepo:  classRepo,
		enrollRepo: enrollRepo,
		userRepo:   userRepo,
		log:        log.With().Str("component", "class_service").Logger(),
	}
}

// Create inserts a new class owned by the calling teacher.
func (s *ClassService) Create(ctx context.Context, teacherID int, req *model.CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		Name:         req.Name,
		Description:  req.Description,
		GradeLevel:   req.GradeLevel,
		DaysOfWeek:   req.DaysOfWeek,
		ScheduleTime: req.ScheduleTime,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		MeetingLink:  req.MeetingLink,
		TeacherID:    teacherID,
	}
	if class.DaysOfWeek == nil {
		class.DaysOfWeek = []string{}
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}

	s.log.Info().Int("class_id", class.ID).Int("teacher_id", teacherID).Msg("Class created")
	return class, nil
}

// List retrieves the classes visible to the caller: owned classes for
// teachers, enrolled classes for students, everything for admins.
func (s *ClassService) List(ctx context.Context, claims *Claims) ([]model.Class, error) {
	switch claims.Role {
	case model.RoleAdmin:
		return s.classRepo.ListAll(ctx)
	case model.RoleTeacher:
		return s.classRepo.ListByTeacher(ctx, claims.UserID)
	default:
		return s.classRepo.ListForStudent(ctx, claims.UserID)
	}
}

// Get retrieves a class the caller can see.
func (s *ClassService) Get(ctx context.Context, classID int, claims *Claims) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, class, claims); err != nil {
		return nil, err
	}
	return class, nil
}

// Authorize checks that the caller may access the class: its teacher,
// an enrolled student, or an admin.
func (s *ClassService) Authorize(ctx context.Context, class *model.Class, claims *Claims) error {
	switch claims.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleTeacher:
		if class.TeacherID != claims.UserID {
			return ErrNoClassAccess
		}
		return nil
	default:
		enrolled, err := s.enrollRepo.Exists(ctx, claims.UserID, class.ID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return ErrNotEnrolled
		}
		return nil
	}
}

// AuthorizeByID is Authorize with a class lookup.
func (s *ClassService) AuthorizeByID(ctx context.Context, classID int, claims *Claims) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	return s.Authorize(ctx, class, claims)
}

// AuthorizeManage checks that the caller may modify the class: its
// teacher or an admin.
func (s *ClassService) AuthorizeManage(ctx context.Context, classID int, claims *Claims) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if claims.Role != model.RoleAdmin && class.TeacherID != claims.UserID {
		return nil, ErrNoClassAccess
	}
	return class, nil
}

// Update modifies a class owned by the caller.
func (s *ClassService) Update(ctx context.Context, classID int, claims *Claims, req *model.UpdateClassRequest) (*model.Class, error) {
	class, err := s.AuthorizeManage(ctx, classID, claims)
	if err != nil {
		return nil, err
	}

	class.Name = req.Name
	class.Description = req.Description
	class.GradeLevel = req.GradeLevel
	class.DaysOfWeek = req.DaysOfWeek
	class.ScheduleTime = req.ScheduleTime
	class.StartDate = req.StartDate
	class.EndDate = req.EndDate
	class.MeetingLink = req.MeetingLink
	if class.DaysOfWeek == nil {
		class.DaysOfWeek = []string{}
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, fmt.Errorf("update class: %w", err)
	}
	return class, nil
}

// Delete removes a class. Enrollments, tests, homework, notices and
// resources cascade.
func (s *ClassService) Delete(ctx context.Context, classID int, claims *Claims) error {
	if _, err := s.AuthorizeManage(ctx, classID, claims); err != nil {
		return err
	}
	if err := s.classRepo.Delete(ctx, classID); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	s.log.Info().Int("class_id", classID).Msg("Class deleted")
	return nil
}

// ListStudents retrieves the roster of a class the caller manages.
func (s *ClassService) ListStudents(ctx context.Context, classID int, claims *Claims) ([]model.ClassStudent, error) {
	if _, err := s.AuthorizeManage(ctx, classID, claims); err != nil {
		return nil, err
	}
	return s.classRepo.ListStudents(ctx, classID)
}

// Enroll adds a student to a class the caller manages.
func (s *ClassService) Enroll(ctx context.Context, claims *Claims, req *model.EnrollRequest) (*model.Enrollment, error) {
	if _, err := s.AuthorizeManage(ctx, req.ClassID, claims); err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotStudentAccount
	}

	enrollment := &model.Enrollment{StudentID: req.StudentID, ClassID: req.ClassID}
	if err := s.enrollRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	s.log.Info().Int("student_id", req.StudentID).Int("class_id", req.ClassID).Msg("Student enrolled")
	return enrollment, nil
}

// Unenroll removes a student from a class the caller manages.
func (s *ClassService) Unenroll(ctx context.Context, claims *Claims, studentID, classID int) error {
	if _, err := s.AuthorizeManage(ctx, classID, claims); err != nil {
		return err
	}
	return s.enrollRepo.Delete(ctx, studentID, classID)
}
