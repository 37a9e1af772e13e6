package model

import "time"

// Class represents a class taught by a teacher.
type Class struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	GradeLevel   string    `json:"grade_level"`
	DaysOfWeek   []string  `json:"days_of_week"`
	ScheduleTime string    `json:"schedule_time"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date,omitempty"`
	MeetingLink  *string   `json:"meeting_link,omitempty"`
	TeacherID    int       `json:"teacher_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for creating a new class.
type CreateClassRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	GradeLevel   string   `json:"grade_level" binding:"omitempty,max=50"`
	DaysOfWeek   []string `json:"days_of_week" binding:"omitempty,max=7"`
	ScheduleTime string   `json:"schedule_time" binding:"omitempty,max=50"`
	StartDate    string   `json:"start_date" binding:"omitempty,max=50"`
	EndDate      *string  `json:"end_date" binding:"omitempty"`
	MeetingLink  *string  `json:"meeting_link" binding:"omitempty"`
}

// UpdateClassRequest is the payload for updating an existing class.
type UpdateClassRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	GradeLevel   string   `json:"grade_level" binding:"omitempty,max=50"`
	DaysOfWeek   []string `json:"days_of_week" binding:"omitempty,max=7"`
	ScheduleTime string   `json:"schedule_time" binding:"omitempty,max=50"`
	StartDate    string   `json:"start_date" binding:"omitempty,max=50"`
	EndDate      *string  `json:"end_date" binding:"omitempty"`
	MeetingLink  *string  `json:"meeting_link" binding:"omitempty"`
}

// Enrollment links a student to a class.
type Enrollment struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	ClassID    int       `json:"class_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// EnrollRequest is the payload for enrolling a student into a class.
type EnrollRequest struct {
	StudentID int `json:"student_id" binding:"required"`
	ClassID   int `json:"class_id" binding:"required"`
}

// ClassStudent is a roster row: one enrolled student of a class.
type ClassStudent struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
