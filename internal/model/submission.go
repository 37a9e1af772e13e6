package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one recorded answer: the question's position in the test and
// the chosen option letter.
type Answer struct {
	QuestionIndex  int    `json:"question_index" binding:"min=0"`
	SelectedAnswer string `json:"selected_answer" binding:"required,ansletter"`
}

// Submission is a student's graded submission for a test.
type Submission struct {
	ID             uuid.UUID `json:"id"`
	TestID         uuid.UUID `json:"test_id"`
	StudentID      int       `json:"student_id"`
	Answers        []Answer  `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmitTestRequest is the payload for submitting a completed test.
type SubmitTestRequest struct {
	TestID  uuid.UUID `json:"test_id" binding:"required"`
	Answers []Answer  `json:"answers" binding:"dive"`
}

// SubmitReceipt confirms a submission without revealing the score.
// Results are released through the review endpoints.
type SubmitReceipt struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// TestResult is a student's own graded result with the redacted test
// attached for review.
type TestResult struct {
	SubmissionID   uuid.UUID    `json:"submission_id"`
	TestID         uuid.UUID    `json:"test_id"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"total_questions"`
	Answers        []Answer     `json:"answers"`
	SubmittedAt    time.Time    `json:"submitted_at"`
	Test           *TestPayload `json:"test"`
}

// ResultHistoryRow is one entry of a student's result history.
type ResultHistoryRow struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	TestID         uuid.UUID `json:"test_id"`
	TestTitle      string    `json:"test_title"`
	ClassName      string    `json:"class_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmissionRow is one entry of a teacher's per-test submission list.
type SubmissionRow struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	StudentID      int       `json:"student_id"`
	StudentName    string    `json:"student_name"`
	StudentEmail   string    `json:"student_email"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// MonitorEvent is published on the test monitor channel when a student submits.
type MonitorEvent struct {
	Type           string    `json:"type"`
	SubmissionID   uuid.UUID `json:"submission_id"`
	TestID         uuid.UUID `json:"test_id"`
	StudentID      int       `json:"student_id"`
	StudentName    string    `json:"student_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// MonitorSnapshot is the initial state pushed to a newly attached monitor.
type MonitorSnapshot struct {
	TestID         uuid.UUID       `json:"test_id"`
	Title          string          `json:"title"`
	EnrolledCount  int             `json:"enrolled_count"`
	SubmittedCount int             `json:"submitted_count"`
	Submissions    []SubmissionRow `json:"submissions"`
}
