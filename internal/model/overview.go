package model

import (
	"time"

	"github.com/google/uuid"
)

// OverviewTotals holds entity counts for the admin overview.
type OverviewTotals struct {
	Students    int `json:"students"`
	Teachers    int `json:"teachers"`
	Classes     int `json:"classes"`
	Tests       int `json:"tests"`
	Submissions int `json:"submissions"`
}

// RecentSubmission is one row of the overview's latest-activity list.
type RecentSubmission struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	StudentName    string    `json:"student_name"`
	TestTitle      string    `json:"test_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Overview is the admin dashboard payload.
type Overview struct {
	Totals            OverviewTotals     `json:"totals"`
	RecentSubmissions []RecentSubmission `json:"recent_submissions"`
	PendingExports    int64              `json:"pending_exports"`
}
