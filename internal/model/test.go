package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a single multiple-choice question as stored on a test.
// Options are positional; CorrectAnswer is the letter ("A".."F") whose
// index points into Options.
type Question struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// Test represents a timed multiple-choice test attached to a class.
// This is the author's view: questions carry correct answers.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	ClassID         int        `json:"class_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions"`
	QuestionCount   int        `json:"question_count"`
	CreatedBy       int        `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TestSummary is a test without its questions, for listings.
type TestSummary struct {
	ID              uuid.UUID `json:"id"`
	ClassID         int       `json:"class_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
	CreatedBy       int       `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// TestPayload is the Redis-cached payload sent to students (no correct answers).
type TestPayload struct {
	TestID          uuid.UUID            `json:"test_id"`
	ClassID         int                  `json:"class_id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	DurationMinutes int                  `json:"duration_minutes"`
	QuestionCount   int                  `json:"question_count"`
	Questions       []QuestionForStudent `json:"questions"`
}

// CreateTestRequest is the payload for authoring a new test. Questions
// arrive as plain text in the authoring format and are parsed server-side.
type CreateTestRequest struct {
	ClassID         int    `json:"class_id" binding:"required"`
	Title           string `json:"title" binding:"required,min=3,max=200"`
	Description     string `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
	QuestionsText   string `json:"questions_text" binding:"required"`
}

// Summary strips the questions for list responses.
func (t *Test) Summary() TestSummary {
	return TestSummary{
		ID:              t.ID,
		ClassID:         t.ClassID,
		Title:           t.Title,
		Description:     t.Description,
		DurationMinutes: t.DurationMinutes,
		QuestionCount:   t.QuestionCount,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// Payload builds the redacted student payload. Correct answers never
// leave this conversion.
func (t *Test) Payload() *TestPayload {
	questions := make([]QuestionForStudent, len(t.Questions))
	for i, q := range t.Questions {
		questions[i] = QuestionForStudent{
			QuestionText: q.QuestionText,
			Options:      q.Options,
		}
	}
	return &TestPayload{
		TestID:          t.ID,
		ClassID:         t.ClassID,
		Title:           t.Title,
		Description:     t.Description,
		DurationMinutes: t.DurationMinutes,
		QuestionCount:   t.QuestionCount,
		Questions:       questions,
	}
}

// AnswerKey maps question index to the correct letter, as stored in the
// Redis answer-key hash.
func (t *Test) AnswerKey() map[int]string {
	key := make(map[int]string, len(t.Questions))
	for i, q := range t.Questions {
		key[i] = q.CorrectAnswer
	}
	return key
}
