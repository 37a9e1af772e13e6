package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleTest() *Test {
	return &Test{
		Title:           "Fractions Quiz",
		DurationMinutes: 30,
		QuestionCount:   2,
		Questions: []Question{
			{QuestionText: "What is 1/2 + 1/4?", Options: []string{"3/4", "1/2", "2/4"}, CorrectAnswer: "A"},
			{QuestionText: "What is 2/3 of 9?", Options: []string{"3", "6"}, CorrectAnswer: "B"},
		},
	}
}

func TestPayloadRedactsCorrectAnswers(t *testing.T) {
	payload := sampleTest().Payload()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if strings.Contains(string(raw), "correct_answer") {
		t.Fatalf("student payload leaks correct_answer: %s", raw)
	}

	if len(payload.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(payload.Questions))
	}
	if payload.Questions[0].QuestionText != "What is 1/2 + 1/4?" {
		t.Errorf("unexpected question text: %q", payload.Questions[0].QuestionText)
	}
	if len(payload.Questions[0].Options) != 3 {
		t.Errorf("expected 3 options, got %d", len(payload.Questions[0].Options))
	}
}

func TestSummaryOmitsQuestions(t *testing.T) {
	summary := sampleTest().Summary()

	raw, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	if strings.Contains(string(raw), "question_text") {
		t.Fatalf("summary carries question bodies: %s", raw)
	}
	if summary.QuestionCount != 2 {
		t.Errorf("expected question_count 2, got %d", summary.QuestionCount)
	}
}

func TestAnswerKey(t *testing.T) {
	key := sampleTest().AnswerKey()

	if len(key) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(key))
	}
	if key[0] != "A" || key[1] != "B" {
		t.Errorf("unexpected key: %v", key)
	}
}
