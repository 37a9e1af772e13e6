package service

import (
	"testing"

	"github.com/edifyminds/edify-backend/internal/model"
)

func TestGrade(t *testing.T) {
	answerKey := map[int]string{0: "A", 1: "B", 2: "C"}

	tests := []struct {
		name      string
		answers   []model.Answer
		wantScore int
		wantTotal int
	}{
		{
			name: "all correct",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedAnswer: "A"},
				{QuestionIndex: 1, SelectedAnswer: "B"},
				{QuestionIndex: 2, SelectedAnswer: "C"},
			},
			wantScore: 3,
			wantTotal: 3,
		},
		{
			name: "case insensitive",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedAnswer: "a"},
				{QuestionIndex: 1, SelectedAnswer: "b"},
			},
			wantScore: 2,
			wantTotal: 3,
		},
		{
			name: "partial and wrong",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedAnswer: "B"},
				{QuestionIndex: 1, SelectedAnswer: "B"},
			},
			wantScore: 1,
			wantTotal: 3,
		},
		{
			name: "out of range ignored",
			answers: []model.Answer{
				{QuestionIndex: -1, SelectedAnswer: "A"},
				{QuestionIndex: 3, SelectedAnswer: "A"},
				{QuestionIndex: 99, SelectedAnswer: "A"},
				{QuestionIndex: 1, SelectedAnswer: "B"},
			},
			wantScore: 1,
			wantTotal: 3,
		},
		{
			name: "duplicate index last wins",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedAnswer: "A"},
				{QuestionIndex: 0, SelectedAnswer: "C"},
			},
			wantScore: 0,
			wantTotal: 3,
		},
		{
			name: "duplicate cannot double count",
			answers: []model.Answer{
				{QuestionIndex: 0, SelectedAnswer: "A"},
				{QuestionIndex: 0, SelectedAnswer: "A"},
				{QuestionIndex: 0, SelectedAnswer: "A"},
			},
			wantScore: 1,
			wantTotal: 3,
		},
		{
			name:      "no answers",
			answers:   nil,
			wantScore: 0,
			wantTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := Grade(tt.answers, answerKey)
			if score != tt.wantScore {
				t.Errorf("score: expected %d, got %d", tt.wantScore, score)
			}
			if total != tt.wantTotal {
				t.Errorf("total: expected %d, got %d", tt.wantTotal, total)
			}
			if score > total {
				t.Errorf("score %d exceeds total %d", score, total)
			}
		})
	}
}

func TestGradeEmptyKey(t *testing.T) {
	score, total := Grade([]model.Answer{{QuestionIndex: 0, SelectedAnswer: "A"}}, map[int]string{})
	if score != 0 || total != 0 {
		t.Errorf("expected 0/0 on empty key, got %d/%d", score, total)
	}
}
