package parser

import (
	"errors"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantCount   int
		wantOptions []int
		wantAnswers []string
	}{
		{
			name: "two options",
			input: `Q1. Is Python a programming language?
A) Yes
B) No
ANSWER: A

Q2. Is the Earth flat?
A) Yes
B) No
ANSWER: B`,
			wantCount:   2,
			wantOptions: []int{2, 2},
			wantAnswers: []string{"A", "B"},
		},
		{
			name: "six options",
			input: `Q1. Which of these is a color?
A) Red
B) Blue
C) Green
D) Yellow
E) Purple
F) Orange
ANSWER: A

Q2. Pick any letter:
A) A
B) B
C) C
D) D
E) E
F) F
ANSWER: C`,
			wantCount:   2,
			wantOptions: []int{6, 6},
			wantAnswers: []string{"A", "C"},
		},
		{
			name: "mixed option counts",
			input: `Q1. True or False?
A) True
B) False
ANSWER: A

Q2. Pick a number:
A) One
B) Two
C) Three
D) Four
E) Five
ANSWER: C

Q3. Choose a vowel:
A) A
B) E
C) I
ANSWER: B`,
			wantCount:   3,
			wantOptions: []int{2, 5, 3},
			wantAnswers: []string{"A", "C", "B"},
		},
		{
			name: "marker variants",
			input: `Q. What is 1+1?
A) 1
B) 2
C) 3
ANSWER: B

Q1) What is 2+2?
A) 3
B) 4
C) 5
ANSWER: B

Q2: What is 3+3?
A) 5
B) 6
C) 7
ANSWER: B`,
			wantCount:   3,
			wantOptions: []int{3, 3, 3},
			wantAnswers: []string{"B", "B", "B"},
		},
		{
			name: "lowercase markers and labels",
			input: `q10. pick one
a. first
b. second
c: third
answer: c`,
			wantCount:   1,
			wantOptions: []int{3},
			wantAnswers: []string{"C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(questions) != tt.wantCount {
				t.Fatalf("expected %d questions, got %d", tt.wantCount, len(questions))
			}
			for i, q := range questions {
				if len(q.Options) != tt.wantOptions[i] {
					t.Errorf("question %d: expected %d options, got %d", i, tt.wantOptions[i], len(q.Options))
				}
				if q.CorrectAnswer != tt.wantAnswers[i] {
					t.Errorf("question %d: expected answer %q, got %q", i, tt.wantAnswers[i], q.CorrectAnswer)
				}
			}
		})
	}
}

func TestParseStripsMarkers(t *testing.T) {
	questions, err := Parse(`Q17) Capital of France?
A) Lyon
B) Paris
ANSWER: B`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := questions[0].QuestionText; got != "Capital of France?" {
		t.Errorf("marker not stripped: %q", got)
	}
}

func TestParseSkipsInvalidBlocks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{
			name: "answer beyond options",
			input: `Q1. Two options only
A) Yes
B) No
ANSWER: D

Q2. Valid one
A) Yes
B) No
ANSWER: A`,
			wantCount: 1,
		},
		{
			name: "missing answer",
			input: `Q1. No answer given
A) Yes
B) No

Q2. Valid one
A) Yes
B) No
ANSWER: B`,
			wantCount: 1,
		},
		{
			name: "single option",
			input: `Q1. Lonely option
A) Only
ANSWER: A

Q2. Valid one
A) Yes
B) No
ANSWER: A`,
			wantCount: 1,
		},
		{
			name: "missing question text",
			input: `Q.
A) Yes
B) No
ANSWER: A

Q2. Valid one
A) Yes
B) No
ANSWER: B`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(questions) != tt.wantCount {
				t.Fatalf("expected %d questions, got %d", tt.wantCount, len(questions))
			}
		})
	}
}

func TestParseIgnoresExtraOptions(t *testing.T) {
	questions, err := Parse(`Q1. Too many options
A) 1
B) 2
C) 3
D) 4
E) 5
F) 6
A) 7
ANSWER: A`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(questions[0].Options) != 6 {
		t.Errorf("expected overflow option dropped, got %d options", len(questions[0].Options))
	}
}

func TestParseIgnoresJunkLines(t *testing.T) {
	questions, err := Parse(`Instructions: answer everything.

Q1. Real question?
note to self
A) Yes
B) No
-- separator --
ANSWER: A`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\n  ", "just prose\nno markers here"} {
		if _, err := Parse(input); !errors.Is(err, ErrNoQuestions) {
			t.Errorf("input %q: expected ErrNoQuestions, got %v", input, err)
		}
	}
}

func TestParseAnswerNormalization(t *testing.T) {
	questions, err := Parse(`Q1. Pick
A) x
B) y
ANSWER: b is correct`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if questions[0].CorrectAnswer != "B" {
		t.Errorf("expected answer normalized to B, got %q", questions[0].CorrectAnswer)
	}
}
