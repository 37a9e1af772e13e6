// Package parser turns plain-text authoring input into structured
// multiple-choice questions.
//
// The authoring format is line-based:
//
//	Q1. What is 2+2?
//	A) 3
//	B) 4
//	C) 5
//	ANSWER: B
//
// Question markers accept Q, q, an optional number, and an optional
// '.', ')' or ':' separator. Option labels run A through F with a ')',
// '.' or ':' separator; their order in the file is the stored order.
// Lines that match nothing are ignored.
package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/edifyminds/edify-backend/internal/model"
)

// ErrNoQuestions is returned when the input yields zero valid questions.
var ErrNoQuestions = errors.New("no valid questions found in input")

const (
	minOptions = 2
	maxOptions = 6

	answerPrefix = "ANSWER:"
)

var markerPattern = regexp.MustCompile(`^[Qq][0-9]*[.):]?\s*`)

// block accumulates one question while its lines are being read.
type block struct {
	text    string
	options []string
	answer  string
}

// valid reports whether the block can be committed: it needs question
// text, between 2 and 6 options, and an answer letter pointing inside
// the option list.
func (b *block) valid() bool {
	if b == nil || b.text == "" || b.answer == "" {
		return false
	}
	if len(b.options) < minOptions || len(b.options) > maxOptions {
		return false
	}
	idx := int(b.answer[0] - 'A')
	return idx >= 0 && idx < len(b.options)
}

// Parse converts authoring text into ordered questions. Invalid blocks
// are skipped silently; ErrNoQuestions is returned when nothing valid
// remains.
func Parse(text string) ([]model.Question, error) {
	var (
		questions []model.Question
		current   *block
	)

	commit := func() {
		if current.valid() {
			questions = append(questions, model.Question{
				QuestionText:  current.text,
				Options:       current.options,
				CorrectAnswer: current.answer,
			})
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case isQuestionLine(line):
			commit()
			current = &block{text: strings.TrimSpace(markerPattern.ReplaceAllString(line, ""))}

		case current == nil:
			// Stray lines before the first question.

		case isAnswerLine(line):
			rest := strings.TrimSpace(line[len(answerPrefix):])
			if rest != "" {
				current.answer = strings.ToUpper(rest[:1])
			}

		case isOptionLine(line):
			if len(current.options) < maxOptions {
				current.options = append(current.options, strings.TrimSpace(line[2:]))
			}
		}
	}
	commit()

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func isQuestionLine(line string) bool {
	return line[0] == 'Q' || line[0] == 'q'
}

func isAnswerLine(line string) bool {
	return len(line) > len(answerPrefix) &&
		strings.EqualFold(line[:len(answerPrefix)], answerPrefix)
}

func isOptionLine(line string) bool {
	if len(line) < 2 {
		return false
	}
	label := line[0]
	if label >= 'a' && label <= 'f' {
		label -= 'a' - 'A'
	}
	if label < 'A' || label > 'F' {
		return false
	}
	switch line[1] {
	case ')', '.', ':':
		return true
	}
	return false
}
