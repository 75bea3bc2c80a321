package domain

import (
	"fmt"
	"strings"
	"time"
)

// Quiz is a set of multiple-choice questions generated for a module.
type Quiz struct {
	ID        int64      `json:"id"`
	ModuleID  int64      `json:"module_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	Questions []Question `json:"questions"`
}

// Question is a single multiple-choice question with its answer key.
type Question struct {
	ID                 int64    `json:"id"`
	QuizID             int64    `json:"quiz_id"`
	Position           int      `json:"position"`
	Text               string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

// QuizDraft is the structured provider output for a module's quiz.
type QuizDraft struct {
	Title     string          `json:"title"`
	Questions []QuestionDraft `json:"questions"`
}

// QuestionDraft is a generated question before persistence.
type QuestionDraft struct {
	Text               string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

// Validate checks that the draft has questions and that every answer index
// addresses one of its question's options.
func (d QuizDraft) Validate() error {
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" || len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d is incomplete", ErrInvalidQuestion, i)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d has correct index %d for %d options",
				ErrInvalidQuestion, i, q.CorrectOptionIndex, len(q.Options))
		}
	}
	return nil
}

// QuizView is the learner-facing projection of a quiz. It never carries
// answer keys.
type QuizView struct {
	ID        int64          `json:"id"`
	ModuleID  int64          `json:"module_id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// QuestionView is a question without its correct option index.
type QuestionView struct {
	ID      int64    `json:"id"`
	Text    string   `json:"question_text"`
	Options []string `json:"options"`
}

// LearnerView projects the quiz for a learner.
func (q *Quiz) LearnerView() *QuizView {
	view := &QuizView{
		ID:        q.ID,
		ModuleID:  q.ModuleID,
		Title:     q.Title,
		Questions: make([]QuestionView, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		view.Questions = append(view.Questions, QuestionView{
			ID:      question.ID,
			Text:    question.Text,
			Options: append([]string(nil), question.Options...),
		})
	}
	return view
}
