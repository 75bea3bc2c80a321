package domain

import (
	"fmt"
	"time"
)

// Answer is a learner's choice for one question of a quiz.
type Answer struct {
	QuestionID          int64 `json:"question_id"`
	SelectedOptionIndex int   `json:"selected_option_index"`
}

// AnswerResult is a graded answer. It carries the correct index, so it is
// only shown once the attempt has been submitted.
type AnswerResult struct {
	QuestionID          int64 `json:"question_id"`
	SelectedOptionIndex int   `json:"selected_option_index"`
	CorrectOptionIndex  int   `json:"correct_option_index"`
	Correct             bool  `json:"correct"`
}

// QuizAttempt is one graded submission of a quiz by a learner.
type QuizAttempt struct {
	ID          int64          `json:"id"`
	QuizID      int64          `json:"quiz_id"`
	UserID      int64          `json:"user_id"`
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	Answers     []AnswerResult `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Grade scores answers against the quiz's answer key. Every question must be
// answered exactly once with an index addressing one of its options. Results
// follow the quiz's question order.
func Grade(quiz *Quiz, userID int64, answers []Answer) (*QuizAttempt, error) {
	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	known := make(map[int64]bool, len(quiz.Questions))
	for _, q := range quiz.Questions {
		known[q.ID] = true
	}

	selected := make(map[int64]int, len(answers))
	for _, a := range answers {
		if !known[a.QuestionID] {
			return nil, fmt.Errorf("%w: question %d is not part of quiz %d", ErrInvalidAnswer, a.QuestionID, quiz.ID)
		}
		if _, dup := selected[a.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d answered twice", ErrInvalidAnswer, a.QuestionID)
		}
		selected[a.QuestionID] = a.SelectedOptionIndex
	}

	attempt := &QuizAttempt{
		QuizID:  quiz.ID,
		UserID:  userID,
		Total:   len(quiz.Questions),
		Answers: make([]AnswerResult, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		index, ok := selected[q.ID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d is unanswered", ErrInvalidAnswer, q.ID)
		}
		if index < 0 || index >= len(q.Options) {
			return nil, fmt.Errorf("%w: option %d out of range for question %d", ErrInvalidAnswer, index, q.ID)
		}

		correct := index == q.CorrectOptionIndex
		if correct {
			attempt.Score++
		}
		attempt.Answers = append(attempt.Answers, AnswerResult{
			QuestionID:          q.ID,
			SelectedOptionIndex: index,
			CorrectOptionIndex:  q.CorrectOptionIndex,
			Correct:             correct,
		})
	}
	return attempt, nil
}

// QuizPerformance summarizes a learner's attempts at one quiz.
type QuizPerformance struct {
	QuizID        int64     `json:"quiz_id"`
	ModuleID      int64     `json:"module_id"`
	Title         string    `json:"title"`
	Attempts      int       `json:"attempts"`
	BestScore     int       `json:"best_score"`
	LastScore     int       `json:"last_score"`
	QuestionCount int       `json:"question_count"`
	LastAttemptAt time.Time `json:"last_attempt_at"`

	// ScorePercentSum is the sum of score/total*100 over the attempts.
	ScorePercentSum float64 `json:"-"`
}

// UserPerformance is a learner's quiz history across quizzes.
type UserPerformance struct {
	UserID              int64             `json:"user_id"`
	Quizzes             []QuizPerformance `json:"quizzes"`
	TotalAttempts       int               `json:"total_attempts"`
	AverageScorePercent float64           `json:"average_score_percent"`
}

// NewUserPerformance totals quizzes. The average is taken over attempts, not
// quizzes, and is zero when there are none.
func NewUserPerformance(userID int64, quizzes []QuizPerformance) *UserPerformance {
	perf := &UserPerformance{UserID: userID, Quizzes: quizzes}
	if perf.Quizzes == nil {
		perf.Quizzes = []QuizPerformance{}
	}

	var sum float64
	for _, q := range perf.Quizzes {
		perf.TotalAttempts += q.Attempts
		sum += q.ScorePercentSum
	}
	if perf.TotalAttempts > 0 {
		perf.AverageScorePercent = sum / float64(perf.TotalAttempts)
	}
	return perf
}
