package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradedQuiz() *Quiz {
	return &Quiz{
		ID:    7,
		Title: "Variables",
		Questions: []Question{
			{ID: 1, Text: "q1", Options: []string{"a", "b", "c"}, CorrectOptionIndex: 2},
			{ID: 2, Text: "q2", Options: []string{"a", "b"}, CorrectOptionIndex: 0},
		},
	}
}

func TestGrade(t *testing.T) {
	t.Run("scores in question order", func(t *testing.T) {
		attempt, err := Grade(gradedQuiz(), 42, []Answer{
			{QuestionID: 2, SelectedOptionIndex: 1},
			{QuestionID: 1, SelectedOptionIndex: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), attempt.QuizID)
		assert.Equal(t, int64(42), attempt.UserID)
		assert.Equal(t, 1, attempt.Score)
		assert.Equal(t, 2, attempt.Total)
		require.Len(t, attempt.Answers, 2)
		assert.Equal(t, AnswerResult{QuestionID: 1, SelectedOptionIndex: 2, CorrectOptionIndex: 2, Correct: true}, attempt.Answers[0])
		assert.Equal(t, AnswerResult{QuestionID: 2, SelectedOptionIndex: 1, CorrectOptionIndex: 0, Correct: false}, attempt.Answers[1])
	})

	invalid := map[string][]Answer{
		"unanswered question": {{QuestionID: 1, SelectedOptionIndex: 0}},
		"answered twice": {
			{QuestionID: 1, SelectedOptionIndex: 0},
			{QuestionID: 1, SelectedOptionIndex: 1},
			{QuestionID: 2, SelectedOptionIndex: 0},
		},
		"foreign question": {
			{QuestionID: 1, SelectedOptionIndex: 0},
			{QuestionID: 2, SelectedOptionIndex: 0},
			{QuestionID: 99, SelectedOptionIndex: 0},
		},
		"option out of range": {
			{QuestionID: 1, SelectedOptionIndex: 3},
			{QuestionID: 2, SelectedOptionIndex: 0},
		},
		"negative option": {
			{QuestionID: 1, SelectedOptionIndex: 0},
			{QuestionID: 2, SelectedOptionIndex: -1},
		},
		"no answers": nil,
	}
	for name, answers := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Grade(gradedQuiz(), 42, answers)
			assert.ErrorIs(t, err, ErrInvalidAnswer)
		})
	}

	t.Run("quiz without questions", func(t *testing.T) {
		_, err := Grade(&Quiz{ID: 1}, 42, nil)
		assert.ErrorIs(t, err, ErrNoQuestions)
	})
}

func TestNewUserPerformance(t *testing.T) {
	t.Run("averages over attempts", func(t *testing.T) {
		perf := NewUserPerformance(42, []QuizPerformance{
			{QuizID: 1, Attempts: 3, ScorePercentSum: 150},
			{QuizID: 2, Attempts: 1, ScorePercentSum: 100},
		})
		assert.Equal(t, 4, perf.TotalAttempts)
		assert.InDelta(t, 62.5, perf.AverageScorePercent, 0.001)
	})

	t.Run("no attempts", func(t *testing.T) {
		perf := NewUserPerformance(42, nil)
		assert.NotNil(t, perf.Quizzes)
		assert.Zero(t, perf.TotalAttempts)
		assert.Zero(t, perf.AverageScorePercent)
	})
}

func TestNewUserProgress(t *testing.T) {
	progress := NewUserProgress(42, []StudyPathProgress{
		{StudyPathID: 1, CompletedModules: 2, TotalModules: 3},
		{StudyPathID: 2, CompletedModules: 4, TotalModules: 4},
		{StudyPathID: 3, CompletedModules: 0, TotalModules: 0},
	})

	assert.Equal(t, 66, progress.StudyPaths[0].Percent)
	assert.Equal(t, 100, progress.StudyPaths[1].Percent)
	assert.Equal(t, 0, progress.StudyPaths[2].Percent)
	assert.Equal(t, 6, progress.CompletedModules)
	assert.Equal(t, 7, progress.TotalModules)

	assert.NotNil(t, NewUserProgress(42, nil).StudyPaths)
}
