package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizStore_CreateQuiz(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresQuizStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quizzes (module_id, title)")).
		WithArgs(int64(5), "Repaso").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(70), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs(int64(70), 0, "q1", `["a","b"]`, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(700)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs(int64(70), 1, "q2", `["c","d"]`, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(701)))

	quiz := &domain.Quiz{
		ModuleID: 5,
		Title:    "Repaso",
		Questions: []domain.Question{
			{Text: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: 1},
			{Text: "q2", Options: []string{"c", "d"}, CorrectOptionIndex: 0},
		},
	}
	require.NoError(t, s.CreateQuiz(context.Background(), quiz))
	assert.Equal(t, int64(70), quiz.ID)
	assert.Equal(t, int64(701), quiz.Questions[1].ID)
	assert.Equal(t, int64(70), quiz.Questions[1].QuizID)
	assert.Equal(t, 1, quiz.Questions[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizStore_GetLatestForModule(t *testing.T) {
	t.Run("loads questions in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresQuizStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "title", "created_at"}).AddRow(int64(70), int64(5), "Repaso", time.Now()))
		mock.ExpectQuery(regexp.QuoteMeta("FROM questions")).
			WithArgs(int64(70)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "position", "question_text", "options", "correct_option_index"}).
				AddRow(int64(700), int64(70), 0, "q1", []byte(`["a","b"]`), 1))

		quiz, err := s.GetLatestForModule(context.Background(), 5)
		require.NoError(t, err)
		require.Len(t, quiz.Questions, 1)
		assert.Equal(t, []string{"a", "b"}, quiz.Questions[0].Options)
		assert.Equal(t, 1, quiz.Questions[0].CorrectOptionIndex)
	})

	t.Run("no quiz", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresQuizStore(db, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes")).WillReturnError(sql.ErrNoRows)

		_, err := s.GetLatestForModule(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrQuizNotFound)
	})
}

func TestQuizStore_GetQuiz(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresQuizStore(db, nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE id = $1")).
			WithArgs(int64(70)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "title", "created_at"}).AddRow(int64(70), int64(5), "Repaso", time.Now()))
		mock.ExpectQuery(regexp.QuoteMeta("FROM questions")).
			WithArgs(int64(70)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "position", "question_text", "options", "correct_option_index"}).
				AddRow(int64(700), int64(70), 0, "q1", []byte(`["a","b"]`), 1).
				AddRow(int64(701), int64(70), 1, "q2", []byte(`["c","d"]`), 0))

		quiz, err := s.GetQuiz(context.Background(), 70)
		require.NoError(t, err)
		assert.Equal(t, int64(5), quiz.ModuleID)
		require.Len(t, quiz.Questions, 2)
		assert.Equal(t, int64(701), quiz.Questions[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresQuizStore(db, nil)
		mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE id = $1")).WillReturnError(sql.ErrNoRows)

		_, err := s.GetQuiz(context.Background(), 404)
		assert.ErrorIs(t, err, store.ErrQuizNotFound)
	})
}

func TestQuizStore_CreateAttempt(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresQuizStore(db, nil)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO quiz_attempts")).
		WithArgs(int64(70), int64(42), 1, 2,
			`[{"question_id":700,"selected_option_index":1,"correct_option_index":1,"correct":true},`+
				`{"question_id":701,"selected_option_index":1,"correct_option_index":0,"correct":false}]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submitted_at"}).AddRow(int64(900), now))

	attempt := &domain.QuizAttempt{
		QuizID: 70,
		UserID: 42,
		Score:  1,
		Total:  2,
		Answers: []domain.AnswerResult{
			{QuestionID: 700, SelectedOptionIndex: 1, CorrectOptionIndex: 1, Correct: true},
			{QuestionID: 701, SelectedOptionIndex: 1, CorrectOptionIndex: 0, Correct: false},
		},
	}
	require.NoError(t, s.CreateAttempt(context.Background(), attempt))
	assert.Equal(t, int64(900), attempt.ID)
	assert.Equal(t, now, attempt.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizStore_ListPerformance(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresQuizStore(db, nil)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM quiz_attempts a")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "title", "attempts", "best", "last", "total", "last_at", "sum"}).
			AddRow(int64(70), int64(5), "Repaso", 3, 4, 2, 4, now, 250.0))

	quizzes, err := s.ListPerformance(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, domain.QuizPerformance{
		QuizID:          70,
		ModuleID:        5,
		Title:           "Repaso",
		Attempts:        3,
		BestScore:       4,
		LastScore:       2,
		QuestionCount:   4,
		LastAttemptAt:   now,
		ScorePercentSum: 250,
	}, quizzes[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
