package store

import (
	"context"
	"database/sql"

	"github.com/lumenlearn/lumen/internal/domain"
)

// QuizStore persists generated quizzes and learners' graded attempts.
type QuizStore interface {
	// CreateQuiz inserts quiz and its questions, setting every ID.
	// Callers run it inside a transaction so the quiz is all-or-nothing.
	CreateQuiz(ctx context.Context, quiz *domain.Quiz) error

	// GetLatestForModule returns the newest quiz for the module with its
	// questions, or ErrQuizNotFound.
	GetLatestForModule(ctx context.Context, moduleID int64) (*domain.Quiz, error)

	// GetQuiz returns the quiz with its questions, or ErrQuizNotFound.
	GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error)

	// CreateAttempt inserts a graded attempt and sets its ID and SubmittedAt.
	CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error

	// ListPerformance summarizes the user's attempts per quiz, most recently
	// attempted first.
	ListPerformance(ctx context.Context, userID int64) ([]domain.QuizPerformance, error)

	WithTx(tx *sql.Tx) QuizStore
}
