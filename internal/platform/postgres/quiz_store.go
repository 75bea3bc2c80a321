package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumenlearn/lumen/internal/domain"
	"github.com/lumenlearn/lumen/internal/platform/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

// PostgresQuizStore implements store.QuizStore.
type PostgresQuizStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizStore creates a quiz store on db.
func NewPostgresQuizStore(db store.DBTX, logger *slog.Logger) *PostgresQuizStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQuizStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_store")),
	}
}

var _ store.QuizStore = (*PostgresQuizStore)(nil)

// WithTx implements store.QuizStore.WithTx.
func (s *PostgresQuizStore) WithTx(tx *sql.Tx) store.QuizStore {
	return &PostgresQuizStore{db: tx, logger: s.logger}
}

// CreateQuiz implements store.QuizStore.CreateQuiz.
func (s *PostgresQuizStore) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	quizQuery := `
		INSERT INTO quizzes (module_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := s.db.QueryRowContext(ctx, quizQuery, quiz.ModuleID, quiz.Title).Scan(&quiz.ID, &quiz.CreatedAt); err != nil {
		log.Error("failed to create quiz",
			slog.String("error", err.Error()),
			slog.Int64("module_id", quiz.ModuleID))
		return MapError(err)
	}

	questionQuery := `
		INSERT INTO questions (quiz_id, position, question_text, options, correct_option_index)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id
	`
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.QuizID = quiz.ID
		q.Position = i

		options, err := encodeStrings(q.Options)
		if err != nil {
			return err
		}
		err = s.db.QueryRowContext(ctx, questionQuery, q.QuizID, q.Position, q.Text, options, q.CorrectOptionIndex).Scan(&q.ID)
		if err != nil {
			log.Error("failed to create question",
				slog.String("error", err.Error()),
				slog.Int64("quiz_id", quiz.ID),
				slog.Int("position", i))
			return MapError(err)
		}
	}

	log.Info("quiz created",
		slog.Int64("quiz_id", quiz.ID),
		slog.Int64("module_id", quiz.ModuleID),
		slog.Int("question_count", len(quiz.Questions)))
	return nil
}

// GetLatestForModule implements store.QuizStore.GetLatestForModule.
func (s *PostgresQuizStore) GetLatestForModule(ctx context.Context, moduleID int64) (*domain.Quiz, error) {
	quizQuery := `
		SELECT id, module_id, title, created_at
		FROM quizzes
		WHERE module_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var quiz domain.Quiz
	err := s.db.QueryRowContext(ctx, quizQuery, moduleID).Scan(&quiz.ID, &quiz.ModuleID, &quiz.Title, &quiz.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuizNotFound
		}
		return nil, MapError(err)
	}

	if err := s.loadQuestions(ctx, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// GetQuiz implements store.QuizStore.GetQuiz.
func (s *PostgresQuizStore) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	query := `SELECT id, module_id, title, created_at FROM quizzes WHERE id = $1`

	var quiz domain.Quiz
	err := s.db.QueryRowContext(ctx, query, id).Scan(&quiz.ID, &quiz.ModuleID, &quiz.Title, &quiz.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrQuizNotFound
		}
		return nil, MapError(err)
	}

	if err := s.loadQuestions(ctx, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (s *PostgresQuizStore) loadQuestions(ctx context.Context, quiz *domain.Quiz) error {
	query := `
		SELECT id, quiz_id, position, question_text, options, correct_option_index
		FROM questions
		WHERE quiz_id = $1
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, quiz.ID)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			q       domain.Question
			options []byte
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Position, &q.Text, &options, &q.CorrectOptionIndex); err != nil {
			return MapError(err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return fmt.Errorf("failed to decode question options: %w", err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return MapError(err)
	}
	return nil
}

// CreateAttempt implements store.QuizStore.CreateAttempt.
// Graded answers are stored as a JSONB array.
func (s *PostgresQuizStore) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode attempt answers: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (quiz_id, user_id, score, total, answers)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING id, submitted_at
	`
	err = s.db.QueryRowContext(ctx, query,
		attempt.QuizID,
		attempt.UserID,
		attempt.Score,
		attempt.Total,
		string(answers),
	).Scan(&attempt.ID, &attempt.SubmittedAt)
	if err != nil {
		log.Error("failed to create quiz attempt",
			slog.String("error", err.Error()),
			slog.Int64("quiz_id", attempt.QuizID),
			slog.Int64("user_id", attempt.UserID))
		return MapError(err)
	}

	log.Info("quiz attempt recorded",
		slog.Int64("attempt_id", attempt.ID),
		slog.Int64("quiz_id", attempt.QuizID),
		slog.Int("score", attempt.Score),
		slog.Int("total", attempt.Total))
	return nil
}

// ListPerformance implements store.QuizStore.ListPerformance.
func (s *PostgresQuizStore) ListPerformance(ctx context.Context, userID int64) ([]domain.QuizPerformance, error) {
	query := `
		SELECT q.id, q.module_id, q.title,
			count(*),
			max(a.score),
			(array_agg(a.score ORDER BY a.submitted_at DESC, a.id DESC))[1],
			(array_agg(a.total ORDER BY a.submitted_at DESC, a.id DESC))[1],
			max(a.submitted_at),
			sum(a.score * 100.0 / a.total)::float8
		FROM quiz_attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = $1
		GROUP BY q.id
		ORDER BY max(a.submitted_at) DESC, q.id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	quizzes := make([]domain.QuizPerformance, 0)
	for rows.Next() {
		var p domain.QuizPerformance
		err := rows.Scan(&p.QuizID, &p.ModuleID, &p.Title,
			&p.Attempts, &p.BestScore, &p.LastScore, &p.QuestionCount,
			&p.LastAttemptAt, &p.ScorePercentSum)
		if err != nil {
			return nil, MapError(err)
		}
		quizzes = append(quizzes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return quizzes, nil
}
